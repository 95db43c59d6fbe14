package site_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"viidemo/internal/gallery"
	"viidemo/internal/manifest"
	"viidemo/internal/site"
)

type staticResolver map[string]string

func (s staticResolver) Resolve(_ context.Context, ref string) string { return s[ref] }

func buildContainer(t *testing.T, m *manifest.Manifest, opts ...gallery.Option) *gallery.Container {
	t.Helper()
	c := gallery.NewContainer()
	gallery.NewBuilder(staticResolver{"p.txt": "make <it> move"}, opts...).Build(context.Background(), c, m)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	return c
}

func sampleManifest() *manifest.Manifest {
	return &manifest.Manifest{
		Notice: "Research use only.",
		Groups: []manifest.Group{
			{ID: "ill", Title: "Illegal Activity", Samples: []manifest.Sample{{
				Images:             manifest.Images{Input: "img/in.png", Attack: "img/atk.png"},
				BaselinePromptPath: "p.txt",
				Variants: []manifest.Variant{
					{LLMDisplay: "Model A", Videos: manifest.Videos{Ours: "v/a.mp4"}},
					{LLMDisplay: "Model B", Videos: manifest.Videos{Baseline: "v/base-b.mp4", Ours: "v/b.mp4"}},
				},
			}}},
			{ID: "sex", Title: "Sexual Content", Samples: []manifest.Sample{{
				Variants: []manifest.Variant{{Videos: manifest.Videos{Ours: "v/raw.mp4", OursMask: "v/masked.mp4"}}},
			}}},
		},
	}
}

func render(t *testing.T, page site.Page) string {
	t.Helper()
	r, err := site.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	var out strings.Builder
	if err := r.RenderPage(&out, page); err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	return out.String()
}

func TestRenderPageStaticGallery(t *testing.T) {
	c := buildContainer(t, sampleManifest())
	html := render(t, site.NewPage(c, site.Meta{Title: "Demos", ManifestURL: "data/manifest.json", AssetPrefix: "assets/"}))

	for _, want := range []string{
		`id="demos-root" data-manifest="data/manifest.json"`,
		`href="assets/gallery.css"`,
		`<h3 class="demo-group-title">Illegal Activity</h3>`,
		`<span>Research use only.</span>`,
		`<option value="0" selected>Model A</option>`,
		`<option value="1">Model B</option>`,
		`data-variant="1" hidden`,
		`make &lt;it&gt; move`,
		`src="v/a.mp4"`,
		`src="v/masked.mp4"`,
		`>Refusal</div>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected page to contain %q", want)
		}
	}
	if strings.Index(html, "Illegal Activity") > strings.Index(html, "Sexual Content") {
		t.Fatal("groups rendered out of manifest order")
	}
	if strings.Contains(html, "v/raw.mp4") {
		t.Fatal("unmasked sexual-content video leaked into the page")
	}
	if strings.Contains(html, "data-page=") {
		t.Fatal("static page must not reference a server session")
	}
}

func TestRenderPageFailureMessage(t *testing.T) {
	c := gallery.NewContainer()
	c.Fail(&manifest.LoadError{Status: 500})
	html := render(t, site.NewPage(c, site.Meta{Title: "Demos"}))

	if !strings.Contains(html, `<p class="muted">Failed to load demos: load manifest: status 500</p>`) {
		t.Fatalf("expected inline failure message, got:\n%s", html)
	}
	if strings.Contains(html, "demo-group-title") {
		t.Fatal("failure page must not render group headings")
	}
}

func TestRenderPageServerSessionRendersSelectedRowOnly(t *testing.T) {
	c := buildContainer(t, sampleManifest())
	page := site.NewPage(c, site.Meta{Title: "Demos", PageID: "abc", AssetPrefix: "/assets/", Debug: true})
	html := render(t, page)

	if !strings.Contains(html, `data-page="abc" data-debug="1"`) {
		t.Fatal("expected page session attributes")
	}
	if strings.Contains(html, `data-variant="1"`) {
		t.Fatal("server pages must not pre-render unselected variants")
	}
}

func TestRenderRowsFragment(t *testing.T) {
	c := buildContainer(t, sampleManifest())
	card, ok := c.Card("0-ill-0")
	if !ok {
		t.Fatal("card missing")
	}
	card.SelectVariant(1)

	r, err := site.NewRenderer()
	if err != nil {
		t.Fatal(err)
	}
	var out strings.Builder
	if err := r.RenderRows(&out, site.NewCardPage(card, site.Meta{}, false)); err != nil {
		t.Fatalf("RenderRows: %v", err)
	}
	frag := out.String()
	if !strings.Contains(frag, `data-variant="1"`) || !strings.Contains(frag, `src="v/base-b.mp4"`) {
		t.Fatalf("unexpected fragment:\n%s", frag)
	}
	if strings.Contains(frag, "<html") {
		t.Fatal("fragment must not include the document shell")
	}
}

func TestRenderOriginalToggle(t *testing.T) {
	c := buildContainer(t, sampleManifest(), gallery.WithOriginalToggle(true))
	html := render(t, site.NewPage(c, site.Meta{}))

	if !strings.Contains(html, `data-original-src="v/a.mp4"`) {
		t.Fatal("expected original toggle for the ill card")
	}
	if !strings.Contains(html, "Original (unmasked) viewing is disabled for Sexual Content demos.") {
		t.Fatal("expected disabled note for the sex card")
	}
}

func TestRenderMediaBase(t *testing.T) {
	c := buildContainer(t, sampleManifest())
	html := render(t, site.NewPage(c, site.Meta{MediaBase: "https://cdn.example.com/demo/"}))
	if !strings.Contains(html, `src="https://cdn.example.com/demo/v/a.mp4"`) {
		t.Fatal("expected media resolved against the base URL")
	}
}

func TestWriteOutputsPageAssetsAndMedia(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "v"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "v", "a.mp4"), []byte("video-a"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := buildContainer(t, sampleManifest())
	r, err := site.NewRenderer()
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(root, "public")
	result, err := r.Write(out, site.NewPage(c, site.Meta{AssetPrefix: "assets/"}), site.WriteOptions{BundleMedia: true, SourceRoot: root})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if result.Assets != 2 {
		t.Fatalf("expected 2 assets, got %d", result.Assets)
	}
	for _, name := range []string{"index.html", "assets/gallery.css", "assets/gallery.js", "v/a.mp4"} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(name))); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	if result.Media != 1 || len(result.Missing) == 0 {
		t.Fatalf("unexpected media result: %+v", result)
	}
}

func TestWriteFailsWhenLocked(t *testing.T) {
	out := filepath.Join(t.TempDir(), "public")
	held := flock.New(out + ".lock")
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("hold lock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	r, err := site.NewRenderer()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Write(out, site.Page{}, site.WriteOptions{}); !errors.Is(err, site.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}
