package assetref_test

import (
	"path/filepath"
	"testing"

	"viidemo/internal/assetref"
)

func TestResolveAgainstRemoteBase(t *testing.T) {
	got := assetref.Resolve("https://example.com/vii/", "data/prompts/a.txt")
	if got != "https://example.com/vii/data/prompts/a.txt" {
		t.Fatalf("unexpected resolved url: %q", got)
	}
	if got := assetref.Resolve("https://example.com/vii/", "https://cdn.example.com/x.mp4"); got != "https://cdn.example.com/x.mp4" {
		t.Fatalf("absolute refs must pass through, got %q", got)
	}
}

func TestResolveAgainstDirectory(t *testing.T) {
	base := t.TempDir()
	got := assetref.Resolve(base, "data/a.txt?v=1")
	want := filepath.Join(base, "data", "a.txt") + "?v=1"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	path, ok := assetref.LocalPath(got)
	if !ok || path != filepath.Join(base, "data", "a.txt") {
		t.Fatalf("unexpected local path %q (ok=%v)", path, ok)
	}
}

func TestLocalPathRejectsRemote(t *testing.T) {
	if _, ok := assetref.LocalPath("http://example.com/a.mp4"); ok {
		t.Fatal("expected remote url to have no local path")
	}
	if path, ok := assetref.LocalPath("file:///srv/site/a.mp4"); !ok || path != filepath.FromSlash("/srv/site/a.mp4") {
		t.Fatalf("unexpected file url path %q (ok=%v)", path, ok)
	}
}

func TestWithQueryParam(t *testing.T) {
	if got := assetref.WithQueryParam("a.txt", "v", "abc"); got != "a.txt?v=abc" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := assetref.WithQueryParam("a.txt?x=1", "v", "abc"); got != "a.txt?x=1&v=abc" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := assetref.WithQueryParam("", "v", "abc"); got != "" {
		t.Fatalf("empty ref must stay empty, got %q", got)
	}
}
