package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildWritesStaticSite(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"build", "--bundle-media"}, env.configPath)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	requireContains(t, out, "2 groups, 2 cards")
	requireContains(t, out, "[WARN] 1 bundled")

	html, err := os.ReadFile(filepath.Join(env.outputDir, "index.html"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	page := string(html)
	requireContains(t, page, "rob the bank")
	requireContains(t, page, `<option value="1">Model B</option>`)
	requireContains(t, page, `src="v/mask.mp4"`)
	if strings.Contains(page, "v/raw.mp4") {
		t.Fatal("unmasked sexual-content video leaked into the build")
	}
	if _, err := os.Stat(filepath.Join(env.outputDir, "assets", "gallery.js")); err != nil {
		t.Fatalf("expected bundled script: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.outputDir, "v", "a.mp4")); err != nil {
		t.Fatalf("expected bundled media: %v", err)
	}
}

func TestBuildReportsManifestFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.Remove(filepath.Join(env.root, "data", "manifest.json")); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"build"}, env.configPath)
	if err == nil {
		t.Fatal("expected build to fail when the manifest is missing")
	}
	requireContains(t, err.Error(), "Failed to load demos")
	requireContains(t, out, "[ERROR]")

	html, readErr := os.ReadFile(filepath.Join(env.outputDir, "index.html"))
	if readErr != nil {
		t.Fatalf("expected failure page to be written: %v", readErr)
	}
	requireContains(t, string(html), "Failed to load demos")
}

func TestInspectTableAndJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"inspect"}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "PREVIEW KEY")
	requireContains(t, out, "Ill")
	requireContains(t, out, "Refusal")

	out, _, err = runCLI(t, []string{"inspect", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("inspect --json: %v", err)
	}
	var rows []inspectRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode inspect output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 variant rows, got %d", len(rows))
	}
	if rows[0].Category != "Ill" || rows[0].Baseline != "Refusal" || rows[0].Preview != "v/a.mp4" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[2].PreviewKey != "ours-masked" || rows[2].Preview != "v/mask.mp4" || rows[2].Group != "Demos" {
		t.Fatalf("unexpected masked row: %+v", rows[2])
	}
}

func TestInspectJSONEmptyManifest(t *testing.T) {
	env := setupCLITestEnv(t)
	writeFile(t, filepath.Join(env.root, "data", "manifest.json"), `{"groups": []}`)

	out, _, err := runCLI(t, []string{"inspect", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("inspect --json: %v", err)
	}
	if got := strings.TrimSpace(out); got != "[]" {
		t.Fatalf("expected empty JSON array, got %q", got)
	}
}

func TestInspectJSONKeepsQueryStrings(t *testing.T) {
	env := setupCLITestEnv(t)
	writeFile(t, filepath.Join(env.root, "data", "manifest.json"),
		`{"groups": [{"id": "ill", "samples": [{"variants": [{"videos": {"ours": "v/a.mp4?x=1&y=2"}}]}]}]}`)

	out, _, err := runCLI(t, []string{"inspect", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("inspect --json: %v", err)
	}
	requireContains(t, out, `"v/a.mp4?x=1&y=2"`)
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Original toggle: no")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}
