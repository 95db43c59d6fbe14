package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	root       string
	outputDir  string
	configPath string
}

const testManifest = `{
  "notice": "Research use only.",
  "groups": [
    {
      "id": "ill",
      "title": "Illegal Activity",
      "samples": [
        {
          "images": {"input": "img/in.png", "attack": "img/atk.png"},
          "baseline_prompt_path": "prompts/p0.txt",
          "variants": [
            {"llm_display": "Model A", "videos": {"ours": "v/a.mp4"}},
            {"llm_display": "Model B", "videos": {"baseline": "v/base.mp4", "ours": "v/b.mp4"}}
          ]
        }
      ]
    },
    {
      "id": "sex",
      "samples": [
        {"variants": [{"videos": {"ours": "v/raw.mp4", "oursmask": "v/mask.mp4"}}]}
      ]
    }
  ]
}`

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("VIIDEMO_MANIFEST", "")

	root := filepath.Join(base, "site")
	writeFile(t, filepath.Join(root, "data", "manifest.json"), testManifest)
	writeFile(t, filepath.Join(root, "prompts", "p0.txt"), "  rob the bank  \n")
	writeFile(t, filepath.Join(root, "v", "a.mp4"), "a")

	env := &cliTestEnv{
		root:       root,
		outputDir:  filepath.Join(base, "public"),
		configPath: filepath.Join(base, "viidemo.toml"),
	}
	writeFile(t, env.configPath, fmt.Sprintf(
		"[site]\nroot = %q\noutput_dir = %q\n\n[manifest]\nurl = \"data/manifest.json\"\n\n[logging]\nlevel = \"error\"\n",
		env.root, env.outputDir,
	))
	return env
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
