package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

const testRecipe = `type: recipe
format_version: 1
maintainers: [alice]
spec:
  name: "{test_case}_{environment}"
  model: gpt3
  nodes: 1
  gpus: 8
  platforms: dgx_h100
  script: run
products:
  - test_case: [A, B]
    products:
      - environment: [dev]
`

func writeTestRecipe(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipe.yaml")
	if err := os.WriteFile(path, []byte(testRecipe), 0o600); err != nil {
		t.Fatalf("write recipe: %v", err)
	}
	return path
}

func TestExpandLocal(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jobsJSON, err := expandLocal(logger, writeTestRecipe(t), false)
	if err != nil {
		t.Fatalf("expandLocal() err=%v", err)
	}

	var out bytes.Buffer
	if err := writeOutput(&out, jobsJSON, "names"); err != nil {
		t.Fatalf("writeOutput() err=%v", err)
	}
	if got := out.String(); got != "A_dev\nB_dev\n" {
		t.Fatalf("names output=%q, want A_dev and B_dev lines", got)
	}
}

func TestWriteOutput_JSONIsIndented(t *testing.T) {
	var out bytes.Buffer
	if err := writeOutput(&out, []byte(`[{"name":"A_dev"}]`), "json"); err != nil {
		t.Fatalf("writeOutput() err=%v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("\n  ")) {
		t.Fatalf("expected indented output, got %q", out.String())
	}
}

func TestWriteOutput_UnsupportedFormat(t *testing.T) {
	if err := writeOutput(io.Discard, []byte("[]"), "yaml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
