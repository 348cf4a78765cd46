package registry

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"promptctl/internal/inference"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(""), 0o644); err != nil {
			t.Fatalf("write temp file: %v", err)
		}
	}
}

func TestLoadDir_FiltersGGUF(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.GGUF", "a.gguf", "not-model.txt", "model.bin")
	if err := os.Mkdir(filepath.Join(dir, "sub.gguf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	models, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %+v", models)
	}
	if models[0].ID != "a.gguf" || models[1].ID != "b.GGUF" {
		t.Fatalf("unexpected order/ids: %+v", models)
	}
	if models[0].Name != "a" || !filepath.IsAbs(models[0].Path) {
		t.Fatalf("unexpected model: %+v", models[0])
	}
}

func TestLoadDir_Quant(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "gpt2.Q4_K_M.gguf", "llama-2-7b.q8_0.gguf", "phi-f16.gguf", "plain.gguf")
	models, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := map[string]string{
		"gpt2.Q4_K_M.gguf":     "Q4_K_M",
		"llama-2-7b.q8_0.gguf": "Q8_0",
		"phi-f16.gguf":         "F16",
		"plain.gguf":           "",
	}
	for _, m := range models {
		if m.Quant != want[m.ID] {
			t.Fatalf("%s: quant=%q want %q", m.ID, m.Quant, want[m.ID])
		}
	}
}

func TestLoadDir_Missing(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestResolve_MatchOrder(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "gpt2.gguf", "gpt2.Q4_K_M.gguf", "gpt2-medium.Q8_0.gguf", "tinyllama.Q4_0.gguf")
	cases := map[string]string{
		"gpt2.Q4_K_M.gguf": "gpt2.Q4_K_M.gguf",
		"GPT2":             "gpt2.gguf",
		"gpt2-medium":      "gpt2-medium.Q8_0.gguf",
		"tinyllama":        "tinyllama.Q4_0.gguf",
	}
	for id, want := range cases {
		got, err := Resolve(dir, id)
		if err != nil {
			t.Fatalf("resolve %q: %v", id, err)
		}
		if filepath.Base(got) != want {
			t.Fatalf("resolve %q = %s, want %s", id, got, want)
		}
	}
}

func TestResolve_ExistingPathWins(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	touch(t, other, "custom.bin")
	p := filepath.Join(other, "custom.bin")
	got, err := Resolve(dir, p)
	if err != nil || got != p {
		t.Fatalf("got %q err=%v", got, err)
	}
}

func TestResolve_NotFound(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "gpt2.gguf")
	_, err := Resolve(dir, "mistral")
	if !inference.IsModelNotFound(err) {
		t.Fatalf("expected model not found, got %v", err)
	}
	_, err = Resolve(filepath.Join(dir, "missing"), "gpt2")
	if !inference.IsModelNotFound(err) || !strings.Contains(err.Error(), "models dir") {
		t.Fatalf("expected model not found with dir context, got %v", err)
	}
	if _, err := Resolve(dir, "  "); !inference.IsModelNotFound(err) {
		t.Fatalf("expected model not found for blank id, got %v", err)
	}
}

func TestResolver(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "x.gguf")
	got, err := Resolver(dir)("x")
	if err != nil || filepath.Base(got) != "x.gguf" {
		t.Fatalf("got %q err=%v", got, err)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}
	if got, err := ExpandHome("/tmp"); err != nil || got != "/tmp" {
		t.Fatalf("got %q err=%v", got, err)
	}
	if got, err := ExpandHome(""); err != nil || got != "" {
		t.Fatalf("got %q err=%v", got, err)
	}
	if got, err := ExpandHome("~"); err != nil || got != home {
		t.Fatalf("got %q err=%v", got, err)
	}
	if got, err := ExpandHome("~/models/llm"); err != nil || got != filepath.Join(home, "models", "llm") {
		t.Fatalf("got %q err=%v", got, err)
	}
}

func TestLoadDir_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}
	if err := os.MkdirAll(filepath.Join(home, "models"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	touch(t, filepath.Join(home, "models"), "x.gguf")
	models, err := LoadDir("~/models")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(models) != 1 || models[0].ID != "x.gguf" {
		t.Fatalf("unexpected models: %+v", models)
	}
}
