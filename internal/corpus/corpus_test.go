package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/typetest/internal/model"
)

func TestLoadFallsBackToBuiltin(t *testing.T) {
	for _, d := range model.Difficulties {
		sentences, err := Load("", d)
		if err != nil {
			t.Fatalf("load %s: %v", d, err)
		}
		if len(sentences) != 5 {
			t.Fatalf("expected 5 builtin sentences for %s, got %d", d, len(sentences))
		}
	}
	sentences, err := Load(t.TempDir(), model.Hard)
	if err != nil {
		t.Fatalf("load from empty dir: %v", err)
	}
	if sentences[0] != Builtin(model.Hard)[0] {
		t.Fatalf("expected builtin hard sentences")
	}
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	content := "# comment\nFirst sentence.\n\n  Second sentence.  \n"
	if err := os.WriteFile(filepath.Join(dir, "medium.txt"), []byte(content), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	sentences, err := Load(dir, model.Medium)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(sentences) != 2 || sentences[0] != "First sentence." || sentences[1] != "Second sentence." {
		t.Fatalf("unexpected sentences: %q", sentences)
	}
}

func TestLoadEmptyCorpusFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "easy.txt"), []byte("\n# only comments\n"), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	if _, err := Load(dir, model.Easy); err == nil {
		t.Fatalf("expected error for empty corpus")
	}
}

func TestBuiltinReturnsCopy(t *testing.T) {
	s := Builtin(model.Easy)
	s[0] = "changed"
	if Builtin(model.Easy)[0] == "changed" {
		t.Fatalf("builtin corpus was mutated")
	}
}

func TestPick(t *testing.T) {
	sentences := []string{"a", "b", "c", "d"}
	p := NewPickerWithSeed(1)

	got := p.Pick(sentences, 0, false)
	if len(got) != 4 || got[0] != "a" || got[3] != "d" {
		t.Fatalf("expected all sentences in order, got %q", got)
	}
	got = p.Pick(sentences, 2, false)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected first two sentences, got %q", got)
	}

	got = p.Pick(sentences, 3, true)
	if len(got) != 3 {
		t.Fatalf("expected 3 sentences, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, s := range got {
		if seen[s] {
			t.Fatalf("sentence %q picked twice", s)
		}
		seen[s] = true
	}
}
