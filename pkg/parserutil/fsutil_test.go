package parserutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWalkFiles_FiltersBySuffixAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jsonl", "a.jsonl", "ignore.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	sub := filepath.Join(dir, "nested")
	os.Mkdir(sub, 0o700)
	os.WriteFile(filepath.Join(sub, "c.jsonl"), []byte("{}"), 0o600)

	got, err := WalkFiles(dir, ".jsonl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 files, got %d: %v", len(got), got)
	}
	if filepath.Base(got[0]) != "a.jsonl" {
		t.Errorf("expected sorted order, first = %s", got[0])
	}
}
