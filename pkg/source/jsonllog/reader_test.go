package jsonllog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

func writeLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestReadSince_ColdReadReturnsAllLinesAndAdvancesOffset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s1.jsonl")
	writeLines(t, path, `{"a":1}`, `{"a":2}`)

	r := New(dir, nil)
	recs, cursor, err := r.ReadSince(model.NewJSONLLogCursor())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	info, _ := os.Stat(path)
	if cursor.Offsets[path] != info.Size() {
		t.Errorf("offset = %d, want %d", cursor.Offsets[path], info.Size())
	}
}

func TestReadSince_SecondCallOnlyReturnsAppendedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s1.jsonl")
	writeLines(t, path, `{"a":1}`)

	r := New(dir, nil)
	_, cursor, err := r.ReadSince(model.NewJSONLLogCursor())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString(`{"a":2}` + "\n")
	f.Close()

	recs, _, err := r.ReadSince(cursor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 new record, got %d", len(recs))
	}
	if recs[0].Line != `{"a":2}` {
		t.Errorf("unexpected record: %q", recs[0].Line)
	}
}

func TestReadSince_PartialTrailingLineNotParsed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s1.jsonl")
	if err := os.WriteFile(path, []byte(`{"a":1}`+"\n"+`{"a":2`), 0o600); err != nil {
		t.Fatal(err)
	}

	r := New(dir, nil)
	recs, cursor, err := r.ReadSince(model.NewJSONLLogCursor())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 complete record, got %d", len(recs))
	}
	if cursor.PendingBytes[path] != int64(len(`{"a":2`)) {
		t.Errorf("pendingBytes = %d, want %d", cursor.PendingBytes[path], len(`{"a":2`))
	}
}

func TestReadSince_TruncatedFileResetsOffset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s1.jsonl")
	writeLines(t, path, `{"a":1}`, `{"a":2}`, `{"a":3}`)

	r := New(dir, nil)
	_, cursor, err := r.ReadSince(model.NewJSONLLogCursor())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// simulate log rotation: file replaced with a shorter one
	writeLines(t, path, `{"a":1}`)

	recs, next, err := r.ReadSince(cursor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected reread from offset 0 to yield 1 record, got %d", len(recs))
	}
	info, _ := os.Stat(path)
	if next.Offsets[path] != info.Size() {
		t.Errorf("offset after reset = %d, want %d", next.Offsets[path], info.Size())
	}
}

func TestReadSince_SkipsMissingDirectoryGracefully(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	_, _, err := r.ReadSince(model.NewJSONLLogCursor())
	if err != nil {
		t.Fatalf("expected no error for empty/missing directory, got %v", err)
	}
}
