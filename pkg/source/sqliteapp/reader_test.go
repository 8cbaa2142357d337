package sqliteapp

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

func openSeedDB(t *testing.T, ddl string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.Exec(ddl); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadSince_MatchesFirstSchemaCandidate(t *testing.T) {
	path := openSeedDB(t, `
		CREATE TABLE thread_messages (
			id INTEGER PRIMARY KEY,
			thread_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		INSERT INTO thread_messages (id, thread_id, role, content, created_at)
		VALUES (1, 'c1', 'user', 'hello', 1729590143), (2, 'c1', 'assistant', 'hi', 1729590144);
	`)

	r := New(path)
	rows, cursor, err := r.ReadSince(context.Background(), model.SQLiteCursor{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if cursor.LastRowID != 2 {
		t.Errorf("LastRowID = %d, want 2", cursor.LastRowID)
	}
}

func TestReadSince_OnlyReturnsRowsPastCursor(t *testing.T) {
	path := openSeedDB(t, `
		CREATE TABLE thread_messages (
			id INTEGER PRIMARY KEY,
			thread_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		INSERT INTO thread_messages (id, thread_id, role, content, created_at)
		VALUES (1, 'c1', 'user', 'hello', 1729590143);
	`)

	r := New(path)
	rows, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()
	if _, err := rows.Exec(`INSERT INTO thread_messages (id, thread_id, role, content, created_at) VALUES (2, 'c1', 'assistant', 'hi', 1729590144)`); err != nil {
		t.Fatal(err)
	}

	got, _, err := r.ReadSince(context.Background(), model.SQLiteCursor{LastRowID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected only row 2, got %+v", got)
	}
}

func TestReadSince_UnrecognizedSchemaReturnsTypedError(t *testing.T) {
	path := openSeedDB(t, `CREATE TABLE unrelated_table (x INTEGER);`)

	r := New(path)
	_, _, err := r.ReadSince(context.Background(), model.SQLiteCursor{})
	if err == nil {
		t.Fatal("expected schema-not-recognized error")
	}
	if _, ok := err.(*model.SchemaNotRecognizedError); !ok {
		t.Errorf("expected *model.SchemaNotRecognizedError, got %T: %v", err, err)
	}
}
