// Package sqliteapp reads the desktop app's SQLite conversation
// database read-only, tolerating schema variation across app versions
// by trying a ranked list of table/column name candidates (spec §4.1).
package sqliteapp

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// schema names one candidate messages/conversations layout. Candidates
// are tried in order; the first whose tables and columns all exist
// wins (spec §9 open question, decided in SPEC_FULL.md §5.1).
type schema struct {
	messagesTable      string
	idColumn           string
	conversationColumn string
	roleColumn         string
	contentColumn      string
	timestampColumn    string
}

var schemaCandidates = []schema{
	{
		messagesTable:      "thread_messages",
		idColumn:           "id",
		conversationColumn: "thread_id",
		roleColumn:         "role",
		contentColumn:      "content",
		timestampColumn:    "created_at",
	},
	{
		messagesTable:      "messages",
		idColumn:           "id",
		conversationColumn: "conversation_id",
		roleColumn:         "role",
		contentColumn:      "content",
		timestampColumn:    "timestamp",
	},
	{
		messagesTable:      "messages",
		idColumn:           "rowid",
		conversationColumn: "conversationId",
		roleColumn:         "author",
		contentColumn:      "text",
		timestampColumn:    "createdAt",
	},
}

// Row is one raw database row, its columns already mapped by the
// schema that matched into fixed fields, so the parser needs no
// schema of its own.
type Row struct {
	ID             int64
	ConversationID string
	Role           string
	Content        string
	Timestamp      string
}

// Reader opens Path read-only for each ReadSince call.
type Reader struct {
	Path string
}

// New creates a Reader over the SQLite file at path.
func New(path string) *Reader {
	return &Reader{Path: path}
}

// ReadSince opens the database read-only, resolves the schema by
// trying schemaCandidates in order, and returns rows whose primary key
// exceeds cursor.LastRowID, ordered ascending. Returns
// *model.SchemaNotRecognizedError if no candidate matches any table in
// the database (spec §4.1).
func (r *Reader) ReadSince(ctx context.Context, cursor model.SQLiteCursor) ([]Row, model.SQLiteCursor, error) {
	dsn := "file:" + r.Path + "?mode=ro&immutable=0"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, cursor, &model.SourceUnavailableError{
			Source: model.SourceSQLiteApp,
			Reason: "opening database",
			Err:    err,
		}
	}
	defer db.Close()

	sc, err := resolveSchema(ctx, db)
	if err != nil {
		if notRecognized, ok := err.(*model.SchemaNotRecognizedError); ok {
			notRecognized.Path = r.Path
		}
		return nil, cursor, err
	}

	query := fmt.Sprintf(
		`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s > ? ORDER BY %s ASC`,
		sc.idColumn, sc.conversationColumn, sc.roleColumn, sc.contentColumn, sc.timestampColumn,
		sc.messagesTable, sc.idColumn, sc.idColumn,
	)
	rows, err := db.QueryContext(ctx, query, cursor.LastRowID)
	if err != nil {
		return nil, cursor, &model.SourceUnavailableError{
			Source: model.SourceSQLiteApp,
			Reason: "querying messages table",
			Err:    err,
		}
	}
	defer rows.Close()

	var out []Row
	maxID := cursor.LastRowID
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.ID, &row.ConversationID, &row.Role, &row.Content, &row.Timestamp); err != nil {
			return nil, cursor, fmt.Errorf("sqliteapp: scanning row: %w", err)
		}
		out = append(out, row)
		if row.ID > maxID {
			maxID = row.ID
		}
	}
	if err := rows.Err(); err != nil {
		return nil, cursor, fmt.Errorf("sqliteapp: iterating rows: %w", err)
	}

	return out, model.SQLiteCursor{LastModified: time.Now().UTC(), LastRowID: maxID}, nil
}

func resolveSchema(ctx context.Context, db *sql.DB) (schema, error) {
	var tried []string
	for _, sc := range schemaCandidates {
		tried = append(tried, sc.messagesTable)
		exists, err := tableHasColumns(ctx, db, sc)
		if err != nil {
			continue
		}
		if exists {
			return sc, nil
		}
	}
	return schema{}, &model.SchemaNotRecognizedError{Path: "", Tried: tried}
}

func tableHasColumns(ctx context.Context, db *sql.DB, sc schema) (bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", sc.messagesTable))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	want := map[string]bool{
		sc.idColumn:           false,
		sc.conversationColumn: false,
		sc.roleColumn:         false,
		sc.contentColumn:      false,
		sc.timestampColumn:    false,
	}
	found := false
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, err
		}
		found = true
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	if !found {
		return false, nil
	}
	// rowid is always implicitly available; don't require it in PRAGMA output.
	for col, seen := range want {
		if col == "rowid" {
			continue
		}
		if !seen {
			return false, nil
		}
	}
	return true, nil
}
