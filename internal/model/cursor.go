package model

import "time"

// KVStoreCursor is the progress marker for the embedded key-value store
// reader: the largest record identifier observed so far.
type KVStoreCursor struct {
	LastRecordID string
}

// SQLiteCursor is the progress marker for the SQLite reader: the file's
// last-modified instant and the largest row id seen in the messages
// table (whichever candidate schema matched).
type SQLiteCursor struct {
	LastModified time.Time
	LastRowID    int64
}

// JSONLLogCursor is the progress marker for the append-only log
// directory reader: a byte offset per file path, plus a pending-bytes
// count for a partial trailing line that hasn't been parsed yet.
type JSONLLogCursor struct {
	Offsets       map[string]int64
	PendingBytes  map[string]int64
}

// NewJSONLLogCursor returns an empty cursor ready for first use.
func NewJSONLLogCursor() JSONLLogCursor {
	return JSONLLogCursor{
		Offsets:      make(map[string]int64),
		PendingBytes: make(map[string]int64),
	}
}

// JSONExportCursor is the progress marker for the manual JSON export
// reader: an idempotent set of file fingerprints already imported.
type JSONExportCursor struct {
	Imported map[string]bool
}

// NewJSONExportCursor returns an empty cursor ready for first use.
func NewJSONExportCursor() JSONExportCursor {
	return JSONExportCursor{Imported: make(map[string]bool)}
}

// Cursors bundles the per-source progress markers persisted between
// cycles in the `.cursors` state file. Each field is owned exclusively
// by its reader and handed to/from the scheduler across cycle
// boundaries — there is no module-level mutable cursor state anywhere
// in the pipeline (spec §9).
type Cursors struct {
	KVStore    KVStoreCursor
	SQLiteApp  SQLiteCursor
	JSONLLog   JSONLLogCursor
	JSONExport JSONExportCursor
}

// NewCursors returns a zero-valued Cursors bundle with its maps
// initialized.
func NewCursors() Cursors {
	return Cursors{
		JSONLLog:   NewJSONLLogCursor(),
		JSONExport: NewJSONExportCursor(),
	}
}

// Clock abstracts the UTC clock the pipeline uses for timestamp
// validation and tier computation, so tests can inject a fixed time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real wall clock, always returning UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
