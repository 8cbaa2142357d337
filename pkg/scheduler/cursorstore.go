package scheduler

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/pkg/writer"
)

// cursorFile is the opaque `.cursors` state file's on-disk shape
// (spec §6: "opaque, line-per-source, 0600 permissions") — one field
// per source, JSON-encoded rather than hand-rolled lines so the four
// cursor shapes (string, row-id+mtime, per-file offset map, imported
// set) round-trip without a bespoke line grammar.
type cursorFile struct {
	KVStore    model.KVStoreCursor    `json:"kvStore"`
	SQLiteApp  model.SQLiteCursor     `json:"sqliteApp"`
	JSONLLog   model.JSONLLogCursor   `json:"jsonlLog"`
	JSONExport model.JSONExportCursor `json:"jsonExport"`
}

// loadCursors reads the `.cursors` file at path, returning a fresh
// Cursors bundle if the file doesn't exist yet (first run).
func loadCursors(path string) (model.Cursors, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.NewCursors(), nil
	}
	if err != nil {
		return model.Cursors{}, fmt.Errorf("scheduler: reading cursor file: %w", err)
	}

	var cf cursorFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return model.Cursors{}, fmt.Errorf("scheduler: decoding cursor file: %w", err)
	}
	cursors := model.Cursors{
		KVStore:    cf.KVStore,
		SQLiteApp:  cf.SQLiteApp,
		JSONLLog:   cf.JSONLLog,
		JSONExport: cf.JSONExport,
	}
	if cursors.JSONLLog.Offsets == nil {
		cursors.JSONLLog = model.NewJSONLLogCursor()
	}
	if cursors.JSONExport.Imported == nil {
		cursors.JSONExport = model.NewJSONExportCursor()
	}
	return cursors, nil
}

// saveCursors persists cursors atomically (spec §5 "written atomically
// by the scheduler after a successful cycle"), 0600 permissions (spec
// §6).
func saveCursors(path string, cursors model.Cursors) error {
	cf := cursorFile{
		KVStore:    cursors.KVStore,
		SQLiteApp:  cursors.SQLiteApp,
		JSONLLog:   cursors.JSONLLog,
		JSONExport: cursors.JSONExport,
	}
	data, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		return fmt.Errorf("scheduler: encoding cursor file: %w", err)
	}
	return writer.AtomicWriteFile(path, data, 0o600)
}
