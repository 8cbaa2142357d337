// Package kvstore reads the editor extension's embedded single-writer
// key-value store in read-only snapshot mode (spec §4.1), restricts
// output to the configured project's workspace (spec §4.7), and
// normalizes matching records into Messages (spec §4.2).
package kvstore

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	bolt "go.etcd.io/bbolt"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// workspaceBucket is the top-level bucket mapping a workspace id to its
// manifest (basename of the folder it represents). itemBucket holds
// the conversation records themselves, keyed "<workspaceID>/<key>" so
// a single cold scan can filter by workspace prefix without opening a
// second cursor.
const (
	workspaceBucket = "workspaces"
	itemBucket      = "items"
)

const maxBackoff = 3 * time.Second

// Record is one raw key-value store entry paired with its store key,
// already filtered to the configured workspace.
type Record struct {
	Key   string
	Value []byte
}

// Reader opens Path read-only for each ReadSince call, never holding a
// transaction open across cycles (spec §4.1 "must not hold locks
// across cycles").
type Reader struct {
	Path        string
	ProjectName string
	log         *log.Logger
}

// New creates a Reader over the bbolt database at path, restricted to
// the workspace whose basename exactly matches projectName.
func New(path, projectName string, logger *log.Logger) *Reader {
	return &Reader{Path: path, ProjectName: projectName, log: logger}
}

// ReadSince opens a read-only snapshot transaction, retrying with
// exponential backoff (100ms, 200ms, 400ms, ... up to 3s total) if the
// single writer currently holds the database locked, then skips the
// cycle for this source if the backoff budget is exhausted (spec
// §4.1). It never returns an error for "store temporarily busy" —
// only for a structurally broken store.
func (r *Reader) ReadSince(cursor model.KVStoreCursor) ([]Record, model.KVStoreCursor, error) {
	db, err := r.openWithBackoff()
	if errors.Is(err, bolt.ErrTimeout) {
		if r.log != nil {
			r.log.Warn("kv-store busy past backoff budget, skipping cycle", "path", r.Path, "error", err)
		}
		return nil, cursor, nil
	}
	if err != nil {
		return nil, cursor, &model.SourceUnavailableError{Source: model.SourceKVStore, Reason: "opening store", Err: err}
	}
	defer db.Close()

	workspaceID, err := r.resolveWorkspace(db)
	if err != nil {
		return nil, cursor, err
	}
	if workspaceID == "" {
		if r.log != nil {
			r.log.Warn("no workspace matches configured project name, emitting zero records",
				"projectName", r.ProjectName)
		}
		return nil, cursor, nil
	}

	var records []Record
	lastSeen := cursor.LastRecordID

	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(itemBucket))
		if b == nil {
			return nil
		}
		prefix := []byte(workspaceID + "/")
		c := b.Cursor()
		for k, v := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = c.Next() {
			key := string(k)
			if key <= lastSeen {
				continue
			}
			if !bytes.Contains(v, []byte(`"request_message"`)) && !bytes.Contains(v, []byte(`"response_text"`)) {
				lastSeen = key
				continue
			}
			val := make([]byte, len(v))
			copy(val, v)
			records = append(records, Record{Key: key, Value: val})
			if key > lastSeen {
				lastSeen = key
			}
		}
		return nil
	})
	if err != nil {
		return nil, cursor, fmt.Errorf("kvstore: scanning items bucket: %w", err)
	}

	return records, model.KVStoreCursor{LastRecordID: lastSeen}, nil
}

func (r *Reader) openWithBackoff() (*bolt.DB, error) {
	deadline := time.Now().Add(maxBackoff)
	backoff := 100 * time.Millisecond
	var lastErr error
	for {
		db, err := bolt.Open(r.Path, 0o600, &bolt.Options{
			ReadOnly: true,
			Timeout:  50 * time.Millisecond,
		})
		if err == nil {
			return db, nil
		}
		lastErr = err
		if time.Now().After(deadline) {
			return nil, lastErr
		}
		time.Sleep(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// resolveWorkspace enumerates the workspaces bucket and returns the id
// of the workspace whose manifest basename exactly (case-sensitively)
// matches the configured project name. Returns "" if none matches —
// the caller must not fall back to "all workspaces" (spec §4.7).
func (r *Reader) resolveWorkspace(db *bolt.DB) (string, error) {
	var id string
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(workspaceBucket))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			if string(v) == r.ProjectName {
				id = string(k)
			}
			return nil
		})
	})
	if err != nil {
		return "", fmt.Errorf("kvstore: scanning workspaces bucket: %w", err)
	}
	return id, nil
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := range prefix {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}
