package kvstore

import (
	"path/filepath"
	"testing"

	bolt "go.etcd.io/bbolt"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

func seedStore(t *testing.T, path string, workspaces map[string]string, items map[string]string) {
	t.Helper()
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		wb, err := tx.CreateBucketIfNotExists([]byte(workspaceBucket))
		if err != nil {
			return err
		}
		for id, basename := range workspaces {
			if err := wb.Put([]byte(id), []byte(basename)); err != nil {
				return err
			}
		}
		ib, err := tx.CreateBucketIfNotExists([]byte(itemBucket))
		if err != nil {
			return err
		}
		for key, val := range items {
			if err := ib.Put([]byte(key), []byte(val)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadSince_FiltersToMatchingWorkspaceExactly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	seedStore(t, path,
		map[string]string{
			"ws-match": "create-ai-chat-context-experimental",
			"ws-other": "create-ai-chat-context",
			"ws-third": "other",
		},
		map[string]string{
			"ws-match/k1": `{"request_message":"hi"}`,
			"ws-other/k1": `{"request_message":"should not leak"}`,
			"ws-third/k1": `{"request_message":"also excluded"}`,
		},
	)

	r := New(path, "create-ai-chat-context-experimental", nil)
	recs, _, err := r.ReadSince(model.KVStoreCursor{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record from the matching workspace only, got %d: %v", len(recs), recs)
	}
	if recs[0].Key != "ws-match/k1" {
		t.Errorf("unexpected record key: %q", recs[0].Key)
	}
}

func TestReadSince_NoMatchingWorkspaceYieldsZeroRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	seedStore(t, path,
		map[string]string{"ws-1": "some-other-project"},
		map[string]string{"ws-1/k1": `{"request_message":"hi"}`},
	)

	r := New(path, "no-such-project", nil)
	recs, _, err := r.ReadSince(model.KVStoreCursor{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected zero records, got %d", len(recs))
	}
}

func TestReadSince_CursorExcludesAlreadySeenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	seedStore(t, path,
		map[string]string{"ws-1": "proj"},
		map[string]string{
			"ws-1/a": `{"request_message":"first"}`,
			"ws-1/b": `{"request_message":"second"}`,
		},
	)

	r := New(path, "proj", nil)
	first, cursor, err := r.ReadSince(model.KVStoreCursor{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 records on cold read, got %d", len(first))
	}

	second, _, err := r.ReadSince(cursor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("expected 0 new records after cursor advanced, got %d", len(second))
	}
}
