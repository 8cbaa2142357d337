// Package jsonexport reads the manually exported JSON conversation
// document: a single bounded full-file load, fingerprinted so a
// previously-imported file is skipped on subsequent cycles (spec
// §4.1).
package jsonexport

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/pkg/parserutil"
)

// File is one export file's contents paired with its fingerprint.
type File struct {
	Path        string
	Fingerprint string
	Data        []byte
}

// Reader discovers *.json files under Root and loads each one not
// already in the cursor's imported set, bounded by MaxBytes.
type Reader struct {
	Root     string
	MaxBytes int64
}

// New creates a Reader rooted at dir with the given byte bound
// (spec §4.1 default 64 MiB, configured via internal/config).
func New(dir string, maxBytes int64) *Reader {
	return &Reader{Root: dir, MaxBytes: maxBytes}
}

// ReadSince walks Root for *.json files, computes each one's content
// fingerprint, and returns those not already present in
// cursor.Imported. Oversized files are reported as a SourceUnavailableError
// for that file and skipped, not fatal to the whole cycle.
func (r *Reader) ReadSince(cursor model.JSONExportCursor) ([]File, model.JSONExportCursor, []error) {
	paths, err := parserutil.WalkFiles(r.Root, ".json")
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cursor, nil
		}
		return nil, cursor, []error{&model.SourceUnavailableError{
			Source: model.SourceJSONExport,
			Reason: "walking export directory",
			Err:    err,
		}}
	}

	next := model.JSONExportCursor{Imported: cloneBoolMap(cursor.Imported)}
	var files []File
	var errs []error

	for _, path := range paths {
		fp, err := fingerprint(path)
		if err != nil {
			errs = append(errs, &model.SourceUnavailableError{
				Source: model.SourceJSONExport,
				Reason: "fingerprinting " + path,
				Err:    err,
			})
			continue
		}
		if next.Imported[fp] {
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			errs = append(errs, &model.SourceUnavailableError{Source: model.SourceJSONExport, Reason: "stat " + path, Err: err})
			continue
		}
		if info.Size() > r.MaxBytes {
			errs = append(errs, &model.SourceUnavailableError{
				Source: model.SourceJSONExport,
				Reason: fmt.Sprintf("%s exceeds max export size %d bytes", path, r.MaxBytes),
			})
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, &model.SourceUnavailableError{Source: model.SourceJSONExport, Reason: "reading " + path, Err: err})
			continue
		}

		files = append(files, File{Path: path, Fingerprint: fp, Data: data})
		next.Imported[fp] = true
	}

	return files, next, errs
}

func fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func cloneBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
