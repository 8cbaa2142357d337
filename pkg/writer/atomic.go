package writer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// AtomicWriteFile writes data to path by writing to a temporary file
// in the same directory, fsyncing it, then renaming it into place
// (spec §4.5 "written atomically (write to temporary file, fsync,
// rename)"). The temp file's suffix is a random UUID so concurrent
// writers targeting the same path never collide.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &model.WriterError{Path: path, Err: fmt.Errorf("mkdir %s: %w", dir, err)}
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%s", filepath.Base(path), uuid.NewString()))

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return &model.WriterError{Path: path, Err: fmt.Errorf("create temp file: %w", err)}
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return &model.WriterError{Path: path, Err: fmt.Errorf("write temp file: %w", err)}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return &model.WriterError{Path: path, Err: fmt.Errorf("fsync temp file: %w", err)}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &model.WriterError{Path: path, Err: fmt.Errorf("close temp file: %w", err)}
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &model.WriterError{Path: path, Err: fmt.Errorf("rename into place: %w", err)}
	}

	return nil
}
