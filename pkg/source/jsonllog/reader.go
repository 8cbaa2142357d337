// Package jsonllog reads and parses the CLI agent's append-only
// line-delimited log files (spec §4.1, §4.2). Each file under a
// project-scoped directory tree is one conversation session; lines are
// JSON objects delimited by LF.
package jsonllog

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/pkg/parserutil"
)

const maxLineSize = 64 * 1024 * 1024 // 64MiB, matches the pack's jsonl readers

// Record is one raw line from a log file, paired with the file it came
// from, ready for Parse.
type Record struct {
	Path string
	Line string
}

// Reader streams new lines appended to files under Root since the
// cursor's recorded per-file offsets (spec §4.1).
type Reader struct {
	Root string
	log  *log.Logger
}

// New creates a Reader rooted at dir.
func New(dir string, logger *log.Logger) *Reader {
	return &Reader{Root: dir, log: logger}
}

// ReadSince implements the read_since(cursor) -> (records, new_cursor)
// operation for this source: it walks Root for *.jsonl files, seeks
// each to its recorded offset, and streams subsequent complete lines.
// A partial trailing line (no terminating LF yet) is not parsed; its
// byte count is kept in the cursor as PendingBytes so the next cycle
// picks it up once complete. Files shorter than the recorded offset
// are treated as truncated/rotated: the offset resets to zero and a
// warning is logged (spec §4.1).
func (r *Reader) ReadSince(cursor model.JSONLLogCursor) ([]Record, model.JSONLLogCursor, error) {
	files, err := parserutil.WalkFiles(r.Root, ".jsonl")
	if err != nil {
		if os.IsNotExist(err) {
			// the log directory not existing yet is normal when this
			// source hasn't been used on this machine.
			return nil, cursor, nil
		}
		return nil, cursor, &model.SourceUnavailableError{
			Source: model.SourceJSONLCLI,
			Reason: "walking log directory",
			Err:    err,
		}
	}

	next := model.JSONLLogCursor{
		Offsets:      cloneInt64Map(cursor.Offsets),
		PendingBytes: cloneInt64Map(cursor.PendingBytes),
	}

	var records []Record
	for _, path := range files {
		recs, newOffset, pending, err := r.readFile(path, cursor.Offsets[path])
		if err != nil {
			if r.log != nil {
				r.log.Warn("failed to read log file", "path", path, "error", err)
			}
			continue
		}
		records = append(records, recs...)
		next.Offsets[path] = newOffset
		next.PendingBytes[path] = pending
	}

	return records, next, nil
}

func (r *Reader) readFile(path string, lastOffset int64) ([]Record, int64, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, lastOffset, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, lastOffset, 0, fmt.Errorf("stat %s: %w", path, err)
	}

	currentSize := info.Size()
	if currentSize < lastOffset {
		if r.log != nil {
			r.log.Warn("log file appears truncated or rotated, resetting offset",
				"path", path, "lastOffset", lastOffset, "currentSize", currentSize)
		}
		lastOffset = 0
	}
	if currentSize == lastOffset {
		return nil, lastOffset, 0, nil
	}

	if _, err := f.Seek(lastOffset, io.SeekStart); err != nil {
		return nil, lastOffset, 0, fmt.Errorf("seek %s: %w", path, err)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var records []Record
	var consumed int64
	for scanner.Scan() {
		line := scanner.Text()
		if lastOffset+consumed+int64(len(line)) >= currentSize {
			break // no terminating LF before currentSize: a partial trailing line
		}
		consumed += int64(len(line)) + 1 // +1 for the LF the scanner stripped
		if line == "" {
			continue
		}
		records = append(records, Record{Path: path, Line: line})
	}
	if err := scanner.Err(); err != nil {
		return records, lastOffset + consumed, 0, fmt.Errorf("scan %s: %w", path, err)
	}

	newOffset := lastOffset + consumed
	pending := currentSize - newOffset
	return records, newOffset, pending, nil
}

func cloneInt64Map(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
