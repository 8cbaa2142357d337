package parserutil

import (
	"os"
	"path/filepath"
	"sort"
)

// WalkFiles returns every regular file under root whose name matches
// suffix (e.g. ".jsonl"), sorted lexicographically for deterministic
// processing order. Used by the line-delimited log reader to discover
// per-project session files (spec §4.1).
func WalkFiles(root, suffix string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if suffix == "" || filepath.Ext(path) == suffix {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
