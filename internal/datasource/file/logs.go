package file

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Defaults for atop's standard daily log layout.
const (
	DefaultRoot    = "/var/log/atop"
	DefaultPattern = "atop_[0-9]*"
)

// ListLogs returns the files under root matching the glob pattern, sorted
// lexically. atop names daily logs atop_YYYYMMDD, so lexical order is
// chronological order. Empty arguments fall back to the defaults.
func ListLogs(root, pattern string) ([]string, error) {
	if root == "" {
		root = DefaultRoot
	}
	if pattern == "" {
		pattern = DefaultPattern
	}
	matches, err := filepath.Glob(filepath.Join(root, pattern))
	if err != nil {
		return nil, fmt.Errorf("list logs %s: %w", filepath.Join(root, pattern), err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Last returns the final n entries of files. A non-positive n, or n beyond
// the length, returns files unchanged.
func Last(files []string, n int) []string {
	if n <= 0 || n >= len(files) {
		return files
	}
	return files[len(files)-n:]
}
