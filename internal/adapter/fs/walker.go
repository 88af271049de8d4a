package fs

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Walker expands build source arguments into file paths. An argument may be
// a file, a directory (walked recursively) or a doublestar glob.
type Walker struct {
	excludes []string
	accept   func(path string) bool
}

// NewWalker creates a walker. Files found by walking a directory or matching
// a glob are kept only if accept returns true; a nil accept keeps everything.
// Explicitly named files are always kept so that their failures are reported.
func NewWalker(excludes []string, accept func(path string) bool) *Walker {
	if accept == nil {
		accept = func(string) bool { return true }
	}
	return &Walker{
		excludes: excludes,
		accept:   accept,
	}
}

// Expand resolves patterns in order, dropping duplicates.
func (w *Walker) Expand(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, pattern := range patterns {
		info, err := os.Stat(pattern)
		switch {
		case err == nil && info.IsDir():
			found, err := w.walk(pattern)
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f)
			}
		case err == nil:
			add(pattern)
		case hasMeta(pattern):
			matches, err := doublestar.FilepathGlob(pattern)
			if err != nil {
				return nil, err
			}
			sort.Strings(matches)
			for _, m := range matches {
				if fi, err := os.Stat(m); err != nil || fi.IsDir() {
					continue
				}
				if w.accept(m) && !w.shouldExclude(m) {
					add(m)
				}
			}
		default:
			// missing file: kept so the build reports it as skipped
			add(pattern)
		}
	}

	return files, nil
}

func (w *Walker) walk(root string) ([]string, error) {
	var files []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if relPath != "." && w.shouldExclude(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if w.accept(path) && !w.shouldExclude(relPath) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func (w *Walker) shouldExclude(path string) bool {
	for _, pattern := range w.excludes {
		matched, err := doublestar.Match(pattern, filepath.ToSlash(path))
		if err == nil && matched {
			return true
		}
	}
	return false
}

func hasMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
