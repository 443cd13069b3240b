package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// fileImporter resolves `import "path";` (spec §4.5.1 "Import") against
// the importing script's own directory first, then against any
// additional search paths from the runtime configuration's
// `[import] path` entries.
type fileImporter struct {
	baseDir     string
	searchPaths []string
}

func (f fileImporter) Read(path string) (string, error) {
	var candidates []string
	if filepath.IsAbs(path) {
		candidates = []string{path}
	} else {
		candidates = append(candidates, filepath.Join(f.baseDir, path))
		for _, sp := range f.searchPaths {
			candidates = append(candidates, filepath.Join(sp, path))
		}
	}
	var lastErr error
	for _, c := range candidates {
		data, err := os.ReadFile(c)
		if err == nil {
			return string(data), nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("IOError: import %q: %w", path, lastErr)
}
