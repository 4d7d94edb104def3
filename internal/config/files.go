package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FindRTLFiles resolves a path argument into the ordered list of RTL
// source files to analyze. A file path is returned as-is; a directory is
// scanned (non-recursively) for entries matching the configured patterns,
// in sorted name order so runs are deterministic.
func (c *Config) FindRTLFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", path, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		for _, pattern := range c.FilePatterns {
			if matched, _ := filepath.Match(pattern, entry.Name()); matched {
				files = append(files, filepath.Join(path, entry.Name()))
				break
			}
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no RTL files matching %v in %s", c.FilePatterns, path)
	}
	return files, nil
}
