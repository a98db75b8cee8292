package search

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"

	"docdex/internal/domain"
	"docdex/internal/index"
)

// FindInModules scans the manifest's module files for a record whose id or
// title exactly matches the target, restricted to modules whose name
// contains one of the patterns. The first match wins. Missing module files
// and unparseable lines are skipped. Returns (nil, nil) when nothing
// matches.
func FindInModules(manifestPath string, patterns []string, target string) (*domain.Record, error) {
	m, err := index.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	for _, mod := range index.FilterModules(m, patterns) {
		rec, err := scanModule(index.ModuleFile(manifestPath, mod), target)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		if rec != nil {
			if rec.Module == "" {
				rec.Module = mod.Module
			}
			return rec, nil
		}
	}
	return nil, nil
}

func scanModule(path, target string) (*domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 1<<20)
	for {
		line, readErr := r.ReadBytes('\n')
		if len(line) > 0 {
			var rec domain.Record
			if err := json.Unmarshal(line, &rec); err == nil {
				if rec.ID == target || rec.Title == target {
					return &rec, nil
				}
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return nil, nil
			}
			return nil, readErr
		}
	}
}
