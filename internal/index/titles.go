package index

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"docdex/internal/domain"
	"docdex/internal/logging"
)

// LoadManifest reads the module manifest ({"modules": [...]}).
func LoadManifest(path string) (*domain.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m domain.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// FilterModules returns the manifest modules whose name contains any of the
// given patterns, case-insensitive. With no patterns all modules pass.
func FilterModules(m *domain.Manifest, patterns []string) []domain.ModuleInfo {
	if len(patterns) == 0 {
		return m.Modules
	}
	lowered := make([]string, len(patterns))
	for i, p := range patterns {
		lowered[i] = strings.ToLower(p)
	}
	var out []domain.ModuleInfo
	for _, mod := range m.Modules {
		name := strings.ToLower(mod.Module)
		for _, p := range lowered {
			if strings.Contains(name, p) {
				out = append(out, mod)
				break
			}
		}
	}
	return out
}

// ModuleFile resolves the corpus file backing a module, relative to the
// manifest's directory.
func ModuleFile(manifestPath string, mod domain.ModuleInfo) string {
	file := mod.File
	if file == "" {
		file = mod.Module + ".jsonl"
	}
	return filepath.Join(filepath.Dir(manifestPath), file)
}

// BuildTitles flattens every record across the manifest's modules into
// (title, module, id) tuples, in file-then-module order. Modules whose
// backing file is missing are skipped, as are lines that fail to parse or
// records missing a title or id.
func BuildTitles(manifestPath string) ([]domain.TitleEntry, error) {
	m, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	log := logging.ForComponent("titles")

	var entries []domain.TitleEntry
	for _, mod := range m.Modules {
		path := ModuleFile(manifestPath, mod)
		n, err := appendModuleTitles(&entries, path, mod.Module)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Warn("module file missing", "module", mod.Module, "path", path)
				continue
			}
			return nil, fmt.Errorf("module %s: %w", mod.Module, err)
		}
		log.Debug("module scanned", "module", mod.Module, "titles", n)
	}
	return entries, nil
}

func appendModuleTitles(entries *[]domain.TitleEntry, path, module string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	r := bufio.NewReaderSize(f, 1<<20)
	for {
		line, readErr := r.ReadBytes('\n')
		if len(line) > 0 {
			var rec domain.Record
			if err := json.Unmarshal(line, &rec); err == nil && rec.Title != "" && rec.ID != "" {
				*entries = append(*entries, domain.TitleEntry{Title: rec.Title, Module: module, ID: rec.ID})
				n++
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return n, nil
			}
			return n, readErr
		}
	}
}

// WriteTitles persists the title index as a JSON array of 3-element arrays.
func WriteTitles(path string, entries []domain.TitleEntry) error {
	if entries == nil {
		entries = []domain.TitleEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadTitles reads a previously built title index.
func LoadTitles(path string) ([]domain.TitleEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read title index: %w", err)
	}
	var entries []domain.TitleEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse title index %s: %w", path, err)
	}
	return entries, nil
}
