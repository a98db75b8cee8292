package index

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"docdex/internal/domain"
	"docdex/internal/logging"
)

// contentMarker splits a record line into the cheap metadata prefix and the
// heavy body. Everything before it is parsed as JSON by closing the object
// early, so the body is never materialized during a build.
const contentMarker = `"content":`

// progressEvery controls how often Build reports scan progress.
const progressEvery = 100_000

// SidecarPath returns the sidecar index path for a corpus file:
// <dir>/<stem>.index.json.
func SidecarPath(corpusPath string) string {
	stem := strings.TrimSuffix(corpusPath, filepath.Ext(corpusPath))
	return stem + ".index.json"
}

// Build scans a JSONL corpus once and returns the byte-offset index. Lines
// that fail to parse are skipped, but their byte length still advances the
// offset so later entries stay correct. Duplicate ids keep the last
// occurrence seen.
func Build(corpusPath string) (map[string]domain.IndexEntry, error) {
	f, err := os.Open(corpusPath)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	log := logging.ForComponent("index")
	idx := make(map[string]domain.IndexEntry)
	r := bufio.NewReaderSize(f, 1<<20)

	var offset int64
	var lineNo int
	for {
		line, readErr := r.ReadBytes('\n')
		if len(line) > 0 {
			lineNo++
			if meta, ok := extractMeta(line); ok && meta.ID != "" {
				idx[meta.ID] = domain.IndexEntry{
					Offset:  offset,
					Title:   meta.Title,
					RelPath: meta.RelPath,
				}
			}
			offset += int64(len(line))
			if lineNo%progressEvery == 0 {
				fmt.Fprintf(os.Stderr, "\rindexed %d lines...", lineNo)
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return nil, fmt.Errorf("read corpus: %w", readErr)
		}
	}
	if lineNo >= progressEvery {
		fmt.Fprintln(os.Stderr)
	}
	log.Info("corpus scanned", "lines", lineNo, "records", len(idx))
	return idx, nil
}

// extractMeta pulls id/title/rel_path out of one corpus line. When the
// content marker is present only the prefix is parsed; otherwise the whole
// line is. Returns false for lines that do not parse.
func extractMeta(line []byte) (domain.Meta, bool) {
	var meta domain.Meta
	if i := bytes.Index(line, []byte(contentMarker)); i >= 0 {
		head := bytes.TrimRight(line[:i], " \t")
		head = bytes.TrimSuffix(head, []byte(","))
		head = append(append([]byte{}, head...), '}')
		if err := json.Unmarshal(head, &meta); err != nil {
			return domain.Meta{}, false
		}
		return meta, true
	}
	if err := json.Unmarshal(line, &meta); err != nil {
		return domain.Meta{}, false
	}
	return meta, true
}

// WriteIndex persists the index map as a single JSON object. Map keys are
// marshaled in sorted order, so the output is deterministic.
func WriteIndex(path string, idx map[string]domain.IndexEntry) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
