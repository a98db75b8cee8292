// Package store is the query-time read path: it resolves record ids to full
// records by seeking straight to their byte offset in the corpus, using the
// sidecar index built by the index package.
package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"docdex/internal/domain"
	"docdex/internal/index"
)

// ErrNoIndex is returned when the sidecar index file has not been built yet.
var ErrNoIndex = errors.New("sidecar index not found (run `docdex index` first)")

var digitsRe = regexp.MustCompile(`\d+`)

// NormalizeID canonicalizes a record id: the first run of digits is
// zero-padded to six and prefixed with DOC, so "18", "doc000018" and "DOC18"
// are all equivalent. Inputs without digits are returned uppercased; this is
// a best-effort total function and never fails.
func NormalizeID(raw string) string {
	digits := digitsRe.FindString(raw)
	if digits == "" {
		return strings.ToUpper(raw)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return strings.ToUpper(raw)
	}
	return fmt.Sprintf("DOC%06d", n)
}

// IDToInt extracts the numeric component of an id. The second return is
// false when the id contains no digits.
func IDToInt(id string) (int, bool) {
	digits := digitsRe.FindString(id)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Store resolves ids against one corpus file. The parsed sidecar index is
// loaded once and cached for the store's lifetime; it is never invalidated,
// a rebuild requires constructing a new Store.
type Store struct {
	corpusPath string
	indexPath  string

	once    sync.Once
	idx     map[string]domain.IndexEntry
	loadErr error
}

// New creates a store for a corpus, deriving the sidecar path from it.
func New(corpusPath string) *Store {
	return NewWithIndex(corpusPath, index.SidecarPath(corpusPath))
}

// NewWithIndex creates a store with an explicit sidecar index path.
func NewWithIndex(corpusPath, indexPath string) *Store {
	return &Store{corpusPath: corpusPath, indexPath: indexPath}
}

// CorpusPath returns the corpus file this store reads from.
func (s *Store) CorpusPath() string { return s.corpusPath }

// Index returns the cached sidecar index, reading and parsing the file at
// most once per store.
func (s *Store) Index() (map[string]domain.IndexEntry, error) {
	s.once.Do(func() {
		data, err := os.ReadFile(s.indexPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				s.loadErr = fmt.Errorf("%w: %s", ErrNoIndex, s.indexPath)
			} else {
				s.loadErr = fmt.Errorf("read index: %w", err)
			}
			return
		}
		idx := make(map[string]domain.IndexEntry)
		if err := json.Unmarshal(data, &idx); err != nil {
			s.loadErr = fmt.Errorf("parse index %s: %w", s.indexPath, err)
			return
		}
		s.idx = idx
	})
	return s.idx, s.loadErr
}

// GetDoc resolves an id (any normalizable form) to the full record,
// including the heavy body fields. A missing id returns (nil, nil): not
// found is an expected outcome, not an error. A missing corpus file at read
// time is an error distinct from a missing index.
func (s *Store) GetDoc(id string) (*domain.Record, error) {
	idx, err := s.Index()
	if err != nil {
		return nil, err
	}
	entry, ok := idx[NormalizeID(id)]
	if !ok {
		return nil, nil
	}

	f, err := os.Open(s.corpusPath)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(entry.Offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek corpus: %w", err)
	}
	line, err := bufio.NewReaderSize(f, 1<<20).ReadBytes('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read record: %w", err)
	}
	var rec domain.Record
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, fmt.Errorf("parse record at offset %d: %w", entry.Offset, err)
	}
	return &rec, nil
}

// FindByPath scans the index for an entry whose rel_path equals or ends with
// the target and resolves it through GetDoc. Returns (nil, nil) when no
// entry matches.
func (s *Store) FindByPath(target string) (*domain.Record, error) {
	idx, err := s.Index()
	if err != nil {
		return nil, err
	}
	norm := strings.ReplaceAll(target, "\\", "/")
	ids := make([]string, 0, len(idx))
	for id := range idx {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := strings.ReplaceAll(idx[id].RelPath, "\\", "/")
		if p == norm || strings.HasSuffix(p, norm) {
			return s.GetDoc(id)
		}
	}
	return nil, nil
}

// FilterOptions restricts the metadata sequence produced by Filter. IDs is
// an allow-set of ids (any normalizable form); IDMin/IDMax bound the id's
// numeric component, inclusive on both ends.
type FilterOptions struct {
	IDs   []string
	IDMin *int
	IDMax *int
}

// Filter returns a restartable sequence of lightweight record metadata in
// id order, applying the allow-set and range filters. Ids without a numeric
// component never pass a range bound but may pass an explicit allow-set.
func (s *Store) Filter(opts FilterOptions) (iter.Seq[domain.Meta], error) {
	idx, err := s.Index()
	if err != nil {
		return nil, err
	}

	var allow map[string]struct{}
	if len(opts.IDs) > 0 {
		allow = make(map[string]struct{}, len(opts.IDs))
		for _, id := range opts.IDs {
			allow[NormalizeID(id)] = struct{}{}
		}
	}

	ids := make([]string, 0, len(idx))
	for id := range idx {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return func(yield func(domain.Meta) bool) {
		for _, id := range ids {
			if allow != nil {
				if _, ok := allow[id]; !ok {
					continue
				}
			}
			if opts.IDMin != nil || opts.IDMax != nil {
				n, ok := IDToInt(id)
				if !ok {
					continue
				}
				if opts.IDMin != nil && n < *opts.IDMin {
					continue
				}
				if opts.IDMax != nil && n > *opts.IDMax {
					continue
				}
			}
			entry := idx[id]
			if !yield(domain.Meta{ID: id, Title: entry.Title, RelPath: entry.RelPath}) {
				return
			}
		}
	}, nil
}
