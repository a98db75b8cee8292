package search

import (
	"strings"

	"docdex/internal/domain"
	"docdex/internal/store"
)

// TitleQuery describes a title search. Matching is case-insensitive; Exact
// requires the whole title to equal the text, otherwise substring. With
// IncludePath set, rel_path is matched too. Max caps the result count with
// first-N semantics: iteration stops as soon as the cap is reached.
type TitleQuery struct {
	Text        string
	Exact       bool
	IncludePath bool
	Max         int
	Filter      store.FilterOptions
}

func (q TitleQuery) matches(title, relPath string) bool {
	text := strings.ToLower(q.Text)
	if q.Exact {
		if strings.ToLower(title) == text {
			return true
		}
		return q.IncludePath && strings.ToLower(relPath) == text
	}
	if strings.Contains(strings.ToLower(title), text) {
		return true
	}
	return q.IncludePath && strings.Contains(strings.ToLower(relPath), text)
}

// Titles searches record titles through the store's metadata sequence.
func Titles(st *store.Store, q TitleQuery) ([]domain.Meta, error) {
	seq, err := st.Filter(q.Filter)
	if err != nil {
		return nil, err
	}
	var out []domain.Meta
	for meta := range seq {
		if !q.matches(meta.Title, meta.RelPath) {
			continue
		}
		out = append(out, meta)
		if q.Max > 0 && len(out) >= q.Max {
			break
		}
	}
	return out, nil
}

// TitleIndex searches a flat title index, optionally restricted to modules
// whose name contains one of the given patterns (case-insensitive).
func TitleIndex(entries []domain.TitleEntry, q TitleQuery, modules []string) []domain.TitleEntry {
	var lowered []string
	for _, m := range modules {
		lowered = append(lowered, strings.ToLower(m))
	}
	var out []domain.TitleEntry
	for _, e := range entries {
		if len(lowered) > 0 && !moduleMatches(e.Module, lowered) {
			continue
		}
		if !q.matches(e.Title, "") {
			continue
		}
		out = append(out, e)
		if q.Max > 0 && len(out) >= q.Max {
			break
		}
	}
	return out
}

func moduleMatches(module string, lowered []string) bool {
	name := strings.ToLower(module)
	for _, p := range lowered {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}
