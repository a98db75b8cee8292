package search

import (
	"sort"

	"docdex/internal/domain"
	"docdex/internal/store"
)

// RankedMatch is a title index hit with its relevance score.
type RankedMatch struct {
	Meta  domain.Meta
	Score float64
}

// Rank scores every record title against the query with the Ochiai token
// overlap coefficient and returns the best max matches, highest first.
// Unlike Titles this is best-N, not first-N, so the whole metadata sequence
// is consumed.
func Rank(st *store.Store, query string, max int, filter store.FilterOptions) ([]RankedMatch, error) {
	seq, err := st.Filter(filter)
	if err != nil {
		return nil, err
	}
	qset := TokenSet(query)

	var scored []RankedMatch
	for meta := range seq {
		score := Ochiai(qset, meta.Title)
		if score <= 0 {
			continue
		}
		scored = append(scored, RankedMatch{Meta: meta, Score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if max > 0 && len(scored) > max {
		scored = scored[:max]
	}
	return scored, nil
}
