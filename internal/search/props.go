package search

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"docdex/internal/domain"
)

type propertyFile struct {
	Properties []domain.Property `json:"properties"`
}

// LoadProperties reads a pre-built flattened property list
// ({"properties": [...]}).
func LoadProperties(path string) ([]domain.Property, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read property index: %w", err)
	}
	var pf propertyFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse property index %s: %w", path, err)
	}
	return pf.Properties, nil
}

// PropertyQuery filters properties by owning business-object title substring
// and/or property name. Both filters are case-insensitive; an empty filter
// passes everything.
type PropertyQuery struct {
	Name    string
	Exact   bool
	BOTitle string
	Max     int
}

// Properties applies the query over a flattened property list with first-N
// capped results.
func Properties(props []domain.Property, q PropertyQuery) []domain.Property {
	name := strings.ToLower(q.Name)
	bo := strings.ToLower(q.BOTitle)

	var out []domain.Property
	for _, p := range props {
		if bo != "" && !strings.Contains(strings.ToLower(p.BOTitle), bo) {
			continue
		}
		if name != "" {
			pn := strings.ToLower(p.Name)
			if q.Exact {
				if pn != name {
					continue
				}
			} else if !strings.Contains(pn, name) {
				continue
			}
		}
		out = append(out, p)
		if q.Max > 0 && len(out) >= q.Max {
			break
		}
	}
	return out
}
