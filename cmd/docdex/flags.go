package main

import (
	"fmt"
	"strconv"
	"strings"
)

// stringList is a repeatable, comma-splittable flag value.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// parseRange parses a MIN-MAX numeric id range where either side may be
// omitted ("5-", "-120", "2-4").
func parseRange(s string) (*int, *int, error) {
	lo, hi, found := strings.Cut(s, "-")
	if !found {
		return nil, nil, fmt.Errorf("range must look like MIN-MAX, got %q", s)
	}
	var minID, maxID *int
	if lo = strings.TrimSpace(lo); lo != "" {
		n, err := strconv.Atoi(lo)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid range minimum %q", lo)
		}
		minID = &n
	}
	if hi = strings.TrimSpace(hi); hi != "" {
		n, err := strconv.Atoi(hi)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid range maximum %q", hi)
		}
		maxID = &n
	}
	if minID == nil && maxID == nil {
		return nil, nil, fmt.Errorf("range %q has neither bound", s)
	}
	return minID, maxID, nil
}
