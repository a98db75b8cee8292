package search

import (
	"math"
	"regexp"
	"strings"
)

var (
	wordRe     = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// TokenSet lowercases and tokenizes text into a word set.
func TokenSet(s string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// SplitSentences breaks text into sentences; text without terminal
// punctuation is returned as a single trimmed sentence.
func SplitSentences(text string) []string {
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}
	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}
	return sentences
}

// Ochiai scores token overlap between a query set and text:
// |A∩B| / sqrt(|A||B|).
func Ochiai(qset map[string]struct{}, text string) float64 {
	tset := TokenSet(text)
	if len(qset) == 0 || len(tset) == 0 {
		return 0
	}
	inter := 0
	for t := range tset {
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	return float64(inter) / (math.Sqrt(float64(len(qset))) * math.Sqrt(float64(len(tset))))
}

// overlapCount counts distinct query tokens present in the sentence.
func overlapCount(qset map[string]struct{}, sentence string) int {
	n := 0
	for t := range TokenSet(sentence) {
		if _, ok := qset[t]; ok {
			n++
		}
	}
	return n
}

// Snippet returns up to maxSentences sentences of text centered on the
// sentence with the highest query-token overlap, preserving text order.
func Snippet(text, query string, maxSentences int) string {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return ""
	}
	qset := TokenSet(query)
	best := 0
	bestScore := -1
	for i, s := range sentences {
		if score := overlapCount(qset, s); score > bestScore {
			bestScore = score
			best = i
		}
	}
	start := best - maxSentences/2
	if start < 0 {
		start = 0
	}
	end := start + maxSentences
	if end > len(sentences) {
		end = len(sentences)
	}
	return strings.Join(sentences[start:end], " ")
}

// BestSentenceIndex returns the index of the sentence with the most query
// token overlap, for highlighting.
func BestSentenceIndex(sentences []string, query string) int {
	qset := TokenSet(query)
	best := 0
	bestScore := -1
	for i, s := range sentences {
		if score := overlapCount(qset, s); score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}
