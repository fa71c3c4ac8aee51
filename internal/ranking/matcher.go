// Package ranking scores catalog careers against a user's skills and interests
// and selects a small, relevance-filtered result set.
package ranking

import (
	"fmt"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Matcher decides whether a query term matches a career's required skill.
// Both arguments are lowercase.
type Matcher interface {
	Match(required, term string) bool
}

// Matcher names accepted by NewMatcher.
const (
	MatcherSubstring = "substring"
	MatcherWord      = "word"
	MatcherFuzzy     = "fuzzy"
)

// DefaultFuzzyThreshold is the minimum Sørensen–Dice similarity for a fuzzy match.
const DefaultFuzzyThreshold = 0.5

// NewMatcher returns the matcher registered under name. An empty name selects
// substring matching.
func NewMatcher(name string) (Matcher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", MatcherSubstring:
		return SubstringMatcher{}, nil
	case MatcherWord:
		return WordMatcher{}, nil
	case MatcherFuzzy:
		return NewFuzzyMatcher(DefaultFuzzyThreshold), nil
	default:
		return nil, fmt.Errorf("unknown matcher %q (want %q, %q or %q)", name, MatcherSubstring, MatcherWord, MatcherFuzzy)
	}
}

// SubstringMatcher matches when either side contains the other, so "java"
// matches "javascript" and "advanced sql queries" matches "sql".
type SubstringMatcher struct{}

// Match implements Matcher.
func (SubstringMatcher) Match(required, term string) bool {
	required = strings.TrimSpace(required)
	term = strings.TrimSpace(term)
	if required == "" || term == "" {
		return false
	}
	return strings.Contains(required, term) || strings.Contains(term, required)
}

// WordMatcher is SubstringMatcher restricted to whole words: "patient"
// matches "patient care" but "art" does not match "smart contracts".
type WordMatcher struct{}

// Match implements Matcher.
func (WordMatcher) Match(required, term string) bool {
	required = strings.TrimSpace(required)
	term = strings.TrimSpace(term)
	if required == "" || term == "" {
		return false
	}
	r := " " + required + " "
	q := " " + term + " "
	return strings.Contains(r, q) || strings.Contains(q, r)
}

// FuzzyMatcher extends substring matching with a similarity score over
// character bigrams.
type FuzzyMatcher struct {
	Threshold float64
	metric    *metrics.SorensenDice
}

// NewFuzzyMatcher builds a FuzzyMatcher that accepts similarities strictly
// above threshold.
func NewFuzzyMatcher(threshold float64) *FuzzyMatcher {
	m := metrics.NewSorensenDice()
	m.CaseSensitive = false
	return &FuzzyMatcher{Threshold: threshold, metric: m}
}

// Match implements Matcher.
func (f *FuzzyMatcher) Match(required, term string) bool {
	if (SubstringMatcher{}).Match(required, term) {
		return true
	}
	if strings.TrimSpace(required) == "" || strings.TrimSpace(term) == "" {
		return false
	}
	return strutil.Similarity(required, term, f.metric) > f.Threshold
}
