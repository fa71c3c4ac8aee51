// Package parsing turns raw skill and interest input into normalized search terms.
package parsing

import (
	"regexp"
	"strings"
	"unicode"
)

// stopWords are dropped from free text before matching.
var stopWords = map[string]bool{
	"i": true, "am": true, "i'm": true, "im": true, "good": true, "at": true,
	"and": true, "with": true, "love": true, "in": true, "for": true, "the": true,
	"a": true, "an": true, "is": true, "are": true, "to": true, "of": true,
	"my": true, "like": true, "enjoy": true, "really": true, "very": true,
}

// minPhraseLen is the shortest accepted conversational phrase.
const minPhraseLen = 3

var (
	phrasePattern = regexp.MustCompile(`^[A-Za-z0-9,.\s]+$`)
	conjunctionRe = regexp.MustCompile(`(?i)\band\b`)
)

// ExtractTerms lowercases text, strips punctuation, splits on whitespace and
// drops stop words. Order is preserved and duplicates are kept.
func ExtractTerms(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, text)

	fields := strings.Fields(cleaned)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if stopWords[f] {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

// ExtractAll runs ExtractTerms over each phrase and concatenates the results.
func ExtractAll(phrases []string) []string {
	var terms []string
	for _, p := range phrases {
		terms = append(terms, ExtractTerms(p)...)
	}
	return terms
}

// NormalizeTerms trims and lowercases explicit array input, dropping blanks.
func NormalizeTerms(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// SplitCombined splits a single phrase such as "good at coding and love
// healthcare" at the first standalone "and". ok is false when there is no
// conjunction to split on.
func SplitCombined(phrase string) (skills, interests string, ok bool) {
	loc := conjunctionRe.FindStringIndex(phrase)
	if loc == nil {
		return phrase, "", false
	}
	skills = strings.TrimSpace(phrase[:loc[0]])
	interests = strings.TrimSpace(phrase[loc[1]:])
	return skills, interests, true
}

// ValidatePhrase checks a conversational free-text value against the allow-list
// (letters, digits, comma, period, whitespace) and the minimum length.
func ValidatePhrase(field, phrase string) error {
	trimmed := strings.TrimSpace(phrase)
	if len(trimmed) < minPhraseLen {
		return &InvalidPhraseError{Field: field, Phrase: phrase, Reason: "too short"}
	}
	if !phrasePattern.MatchString(trimmed) {
		return &InvalidPhraseError{Field: field, Phrase: phrase, Reason: "contains unsupported characters"}
	}
	return nil
}
