package parsing

import "fmt"

// InvalidPhraseError reports a free-text phrase that cannot be used as skills or interests.
type InvalidPhraseError struct {
	Field  string
	Phrase string
	Reason string
}

func (e *InvalidPhraseError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Phrase, e.Reason)
}
