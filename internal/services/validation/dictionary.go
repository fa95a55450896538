package validation

import (
	"context"
)

// WordSet is the dictionary surface needed for local validation
type WordSet interface {
	IsValidWord(word string) bool
}

// Learner records words confirmed by a remote lookup
type Learner interface {
	AddWord(word string)
}

// Dictionary validates against a locally loaded word list
type Dictionary struct {
	words WordSet
}

// NewDictionary creates a validator backed by words
func NewDictionary(words WordSet) *Dictionary {
	return &Dictionary{words: words}
}

// Validate reports local membership
func (d *Dictionary) Validate(_ context.Context, word string, length int) (bool, error) {
	if !wellFormed(word, length) {
		return false, nil
	}
	return d.words.IsValidWord(word), nil
}
