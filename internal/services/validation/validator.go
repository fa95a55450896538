// Package validation decides whether a guess is an acceptable word.
//
// Validators may block on I/O and must be safe for concurrent use. An
// error wrapping model.ErrValidationUnavailable means the answer is unknown
// and the guess should be retried, not rejected.
package validation

import (
	"context"
)

// Validator checks a single upper-case word of the given length
type Validator interface {
	Validate(ctx context.Context, word string, length int) (bool, error)
}

// ValidatorFunc adapts a function to the Validator interface
type ValidatorFunc func(ctx context.Context, word string, length int) (bool, error)

// Validate calls f
func (f ValidatorFunc) Validate(ctx context.Context, word string, length int) (bool, error) {
	return f(ctx, word, length)
}

// wellFormed reports whether word has the requested length and only A-Z letters
func wellFormed(word string, length int) bool {
	if len(word) != length {
		return false
	}
	for i := 0; i < len(word); i++ {
		if word[i] < 'A' || word[i] > 'Z' {
			return false
		}
	}
	return true
}
