// Package evaluation scores guesses against answers and aggregates keyboard state.
package evaluation

import (
	"fmt"

	"github.com/mcoot/dotriacontordle/internal/model"
)

// stackWordLen covers every supported word length without heap allocation
const stackWordLen = 16

// Result is the scoring of one guess against one answer
type Result struct {
	States    []model.TileState
	IsCorrect bool
}

// Evaluate scores guess against answer. Both are upper-cased before comparison.
// It fails if either word is not exactly wordLength letters.
func Evaluate(guess, answer string, wordLength int) (Result, error) {
	states := make([]model.TileState, wordLength)
	correct, err := EvaluateInto(states, guess, answer)
	if err != nil {
		return Result{}, err
	}
	return Result{States: states, IsCorrect: correct}, nil
}

// EvaluateInto writes one state per position into dst and reports whether the
// guess matched exactly. len(dst) is the expected word length.
func EvaluateInto(dst []model.TileState, guess, answer string) (bool, error) {
	n := len(dst)
	if len(guess) != n || len(answer) != n {
		return false, fmt.Errorf("%w: want %d letters, got %q and %q", model.ErrWordLengthMismatch, n, guess, answer)
	}

	var gbuf, abuf [stackWordLen]byte
	var g, a []byte
	if n <= stackWordLen {
		g, a = gbuf[:n], abuf[:n]
	} else {
		g, a = make([]byte, n), make([]byte, n)
	}
	for i := 0; i < n; i++ {
		g[i] = upper(guess[i])
		a[i] = upper(answer[i])
	}

	var remaining [256]uint8
	for i := 0; i < n; i++ {
		remaining[a[i]]++
	}

	correct := 0
	for i := 0; i < n; i++ {
		if g[i] == a[i] {
			dst[i] = model.TileCorrect
			remaining[g[i]]--
			correct++
		} else {
			dst[i] = model.TileAbsent
		}
	}

	for i := 0; i < n; i++ {
		if dst[i] == model.TileCorrect {
			continue
		}
		if remaining[g[i]] > 0 {
			dst[i] = model.TilePresent
			remaining[g[i]]--
		}
	}

	return correct == n, nil
}

// Upper returns s with ASCII letters upper-cased
func Upper(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'a' && s[i] <= 'z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				b[j] = upper(b[j])
			}
			return string(b)
		}
	}
	return s
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
