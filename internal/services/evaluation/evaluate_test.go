package evaluation

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/dotriacontordle/internal/model"
)

const (
	C = model.TileCorrect
	P = model.TilePresent
	A = model.TileAbsent
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		guess   string
		answer  string
		want    []model.TileState
		correct bool
	}{
		{"exact match", "CASTLE", "CASTLE", []model.TileState{C, C, C, C, C, C}, true},
		{"no shared letters", "BUXOMZ", "CASTLE", []model.TileState{A, A, A, A, A, A}, false},
		{"all displaced", "TRACES", "CASTLE", []model.TileState{P, A, P, P, P, P}, false},
		{"correct consumes before present", "CARATS", "CASTLE", []model.TileState{C, C, A, A, P, P}, false},
		{"duplicate letters", "ASSESS", "CASTLE", []model.TileState{P, A, C, P, A, A}, false},
		{"positional priority", "SASSES", "CASTLE", []model.TileState{A, C, C, A, P, A}, false},
		{"lower-case guess", "castle", "CASTLE", []model.TileState{C, C, C, C, C, C}, true},
		{"lower-case answer", "CASTLE", "castle", []model.TileState{C, C, C, C, C, C}, true},
		{"four letters", "EELS", "SEEN", []model.TileState{P, C, A, P}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(tt.guess, tt.answer, len(tt.answer))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.States)
			assert.Equal(t, tt.correct, res.IsCorrect)
		})
	}
}

func TestEvaluateRejectsLengthMismatch(t *testing.T) {
	_, err := Evaluate("CAT", "CASTLE", 6)
	require.ErrorIs(t, err, model.ErrWordLengthMismatch)

	_, err = Evaluate("CASTLES", "CASTLE", 6)
	require.ErrorIs(t, err, model.ErrWordLengthMismatch)

	_, err = Evaluate("CASTLE", "CASTLE", 5)
	require.ErrorIs(t, err, model.ErrWordLengthMismatch)
}

func TestEvaluateIsReflexive(t *testing.T) {
	for _, word := range []string{"ABCD", "ACTION", "ZZZZZZZZZZ", "letter"} {
		res, err := Evaluate(word, word, len(word))
		require.NoError(t, err)
		assert.True(t, res.IsCorrect, word)
		for _, st := range res.States {
			assert.Equal(t, model.TileCorrect, st, word)
		}
	}
}

func TestEvaluateNeverOvercountsLetters(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	const alphabet = "ABCDE"
	randomWord := func(n int) string {
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteByte(alphabet[rng.IntN(len(alphabet))])
		}
		return b.String()
	}

	for i := 0; i < 2000; i++ {
		n := 4 + rng.IntN(7)
		guess, answer := randomWord(n), randomWord(n)

		res, err := Evaluate(guess, answer, n)
		require.NoError(t, err)
		require.Len(t, res.States, n)

		marked := map[byte]int{}
		allCorrect := true
		for pos, st := range res.States {
			switch st {
			case model.TileCorrect:
				require.Equal(t, guess[pos], answer[pos])
				marked[guess[pos]]++
			case model.TilePresent:
				require.NotEqual(t, guess[pos], answer[pos])
				marked[guess[pos]]++
				allCorrect = false
			case model.TileAbsent:
				allCorrect = false
			default:
				t.Fatalf("unexpected state %q", st)
			}
		}
		for letter, count := range marked {
			assert.LessOrEqual(t, count, strings.Count(answer, string(letter)), "guess=%s answer=%s", guess, answer)
		}
		assert.Equal(t, allCorrect, res.IsCorrect)
		assert.Equal(t, guess == answer, res.IsCorrect)
	}
}

func TestEvaluateIntoDoesNotAllocate(t *testing.T) {
	dst := make([]model.TileState, 6)
	allocs := testing.AllocsPerRun(100, func() {
		_, _ = EvaluateInto(dst, "assess", "CASTLE")
	})
	assert.Zero(t, allocs)
}

func TestUpper(t *testing.T) {
	assert.Equal(t, "CASTLE", Upper("castle"))
	assert.Equal(t, "CASTLE", Upper("CASTLE"))
	assert.Equal(t, "CAS-LE", Upper("cAs-le"))
}

func BenchmarkEvaluateInto(b *testing.B) {
	dst := make([]model.TileState, 6)
	for i := 0; i < b.N; i++ {
		_, _ = EvaluateInto(dst, "ASSESS", "CASTLE")
	}
}
