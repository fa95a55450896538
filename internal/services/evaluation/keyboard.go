package evaluation

import (
	"github.com/mcoot/dotriacontordle/internal/model"
)

// UpdateKeyboard merges the scoring of one guess into current and returns a new map.
// A letter's state only ever improves: correct > present > absent > unseen.
func UpdateKeyboard(current model.KeyboardState, guess string, states []model.TileState) model.KeyboardState {
	next := current.Clone()
	MergeKeyboard(next, guess, states)
	return next
}

// MergeKeyboard is UpdateKeyboard applied in place
func MergeKeyboard(kb model.KeyboardState, guess string, states []model.TileState) {
	for i := 0; i < len(guess) && i < len(states); i++ {
		letter := string(upper(guess[i]))
		if states[i].Rank() > kb[letter].Rank() {
			kb[letter] = states[i]
		}
	}
}

// ReplayKeyboard rebuilds keyboard state from the full guess history.
// A solved board contributes only the guesses up to and including its solving guess.
func ReplayKeyboard(boards []model.BoardState, guesses []string, wordLength int) (model.KeyboardState, error) {
	kb := make(model.KeyboardState)
	row := make([]model.TileState, wordLength)
	for _, board := range boards {
		for gi, guess := range guesses {
			if board.SolvedAtGuess != nil && gi > *board.SolvedAtGuess {
				break
			}
			if _, err := EvaluateInto(row, guess, board.Answer); err != nil {
				return nil, err
			}
			MergeKeyboard(kb, guess, row)
		}
	}
	return kb, nil
}
