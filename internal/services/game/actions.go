package game

import "github.com/mcoot/dotriacontordle/internal/model"

// Action is an input to the reducer
type Action interface {
	actionName() string
}

// AddLetter appends a letter to the current guess
type AddLetter struct {
	Letter rune
}

// RemoveLetter drops the last letter of the current guess
type RemoveLetter struct{}

// SubmitGuess scores a word against every board. The word is assumed to be
// validated already; the reducer only checks shape and duplicates.
type SubmitGuess struct {
	Guess string
}

// ToggleTimer starts, pauses or resumes the game timer
type ToggleTimer struct{}

// SetExpandedBoard selects the board shown in the single-board view. Nil clears it.
type SetExpandedBoard struct {
	Board *int
}

// NewGame discards the current game and deals a fresh one.
// Nil fields fall back to today's daily number and the current config.
type NewGame struct {
	Mode        model.GameMode
	DailyNumber *int
	Config      *model.GameConfig
}

// LoadState replaces the game with a previously saved one
type LoadState struct {
	State model.GameState
}

func (AddLetter) actionName() string        { return "add_letter" }
func (RemoveLetter) actionName() string     { return "remove_letter" }
func (SubmitGuess) actionName() string      { return "submit_guess" }
func (ToggleTimer) actionName() string      { return "toggle_timer" }
func (SetExpandedBoard) actionName() string { return "set_expanded_board" }
func (NewGame) actionName() string          { return "new_game" }
func (LoadState) actionName() string        { return "load_state" }
