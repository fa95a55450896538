// Package game holds the puzzle state machine and the controller that drives it.
package game

import (
	"fmt"
	"slices"
	"time"

	"github.com/mcoot/dotriacontordle/internal/dependencies/clock"
	"github.com/mcoot/dotriacontordle/internal/dependencies/random"
	"github.com/mcoot/dotriacontordle/internal/model"
	"github.com/mcoot/dotriacontordle/internal/services/evaluation"
)

// AnswerSelector deals answers for new games
type AnswerSelector interface {
	DailyAnswers(dailyNumber int, cfg model.GameConfig) []string
	RandomAnswers(count, wordLength int) []string
}

// DailyCalendar numbers the daily puzzles
type DailyCalendar interface {
	DailyNumber(now time.Time) int
}

// Reducer applies actions to game state. It never mutates its input.
type Reducer struct {
	clock    clock.Clock
	random   random.Random
	selector AnswerSelector
	calendar DailyCalendar
}

// NewReducer creates a Reducer
func NewReducer(clk clock.Clock, rng random.Random, selector AnswerSelector, calendar DailyCalendar) *Reducer {
	return &Reducer{
		clock:    clk,
		random:   rng,
		selector: selector,
		calendar: calendar,
	}
}

// Today returns the current daily puzzle number
func (r *Reducer) Today() int {
	return r.calendar.DailyNumber(r.clock.Now())
}

// Apply returns the state after action. Actions that do not apply in the
// current state return it unchanged; rejected input returns an error and the
// original state.
func (r *Reducer) Apply(state model.GameState, action Action) (model.GameState, error) {
	t, err := r.step(state, action)
	return t.state, err
}

type transition struct {
	state   model.GameState
	changed bool
	solved  []int // boards solved by a SubmitGuess
}

func unchanged(state model.GameState) transition {
	return transition{state: state}
}

func (r *Reducer) step(state model.GameState, action Action) (transition, error) {
	switch a := action.(type) {
	case AddLetter:
		return r.addLetter(state, a.Letter)
	case RemoveLetter:
		return r.removeLetter(state), nil
	case SubmitGuess:
		return r.submitGuess(state, a.Guess)
	case ToggleTimer:
		return r.toggleTimer(state), nil
	case SetExpandedBoard:
		return r.setExpandedBoard(state, a.Board)
	case NewGame:
		return r.newGame(state, a)
	case LoadState:
		next := a.State.Clone()
		if next.Keyboard == nil {
			next.Keyboard = model.KeyboardState{}
		}
		return transition{state: next, changed: true}, nil
	default:
		return unchanged(state), fmt.Errorf("unknown action %T", action)
	}
}

func (r *Reducer) addLetter(state model.GameState, letter rune) (transition, error) {
	// Finished games ignore all typing
	if state.Status != model.StatusPlaying {
		return unchanged(state), nil
	}
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'Z' {
		return unchanged(state), fmt.Errorf("%w: %q", model.ErrInvalidLetter, letter)
	}
	if len(state.CurrentGuess) >= state.Config.WordLength {
		return unchanged(state), nil
	}

	next := state.Clone()
	next.CurrentGuess += string(letter)
	if next.StartedAt == nil {
		now := r.clock.Now()
		next.StartedAt = model.TimePtr(now)
		next.TimerRunning = true
		next.TimerResumedAt = model.TimePtr(now)
	}
	return transition{state: next, changed: true}, nil
}

func (r *Reducer) removeLetter(state model.GameState) transition {
	if state.Status != model.StatusPlaying || state.CurrentGuess == "" {
		return unchanged(state)
	}
	next := state.Clone()
	next.CurrentGuess = next.CurrentGuess[:len(next.CurrentGuess)-1]
	return transition{state: next, changed: true}
}

// checkGuess reports why guess cannot be submitted in state, if it cannot.
// guess must already be upper-cased.
func checkGuess(state model.GameState, guess string) error {
	if state.Status != model.StatusPlaying {
		return model.ErrNotPlaying
	}
	if len(guess) != state.Config.WordLength {
		return fmt.Errorf("%w: want %d, got %d", model.ErrWrongLength, state.Config.WordLength, len(guess))
	}
	for i := 0; i < len(guess); i++ {
		if guess[i] < 'A' || guess[i] > 'Z' {
			return fmt.Errorf("%w: %q", model.ErrInvalidLetter, guess[i])
		}
	}
	if slices.Contains(state.Guesses, guess) {
		return fmt.Errorf("%w: %s", model.ErrDuplicateGuess, guess)
	}
	return nil
}

func (r *Reducer) submitGuess(state model.GameState, raw string) (transition, error) {
	guess := evaluation.Upper(raw)
	if err := checkGuess(state, guess); err != nil {
		return unchanged(state), err
	}

	now := r.clock.Now()
	next := state.Clone()
	if next.StartedAt == nil {
		next.StartedAt = model.TimePtr(now)
		next.TimerRunning = true
		next.TimerResumedAt = model.TimePtr(now)
	}

	index := len(next.Guesses)
	next.Guesses = append(next.Guesses, guess)

	var solved []int
	row := make([]model.TileState, next.Config.WordLength)
	for i := range next.Boards {
		board := &next.Boards[i]
		if board.Solved {
			continue
		}
		correct, err := evaluation.EvaluateInto(row, guess, board.Answer)
		if err != nil {
			return unchanged(state), err
		}
		evaluation.MergeKeyboard(next.Keyboard, guess, row)
		if correct {
			board.Solved = true
			board.SolvedAtGuess = model.IntPtr(index)
			solved = append(solved, i)
		}
	}

	if evaluation.Upper(next.CurrentGuess) == guess {
		next.CurrentGuess = ""
	}

	switch {
	case next.SolvedCount() == len(next.Boards):
		next.Status = model.StatusWon
	case len(next.Guesses) >= next.Config.MaxGuesses:
		next.Status = model.StatusLost
	}

	if next.Status.IsTerminal() {
		next.CurrentGuess = ""
		if next.TimerRunning && next.TimerResumedAt != nil {
			next.TimerBaseElapsed += now.Sub(*next.TimerResumedAt)
		}
		if next.EndedAt == nil {
			next.EndedAt = model.TimePtr(now)
		}
		next.TimerRunning = false
		next.TimerResumedAt = nil
	}

	return transition{state: next, changed: true, solved: solved}, nil
}

func (r *Reducer) toggleTimer(state model.GameState) transition {
	if state.Status != model.StatusPlaying {
		return unchanged(state)
	}

	now := r.clock.Now()
	next := state.Clone()
	next.TimerToggledAt = model.TimePtr(now)
	switch {
	case next.StartedAt == nil:
		next.StartedAt = model.TimePtr(now)
		next.TimerBaseElapsed = 0
		next.TimerRunning = true
		next.TimerResumedAt = model.TimePtr(now)
	case next.TimerRunning:
		if next.TimerResumedAt != nil {
			next.TimerBaseElapsed += now.Sub(*next.TimerResumedAt)
		}
		next.TimerRunning = false
		next.TimerResumedAt = nil
	default:
		next.TimerRunning = true
		next.TimerResumedAt = model.TimePtr(now)
	}
	return transition{state: next, changed: true}
}

func (r *Reducer) setExpandedBoard(state model.GameState, board *int) (transition, error) {
	if board != nil && (*board < 0 || *board >= len(state.Boards)) {
		return unchanged(state), fmt.Errorf("%w: %d", model.ErrInvalidBoard, *board)
	}
	next := state.Clone()
	next.ExpandedBoard = nil
	if board != nil {
		next.ExpandedBoard = model.IntPtr(*board)
	}
	return transition{state: next, changed: true}, nil
}

func (r *Reducer) newGame(state model.GameState, a NewGame) (transition, error) {
	cfg := state.Config
	if a.Config != nil {
		cfg = *a.Config
	}
	cfg = model.NormalizeConfig(cfg)

	mode := a.Mode
	if mode == "" {
		mode = model.ModeDaily
	}

	dailyNumber := r.Today()
	if a.DailyNumber != nil {
		dailyNumber = max(1, *a.DailyNumber)
	}

	var answers []string
	if mode == model.ModeDaily {
		answers = r.selector.DailyAnswers(dailyNumber, cfg)
	} else {
		answers = r.selector.RandomAnswers(cfg.BoardCount, cfg.WordLength)
	}
	if len(answers) < cfg.BoardCount {
		return unchanged(state), fmt.Errorf("%w: need %d words of length %d, have %d",
			model.ErrNoAnswers, cfg.BoardCount, cfg.WordLength, len(answers))
	}

	boards := make([]model.BoardState, cfg.BoardCount)
	for i, answer := range answers[:cfg.BoardCount] {
		boards[i] = model.BoardState{Answer: answer}
	}

	return transition{
		state: model.GameState{
			Config:      cfg,
			Boards:      boards,
			Guesses:     []string{},
			Status:      model.StatusPlaying,
			Keyboard:    model.KeyboardState{},
			Mode:        mode,
			DailyNumber: dailyNumber,
			GameID:      fmt.Sprintf("%s-%d-%s", mode, dailyNumber, r.random.UUID()),
		},
		changed: true,
	}, nil
}

// EvaluationForBoard returns how the guess at guessIndex scored on one board.
// Unknown boards or guesses, and guesses made after the board was solved,
// give a row of empty tiles.
func EvaluationForBoard(state model.GameState, boardIndex, guessIndex int) []model.TileState {
	row := model.EmptyRow(state.Config.WordLength)
	if boardIndex < 0 || boardIndex >= len(state.Boards) || guessIndex < 0 || guessIndex >= len(state.Guesses) {
		return row
	}
	board := state.Boards[boardIndex]
	if board.Solved && board.SolvedAtGuess != nil && guessIndex > *board.SolvedAtGuess {
		return row
	}
	if _, err := evaluation.EvaluateInto(row, state.Guesses[guessIndex], board.Answer); err != nil {
		return model.EmptyRow(state.Config.WordLength)
	}
	return row
}
