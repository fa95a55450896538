package game

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/dotriacontordle/internal/dependencies/mocks"
	"github.com/mcoot/dotriacontordle/internal/model"
	"github.com/mcoot/dotriacontordle/internal/services/dictionary"
	"github.com/mcoot/dotriacontordle/internal/services/evaluation"
	"github.com/mcoot/dotriacontordle/internal/services/puzzle"
	"github.com/mcoot/dotriacontordle/internal/testutil"
)

type fakeSelector struct {
	daily      []string
	random     []string
	dailyCalls []int
}

func (f *fakeSelector) DailyAnswers(dailyNumber int, cfg model.GameConfig) []string {
	f.dailyCalls = append(f.dailyCalls, dailyNumber)
	return append([]string(nil), f.daily...)
}

func (f *fakeSelector) RandomAnswers(count, wordLength int) []string {
	return append([]string(nil), f.random...)
}

type fixedDay int

func (d fixedDay) DailyNumber(time.Time) int { return int(d) }

var smallConfig = model.NewConfig(5, 2, 3)

type ReducerSuite struct {
	suite.Suite
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	selector *fakeSelector
	reducer  *Reducer
	start    time.Time
}

func TestReducerSuite(t *testing.T) {
	suite.Run(t, new(ReducerSuite))
}

func (s *ReducerSuite) SetupTest() {
	s.start = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.clock = mocks.NewMockClock(s.start)
	s.random = mocks.NewMockRandom()
	s.selector = &fakeSelector{
		daily:  []string{"CRANE", "SLATE"},
		random: []string{"PLUMB", "GHOST"},
	}
	s.reducer = NewReducer(s.clock, s.random, s.selector, fixedDay(7))
}

func (s *ReducerSuite) newDaily() model.GameState {
	cfg := smallConfig
	state, err := s.reducer.Apply(model.GameState{}, NewGame{Mode: model.ModeDaily, Config: &cfg})
	s.Require().NoError(err)
	return state
}

func (s *ReducerSuite) apply(state model.GameState, actions ...Action) model.GameState {
	for _, a := range actions {
		var err error
		state, err = s.reducer.Apply(state, a)
		s.Require().NoError(err, "action %T", a)
	}
	return state
}

// NewGame

func (s *ReducerSuite) TestNewDailyGame() {
	state := s.newDaily()

	want := model.GameState{
		Config: smallConfig,
		Boards: []model.BoardState{
			{Answer: "CRANE"},
			{Answer: "SLATE"},
		},
		Guesses:     []string{},
		Status:      model.StatusPlaying,
		Keyboard:    model.KeyboardState{},
		Mode:        model.ModeDaily,
		DailyNumber: 7,
		GameID:      "daily-7-uuid-1",
	}
	s.Empty(cmp.Diff(want, state))
	s.Equal([]int{7}, s.selector.dailyCalls)
}

func (s *ReducerSuite) TestNewGameDailyNumberOverride() {
	state := s.apply(model.GameState{}, NewGame{Mode: model.ModeDaily, DailyNumber: model.IntPtr(42), Config: &smallConfig})

	s.Equal(42, state.DailyNumber)
	s.Equal([]int{42}, s.selector.dailyCalls)
	s.Equal("daily-42-uuid-1", state.GameID)
}

func (s *ReducerSuite) TestNewGameClampsDailyNumber() {
	state := s.apply(model.GameState{}, NewGame{Mode: model.ModeDaily, DailyNumber: model.IntPtr(-3), Config: &smallConfig})
	s.Equal(1, state.DailyNumber)
}

func (s *ReducerSuite) TestNewFreeGameUsesRandomAnswers() {
	state := s.apply(model.GameState{}, NewGame{Mode: model.ModeFree, Config: &smallConfig})

	s.Equal(model.ModeFree, state.Mode)
	s.Equal("PLUMB", state.Boards[0].Answer)
	s.Equal("GHOST", state.Boards[1].Answer)
	s.Equal(7, state.DailyNumber)
	s.Empty(s.selector.dailyCalls)
}

func (s *ReducerSuite) TestNewGameKeepsCurrentConfig() {
	state := s.newDaily()
	state = s.apply(state, NewGame{Mode: model.ModeFree})

	s.Equal(smallConfig, state.Config)
	s.Equal("free-7-uuid-2", state.GameID)
}

func (s *ReducerSuite) TestNewGameDiscardsProgress() {
	state := s.newDaily()
	state = s.apply(state, AddLetter{Letter: 'c'}, SubmitGuess{Guess: "CRANE"})
	state = s.apply(state, NewGame{Mode: model.ModeDaily})

	s.Empty(state.Guesses)
	s.Empty(state.Keyboard)
	s.Nil(state.StartedAt)
	s.False(state.Boards[0].Solved)
}

func (s *ReducerSuite) TestNewGameWithTooFewAnswersFails() {
	s.selector.daily = []string{"CRANE"}

	original := model.GameState{GameID: "keep"}
	state, err := s.reducer.Apply(original, NewGame{Mode: model.ModeDaily, Config: &smallConfig})
	s.ErrorIs(err, model.ErrNoAnswers)
	s.Equal("keep", state.GameID)
}

func (s *ReducerSuite) TestNewGameWithNoDictionaryFails() {
	s.selector.random = []string{}
	_, err := s.reducer.Apply(model.GameState{}, NewGame{Mode: model.ModeFree, Config: &smallConfig})
	s.ErrorIs(err, model.ErrNoAnswers)
}

// AddLetter / RemoveLetter

func (s *ReducerSuite) TestFirstLetterStartsTimer() {
	state := s.newDaily()
	state = s.apply(state, AddLetter{Letter: 'c'})

	s.Equal("C", state.CurrentGuess)
	s.Require().NotNil(state.StartedAt)
	s.Equal(s.start, *state.StartedAt)
	s.True(state.TimerRunning)
	s.Equal(s.start, *state.TimerResumedAt)

	s.clock.Advance(time.Second)
	state = s.apply(state, AddLetter{Letter: 'R'})
	s.Equal("CR", state.CurrentGuess)
	s.Equal(s.start, *state.StartedAt)
}

func (s *ReducerSuite) TestAddLetterStopsAtWordLength() {
	state := s.newDaily()
	for _, r := range "CRANES" {
		state = s.apply(state, AddLetter{Letter: r})
	}
	s.Equal("CRANE", state.CurrentGuess)
}

func (s *ReducerSuite) TestAddLetterRejectsNonLetters() {
	state := s.newDaily()
	for _, r := range []rune{'1', ' ', 'é', '-'} {
		next, err := s.reducer.Apply(state, AddLetter{Letter: r})
		s.ErrorIs(err, model.ErrInvalidLetter)
		s.Equal("", next.CurrentGuess)
	}
}

func (s *ReducerSuite) TestRemoveLetter() {
	state := s.newDaily()
	state = s.apply(state, AddLetter{Letter: 'A'}, AddLetter{Letter: 'B'}, RemoveLetter{})
	s.Equal("A", state.CurrentGuess)

	state = s.apply(state, RemoveLetter{}, RemoveLetter{})
	s.Equal("", state.CurrentGuess)
}

func (s *ReducerSuite) TestLettersIgnoredBeforeGameStarts() {
	state := s.apply(model.GameState{}, AddLetter{Letter: 'A'}, RemoveLetter{}, ToggleTimer{})
	s.Empty(cmp.Diff(model.GameState{}, state))
}

// SubmitGuess

func (s *ReducerSuite) TestSubmitSolvesMatchingBoard() {
	state := s.newDaily()
	state = s.apply(state, SubmitGuess{Guess: "crane"})

	s.Equal([]string{"CRANE"}, state.Guesses)
	s.True(state.Boards[0].Solved)
	s.Equal(0, *state.Boards[0].SolvedAtGuess)
	s.False(state.Boards[1].Solved)
	s.Nil(state.Boards[1].SolvedAtGuess)
	s.Equal(model.StatusPlaying, state.Status)

	// CRANE against SLATE: A and E land in place
	s.Equal([]model.TileState{
		model.TileAbsent, model.TileAbsent, model.TileCorrect, model.TileAbsent, model.TileCorrect,
	}, EvaluationForBoard(state, 1, 0))
	s.Equal(model.KeyboardState{
		"C": model.TileCorrect, "R": model.TileCorrect, "A": model.TileCorrect,
		"N": model.TileCorrect, "E": model.TileCorrect,
	}, state.Keyboard)
}

func (s *ReducerSuite) TestSubmitReturnsSolvedBoards() {
	state := s.newDaily()
	t, err := s.reducer.step(state, SubmitGuess{Guess: "SLATE"})
	s.Require().NoError(err)
	s.True(t.changed)
	s.Equal([]int{1}, t.solved)
}

func (s *ReducerSuite) TestSubmitStartsTimerIfNeeded() {
	state := s.newDaily()
	state = s.apply(state, SubmitGuess{Guess: "PLUMB"})
	s.Require().NotNil(state.StartedAt)
	s.True(state.TimerRunning)
}

func (s *ReducerSuite) TestSolvedBoardsStopListening() {
	state := s.newDaily()
	state = s.apply(state, SubmitGuess{Guess: "CRANE"}, SubmitGuess{Guess: "PLUMB"})

	s.Equal(0, *state.Boards[0].SolvedAtGuess)
	s.Equal(model.EmptyRow(5), EvaluationForBoard(state, 0, 1))
	// Only SLATE still scores PLUMB
	s.Equal(model.TileCorrect, state.Keyboard["L"])
	s.Equal(model.TileAbsent, state.Keyboard["P"])

	replayed, err := evaluation.ReplayKeyboard(state.Boards, state.Guesses, 5)
	s.Require().NoError(err)
	s.Equal(replayed, state.Keyboard)
}

func (s *ReducerSuite) TestSubmitRejectsDuplicate() {
	state := s.newDaily()
	state = s.apply(state, SubmitGuess{Guess: "PLUMB"})

	next, err := s.reducer.Apply(state, SubmitGuess{Guess: "plumb"})
	s.ErrorIs(err, model.ErrDuplicateGuess)
	s.Equal([]string{"PLUMB"}, next.Guesses)
}

func (s *ReducerSuite) TestSubmitRejectsWrongLength() {
	state := s.newDaily()
	for _, guess := range []string{"", "CRAN", "CRANES"} {
		next, err := s.reducer.Apply(state, SubmitGuess{Guess: guess})
		s.ErrorIs(err, model.ErrWrongLength, guess)
		s.Empty(next.Guesses)
	}
}

func (s *ReducerSuite) TestSubmitRejectsNonLetters() {
	state := s.newDaily()
	_, err := s.reducer.Apply(state, SubmitGuess{Guess: "CR4NE"})
	s.ErrorIs(err, model.ErrInvalidLetter)
}

func (s *ReducerSuite) TestSubmitClearsMatchingCurrentGuess() {
	state := s.newDaily()
	for _, r := range "plumb" {
		state = s.apply(state, AddLetter{Letter: r})
	}
	state = s.apply(state, SubmitGuess{Guess: "PLUMB"})
	s.Equal("", state.CurrentGuess)
}

func (s *ReducerSuite) TestSubmitKeepsDifferentCurrentGuess() {
	state := s.newDaily()
	state = s.apply(state, AddLetter{Letter: 'G'}, AddLetter{Letter: 'H'})
	state = s.apply(state, SubmitGuess{Guess: "PLUMB"})
	s.Equal("GH", state.CurrentGuess)
}

func (s *ReducerSuite) TestWinFreezesTimer() {
	state := s.newDaily()
	state = s.apply(state, AddLetter{Letter: 'C'})
	s.clock.Advance(10 * time.Second)
	state = s.apply(state, SubmitGuess{Guess: "CRANE"})
	s.clock.Advance(5 * time.Second)
	state = s.apply(state, SubmitGuess{Guess: "SLATE"})

	s.Equal(model.StatusWon, state.Status)
	s.Equal(15*time.Second, state.TimerBaseElapsed)
	s.False(state.TimerRunning)
	s.Nil(state.TimerResumedAt)
	s.Require().NotNil(state.EndedAt)
	s.Equal(s.start.Add(15*time.Second), *state.EndedAt)

	s.clock.Advance(time.Hour)
	s.Equal(15*time.Second, state.Elapsed(s.clock.Now()))
}

func (s *ReducerSuite) TestPausedTimerStaysFrozenOnWin() {
	state := s.newDaily()
	state = s.apply(state, ToggleTimer{})
	s.clock.Advance(4 * time.Second)
	state = s.apply(state, ToggleTimer{})
	s.clock.Advance(time.Minute)
	state = s.apply(state, SubmitGuess{Guess: "CRANE"}, SubmitGuess{Guess: "SLATE"})

	s.Equal(model.StatusWon, state.Status)
	s.Equal(4*time.Second, state.TimerBaseElapsed)
}

func (s *ReducerSuite) TestExhaustingGuessesLoses() {
	state := s.newDaily()
	state = s.apply(state, SubmitGuess{Guess: "CRANE"}, SubmitGuess{Guess: "PLUMB"})
	for _, r := range "GHOST" {
		state = s.apply(state, AddLetter{Letter: r})
	}
	state = s.apply(state, SubmitGuess{Guess: "GHOST"})

	s.Equal(model.StatusLost, state.Status)
	s.Equal("", state.CurrentGuess)
	s.Len(state.Guesses, 3)
	s.NotNil(state.EndedAt)
}

func (s *ReducerSuite) TestTerminalStateIgnoresInput() {
	state := s.newDaily()
	state = s.apply(state, SubmitGuess{Guess: "CRANE"}, SubmitGuess{Guess: "SLATE"})
	s.Require().Equal(model.StatusWon, state.Status)
	frozen := state.Clone()

	state = s.apply(state, AddLetter{Letter: 'A'}, AddLetter{Letter: '#'}, RemoveLetter{}, ToggleTimer{})
	_, err := s.reducer.Apply(state, SubmitGuess{Guess: "PLUMB"})
	s.ErrorIs(err, model.ErrNotPlaying)

	s.Empty(cmp.Diff(frozen, state))
}

func (s *ReducerSuite) TestApplyDoesNotMutateInput() {
	state := s.newDaily()
	state = s.apply(state, SubmitGuess{Guess: "PLUMB"}, AddLetter{Letter: 'C'})
	before := state.Clone()

	_ = s.apply(state,
		AddLetter{Letter: 'R'},
		SubmitGuess{Guess: "CRANE"},
		ToggleTimer{},
		SetExpandedBoard{Board: model.IntPtr(1)},
	)

	s.Empty(cmp.Diff(before, state))
}

// ToggleTimer

func (s *ReducerSuite) TestToggleTimerCycle() {
	state := s.newDaily()

	state = s.apply(state, ToggleTimer{})
	s.True(state.TimerRunning)
	s.Equal(s.start, *state.StartedAt)
	s.Equal(s.start, *state.TimerToggledAt)

	s.clock.Advance(30 * time.Second)
	state = s.apply(state, ToggleTimer{})
	s.False(state.TimerRunning)
	s.Nil(state.TimerResumedAt)
	s.Equal(30*time.Second, state.TimerBaseElapsed)
	s.Equal(s.start.Add(30*time.Second), *state.TimerToggledAt)

	s.clock.Advance(time.Hour)
	s.Equal(30*time.Second, state.Elapsed(s.clock.Now()))

	state = s.apply(state, ToggleTimer{})
	s.True(state.TimerRunning)
	s.Equal(s.clock.Now(), *state.TimerResumedAt)

	s.clock.Advance(10 * time.Second)
	s.Equal(40*time.Second, state.Elapsed(s.clock.Now()))
	s.Equal(s.start, *state.StartedAt)
}

// SetExpandedBoard

func (s *ReducerSuite) TestSetExpandedBoard() {
	state := s.newDaily()

	state = s.apply(state, SetExpandedBoard{Board: model.IntPtr(1)})
	s.Equal(1, *state.ExpandedBoard)

	state = s.apply(state, SetExpandedBoard{})
	s.Nil(state.ExpandedBoard)

	for _, bad := range []int{-1, 2} {
		_, err := s.reducer.Apply(state, SetExpandedBoard{Board: model.IntPtr(bad)})
		s.ErrorIs(err, model.ErrInvalidBoard)
	}
}

// LoadState

func (s *ReducerSuite) TestLoadStateReplacesState() {
	current := s.newDaily()
	saved := model.GameState{
		Config:      smallConfig,
		Boards:      []model.BoardState{{Answer: "GHOST"}, {Answer: "PLUMB"}},
		Guesses:     []string{"CRANE"},
		Status:      model.StatusPlaying,
		Mode:        model.ModeFree,
		DailyNumber: 3,
		GameID:      "free-3-x",
	}

	state := s.apply(current, LoadState{State: saved})

	want := saved.Clone()
	want.Keyboard = model.KeyboardState{}
	s.Empty(cmp.Diff(want, state))
}

// EvaluationForBoard

func TestEvaluationForBoard(t *testing.T) {
	state := model.GameState{
		Config: smallConfig,
		Boards: []model.BoardState{
			{Answer: "CRANE", Solved: true, SolvedAtGuess: model.IntPtr(0)},
			{Answer: "SLATE"},
		},
		Guesses: []string{"CRANE", "STALE"},
	}

	tests := []struct {
		name  string
		board int
		guess int
		want  []model.TileState
	}{
		{"solving guess", 0, 0, []model.TileState{
			model.TileCorrect, model.TileCorrect, model.TileCorrect, model.TileCorrect, model.TileCorrect,
		}},
		{"after solve", 0, 1, model.EmptyRow(5)},
		{"unsolved board", 1, 1, []model.TileState{
			model.TileCorrect, model.TilePresent, model.TileCorrect, model.TilePresent, model.TileCorrect,
		}},
		{"unknown board", 2, 0, model.EmptyRow(5)},
		{"negative board", -1, 0, model.EmptyRow(5)},
		{"unknown guess", 1, 2, model.EmptyRow(5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluationForBoard(state, tt.board, tt.guess))
		})
	}
}

// Full-size daily puzzle with the bundled dictionary

func TestDailyPuzzleEndToEnd(t *testing.T) {
	logger := testutil.NopLogger()
	dict := dictionary.New(logger)
	require.NoError(t, dict.LoadEmbedded())

	clk := mocks.NewMockClock(time.Date(2025, 1, 1, 14, 0, 0, 0, time.UTC))
	rng := mocks.NewMockRandom()
	reducer := NewReducer(clk, rng, puzzle.NewSelector(dict, rng, logger), puzzle.DefaultCalendar())

	cfg := model.NewConfig(6, 32, 37)
	state, err := reducer.Apply(model.GameState{}, NewGame{Mode: model.ModeDaily, Config: &cfg})
	require.NoError(t, err)
	require.Equal(t, 1, state.DailyNumber)
	require.Len(t, state.Boards, 32)
	require.Equal(t, "ACTION", state.Boards[1].Answer)

	state, err = reducer.Apply(state, SubmitGuess{Guess: "ACTION"})
	require.NoError(t, err)

	for i, board := range state.Boards {
		if i == 1 {
			assert.True(t, board.Solved)
			assert.Equal(t, 0, *board.SolvedAtGuess)
			continue
		}
		assert.False(t, board.Solved, "board %d", i)
		row := EvaluationForBoard(state, i, 0)
		assert.Len(t, row, 6)
		assert.NotContains(t, row, model.TileEmpty, "board %d", i)
	}
	assert.Equal(t, model.StatusPlaying, state.Status)
	assert.Equal(t, 1, state.SolvedCount())
}

func TestDailyPuzzleLosesAfterMaxGuesses(t *testing.T) {
	logger := testutil.NopLogger()
	dict := dictionary.New(logger)
	require.NoError(t, dict.LoadEmbedded())

	clk := mocks.NewMockClock(time.Date(2025, 1, 1, 14, 0, 0, 0, time.UTC))
	rng := mocks.NewMockRandom()
	reducer := NewReducer(clk, rng, puzzle.NewSelector(dict, rng, logger), puzzle.DefaultCalendar())

	cfg := model.NewConfig(6, 32, 37)
	state, err := reducer.Apply(model.GameState{}, NewGame{Mode: model.ModeDaily, Config: &cfg})
	require.NoError(t, err)

	// Guess words that are not answers until the budget runs out
	answers := make(map[string]bool)
	for _, b := range state.Boards {
		answers[b.Answer] = true
	}
	var guesses []string
	for _, w := range dict.LoadDictionary(6) {
		if !answers[w] {
			guesses = append(guesses, w)
		}
		if len(guesses) == cfg.MaxGuesses {
			break
		}
	}
	require.Len(t, guesses, cfg.MaxGuesses)

	for i, g := range guesses {
		for _, r := range g {
			state, err = reducer.Apply(state, AddLetter{Letter: r})
			require.NoError(t, err)
		}
		state, err = reducer.Apply(state, SubmitGuess{Guess: g})
		require.NoError(t, err)
		if i < len(guesses)-1 {
			require.Equal(t, model.StatusPlaying, state.Status)
		}
	}

	assert.Equal(t, model.StatusLost, state.Status)
	assert.Equal(t, "", state.CurrentGuess)
	assert.Zero(t, state.SolvedCount())
}
