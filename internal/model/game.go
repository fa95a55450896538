package model

import "time"

// GameMode selects how the answer set is chosen
type GameMode string

const (
	ModeDaily GameMode = "daily" // Shared puzzle derived from the daily number
	ModeFree  GameMode = "free"  // Random puzzle
)

// ParseGameMode maps free-form input to a mode, defaulting to daily
func ParseGameMode(s string) GameMode {
	if GameMode(s) == ModeFree {
		return ModeFree
	}
	return ModeDaily
}

// GameStatus represents the lifecycle phase of a game
type GameStatus string

const (
	StatusPlaying GameStatus = "playing"
	StatusWon     GameStatus = "won"  // Terminal: every board solved
	StatusLost    GameStatus = "lost" // Terminal: guesses exhausted
)

// IsTerminal reports whether the status can no longer change
func (s GameStatus) IsTerminal() bool {
	return s == StatusWon || s == StatusLost
}

// BoardState tracks one target word
type BoardState struct {
	Answer        string
	Solved        bool
	SolvedAtGuess *int // Index into GameState.Guesses, nil until solved
}

// GameState is a full snapshot of a single puzzle in progress
type GameState struct {
	Config        GameConfig
	Boards        []BoardState
	Guesses       []string
	CurrentGuess  string
	Status        GameStatus
	Keyboard      KeyboardState
	ExpandedBoard *int
	Mode          GameMode
	DailyNumber   int

	// Timer
	StartedAt        *time.Time
	EndedAt          *time.Time
	TimerRunning     bool
	TimerBaseElapsed time.Duration
	TimerResumedAt   *time.Time
	TimerToggledAt   *time.Time

	GameID string
}

// Clone returns a deep copy of the state
func (s GameState) Clone() GameState {
	out := s
	out.Boards = make([]BoardState, len(s.Boards))
	for i, b := range s.Boards {
		out.Boards[i] = b
		if b.SolvedAtGuess != nil {
			idx := *b.SolvedAtGuess
			out.Boards[i].SolvedAtGuess = &idx
		}
	}
	out.Guesses = append([]string(nil), s.Guesses...)
	out.Keyboard = s.Keyboard.Clone()
	out.ExpandedBoard = cloneInt(s.ExpandedBoard)
	out.StartedAt = cloneTime(s.StartedAt)
	out.EndedAt = cloneTime(s.EndedAt)
	out.TimerResumedAt = cloneTime(s.TimerResumedAt)
	out.TimerToggledAt = cloneTime(s.TimerToggledAt)
	return out
}

// SolvedCount returns the number of solved boards
func (s GameState) SolvedCount() int {
	n := 0
	for _, b := range s.Boards {
		if b.Solved {
			n++
		}
	}
	return n
}

// HasProgress reports whether the player has typed or guessed anything
func (s GameState) HasProgress() bool {
	return len(s.Guesses) > 0 || len(s.CurrentGuess) > 0
}

// Elapsed returns the timer value at now
func (s GameState) Elapsed(now time.Time) time.Duration {
	if s.TimerRunning && s.TimerResumedAt != nil {
		return s.TimerBaseElapsed + now.Sub(*s.TimerResumedAt)
	}
	return s.TimerBaseElapsed
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}

// TimePtr returns a pointer to t
func TimePtr(t time.Time) *time.Time {
	return &t
}
