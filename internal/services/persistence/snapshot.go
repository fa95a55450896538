package persistence

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/mcoot/dotriacontordle/internal/model"
)

// Snapshot is the stored JSON form of a game. Every field is optional so that
// records written by older or newer versions still load.
type Snapshot struct {
	Config        *ConfigSnapshot            `json:"config,omitempty"`
	Boards        []BoardSnapshot            `json:"boards,omitempty"`
	Guesses       []string                   `json:"guesses,omitempty"`
	CurrentGuess  *string                    `json:"currentGuess,omitempty"`
	GameStatus    string                     `json:"gameStatus,omitempty"`
	KeyboardState map[string]model.TileState `json:"keyboardState,omitempty"`
	ExpandedBoard *int                       `json:"expandedBoard"`
	GameMode      string                     `json:"gameMode,omitempty"`
	DailyNumber   *int                       `json:"dailyNumber,omitempty"`

	// Timer fields are epoch milliseconds
	StartedAt          *int64 `json:"startedAt"`
	EndedAt            *int64 `json:"endedAt"`
	TimerRunning       *bool  `json:"timerRunning,omitempty"`
	TimerBaseElapsedMs *int64 `json:"timerBaseElapsedMs,omitempty"`
	TimerResumedAt     *int64 `json:"timerResumedAt"`
	TimerToggledAt     *int64 `json:"timerToggledAt"`

	GameID  string `json:"gameId,omitempty"`
	SavedAt *int64 `json:"savedAt,omitempty"`
}

// ConfigSnapshot is the stored form of a GameConfig
type ConfigSnapshot struct {
	WordLength int    `json:"wordLength"`
	BoardCount int    `json:"boardCount"`
	MaxGuesses int    `json:"maxGuesses"`
	ProfileID  string `json:"profileId"`
}

// BoardSnapshot is the stored form of a BoardState
type BoardSnapshot struct {
	Answer        string `json:"answer"`
	Solved        bool   `json:"solved"`
	SolvedAtGuess *int   `json:"solvedAtGuess"`
}

// NewSnapshot captures state for storage, stamped with savedAt
func NewSnapshot(state model.GameState, savedAt time.Time) Snapshot {
	cfg := model.NormalizeConfig(state.Config)
	elapsed := state.TimerBaseElapsed.Milliseconds()
	running := state.TimerRunning

	return Snapshot{
		Config: &ConfigSnapshot{
			WordLength: cfg.WordLength,
			BoardCount: cfg.BoardCount,
			MaxGuesses: cfg.MaxGuesses,
			ProfileID:  cfg.ProfileID,
		},
		Boards: lo.Map(state.Boards, func(b model.BoardState, _ int) BoardSnapshot {
			return BoardSnapshot{Answer: b.Answer, Solved: b.Solved, SolvedAtGuess: copyInt(b.SolvedAtGuess)}
		}),
		Guesses:            append([]string(nil), state.Guesses...),
		CurrentGuess:       lo.ToPtr(state.CurrentGuess),
		GameStatus:         string(state.Status),
		KeyboardState:      state.Keyboard.Clone(),
		ExpandedBoard:      copyInt(state.ExpandedBoard),
		GameMode:           string(state.Mode),
		DailyNumber:        lo.ToPtr(state.DailyNumber),
		StartedAt:          toMillis(state.StartedAt),
		EndedAt:            toMillis(state.EndedAt),
		TimerRunning:       &running,
		TimerBaseElapsedMs: &elapsed,
		TimerResumedAt:     toMillis(state.TimerResumedAt),
		TimerToggledAt:     toMillis(state.TimerToggledAt),
		GameID:             state.GameID,
		SavedAt:            lo.ToPtr(savedAt.UnixMilli()),
	}
}

// Hydrate turns a stored snapshot into a playable state, inferring whatever
// the snapshot lacks. now stands in for savedAt when that is missing too.
func Hydrate(mode model.GameMode, snap Snapshot, fallback model.GameConfig, now time.Time) model.GameState {
	cfg := model.NormalizeConfig(fallback)
	if snap.Config != nil {
		cfg = model.NewConfig(snap.Config.WordLength, snap.Config.BoardCount, snap.Config.MaxGuesses)
	}

	savedAt := now
	if snap.SavedAt != nil {
		savedAt = time.UnixMilli(*snap.SavedAt)
	}

	status := model.StatusPlaying
	if s := model.GameStatus(snap.GameStatus); s.IsTerminal() {
		status = s
	}

	guesses := append([]string{}, snap.Guesses...)
	currentGuess := lo.FromPtr(snap.CurrentGuess)
	hasProgress := len(guesses) > 0 || currentGuess != ""

	startedAt := fromMillis(snap.StartedAt)
	if startedAt == nil && hasProgress {
		startedAt = model.TimePtr(savedAt)
	}

	endedAt := fromMillis(snap.EndedAt)
	if endedAt == nil && status.IsTerminal() {
		endedAt = model.TimePtr(savedAt)
	}

	var baseElapsed time.Duration
	switch {
	case snap.TimerBaseElapsedMs != nil:
		baseElapsed = time.Duration(*snap.TimerBaseElapsedMs) * time.Millisecond
	case startedAt == nil:
	case status.IsTerminal():
		baseElapsed = max(0, endedAt.Sub(*startedAt))
	default:
		baseElapsed = max(0, now.Sub(*startedAt))
	}

	running := status == model.StatusPlaying && startedAt != nil
	if snap.TimerRunning != nil {
		running = *snap.TimerRunning
	}

	var resumedAt *time.Time
	if running {
		resumedAt = fromMillis(snap.TimerResumedAt)
		if resumedAt == nil {
			resumedAt = model.TimePtr(now)
		}
	}

	dailyNumber := 1
	if snap.DailyNumber != nil {
		dailyNumber = *snap.DailyNumber
	}

	gameID := snap.GameID
	if gameID == "" {
		gameID = fmt.Sprintf("%s-%s-%d-%d", mode, cfg.ProfileID, dailyNumber, savedAt.UnixMilli())
	}

	keyboard := make(model.KeyboardState, len(snap.KeyboardState))
	for letter, state := range snap.KeyboardState {
		keyboard[letter] = state
	}

	return model.GameState{
		Config: cfg,
		Boards: lo.Map(snap.Boards, func(b BoardSnapshot, _ int) model.BoardState {
			return model.BoardState{Answer: b.Answer, Solved: b.Solved, SolvedAtGuess: copyInt(b.SolvedAtGuess)}
		}),
		Guesses:          guesses,
		CurrentGuess:     currentGuess,
		Status:           status,
		Keyboard:         keyboard,
		ExpandedBoard:    copyInt(snap.ExpandedBoard),
		Mode:             mode,
		DailyNumber:      dailyNumber,
		StartedAt:        startedAt,
		EndedAt:          endedAt,
		TimerRunning:     running,
		TimerBaseElapsed: baseElapsed,
		TimerResumedAt:   resumedAt,
		TimerToggledAt:   fromMillis(snap.TimerToggledAt),
		GameID:           gameID,
	}
}

func toMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	return lo.ToPtr(t.UnixMilli())
}

func fromMillis(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	return model.TimePtr(time.UnixMilli(*ms))
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	return lo.ToPtr(*p)
}
