package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/dotriacontordle/internal/model"
)

var (
	hydrateNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	savedAt    = hydrateNow.Add(-time.Hour)
)

func savedAtMillis() *int64 {
	ms := savedAt.UnixMilli()
	return &ms
}

func TestHydrateEmptySnapshot(t *testing.T) {
	state := Hydrate(model.ModeFree, Snapshot{}, model.NewConfig(5, 8, 12), hydrateNow)

	assert.Equal(t, model.NewConfig(5, 8, 12), state.Config)
	assert.Equal(t, model.StatusPlaying, state.Status)
	assert.Equal(t, model.ModeFree, state.Mode)
	assert.Equal(t, 1, state.DailyNumber)
	assert.Nil(t, state.StartedAt)
	assert.Nil(t, state.EndedAt)
	assert.False(t, state.TimerRunning)
	assert.Zero(t, state.TimerBaseElapsed)
	assert.NotNil(t, state.Keyboard)
	assert.Equal(t, "free-5x8x12-1-1740830400000", state.GameID)
}

func TestHydrateInfersStartForProgress(t *testing.T) {
	snap := Snapshot{Guesses: []string{"CASTLE"}, SavedAt: savedAtMillis(), DailyNumber: model.IntPtr(9)}

	state := Hydrate(model.ModeDaily, snap, model.DefaultConfig(), hydrateNow)

	require.NotNil(t, state.StartedAt)
	assert.True(t, state.StartedAt.Equal(savedAt))
	assert.Nil(t, state.EndedAt)
	assert.True(t, state.TimerRunning)
	require.NotNil(t, state.TimerResumedAt)
	assert.True(t, state.TimerResumedAt.Equal(hydrateNow))
	assert.Equal(t, time.Hour, state.TimerBaseElapsed)
	assert.Equal(t, "daily-6x32x37-9-"+"1740826800000", state.GameID)
}

func TestHydrateTypingCountsAsProgress(t *testing.T) {
	snap := Snapshot{CurrentGuess: ptr("CAS"), SavedAt: savedAtMillis()}

	state := Hydrate(model.ModeFree, snap, model.DefaultConfig(), hydrateNow)

	assert.NotNil(t, state.StartedAt)
	assert.Equal(t, "CAS", state.CurrentGuess)
}

func TestHydrateTerminalFreezesTimer(t *testing.T) {
	start := savedAt.Add(-10 * time.Minute).UnixMilli()
	snap := Snapshot{
		Guesses:    []string{"CASTLE"},
		GameStatus: "won",
		StartedAt:  &start,
		SavedAt:    savedAtMillis(),
	}

	state := Hydrate(model.ModeFree, snap, model.DefaultConfig(), hydrateNow)

	assert.Equal(t, model.StatusWon, state.Status)
	require.NotNil(t, state.EndedAt)
	assert.True(t, state.EndedAt.Equal(savedAt))
	assert.Equal(t, 10*time.Minute, state.TimerBaseElapsed)
	assert.False(t, state.TimerRunning)
	assert.Nil(t, state.TimerResumedAt)
}

func TestHydrateKeepsExplicitTimerFields(t *testing.T) {
	start := savedAt.Add(-10 * time.Minute).UnixMilli()
	resumed := savedAt.Add(-time.Minute).UnixMilli()
	elapsed := int64(5000)
	running := true
	snap := Snapshot{
		Guesses:            []string{"CASTLE"},
		StartedAt:          &start,
		TimerRunning:       &running,
		TimerBaseElapsedMs: &elapsed,
		TimerResumedAt:     &resumed,
		GameID:             "kept",
	}

	state := Hydrate(model.ModeFree, snap, model.DefaultConfig(), hydrateNow)

	assert.Equal(t, 5*time.Second, state.TimerBaseElapsed)
	assert.True(t, state.TimerRunning)
	assert.True(t, state.TimerResumedAt.Equal(time.UnixMilli(resumed)))
	assert.Equal(t, "kept", state.GameID)
}

func TestHydratePausedTimerDropsResumedAt(t *testing.T) {
	resumed := savedAt.UnixMilli()
	running := false
	snap := Snapshot{Guesses: []string{"CASTLE"}, TimerRunning: &running, TimerResumedAt: &resumed}

	state := Hydrate(model.ModeFree, snap, model.DefaultConfig(), hydrateNow)

	assert.False(t, state.TimerRunning)
	assert.Nil(t, state.TimerResumedAt)
}

func TestHydrateUnknownStatusIsPlaying(t *testing.T) {
	state := Hydrate(model.ModeFree, Snapshot{GameStatus: "paused"}, model.DefaultConfig(), hydrateNow)
	assert.Equal(t, model.StatusPlaying, state.Status)
}

func TestHydrateSnapshotConfigWins(t *testing.T) {
	snap := Snapshot{Config: &ConfigSnapshot{WordLength: 12, BoardCount: 4, MaxGuesses: 9}}

	state := Hydrate(model.ModeFree, snap, model.DefaultConfig(), hydrateNow)

	assert.Equal(t, model.NewConfig(10, 4, 9), state.Config)
}

func TestNewSnapshotRoundTrip(t *testing.T) {
	started := hydrateNow.Add(-time.Hour)
	state := model.GameState{
		Config:           model.DefaultConfig(),
		Boards:           []model.BoardState{{Answer: "ACTION", Solved: true, SolvedAtGuess: model.IntPtr(0)}},
		Guesses:          []string{"ACTION"},
		Status:           model.StatusWon,
		Keyboard:         model.KeyboardState{"A": model.TileCorrect},
		Mode:             model.ModeDaily,
		DailyNumber:      4,
		StartedAt:        &started,
		EndedAt:          model.TimePtr(hydrateNow),
		TimerBaseElapsed: time.Hour,
		GameID:           "g",
	}

	snap := NewSnapshot(state, hydrateNow)
	assert.Equal(t, hydrateNow.UnixMilli(), *snap.SavedAt)
	assert.Equal(t, "6x32x37", snap.Config.ProfileID)

	back := Hydrate(model.ModeDaily, snap, model.NewConfig(4, 1, 1), hydrateNow.Add(time.Hour))
	assert.Equal(t, state.Guesses, back.Guesses)
	assert.Equal(t, state.Boards, back.Boards)
	assert.Equal(t, time.Hour, back.TimerBaseElapsed)
	assert.True(t, back.EndedAt.Equal(hydrateNow))
	assert.Equal(t, model.DefaultConfig(), back.Config)
}

func ptr[T any](v T) *T {
	return &v
}
