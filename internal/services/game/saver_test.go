package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/dotriacontordle/internal/dependencies/clock"
	"github.com/mcoot/dotriacontordle/internal/dependencies/mocks"
	"github.com/mcoot/dotriacontordle/internal/model"
	"github.com/mcoot/dotriacontordle/internal/testutil"
)

type recordingSink struct {
	mu    sync.Mutex
	saved []string
	err   error
}

func (r *recordingSink) save(_ context.Context, state model.GameState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, state.CurrentGuess)
	return r.err
}

func (r *recordingSink) writes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.saved...)
}

func typed(guess string) model.GameState {
	return model.GameState{CurrentGuess: guess}
}

func TestSaverCoalescesWithinWindow(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	sink := &recordingSink{}
	saver := NewSaver(clk, 0, sink.save, testutil.NopLogger())

	saver.MarkDirty(typed("C"))
	clk.Advance(100 * time.Millisecond)
	saver.MarkDirty(typed("CR"))
	saver.MarkDirty(typed("CRA"))
	assert.Equal(t, 1, clk.PendingTimers())

	clk.Advance(149 * time.Millisecond)
	assert.Empty(t, sink.writes())
	assert.True(t, saver.Dirty())

	clk.Advance(time.Millisecond)
	assert.Equal(t, []string{"CRA"}, sink.writes())
	assert.False(t, saver.Dirty())
	assert.Zero(t, clk.PendingTimers())

	require.NoError(t, saver.Close(context.Background()))
}

func TestSaverReschedulesAfterWrite(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	sink := &recordingSink{}
	saver := NewSaver(clk, 50*time.Millisecond, sink.save, testutil.NopLogger())

	saver.MarkDirty(typed("A"))
	clk.Advance(50 * time.Millisecond)
	saver.MarkDirty(typed("AB"))
	clk.Advance(50 * time.Millisecond)

	assert.Equal(t, []string{"A", "AB"}, sink.writes())
	require.NoError(t, saver.Close(context.Background()))
}

func TestSaverFlushWritesImmediately(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	sink := &recordingSink{}
	saver := NewSaver(clk, 0, sink.save, testutil.NopLogger())

	saver.MarkDirty(typed("CRANE"))
	require.NoError(t, saver.Flush(context.Background()))

	assert.Equal(t, []string{"CRANE"}, sink.writes())
	assert.Zero(t, clk.PendingTimers())

	// Nothing left to write once the window passes
	clk.Advance(time.Second)
	assert.Equal(t, []string{"CRANE"}, sink.writes())
	require.NoError(t, saver.Close(context.Background()))
}

func TestSaverFlushWithNothingPending(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	sink := &recordingSink{}
	saver := NewSaver(clk, 0, sink.save, testutil.NopLogger())

	require.NoError(t, saver.Flush(context.Background()))
	assert.Empty(t, sink.writes())
	require.NoError(t, saver.Close(context.Background()))
}

func TestSaverFlushWritesLatestAndCancelsTimer(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	sink := &recordingSink{}
	saver := NewSaver(clk, 0, sink.save, testutil.NopLogger())

	saver.MarkDirty(typed("CR"))
	saver.MarkDirty(typed(""))
	require.NoError(t, saver.Flush(context.Background()))

	assert.Equal(t, []string{""}, sink.writes())
	assert.Zero(t, clk.PendingTimers())
	require.NoError(t, saver.Close(context.Background()))
}

func TestSaverReturnsWriteError(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	boom := errors.New("disk full")
	sink := &recordingSink{err: boom}
	saver := NewSaver(clk, 0, sink.save, testutil.NopLogger())

	saver.MarkDirty(typed("A"))
	assert.ErrorIs(t, saver.Flush(context.Background()), boom)

	// A failing debounced write is logged, not fatal
	saver.MarkDirty(typed("AB"))
	clk.Advance(DefaultSaveDelay)
	assert.Equal(t, []string{"A", "AB"}, sink.writes())

	require.NoError(t, saver.Close(context.Background()))
}

func TestSaverCloseFlushesAndStops(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	sink := &recordingSink{}
	saver := NewSaver(clk, 0, sink.save, testutil.NopLogger())

	saver.MarkDirty(typed("SLA"))
	require.NoError(t, saver.Close(context.Background()))
	assert.Equal(t, []string{"SLA"}, sink.writes())
	assert.Zero(t, clk.PendingTimers())

	saver.MarkDirty(typed("SLAT"))
	assert.Zero(t, clk.PendingTimers())
	clk.Advance(time.Second)
	assert.Equal(t, []string{"SLA"}, sink.writes())
}

func TestSaverWithRealClock(t *testing.T) {
	sink := &recordingSink{}
	saver := NewSaver(clock.New(), 50*time.Millisecond, sink.save, testutil.NopLogger())

	saver.MarkDirty(typed("G"))
	saver.MarkDirty(typed("GH"))

	assert.Eventually(t, func() bool {
		return len(sink.writes()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"GH"}, sink.writes())

	saver.MarkDirty(typed("GHO"))
	require.NoError(t, saver.Close(context.Background()))
	assert.Equal(t, []string{"GH", "GHO"}, sink.writes())
}
