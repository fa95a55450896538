package game

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/dotriacontordle/internal/dependencies/clock"
	"github.com/mcoot/dotriacontordle/internal/model"
)

// DefaultSaveDelay is how long typing is coalesced before it is written
const DefaultSaveDelay = 250 * time.Millisecond

// SaveFunc writes a game state durably
type SaveFunc func(ctx context.Context, state model.GameState) error

// Saver coalesces rapid state changes into one write per interval.
// Flush writes the latest pending state immediately.
type Saver struct {
	clock  clock.Clock
	delay  time.Duration
	save   SaveFunc
	logger *slog.Logger

	mu      sync.Mutex
	pending *model.GameState
	timer   clock.Timer
	closed  bool

	// saveMu keeps writes in the order their states were taken
	saveMu sync.Mutex
	wg     sync.WaitGroup
}

// NewSaver creates a Saver. A non-positive delay uses DefaultSaveDelay.
func NewSaver(clk clock.Clock, delay time.Duration, save SaveFunc, logger *slog.Logger) *Saver {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	return &Saver{
		clock:  clk,
		delay:  delay,
		save:   save,
		logger: logger,
	}
}

// MarkDirty records state as the next one to write and schedules a write if
// none is pending. It is a no-op after Close.
func (s *Saver) MarkDirty(state model.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	snapshot := state.Clone()
	s.pending = &snapshot
	if s.timer == nil {
		s.wg.Add(1)
		s.timer = s.clock.AfterFunc(s.delay, s.fire)
	}
}

// Dirty reports whether a write is pending
func (s *Saver) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Flush cancels any scheduled write and writes the pending state now
func (s *Saver) Flush(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	s.stopTimerLocked()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if pending == nil {
		return nil
	}
	return s.save(ctx, *pending)
}

// Close flushes pending work and waits for any in-flight scheduled write
func (s *Saver) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	err := s.Flush(ctx)
	s.wg.Wait()
	return err
}

func (s *Saver) fire() {
	defer s.wg.Done()
	if err := s.Flush(context.Background()); err != nil {
		s.logger.Warn("debounced save failed", slog.String("error", err.Error()))
	}
}

func (s *Saver) stopTimerLocked() {
	if s.timer == nil {
		return
	}
	if s.timer.Stop() {
		s.wg.Done()
	}
	s.timer = nil
}
