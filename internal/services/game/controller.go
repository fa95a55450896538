package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"github.com/mcoot/dotriacontordle/internal/dependencies/clock"
	"github.com/mcoot/dotriacontordle/internal/events"
	"github.com/mcoot/dotriacontordle/internal/model"
	"github.com/mcoot/dotriacontordle/internal/services/evaluation"
	"github.com/mcoot/dotriacontordle/internal/services/persistence"
	"github.com/mcoot/dotriacontordle/internal/services/validation"
)

// Submit lifecycle
const (
	submitIdle       = "idle"
	submitValidating = "validating"

	eventValidate = "validate"
	eventSettle   = "settle"
)

// SubmitOutcome describes an accepted (or ignored) submission
type SubmitOutcome struct {
	// Ignored is set when another submission was still being validated
	Ignored bool

	Guess      string
	GuessIndex int
	SolvedNow  []int
	Status     model.GameStatus

	// Stats is set when the guess ended the game
	Stats *model.GameStats
}

// Controller owns one player's game: it applies actions, validates
// submissions, saves state and notifies subscribers
type Controller struct {
	mu    sync.Mutex
	state model.GameState

	reducer   *Reducer
	validator validation.Validator
	store     *persistence.Store
	saver     *Saver
	hub       *events.Hub
	ownsHub   bool
	submit    *fsm.FSM
	clock     clock.Clock
	logger    *slog.Logger
}

// NewController creates a Controller. If hub is nil the controller runs its
// own and closes it on Close.
func NewController(
	reducer *Reducer,
	validator validation.Validator,
	store *persistence.Store,
	hub *events.Hub,
	clock clock.Clock,
	saveDelay time.Duration,
	logger *slog.Logger,
) *Controller {
	c := &Controller{
		reducer:   reducer,
		validator: validator,
		store:     store,
		hub:       hub,
		clock:     clock,
		logger:    logger,
		submit: fsm.NewFSM(
			submitIdle,
			fsm.Events{
				{Name: eventValidate, Src: []string{submitIdle}, Dst: submitValidating},
				{Name: eventSettle, Src: []string{submitValidating}, Dst: submitIdle},
			},
			fsm.Callbacks{},
		),
	}
	c.saver = NewSaver(clock, saveDelay, store.SaveGame, logger)
	if c.hub == nil {
		c.hub = events.NewHub("game", logger)
		c.ownsHub = true
		c.hub.Start(context.Background())
	}
	return c
}

// State returns a copy of the current game
func (c *Controller) State() model.GameState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Validating reports whether a submission is waiting on word validation
func (c *Controller) Validating() bool {
	return c.submit.Current() == submitValidating
}

// AddLetter appends a letter to the current guess
func (c *Controller) AddLetter(letter rune) error {
	_, err := c.dispatch(AddLetter{Letter: letter}, model.EventStateChanged)
	return err
}

// RemoveLetter deletes the last letter of the current guess
func (c *Controller) RemoveLetter() {
	_, _ = c.dispatch(RemoveLetter{}, model.EventStateChanged)
}

// ToggleTimer starts, pauses or resumes the timer
func (c *Controller) ToggleTimer() {
	_, _ = c.dispatch(ToggleTimer{}, model.EventStateChanged)
}

// SetExpandedBoard selects the board for the single-board view
func (c *Controller) SetExpandedBoard(board *int) error {
	_, err := c.dispatch(SetExpandedBoard{Board: board}, model.EventStateChanged)
	return err
}

// NewGame deals a fresh game and saves it
func (c *Controller) NewGame(ctx context.Context, mode model.GameMode, dailyNumber *int, cfg *model.GameConfig) error {
	// The outgoing game keeps its unsaved typing
	_ = c.saver.Flush(ctx)

	t, err := c.dispatch(NewGame{Mode: mode, DailyNumber: dailyNumber, Config: cfg}, model.EventNewGame)
	if err != nil {
		c.logger.Warn("failed to start game", slog.String("mode", string(mode)), slog.String("error", err.Error()))
		return err
	}
	c.logger.Info("game created",
		slog.String("game_id", t.state.GameID),
		slog.String("mode", string(t.state.Mode)),
		slog.String("profile", t.state.Config.ProfileID),
		slog.Int("daily_number", t.state.DailyNumber),
	)
	_ = c.saver.Flush(ctx)
	return nil
}

// LoadState resumes a previously saved game
func (c *Controller) LoadState(ctx context.Context, state model.GameState) error {
	t, err := c.dispatch(LoadState{State: state}, model.EventStateLoaded)
	if err != nil {
		return err
	}
	c.logger.Info("game resumed",
		slog.String("game_id", t.state.GameID),
		slog.String("mode", string(t.state.Mode)),
		slog.Int("guesses", len(t.state.Guesses)),
	)
	_ = c.saver.Flush(ctx)
	return nil
}

// SubmitGuess submits the letters typed so far
func (c *Controller) SubmitGuess(ctx context.Context) (SubmitOutcome, error) {
	c.mu.Lock()
	guess := c.state.CurrentGuess
	c.mu.Unlock()
	return c.SubmitWord(ctx, guess)
}

// SubmitWord validates word and, if it is accepted, scores it on every board.
// A call made while another submission is validating is ignored. The guess is
// applied to the state as it is once validation finishes, and is saved before
// SubmitWord returns.
func (c *Controller) SubmitWord(ctx context.Context, word string) (SubmitOutcome, error) {
	if err := c.submit.Event(context.Background(), eventValidate); err != nil {
		c.logger.Debug("submission ignored while validating", slog.String("guess", word))
		return SubmitOutcome{Ignored: true}, nil
	}
	defer func() { _ = c.submit.Event(context.Background(), eventSettle) }()

	guess := evaluation.Upper(strings.TrimSpace(word))

	c.mu.Lock()
	err := checkGuess(c.state, guess)
	wordLength := c.state.Config.WordLength
	c.mu.Unlock()
	if err != nil {
		return SubmitOutcome{}, err
	}

	valid, err := c.validator.Validate(ctx, guess, wordLength)
	if err != nil {
		if !errors.Is(err, model.ErrValidationUnavailable) {
			err = fmt.Errorf("%w: %w", model.ErrValidationUnavailable, err)
		}
		c.logger.Warn("word validation failed", slog.String("guess", guess), slog.String("error", err.Error()))
		return SubmitOutcome{}, err
	}
	if !valid {
		return SubmitOutcome{}, fmt.Errorf("%w: %s", model.ErrNotAWord, guess)
	}

	c.mu.Lock()
	t, err := c.reducer.step(c.state, SubmitGuess{Guess: guess})
	if err != nil {
		c.mu.Unlock()
		return SubmitOutcome{}, err
	}
	c.state = t.state
	state := c.state.Clone()
	c.saver.MarkDirty(state)
	eventType := model.EventGuessAccepted
	switch state.Status {
	case model.StatusWon:
		eventType = model.EventGameWon
	case model.StatusLost:
		eventType = model.EventGameLost
	}
	c.publishLocked(eventType, t.solved)
	c.mu.Unlock()

	_ = c.saver.Flush(ctx)

	outcome := SubmitOutcome{
		Guess:      guess,
		GuessIndex: len(state.Guesses) - 1,
		SolvedNow:  t.solved,
		Status:     state.Status,
	}
	if state.Status.IsTerminal() {
		stats := c.recordResult(ctx, state)
		outcome.Stats = &stats
	}
	return outcome, nil
}

func (c *Controller) recordResult(ctx context.Context, state model.GameState) model.GameStats {
	var dailyNumber *int
	if state.Mode == model.ModeDaily {
		dailyNumber = model.IntPtr(state.DailyNumber)
	}
	won := state.Status == model.StatusWon
	c.logger.Info("game completed",
		slog.String("game_id", state.GameID),
		slog.Bool("won", won),
		slog.Int("guesses", len(state.Guesses)),
		slog.Int("solved", state.SolvedCount()),
		slog.Duration("elapsed", state.TimerBaseElapsed),
	)
	return c.store.UpdateStatsAfterGame(ctx, won, len(state.Guesses), state.Config, dailyNumber)
}

// SwitchMode moves to another mode, daily puzzle or profile. With resume set,
// an in-progress saved game for the target is loaded; otherwise a new game is
// dealt. Nothing happens if the target is the current game.
func (c *Controller) SwitchMode(ctx context.Context, mode model.GameMode, dailyNumber *int, cfg *model.GameConfig, resume bool) error {
	c.mu.Lock()
	current := c.state
	c.mu.Unlock()

	nextCfg := current.Config
	if cfg != nil {
		nextCfg = *cfg
	}
	nextCfg = model.NormalizeConfig(nextCfg)

	target := c.reducer.Today()
	if dailyNumber != nil {
		target = max(1, *dailyNumber)
	}

	switchingModes := current.Mode != mode
	switchingDaily := mode == model.ModeDaily && current.Mode == model.ModeDaily && current.DailyNumber != target
	switchingConfig := current.Config.ProfileID != nextCfg.ProfileID
	if current.GameID != "" && !switchingModes && !switchingDaily && !switchingConfig {
		return nil
	}

	_ = c.saver.Flush(ctx)

	var saved *model.GameState
	if mode == model.ModeDaily {
		saved = c.store.LoadGame(ctx, mode, &target, nextCfg)
	} else {
		saved = c.store.LoadGame(ctx, mode, nil, nextCfg)
	}
	if resume && saved != nil && saved.Status == model.StatusPlaying && saved.HasProgress() {
		return c.LoadState(ctx, *saved)
	}

	var next *int
	if mode == model.ModeDaily {
		next = &target
	}
	return c.NewGame(ctx, mode, next, &nextCfg)
}

// Bootstrap picks the game a session starts on: an unfinished free game if
// free play was last, else today's daily (finished or not), else a new daily.
func (c *Controller) Bootstrap(ctx context.Context, preferred model.GameConfig) error {
	preferred = model.NormalizeConfig(preferred)
	today := c.reducer.Today()

	if c.store.LastMode(ctx) == model.ModeFree {
		if saved := c.store.LoadGame(ctx, model.ModeFree, nil, preferred); saved != nil && saved.Status == model.StatusPlaying {
			return c.LoadState(ctx, *saved)
		}
	}
	if saved := c.store.LoadGame(ctx, model.ModeDaily, &today, preferred); saved != nil {
		return c.LoadState(ctx, *saved)
	}
	return c.NewGame(ctx, model.ModeDaily, &today, &preferred)
}

// Stats returns the statistics for the current game's profile
func (c *Controller) Stats(ctx context.Context) model.GameStats {
	c.mu.Lock()
	cfg := c.state.Config
	c.mu.Unlock()
	return c.store.LoadStats(ctx, cfg)
}

// Settings returns the player's saved preferences
func (c *Controller) Settings(ctx context.Context) model.Settings {
	return c.store.LoadSettings(ctx)
}

// UpdateSettings saves preferences; they apply from the next new game
func (c *Controller) UpdateSettings(ctx context.Context, settings model.Settings) (model.Settings, error) {
	settings = settings.Normalized()
	if err := c.store.SaveSettings(ctx, settings); err != nil {
		return settings, err
	}
	return settings, nil
}

// EvaluationForBoard returns how a past guess scored on one board
func (c *Controller) EvaluationForBoard(boardIndex, guessIndex int) []model.TileState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return EvaluationForBoard(c.state, boardIndex, guessIndex)
}

// Subscribe returns a channel of events and a function that ends the subscription
func (c *Controller) Subscribe(buffer int) (<-chan model.Event, func()) {
	sub := c.hub.Subscribe(buffer)
	var once sync.Once
	return sub.Events(), func() {
		once.Do(func() { c.hub.Unsubscribe(sub) })
	}
}

// Hub returns the hub the controller publishes to
func (c *Controller) Hub() *events.Hub {
	return c.hub
}

// Close writes any pending state and stops background work
func (c *Controller) Close(ctx context.Context) error {
	err := c.saver.Close(ctx)
	if c.ownsHub {
		c.hub.Close()
	}
	return err
}

func (c *Controller) dispatch(action Action, eventType model.EventType) (transition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.reducer.step(c.state, action)
	if err != nil || !t.changed {
		return t, err
	}
	c.state = t.state
	c.saver.MarkDirty(c.state)
	c.publishLocked(eventType, t.solved)
	return t, nil
}

func (c *Controller) publishLocked(eventType model.EventType, solved []int) {
	c.hub.Publish(model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		GameID:    c.state.GameID,
		State:     c.state.Clone(),
		SolvedNow: solved,
	})
}
