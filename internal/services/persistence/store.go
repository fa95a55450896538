// Package persistence saves games, statistics and settings to a key-value store.
//
// Load paths never fail: unreadable or missing records are logged and
// replaced by defaults. Save paths log and also return the error.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/mcoot/dotriacontordle/internal/dependencies/clock"
	"github.com/mcoot/dotriacontordle/internal/model"
	"github.com/mcoot/dotriacontordle/internal/storage"
	"github.com/mcoot/dotriacontordle/internal/storage/memory"
)

// Store persists game state for one player
type Store struct {
	kv       storage.KV
	clock    clock.Clock
	logger   *slog.Logger
	degraded bool
}

// New creates a Store over kv. If kv fails its probe the store falls back to
// process memory so play can continue without durability.
func New(ctx context.Context, kv storage.KV, clk clock.Clock, logger *slog.Logger) *Store {
	s := &Store{kv: kv, clock: clk, logger: logger}
	if err := storage.Probe(ctx, kv); err != nil {
		logger.Warn("storage unavailable, falling back to memory", slog.String("error", err.Error()))
		s.kv = memory.New()
		s.degraded = true
	}
	return s
}

// Degraded reports whether the store fell back to memory
func (s *Store) Degraded() bool {
	return s.degraded
}

// SaveGame writes state under its profile key and records its mode as the last played
func (s *Store) SaveGame(ctx context.Context, state model.GameState) error {
	state.Config = model.NormalizeConfig(state.Config)
	data, err := json.Marshal(NewSnapshot(state, s.clock.Now()))
	if err != nil {
		s.logger.Error("failed to encode game state", slog.String("game_id", state.GameID), slog.String("error", err.Error()))
		return err
	}

	keys := []string{gameKey(state.Mode, state.Config, state.DailyNumber)}
	if state.Config.IsDefault() {
		// Mirror the default profile to its old key so older clients still find it
		keys = append(keys, legacyGameKeys(state.Mode, state.DailyNumber)[0])
	}

	var errs []error
	for _, key := range keys {
		if err := s.kv.Set(ctx, key, string(data)); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.kv.Set(ctx, LastModeKey, string(state.Mode)); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("failed to save game state",
			slog.String("game_id", state.GameID),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// LoadGame returns the saved game for mode and profile, or nil if there is none.
// A daily game is only returned for the requested daily number.
func (s *Store) LoadGame(ctx context.Context, mode model.GameMode, dailyNumber *int, cfg model.GameConfig) *model.GameState {
	cfg = model.NormalizeConfig(cfg)
	if mode == model.ModeDaily && dailyNumber == nil {
		return nil
	}
	n := 0
	if dailyNumber != nil {
		n = *dailyNumber
	}

	primary := gameKey(mode, cfg, n)
	candidates := []string{primary}
	if cfg.IsDefault() {
		candidates = append(candidates, legacyGameKeys(mode, n)...)
	}

	values, err := s.kv.GetMany(ctx, candidates...)
	if err != nil {
		s.logger.Warn("failed to read game state", slog.String("key", primary), slog.String("error", err.Error()))
		return nil
	}

	sourceKey, raw, found := "", "", false
	for _, key := range candidates {
		if v, ok := values[key]; ok {
			sourceKey, raw, found = key, v, true
			break
		}
	}
	if !found {
		return nil
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.logger.Warn("discarding unreadable game state", slog.String("key", sourceKey), slog.String("error", err.Error()))
		return nil
	}

	now := s.clock.Now()
	state := Hydrate(mode, snap, cfg, now)

	if mode == model.ModeDaily && state.DailyNumber != n {
		if sourceKey == LegacyDailyKey {
			s.deleteKey(ctx, sourceKey)
		}
		return nil
	}

	if sourceKey != primary {
		s.migrate(ctx, sourceKey, gameKey(mode, state.Config, state.DailyNumber), NewSnapshot(state, now))
	}
	return &state
}

// LastMode returns the mode of the most recently saved game, defaulting to daily
func (s *Store) LastMode(ctx context.Context) model.GameMode {
	mode, err := s.kv.Get(ctx, LastModeKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("failed to read last mode", slog.String("error", err.Error()))
		}
		return model.ModeDaily
	}
	return model.ParseGameMode(mode)
}

func (s *Store) migrate(ctx context.Context, from, to string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("failed to encode migrated record", slog.String("key", from), slog.String("error", err.Error()))
		return
	}
	if err := s.kv.Set(ctx, to, string(data)); err != nil {
		s.logger.Warn("failed to migrate legacy record",
			slog.String("from", from),
			slog.String("to", to),
			slog.String("error", err.Error()),
		)
		return
	}
	s.deleteKey(ctx, from)
	s.logger.Info("migrated legacy record", slog.String("from", from), slog.String("to", to))
}

func (s *Store) deleteKey(ctx context.Context, key string) {
	if err := s.kv.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete record", slog.String("key", key), slog.String("error", err.Error()))
	}
}
