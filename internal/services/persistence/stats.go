package persistence

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mcoot/dotriacontordle/internal/model"
)

type statsRecord struct {
	GamesPlayed        int   `json:"gamesPlayed"`
	GamesWon           int   `json:"gamesWon"`
	CurrentStreak      int   `json:"currentStreak"`
	MaxStreak          int   `json:"maxStreak"`
	GuessDistribution  []int `json:"guessDistribution"`
	LastPlayedDaily    *int  `json:"lastPlayedDaily"`
	LastCompletedDaily *int  `json:"lastCompletedDaily"`
}

func toStatsRecord(stats model.GameStats) statsRecord {
	return statsRecord{
		GamesPlayed:        stats.GamesPlayed,
		GamesWon:           stats.GamesWon,
		CurrentStreak:      stats.CurrentStreak,
		MaxStreak:          stats.MaxStreak,
		GuessDistribution:  stats.GuessDistribution,
		LastPlayedDaily:    copyInt(stats.LastPlayedDaily),
		LastCompletedDaily: copyInt(stats.LastCompletedDaily),
	}
}

func (r statsRecord) toModel(maxGuesses int) model.GameStats {
	return model.GameStats{
		GamesPlayed:        max(0, r.GamesPlayed),
		GamesWon:           max(0, r.GamesWon),
		CurrentStreak:      max(0, r.CurrentStreak),
		MaxStreak:          max(0, r.MaxStreak),
		GuessDistribution:  model.ResizeDistribution(r.GuessDistribution, maxGuesses),
		LastPlayedDaily:    copyInt(r.LastPlayedDaily),
		LastCompletedDaily: copyInt(r.LastCompletedDaily),
	}
}

// LoadStats returns the statistics for a profile, or empty stats if none are saved
func (s *Store) LoadStats(ctx context.Context, cfg model.GameConfig) model.GameStats {
	cfg = model.NormalizeConfig(cfg)
	key := StatsKey(cfg)
	candidates := []string{key}
	if cfg.IsDefault() {
		candidates = append(candidates, LegacyStatsKey)
	}

	values, err := s.kv.GetMany(ctx, candidates...)
	if err != nil {
		s.logger.Warn("failed to read stats", slog.String("key", key), slog.String("error", err.Error()))
		return model.NewStats(cfg.MaxGuesses)
	}

	raw, ok := values[key]
	legacy := false
	if !ok {
		raw, ok = values[LegacyStatsKey]
		legacy = ok
	}
	if !ok {
		return model.NewStats(cfg.MaxGuesses)
	}

	var record statsRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		s.logger.Warn("discarding unreadable stats", slog.String("key", key), slog.String("error", err.Error()))
		return model.NewStats(cfg.MaxGuesses)
	}
	stats := record.toModel(cfg.MaxGuesses)

	if legacy {
		s.migrate(ctx, LegacyStatsKey, key, toStatsRecord(stats))
	}
	return stats
}

// SaveStats writes stats for a profile, sizing the distribution to its guess limit
func (s *Store) SaveStats(ctx context.Context, stats model.GameStats, cfg model.GameConfig) error {
	cfg = model.NormalizeConfig(cfg)
	stats.GuessDistribution = model.ResizeDistribution(stats.GuessDistribution, cfg.MaxGuesses)

	data, err := json.Marshal(toStatsRecord(stats))
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, StatsKey(cfg), string(data)); err != nil {
		s.logger.Warn("failed to save stats", slog.String("profile", cfg.ProfileID), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// UpdateStatsAfterGame records a finished game and returns the new stats.
// A daily game already counted (same daily number as the last one played) changes nothing.
func (s *Store) UpdateStatsAfterGame(ctx context.Context, won bool, guessesUsed int, cfg model.GameConfig, dailyNumber *int) model.GameStats {
	cfg = model.NormalizeConfig(cfg)
	stats := s.LoadStats(ctx, cfg)
	if dailyNumber != nil && stats.LastPlayedDaily != nil && *stats.LastPlayedDaily == *dailyNumber {
		return stats
	}

	stats.GamesPlayed++
	if won {
		stats.GamesWon++
		stats.CurrentStreak++
		stats.MaxStreak = max(stats.MaxStreak, stats.CurrentStreak)
		if guessesUsed > 0 && guessesUsed <= cfg.MaxGuesses {
			stats.GuessDistribution[guessesUsed-1]++
		}
	} else {
		stats.CurrentStreak = 0
	}

	if dailyNumber != nil {
		stats.LastPlayedDaily = model.IntPtr(*dailyNumber)
		if won {
			stats.LastCompletedDaily = model.IntPtr(*dailyNumber)
		}
	}

	_ = s.SaveStats(ctx, stats, cfg)
	return stats
}
