package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/mcoot/dotriacontordle/internal/model"
	"github.com/mcoot/dotriacontordle/internal/storage"
)

type settingsRecord struct {
	GlowMode            bool `json:"glowMode"`
	FeedbackEnabled     bool `json:"feedbackEnabled"`
	PreferredWordLength int  `json:"preferredWordLength"`
	PreferredBoardCount int  `json:"preferredBoardCount"`
	PreferredMaxGuesses int  `json:"preferredMaxGuesses"`
}

// LoadSettings returns saved settings merged over the defaults
func (s *Store) LoadSettings(ctx context.Context) model.Settings {
	def := model.DefaultSettings()
	raw, err := s.kv.Get(ctx, SettingsKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("failed to read settings", slog.String("error", err.Error()))
		}
		return def
	}

	// Fields absent from the record keep their default values
	record := settingsRecord(def)
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		s.logger.Warn("discarding unreadable settings", slog.String("error", err.Error()))
		return def
	}
	return model.Settings(record).Normalized()
}

// SaveSettings writes normalized settings
func (s *Store) SaveSettings(ctx context.Context, settings model.Settings) error {
	data, err := json.Marshal(settingsRecord(settings.Normalized()))
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, SettingsKey, string(data)); err != nil {
		s.logger.Warn("failed to save settings", slog.String("error", err.Error()))
		return err
	}
	return nil
}
