package persistence

import (
	"fmt"

	"github.com/mcoot/dotriacontordle/internal/model"
)

// Storage keys. Per-profile keys carry a _v2 suffix; the unsuffixed forms
// predate configurable puzzle shapes and only ever held the default profile.
const (
	dailyStatePrefix  = "dotriacontordle_daily_state_v2"
	freeStatePrefix   = "dotriacontordle_free_state_v2"
	statsPrefix       = "dotriacontordle_stats_v2"
	LastModeKey       = "dotriacontordle_last_mode"
	SettingsKey       = "dotriacontordle_settings"
	legacyDailyPrefix = "dotriacontordle_daily_state"
	LegacyDailyKey    = "dotriacontordle_daily_state"
	LegacyFreeKey     = "dotriacontordle_free_state"
	LegacyStatsKey    = "dotriacontordle_stats"
)

// DailyKey returns the key for a daily game of the given profile
func DailyKey(cfg model.GameConfig, dailyNumber int) string {
	return fmt.Sprintf("%s_%s_%d", dailyStatePrefix, cfg.ProfileID, dailyNumber)
}

// FreeKey returns the key for the free-play game of the given profile
func FreeKey(cfg model.GameConfig) string {
	return fmt.Sprintf("%s_%s", freeStatePrefix, cfg.ProfileID)
}

// StatsKey returns the key for a profile's statistics
func StatsKey(cfg model.GameConfig) string {
	return fmt.Sprintf("%s_%s", statsPrefix, cfg.ProfileID)
}

// LegacyDailyNumberKey returns the pre-profile key for a daily game
func LegacyDailyNumberKey(dailyNumber int) string {
	return fmt.Sprintf("%s_%d", legacyDailyPrefix, dailyNumber)
}

// gameKey returns the current key a state is saved under
func gameKey(mode model.GameMode, cfg model.GameConfig, dailyNumber int) string {
	if mode == model.ModeDaily {
		return DailyKey(cfg, dailyNumber)
	}
	return FreeKey(cfg)
}

// legacyGameKeys returns the fallback keys to try for the default profile, most specific first
func legacyGameKeys(mode model.GameMode, dailyNumber int) []string {
	if mode == model.ModeDaily {
		return []string{LegacyDailyNumberKey(dailyNumber), LegacyDailyKey}
	}
	return []string{LegacyFreeKey}
}
