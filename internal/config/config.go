// Package config loads server configuration from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/dotriacontordle/internal/services/puzzle"
	"github.com/mcoot/dotriacontordle/internal/services/validation"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "DOTRI_"

// Config is the full server configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Storage    StorageConfig    `yaml:"storage"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Validation ValidationConfig `yaml:"validation"`
	Daily      DailyConfig      `yaml:"daily"`
	Game       GameConfig       `yaml:"game"`
	Auth       AuthConfig       `yaml:"auth"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type StorageConfig struct {
	Type       string `yaml:"type"`
	RedisURL   string `yaml:"redis_url"`
	SQLitePath string `yaml:"sqlite_path"`
}

type DictionaryConfig struct {
	// Dir holds {length}.txt word lists loaded over the bundled ones
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

type ValidationConfig struct {
	// RemoteURL enables the online fallback lookup when set
	RemoteURL     string        `yaml:"remote_url"`
	RatePerSecond float64       `yaml:"rate_per_second"`
	Burst         int           `yaml:"burst"`
	Timeout       time.Duration `yaml:"timeout"`
}

type DailyConfig struct {
	Timezone  string `yaml:"timezone"`
	ResetHour int    `yaml:"reset_hour"`
	Epoch     string `yaml:"epoch"`
}

type GameConfig struct {
	SaveDebounce time.Duration `yaml:"save_debounce"`
}

type AuthConfig struct {
	SessionDuration time.Duration `yaml:"session_duration"`
}

// Default returns the configuration used when no file or overrides are given
func Default() *Config {
	remote := validation.DefaultRemoteConfig()
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0, // SSE streams stay open
			IdleTimeout:  60 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		Storage: StorageConfig{
			Type:       StorageMemory,
			SQLitePath: "dotriacontordle.db",
		},
		Validation: ValidationConfig{
			RatePerSecond: remote.RatePerSecond,
			Burst:         remote.Burst,
			Timeout:       remote.Timeout,
		},
		Daily: DailyConfig{
			Timezone:  puzzle.DefaultTimezone,
			ResetHour: puzzle.DefaultResetHour,
			Epoch:     puzzle.DefaultEpoch,
		},
		Game: GameConfig{SaveDebounce: 250 * time.Millisecond},
		Auth: AuthConfig{SessionDuration: 24 * time.Hour},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error; an empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnvOverrides(getenv func(string) string) error {
	// Unprefixed names kept for existing deployments
	if v := getenv("STORAGE_TYPE"); v != "" {
		c.Storage.Type = v
	}
	if v := getenv("REDIS_URL"); v != "" {
		c.Storage.RedisURL = v
	}

	strs := map[string]*string{
		"ADDR":                  &c.Server.Addr,
		"LOG_LEVEL":             &c.Log.Level,
		"STORAGE_TYPE":          &c.Storage.Type,
		"REDIS_URL":             &c.Storage.RedisURL,
		"SQLITE_PATH":           &c.Storage.SQLitePath,
		"DICTIONARY_DIR":        &c.Dictionary.Dir,
		"VALIDATION_REMOTE_URL": &c.Validation.RemoteURL,
		"DAILY_TIMEZONE":        &c.Daily.Timezone,
		"DAILY_EPOCH":           &c.Daily.Epoch,
	}
	for name, dst := range strs {
		if v := getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"SAVE_DEBOUNCE":      &c.Game.SaveDebounce,
		"SESSION_DURATION":   &c.Auth.SessionDuration,
		"VALIDATION_TIMEOUT": &c.Validation.Timeout,
	}
	for name, dst := range durations {
		v := getenv(EnvPrefix + name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = d
	}

	if v := getenv(EnvPrefix + "DAILY_RESET_HOUR"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sDAILY_RESET_HOUR: %w", EnvPrefix, err)
		}
		c.Daily.ResetHour = h
	}
	if v := getenv(EnvPrefix + "DICTIONARY_WATCH"); v != "" {
		watch, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sDICTIONARY_WATCH: %w", EnvPrefix, err)
		}
		c.Dictionary.Watch = watch
	}
	return nil
}

// Validate checks the configuration can start a server
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case StorageMemory:
	case StorageRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("storage.redis_url required when storage.type is redis")
		}
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path required when storage.type is sqlite")
		}
	default:
		return fmt.Errorf("invalid storage.type %q: must be memory, redis or sqlite", c.Storage.Type)
	}

	if _, err := c.Calendar(); err != nil {
		return fmt.Errorf("invalid daily schedule: %w", err)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Dictionary.Watch && c.Dictionary.Dir == "" {
		return errors.New("dictionary.watch requires dictionary.dir")
	}
	if c.Game.SaveDebounce < 0 {
		return errors.New("game.save_debounce must not be negative")
	}
	return nil
}

// Calendar builds the daily puzzle calendar
func (c *Config) Calendar() (*puzzle.Calendar, error) {
	return puzzle.NewCalendar(c.Daily.Timezone, c.Daily.ResetHour, c.Daily.Epoch)
}

// SlogLevel parses log.level
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return level, fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	return level, nil
}

// RemoteValidation returns the online lookup settings
func (c *Config) RemoteValidation() validation.RemoteConfig {
	return validation.RemoteConfig{
		BaseURL:       c.Validation.RemoteURL,
		Timeout:       c.Validation.Timeout,
		RatePerSecond: c.Validation.RatePerSecond,
		Burst:         c.Validation.Burst,
	}
}
