package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mcoot/dotriacontordle/internal/config"
	"github.com/mcoot/dotriacontordle/internal/dependencies/clock"
	"github.com/mcoot/dotriacontordle/internal/dependencies/random"
	"github.com/mcoot/dotriacontordle/internal/events"
	"github.com/mcoot/dotriacontordle/internal/services/auth"
	"github.com/mcoot/dotriacontordle/internal/services/dictionary"
	"github.com/mcoot/dotriacontordle/internal/services/game"
	"github.com/mcoot/dotriacontordle/internal/services/puzzle"
	"github.com/mcoot/dotriacontordle/internal/services/session"
	"github.com/mcoot/dotriacontordle/internal/services/validation"
	"github.com/mcoot/dotriacontordle/internal/storage"
	"github.com/mcoot/dotriacontordle/internal/storage/memory"
	redisstorage "github.com/mcoot/dotriacontordle/internal/storage/redis"
	sqlitestorage "github.com/mcoot/dotriacontordle/internal/storage/sqlite"
)

// App contains all wired application components
type App struct {
	Config *config.Config
	Logger *slog.Logger

	// Storage
	Storage storage.KV

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Calendar          *puzzle.Calendar
	DictionaryService *dictionary.Service
	Validator         validation.Validator
	Selector          *puzzle.Selector
	Reducer           *game.Reducer
	AuthService       *auth.Service
	Sessions          *session.Manager
	HubManager        *events.Manager

	closeStorage func() error
}

// New creates a new application with all dependencies wired.
// ctx bounds background work such as dictionary watching.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Use no-op logger if not provided
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	kv, closeStorage, err := openStorage(cfg.Storage, logger)
	if err != nil {
		return nil, err
	}
	if err := storage.Probe(ctx, kv); err != nil {
		logger.Warn("storage probe failed, games will not persist", slog.String("error", err.Error()))
	}

	cal, err := cfg.Calendar()
	if err != nil {
		_ = closeStorage()
		return nil, err
	}

	dict := dictionary.New(logger)
	if err := dict.LoadEmbedded(); err != nil {
		_ = closeStorage()
		return nil, fmt.Errorf("loading bundled dictionary: %w", err)
	}
	if dir := cfg.Dictionary.Dir; dir != "" {
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			// A single word list bucketed by length
			if err := dict.LoadFromFile(ctx, dir); err != nil {
				logger.Warn("could not load dictionary", slog.String("path", dir), slog.String("error", err.Error()))
			}
		} else if err := dict.LoadFromDir(ctx, dir); err != nil {
			logger.Warn("could not load dictionary", slog.String("dir", dir), slog.String("error", err.Error()))
		} else if cfg.Dictionary.Watch {
			if err := dict.Watch(ctx, dir); err != nil {
				logger.Warn("could not watch dictionary", slog.String("dir", dir), slog.String("error", err.Error()))
			}
		}
	}

	var remote validation.Validator
	if cfg.Validation.RemoteURL != "" {
		remote = validation.NewRemote(cfg.RemoteValidation(), logger)
	}
	validator := validation.NewChain(validation.NewDictionary(dict), remote, dict, logger)

	app := newWithDependencies(cfg, kv, clock.New(), random.New(), cal, dict, validator, logger)
	app.closeStorage = closeStorage
	return app, nil
}

func openStorage(cfg config.StorageConfig, logger *slog.Logger) (storage.KV, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Type {
	case "", config.StorageMemory:
		return memory.New(), noop, nil
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		store, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return store, store.Close, nil
	case config.StorageSQLite:
		store, err := sqlitestorage.Open(cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, errors.New("invalid storage type: must be 'memory', 'redis' or 'sqlite'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	cfg *config.Config,
	kv storage.KV,
	clk clock.Clock,
	rnd random.Random,
	cal *puzzle.Calendar,
	dict *dictionary.Service,
	validator validation.Validator,
	logger *slog.Logger,
) *App {
	// One group for every session and the validate route
	validator = validation.NewDedup(validator)

	selector := puzzle.NewSelector(dict, rnd, logger)
	reducer := game.NewReducer(clk, rnd, selector, cal)
	hubManager := events.NewManager(logger)
	authService := auth.New(kv, clk, rnd, auth.Config{SessionDuration: cfg.Auth.SessionDuration}, logger)
	sessions := session.NewManager(kv, reducer, validator, hubManager, clk, cfg.Game.SaveDebounce, logger)

	return &App{
		Config:            cfg,
		Logger:            logger,
		Storage:           kv,
		Clock:             clk,
		Random:            rnd,
		Calendar:          cal,
		DictionaryService: dict,
		Validator:         validator,
		Selector:          selector,
		Reducer:           reducer,
		AuthService:       authService,
		Sessions:          sessions,
		HubManager:        hubManager,
		closeStorage:      func() error { return nil },
	}
}

// Close saves every open game and releases storage
func (a *App) Close(ctx context.Context) error {
	err := a.Sessions.CloseAll(ctx)
	a.HubManager.CloseAll()
	return errors.Join(err, a.closeStorage())
}
