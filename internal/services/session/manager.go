// Package session keeps one live game controller per player.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mcoot/dotriacontordle/internal/dependencies/clock"
	"github.com/mcoot/dotriacontordle/internal/events"
	"github.com/mcoot/dotriacontordle/internal/model"
	"github.com/mcoot/dotriacontordle/internal/services/game"
	"github.com/mcoot/dotriacontordle/internal/services/persistence"
	"github.com/mcoot/dotriacontordle/internal/services/validation"
	"github.com/mcoot/dotriacontordle/internal/storage"
)

// Manager builds controllers on first use and keeps them until closed
type Manager struct {
	kv        storage.KV
	reducer   *game.Reducer
	validator validation.Validator
	hubs      *events.Manager
	clock     clock.Clock
	saveDelay time.Duration
	logger    *slog.Logger

	mu          sync.RWMutex
	controllers map[model.PlayerID]*game.Controller
	building    singleflight.Group
}

// NewManager creates a session Manager
func NewManager(
	kv storage.KV,
	reducer *game.Reducer,
	validator validation.Validator,
	hubs *events.Manager,
	clock clock.Clock,
	saveDelay time.Duration,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		kv:          kv,
		reducer:     reducer,
		validator:   validator,
		hubs:        hubs,
		clock:       clock,
		saveDelay:   saveDelay,
		logger:      logger,
		controllers: make(map[model.PlayerID]*game.Controller),
	}
}

// ControllerFor returns the player's controller, creating and bootstrapping
// it from the player's saved games and preferences on first use
func (m *Manager) ControllerFor(ctx context.Context, playerID model.PlayerID) (*game.Controller, error) {
	if c := m.lookup(playerID); c != nil {
		return c, nil
	}

	v, err, _ := m.building.Do(string(playerID), func() (any, error) {
		if c := m.lookup(playerID); c != nil {
			return c, nil
		}
		c, err := m.build(ctx, playerID)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.controllers[playerID] = c
		m.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*game.Controller), nil
}

func (m *Manager) lookup(playerID model.PlayerID) *game.Controller {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.controllers[playerID]
}

func (m *Manager) build(ctx context.Context, playerID model.PlayerID) (*game.Controller, error) {
	logger := m.logger.With(slog.String("player_id", string(playerID)))
	store := persistence.New(ctx, storage.NewNamespaced(m.kv, playerID.Namespace()), m.clock, logger)
	hub := m.hubs.GetOrCreateHub(string(playerID))

	c := game.NewController(m.reducer, m.validator, store, hub, m.clock, m.saveDelay, logger)
	if err := c.Bootstrap(ctx, store.LoadSettings(ctx).PreferredConfig()); err != nil {
		_ = c.Close(ctx)
		m.hubs.RemoveHub(string(playerID))
		return nil, fmt.Errorf("starting game for %s: %w", playerID, err)
	}
	logger.Info("session started")
	return c, nil
}

// Close saves and drops one player's controller
func (m *Manager) Close(ctx context.Context, playerID model.PlayerID) error {
	m.mu.Lock()
	c, ok := m.controllers[playerID]
	delete(m.controllers, playerID)
	m.mu.Unlock()
	if !ok {
		return nil
	}

	err := c.Close(ctx)
	m.hubs.RemoveHub(string(playerID))
	return err
}

// CloseAll flushes and drops every controller
func (m *Manager) CloseAll(ctx context.Context) error {
	m.mu.Lock()
	controllers := m.controllers
	m.controllers = make(map[model.PlayerID]*game.Controller)
	m.mu.Unlock()

	var errs []error
	for id, c := range controllers {
		if err := c.Close(ctx); err != nil {
			m.logger.Warn("failed to flush game on shutdown",
				slog.String("player_id", string(id)),
				slog.String("error", err.Error()),
			)
			errs = append(errs, err)
		}
		m.hubs.RemoveHub(string(id))
	}
	return errors.Join(errs...)
}

// Count returns the number of live controllers
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.controllers)
}
