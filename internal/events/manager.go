package events

import (
	"context"
	"log/slog"
	"sync"
)

// Manager owns one hub per game session
type Manager struct {
	hubs   map[string]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewManager creates a new Manager
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		hubs:   make(map[string]*Hub),
		logger: logger.With(slog.String("component", "events")),
	}
}

// GetOrCreateHub returns the running hub for key, starting one if needed
func (m *Manager) GetOrCreateHub(key string) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[key]; ok {
		return hub
	}

	hub := NewHub(key, m.logger)
	m.hubs[key] = hub
	hub.Start(context.Background())
	return hub
}

// GetHub returns the hub for key, or nil if it doesn't exist
func (m *Manager) GetHub(key string) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[key]
}

// RemoveHub removes and closes a hub
func (m *Manager) RemoveHub(key string) {
	m.mu.Lock()
	hub, ok := m.hubs[key]
	delete(m.hubs, key)
	m.mu.Unlock()

	if ok {
		hub.Close()
		m.logger.Info("event hub removed", slog.String("session", key))
	}
}

// CloseAll stops every hub
func (m *Manager) CloseAll() {
	m.mu.Lock()
	hubs := m.hubs
	m.hubs = make(map[string]*Hub)
	m.mu.Unlock()

	for _, hub := range hubs {
		hub.Close()
	}
}

// HubCount returns the number of live hubs
func (m *Manager) HubCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hubs)
}
