// Package events fans game state changes out to subscribers.
package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mcoot/dotriacontordle/internal/model"
)

// DefaultBufferSize is the per-subscriber queue length used when none is given
const DefaultBufferSize = 64

// Subscriber receives events from a hub
type Subscriber struct {
	id          uint64
	send        chan model.Event
	connectedAt time.Time
}

// Events returns the channel events arrive on. It is closed when the
// subscriber is removed or the hub stops.
func (s *Subscriber) Events() <-chan model.Event {
	return s.send
}

// Hub manages subscribers for a single game session
type Hub struct {
	key         string
	subscribers map[*Subscriber]bool
	mu          sync.RWMutex
	logger      *slog.Logger
	nextID      atomic.Uint64

	// Channels for managing subscribers
	register   chan *Subscriber
	unregister chan *Subscriber
	broadcast  chan model.Event
	done       chan struct{}
	stopped    chan struct{}
	closeOnce  sync.Once
	running    atomic.Bool
}

// NewHub creates a new Hub. Call Start to begin delivering events.
func NewHub(key string, logger *slog.Logger) *Hub {
	return &Hub{
		key:         key,
		subscribers: make(map[*Subscriber]bool),
		logger:      logger.With(slog.String("session", key)),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		broadcast:   make(chan model.Event, 256),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
}

// Start runs the event loop in a new goroutine. Close waits for it
// even if it has not been scheduled yet.
func (h *Hub) Start(ctx context.Context) {
	h.running.Store(true)
	go h.Run(ctx)
}

// Run is the hub's event loop. It returns when ctx is cancelled or Close is called,
// closing every subscriber channel.
func (h *Hub) Run(ctx context.Context) {
	h.running.Store(true)
	defer close(h.stopped)

	h.logger.Debug("event hub started")
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			h.subscribers[sub] = true
			count := len(h.subscribers)
			h.mu.Unlock()
			h.logger.Debug("subscriber registered", slog.Uint64("subscriber", sub.id), slog.Int("total_subscribers", count))

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.subscribers[sub]; ok {
				delete(h.subscribers, sub)
				close(sub.send)
				count := len(h.subscribers)
				h.mu.Unlock()
				h.logger.Debug("subscriber unregistered",
					slog.Uint64("subscriber", sub.id),
					slog.Duration("connection_duration", time.Since(sub.connectedAt)),
					slog.Int("total_subscribers", count))
			} else {
				h.mu.Unlock()
			}

		case event := <-h.broadcast:
			h.deliver(event)

		case <-ctx.Done():
			h.shutdown()
			return

		case <-h.done:
			h.shutdown()
			return
		}
	}
}

func (h *Hub) deliver(event model.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for sub := range h.subscribers {
		select {
		case sub.send <- event:
		default:
			dropped++
			h.logger.Warn("event dropped - subscriber buffer full",
				slog.Uint64("subscriber", sub.id),
				slog.String("event", string(event.Type)))
		}
	}
	if dropped > 0 {
		h.logger.Warn("event broadcast partial failure",
			slog.Int("sent", len(h.subscribers)-dropped),
			slog.Int("dropped", dropped))
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	count := len(h.subscribers)
	for sub := range h.subscribers {
		close(sub.send)
		delete(h.subscribers, sub)
	}
	h.mu.Unlock()
	h.logger.Debug("event hub stopped", slog.Int("disconnected_subscribers", count))
}

// Subscribe registers a subscriber with the given queue length.
// On a stopped hub the returned subscriber's channel is already closed.
func (h *Hub) Subscribe(buffer int) *Subscriber {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	sub := &Subscriber{
		id:          h.nextID.Add(1),
		send:        make(chan model.Event, buffer),
		connectedAt: time.Now(),
	}
	select {
	case h.register <- sub:
	case <-h.done:
		close(sub.send)
	case <-h.stopped:
		close(sub.send)
	}
	return sub
}

// Unsubscribe removes a subscriber and closes its channel
func (h *Hub) Unsubscribe(sub *Subscriber) {
	select {
	case h.unregister <- sub:
	case <-h.done:
	case <-h.stopped:
	}
}

// Publish queues an event for every subscriber without blocking
func (h *Hub) Publish(event model.Event) {
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("event broadcast dropped - hub buffer full", slog.String("event", string(event.Type)))
	}
}

// Close stops the hub and waits for Run to return
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
	if h.running.Load() {
		<-h.stopped
	}
}

// SubscriberCount returns the number of connected subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
