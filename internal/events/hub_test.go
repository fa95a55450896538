package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mcoot/dotriacontordle/internal/model"
	"github.com/mcoot/dotriacontordle/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub("test", testutil.NopLogger())
	hub.Start(context.Background())
	t.Cleanup(hub.Close)
	return hub
}

func receive(t *testing.T, ch <-chan model.Event) model.Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		require.True(t, ok, "channel closed")
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return model.Event{}
}

func TestPublishReachesEverySubscriber(t *testing.T) {
	hub := startHub(t)
	a := hub.Subscribe(4)
	b := hub.Subscribe(4)

	hub.Publish(model.Event{Type: model.EventGuessAccepted, GameID: "g1"})

	assert.Equal(t, "g1", receive(t, a.Events()).GameID)
	assert.Equal(t, "g1", receive(t, b.Events()).GameID)
	assert.Equal(t, 2, hub.SubscriberCount())
}

func TestEventsArriveInOrder(t *testing.T) {
	hub := startHub(t)
	sub := hub.Subscribe(8)

	for _, id := range []string{"1", "2", "3"} {
		hub.Publish(model.Event{GameID: id})
	}

	for _, id := range []string{"1", "2", "3"} {
		assert.Equal(t, id, receive(t, sub.Events()).GameID)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := startHub(t)
	sub := hub.Subscribe(1)

	hub.Unsubscribe(sub)

	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.Equal(t, 0, hub.SubscriberCount())

	hub.Unsubscribe(sub) // already removed
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := startHub(t)
	slow := hub.Subscribe(1)
	fast := hub.Subscribe(8)

	for range 3 {
		hub.Publish(model.Event{Type: model.EventStateChanged})
	}

	for range 3 {
		receive(t, fast.Events())
	}
	// Unsubscribe is handled by the run loop, so the last delivery has finished
	hub.Unsubscribe(fast)

	assert.Len(t, slow.Events(), 1)
}

func TestCloseDisconnectsSubscribers(t *testing.T) {
	hub := NewHub("test", testutil.NopLogger())
	hub.Start(context.Background())
	sub := hub.Subscribe(1)

	hub.Close()

	_, ok := <-sub.Events()
	assert.False(t, ok)

	late := hub.Subscribe(1)
	_, ok = <-late.Events()
	assert.False(t, ok, "subscribing to a stopped hub yields a closed channel")

	hub.Publish(model.Event{})
	hub.Close()
}

func TestCloseRightAfterStartWaitsForLoop(t *testing.T) {
	for range 50 {
		hub := NewHub("test", testutil.NopLogger())
		hub.Start(context.Background())
		hub.Close()

		select {
		case <-hub.stopped:
		default:
			t.Fatal("Close returned before the event loop stopped")
		}
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub("test", testutil.NopLogger())
	go hub.Run(ctx)
	sub := hub.Subscribe(1)

	cancel()

	_, ok := <-sub.Events()
	assert.False(t, ok)
	hub.Close()
}

func TestManager(t *testing.T) {
	m := NewManager(testutil.NopLogger())
	defer m.CloseAll()

	a := m.GetOrCreateHub("alice")
	assert.Same(t, a, m.GetOrCreateHub("alice"))
	assert.Same(t, a, m.GetHub("alice"))
	assert.Nil(t, m.GetHub("bob"))

	m.GetOrCreateHub("bob")
	assert.Equal(t, 2, m.HubCount())

	sub := a.Subscribe(1)
	m.RemoveHub("alice")
	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.Equal(t, 1, m.HubCount())
}

func TestFormatSSE(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{"single line data", "new_game", "hello world", "event: new_game\ndata: hello world\n\n"},
		{"multi-line data", "state_changed", "{\n  \"a\": 1\n}", "event: state_changed\ndata: {\ndata:   \"a\": 1\ndata: }\n\n"},
		{"empty data", "ping", "", "event: ping\ndata: \n\n"},
		{"carriage returns", "test", "line1\r\nline2", "event: test\ndata: line1\ndata: line2\n\n"},
		{"trailing newline", "test", "line1\n", "event: test\ndata: line1\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(FormatSSE(tt.eventName, tt.data)))
		})
	}
}

func TestServeSSE(t *testing.T) {
	hub := startHub(t)
	encode := func(e model.Event) ([]byte, error) {
		return json.Marshal(map[string]string{"gameId": e.GameID})
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(w, r, hub, encode, []model.Event{{Type: model.EventStateLoaded, GameID: "initial"}})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return hub.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)
	hub.Publish(model.Event{Type: model.EventGuessAccepted, GameID: "g1"})

	var got strings.Builder
	buf := make([]byte, 512)
	for !strings.Contains(got.String(), `"g1"`) {
		n, err := resp.Body.Read(buf)
		got.Write(buf[:n])
		require.NoError(t, err)
	}

	assert.Contains(t, got.String(), "event: connected\n")
	assert.Contains(t, got.String(), "event: state_loaded\ndata: {\"gameId\":\"initial\"}\n\n")
	assert.Contains(t, got.String(), "event: guess_accepted\ndata: {\"gameId\":\"g1\"}\n\n")

	cancel()
	require.Eventually(t, func() bool { return hub.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
	http.DefaultClient.CloseIdleConnections()
}
