package events

import (
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/dotriacontordle/internal/model"
)

// Time between keepalive comments on an idle stream
const pingPeriod = 30 * time.Second

// Encoder renders an event's data payload
type Encoder func(model.Event) ([]byte, error)

// ServeSSE streams a subscriber's events to w as server-sent events until the
// request ends or the subscriber is closed. initial, if non-empty, is sent first.
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, encode Encoder, initial []model.Event) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	sub := hub.Subscribe(DefaultBufferSize)
	defer hub.Unsubscribe(sub)

	_, _ = w.Write(FormatSSE("connected", `{"status":"connected"}`))
	for _, event := range initial {
		if !writeEvent(w, event, encode) {
			return
		}
	}
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if !writeEvent(w, event, encode) {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event model.Event, encode Encoder) bool {
	data, err := encode(event)
	if err != nil {
		return true
	}
	_, err = w.Write(FormatSSE(string(event.Type), string(data)))
	return err == nil
}

// FormatSSE formats an SSE message with event name and data.
// Multi-line data gets a "data: " prefix on each line.
func FormatSSE(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + eventName + "\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits a string into lines, dropping carriage returns
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
