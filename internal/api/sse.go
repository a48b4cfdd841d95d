package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"barokah/internal/events"
	"barokah/internal/metrics"
)

// sseBuffer bounds the per-client queue. Handlers on the bus must not
// block, so a slow client drops events instead of stalling publishers; the
// client refetches on the next event anyway.
const sseBuffer = 16

const sseKeepAlive = 30 * time.Second

// handleEvents streams table-change events over Server-Sent Events. Admin
// dashboards and open status pages subscribe here instead of polling. An
// optional ?tables=a,b filter narrows the subscription.
func (s *HTTPServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("events")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	topics := events.Topics
	if filter := splitCSV(r.URL.Query().Get("tables")); len(filter) > 0 {
		topics = filter
	}

	ch := make(chan events.Event, sseBuffer)
	subs := make(map[string]string, len(topics))
	for _, topic := range topics {
		subs[topic] = s.bus.Subscribe(topic, func(event events.Event) {
			select {
			case ch <- event:
			default:
			}
		})
	}
	defer func() {
		for topic, id := range subs {
			s.bus.Unsubscribe(topic, id)
		}
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(sseKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case event := <-ch:
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
