// ABOUTME: SSE bridge from the event broker to HTTP clients: one JSON event per frame,
// ABOUTME: flushed immediately, with broker heartbeats keeping idle connections alive.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleRunEvents(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	// Unknown run ids still get a stream: a single error event, then EOF.
	events := s.broker.Subscribe(r.Context(), runID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				// Stream ended.
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("marshaling event for %s: %v", runID, err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			if canFlush {
				flusher.Flush()
			}
		case <-r.Context().Done():
			// Client disconnected.
			return
		}
	}
}
