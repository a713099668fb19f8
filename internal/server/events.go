package server

import (
	"fmt"
	"net/http"

	"github.com/claude/barbell/internal/tracker"
)

// handleEvents streams tracker change events as server-sent events. Each
// event carries the data a client needs to redraw.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming not supported"})
		return
	}

	ch := make(chan tracker.Event, 32)
	unsubscribe := s.tracker.Subscribe(func(e tracker.Event) {
		select {
		case ch <- e:
		default:
			// slow subscriber, skip
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Send current plan immediately
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", tracker.PlanChanged, mustJSON(s.tracker.Plan()))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-ch:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Kind, mustJSON(s.eventPayload(evt.Kind)))
			flusher.Flush()
		}
	}
}

func (s *Server) eventPayload(kind tracker.EventKind) any {
	switch kind {
	case tracker.HistoryChanged:
		return s.tracker.Entries()
	case tracker.WeightsChanged:
		return s.tracker.State()
	default:
		return s.tracker.Plan()
	}
}
