package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storefront/pkg/notify"
)

const keepAliveInterval = 30 * time.Second

type cartEvent struct {
	Kind       string   `json:"kind"`
	Name       string   `json:"name"`
	AddedIDs   []string `json:"addedIds"`
	TotalCount int      `json:"totalCount"`
}

// eventsHandler streams the origin's cart state as server-sent events:
// once on connect and again after every local or cross-process change.
// @Summary Cart change stream
// @Produce text/event-stream
// @Success 200
// @Router /events [get]
func (s *server) eventsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	scope := s.scope(ctx)
	// A slow client only needs the latest state, so excess events are dropped.
	events := make(chan notify.Event, 8)
	cancel := s.bus.Subscribe(func(ev notify.Event) {
		if !scope.Owns(ev.Key) {
			return
		}
		select {
		case events <- ev:
		default:
		}
	})
	defer cancel()

	s.metrics.StreamOpened()
	defer s.metrics.StreamClosed()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(ev notify.Event) error {
		c := s.cartFor(ctx)
		ids, err := c.AddedIDs(ctx)
		if err != nil {
			return err
		}
		count, err := c.TotalCount(ctx)
		if err != nil {
			return err
		}
		b, err := json.Marshal(cartEvent{
			Kind:       ev.Kind.String(),
			Name:       ev.Name,
			AddedIDs:   ids.Slice(),
			TotalCount: count,
		})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: cart\ndata: %s\n\n", b); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if err := send(notify.Event{Kind: notify.LocalNotification, Name: "snapshot"}); err != nil {
		s.log.Warn(ctx, "send cart snapshot", "error", err)
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if err := send(ev); err != nil {
				s.log.Warn(ctx, "send cart event", "error", err)
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
