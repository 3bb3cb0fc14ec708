// Package feed streams health reports to WebSocket subscribers.
//
// DESIGN: Hub implements monitor.Hooks, so it plugs straight into a
// Monitor's hook chain. Broadcasts are best-effort: each subscriber has a
// bounded queue and slow consumers lose frames instead of blocking the
// scored call path.
package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"

	"github.com/modelpulse/modelpulse/monitor"
)

// Message is one feed frame.
type Message struct {
	Type   string          `json:"type"`            // "report" or "transition"
	Event  string          `json:"event,omitempty"` // degraded | unstable | recovery
	Time   time.Time       `json:"time"`
	Report *monitor.Report `json:"report"`
}

const (
	subscriberBuffer = 16
	writeTimeout     = 5 * time.Second
)

// Hub fans health reports out to WebSocket subscribers.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan []byte]struct{}
	closed bool
}

// NewHub returns an empty hub ready to accept subscribers.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan []byte]struct{})}
}

// OnHealthCheck broadcasts every scored call.
func (h *Hub) OnHealthCheck(r *monitor.Report) { h.broadcast("report", "", r) }

// OnDegraded broadcasts the transition into degraded or worse.
func (h *Hub) OnDegraded(r *monitor.Report) { h.broadcast("transition", "degraded", r) }

// OnUnstable broadcasts the transition into unstable.
func (h *Hub) OnUnstable(r *monitor.Report) { h.broadcast("transition", "unstable", r) }

// OnRecovery broadcasts the transition back to healthy.
func (h *Hub) OnRecovery(r *monitor.Report) { h.broadcast("transition", "recovery", r) }

// broadcast queues a frame on every subscriber, dropping when full.
func (h *Hub) broadcast(typ, event string, r *monitor.Report) {
	data, err := json.Marshal(Message{
		Type:   typ,
		Event:  event,
		Time:   time.Now().UTC(),
		Report: r,
	})
	if err != nil {
		log.Error().Err(err).Msg("feed_marshal_failed")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub <- data:
		default: // slow subscriber, drop the frame
		}
	}
}

// ServeHTTP upgrades the connection and streams frames until the client
// disconnects or the hub closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("feed_accept_failed")
		return
	}
	sub := h.subscribe()
	if sub == nil {
		conn.Close(websocket.StatusGoingAway, "feed closed")
		return
	}
	defer h.unsubscribe(sub)
	log.Info().Str("remote", r.RemoteAddr).Msg("feed_subscriber_connected")

	// Write-only connection: CloseRead pumps control frames and cancels
	// the context when the peer goes away.
	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case data, ok := <-sub:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "feed closed")
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				log.Debug().Err(err).Msg("feed_subscriber_dropped")
				return
			}
		}
	}
}

// subscribe registers a new subscriber queue. Returns nil after Close.
func (h *Hub) subscribe() chan []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	sub := make(chan []byte, subscriberBuffer)
	h.subs[sub] = struct{}{}
	return sub
}

// unsubscribe removes and closes a subscriber queue. Safe against a
// concurrent Close: the queue is only closed by whoever still finds it in
// the map.
func (h *Hub) unsubscribe(sub chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub)
	}
}

// Close tears down all subscribers. The hub cannot be reused.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		delete(h.subs, sub)
		close(sub)
	}
	log.Info().Msg("feed_closed")
}

var _ monitor.Hooks = (*Hub)(nil)
