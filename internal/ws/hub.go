package ws

import (
	"context"
	"net/http"
	"time"

	"log/slog"

	"github.com/OGCbn/CodeCollab/pkg/metrics"
)

// TokenVerifier is the identity collaborator checked once per connection
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Hub owns the process-scoped relay state: registry, presence, router.
// Constructed once at startup and passed explicitly so tests can run
// isolated instances.
type Hub struct {
	log    *slog.Logger
	verify TokenVerifier

	reg  *Registry
	pres *Presence
	rt   *Router

	presenceTTL time.Duration
}

// NewHub sets up the registry, presence tracker and router
func NewHub(logger *slog.Logger, verify TokenVerifier, presenceTTL time.Duration, opts Options) *Hub {
	reg := NewRegistry(logger)
	pres := NewPresence()
	return &Hub{
		log:         logger,
		verify:      verify,
		reg:         reg,
		pres:        pres,
		rt:          NewRouter(reg, pres, logger, opts),
		presenceTTL: presenceTTL,
	}
}

// Registry exposes room state for the HTTP room listing
func (h *Hub) Registry() *Registry { return h.reg }

// Run sweeps stale presence entries until ctx is cancelled. Eviction is
// advisory: evicted users are logged, nobody is disconnected.
func (h *Hub) Run(ctx context.Context) {
	t := time.NewTicker(h.presenceTTL / 2)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			for _, roomID := range h.pres.RoomIDs() {
				if evicted := h.pres.EvictStale(roomID, h.presenceTTL, now); len(evicted) > 0 {
					h.log.Info("presence.evicted", "room", roomID, "users", evicted)
				}
			}
		}
	}
}

// ServeWS handles a new /ws connection: verify the token, upgrade, then
// pump events through the router until the peer goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	uid, err := h.verify.Verify(r.URL.Query().Get("token"))
	if err != nil {
		metrics.AuthFailures.Inc()
		h.log.Debug("ws.auth", "err", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sock, err := Accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}

	ctx := r.Context()
	c := NewConn(sock, uid, h.log)
	c.Activate()
	metrics.Connections.Inc()
	h.log.Debug("ws.connected", "conn", c.ID(), "user", uid)

	// Outbound writer
	go c.WriteLoop(ctx)

	// Inbound events are processed in arrival order, so broadcasts from
	// one connection go out in the order its events came in.
	for {
		data, ok := c.Read(ctx)
		if !ok {
			break
		}
		h.rt.Route(c, data)
	}

	c.Close()
	h.rt.Disconnect(c)
	metrics.Connections.Dec()
	h.log.Debug("ws.disconnected", "conn", c.ID(), "user", uid)
}
