package httpx

import (
	"context"
	"net/http"
	"time"

	"log/slog"

	"github.com/OGCbn/CodeCollab/internal/app"
	"github.com/OGCbn/CodeCollab/internal/store"
	"github.com/OGCbn/CodeCollab/internal/ws"
	"github.com/OGCbn/CodeCollab/pkg/auth"
	"github.com/OGCbn/CodeCollab/pkg/metrics"
	"github.com/OGCbn/CodeCollab/pkg/ratelimit"
)

// NewRouter wires up all HTTP routes, middleware, and handlers
func NewRouter(cfg app.Config, logger *slog.Logger, hub *ws.Hub, db *store.Postgres, j *auth.JWT, rl ratelimit.Limiter) http.Handler {
	mw := NewMiddleware(cfg, j, rl)
	authAPI := &AuthAPI{DB: db, JWT: j}
	roomsAPI := &RoomsAPI{Hub: hub}

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			logger.Warn("readyz", "err", err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	}))
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket endpoint (token checked by the hub itself)
	mux.Handle("/ws", http.HandlerFunc(hub.ServeWS))

	// Auth endpoints, rate limited per IP
	mux.Handle("/api/auth/register", mw.RateLimit(http.HandlerFunc(authAPI.Register)))
	mux.Handle("/api/auth/login", mw.RateLimit(http.HandlerFunc(authAPI.Login)))
	mux.Handle("/api/auth/me", mw.Auth(http.HandlerFunc(authAPI.Me)))

	// Live room listing (JWT-protected)
	mux.Handle("/api/rooms", mw.Auth(http.HandlerFunc(roomsAPI.List)))

	return mw.Wrap(mux)
}
