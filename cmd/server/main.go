package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	app "github.com/OGCbn/CodeCollab/internal/app"
	httpx "github.com/OGCbn/CodeCollab/internal/http"
	store "github.com/OGCbn/CodeCollab/internal/store"
	ws "github.com/OGCbn/CodeCollab/internal/ws"
	"github.com/OGCbn/CodeCollab/pkg/auth"
	"github.com/OGCbn/CodeCollab/pkg/ratelimit"
)

func main() {
	// Load local .env (dev only)
	_ = godotenv.Load()

	cfg := app.LoadConfig()
	logger := app.NewLogger(cfg.Env)

	// Cancel on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Postgres user directory + migrations
	pg, err := store.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("postgres connect", "err", err)
		log.Fatal(err)
	}
	defer pg.Close()
	if err := store.RunMigrations(ctx, pg, logger); err != nil {
		logger.Error("migrations", "err", err)
		log.Fatal(err)
	}

	// Auth endpoint rate limiting: redis-backed when configured
	var rl ratelimit.Limiter = ratelimit.NewMemory(cfg.AuthRateMax, cfg.AuthRateWindow)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Error("redis connect", "err", err)
			log.Fatal(err)
		}
		defer rdb.Close()
		rl = ratelimit.NewRedis(rdb, cfg.AuthRateMax, cfg.AuthRateWindow)
	}

	// Identity tokens
	j := auth.New(cfg.JWTSecret, cfg.TokenTTL)

	// Relay hub + presence sweeper
	hub := ws.NewHub(logger, j, cfg.PresenceTTL, ws.Options{RequireMembership: cfg.RequireMembership})
	go hub.Run(ctx)

	// HTTP + WS router
	router := httpx.NewRouter(cfg, logger, hub, pg, j, rl)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("server.listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server.crash", "err", err)
			cancel()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info("server.shutdown.start")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)

	logger.Info("server.shutdown.complete")
	_ = os.Stdout.Sync()
}
