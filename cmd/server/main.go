// Package main is the entry point for the trip planner server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/trip-planner/backend/internal/api"
	"github.com/trip-planner/backend/internal/assistant"
	"github.com/trip-planner/backend/internal/planner"
	"github.com/trip-planner/backend/internal/storage"
	"github.com/trip-planner/backend/internal/websocket"
	"github.com/trip-planner/backend/pkg/logging"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// Defaults to "dev" when not provided.
var version = "dev"

func main() {
	// Parse command-line flags
	addr := flag.String("addr", ":8098", "HTTP server address")
	dataDir := flag.String("data", "/data", "Data directory for SQLite database")
	staticDir := flag.String("static", "./static", "Directory for static frontend files")
	sessionIdle := flag.Duration("session-idle", 30*time.Minute, "Close editing sessions idle for longer than this")
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Parse()

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(*addr); err != nil {
			slog.Error("health check failed", "error", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	logging.Setup()

	// Allow overriding version via environment (e.g., injected by container build/runtime)
	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}

	slog.Info("starting trip planner", "version", version)

	// Initialize database
	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		slog.Error("creating data directory failed", "dir", *dataDir, "error", err)
		os.Exit(1)
	}
	uploadDir := filepath.Join(*dataDir, "uploads")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		slog.Error("creating upload directory failed", "dir", uploadDir, "error", err)
		os.Exit(1)
	}
	dbPath := *dataDir + "/trip-planner.db"
	db, err := storage.NewDB(dbPath)
	if err != nil {
		slog.Error("opening database failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations
	if err := storage.RunMigrations(db); err != nil {
		slog.Error("running migrations failed", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready", "path", db.Path())

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Wire the engine: persistence, AI gateway, event broadcasting
	store := storage.NewTripRepository(db)
	gateway := assistant.NewClient(assistant.DefaultConfig())
	broadcaster := websocket.NewEventBroadcaster(hub)

	registry := planner.NewRegistry(planner.Config{
		Store:     store,
		Assistant: gateway,
		Notifier:  broadcaster,
	})

	// Sweep idle editing sessions
	sweeper := planner.NewSessionSweeper(registry, *sessionIdle)
	sweeper.Start()

	// Initialize HTTP router
	router := api.NewRouter(db, store, registry, hub, *staticDir, uploadDir)

	// Create HTTP server
	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		slog.Info("server listening", "addr", *addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	sweeper.Stop()

	// Flush every open session before the process exits; pending edits
	// must not be lost to a restart.
	registry.CloseAll()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	url := "http://localhost" + addr + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return http.ErrAbortHandler
	}
	return nil
}
