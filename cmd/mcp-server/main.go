// cmd/mcp-server/main.go: HTTP tool and session server for mathtree
//
// Exposes the mathtree tools and live editor sessions over HTTP for agent
// frameworks and thin front ends.
//
// Usage:
//
//	go run ./cmd/mcp-server -config mathtree.yaml -port 8080
//
// Tool call endpoint: POST   /tool
// Schema endpoint:    GET    /schema
// Health endpoint:    GET    /health
// Metrics:            GET    /metrics
// Sessions:           POST   /sessions
//
//	GET    /sessions/{id}
//	POST   /sessions/{id}/keys
//	DELETE /sessions/{id}
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/njchilds90/mathtree/internal/config"
	"github.com/njchilds90/mathtree/internal/logging"
	"github.com/njchilds90/mathtree/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to a YAML config file")
	port := flag.Int("port", 0, "Port to listen on (overrides server.addr)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *port != 0 {
		cfg.Server.Addr = fmt.Sprintf(":%d", *port)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Logging, *verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ttl := cfg.GetSessionTTL()
	store := session.NewStore(cfg.Sessions.Max, ttl, session.WithLogger(logger.Named("sessions")))
	if ttl > 0 {
		go store.Run(ctx, sweepInterval(ttl))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newServer(store, cfg.Server.MaxBodyBytes, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.GetReadTimeout(),
		WriteTimeout:      cfg.GetWriteTimeout(),
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("mathtree server listening",
		zap.String("addr", cfg.Server.Addr),
		zap.Int("max_sessions", cfg.Sessions.Max),
		zap.Duration("session_ttl", ttl))

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// sweepInterval checks for expired sessions a few times per TTL, and at
// least once a minute.
func sweepInterval(ttl time.Duration) time.Duration {
	if d := ttl / 4; d < time.Minute {
		if d <= 0 {
			return time.Second
		}
		return d
	}
	return time.Minute
}
