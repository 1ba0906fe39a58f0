/*
Package main is the entry point for the Ember Chat service.

It is responsible for loading configuration, initializing the global logging
system, connecting to the shared message store (fatal on failure, before any
chat component is reachable), starting the poll-driven sync loop, setting up
the HTTP server, and gracefully handling operating system interrupt signals
(SIGINT, SIGTERM) for a smooth shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emberchat/internal/app/db"
	"emberchat/internal/app/room"
	"emberchat/internal/app/roster"
	"emberchat/internal/app/session"
	"emberchat/internal/app/store"
	"emberchat/internal/configs"
	"emberchat/internal/handler"
	"emberchat/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Dur("poll_interval", cfg.PollInterval).
		Dur("roster_ttl", cfg.RosterTTL).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the store and run migrations. Any credential or connection
	// failure here is fatal: no chat functionality is reachable without an
	// authenticated store handle.
	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to the message store")
	}
	defer pool.Close()

	messages := store.NewMessages(pool, cfg.MessagesTable)
	profiles := store.NewProfiles(pool, cfg.UsersTable)

	rosterCache := roster.New(profiles, cfg.RosterTTL)
	poller := room.NewPoller(messages, rosterCache, cfg.PollInterval)
	go poller.Run(ctx)

	sessions := session.NewRegistry(messages, profiles, cfg.SessionTTL)

	deps := &handler.AppDeps{
		Config:   cfg,
		Sessions: sessions,
		Poller:   poller,
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Ember Chat starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}
