package main

import (
	"context"
	"crypto/ed25519"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/movie-night/auth"
	"github.com/danielhkuo/movie-night/candidates"
	"github.com/danielhkuo/movie-night/cliparse"
	"github.com/danielhkuo/movie-night/db"
	"github.com/danielhkuo/movie-night/election"
	"github.com/danielhkuo/movie-night/omdb"
	"github.com/danielhkuo/movie-night/router"
)

func main() {
	var err error

	// Load .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	var publicKey ed25519.PublicKey
	if !cfg.SkipVerify {
		publicKey, err = auth.ParsePublicKey(cfg.PublicKey)
		if err != nil {
			slog.Error("invalid public key", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Warn("signature verification disabled (IS_LOCAL)")
	}

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	store := db.NewStore(dbConn)
	lookup := omdb.NewClient(cfg.OMDbBaseURL, cfg.OMDbAPIKey, cfg.LookupTimeout)
	cache, err := candidates.NewCache(lookup, store, cfg.CacheSize)
	if err != nil {
		slog.Error("candidate cache setup failed", "error", err)
		os.Exit(1)
	}

	engine := election.NewEngine(store, cache, nil)
	if err := engine.Init(context.Background()); err != nil {
		slog.Error("election setup failed", "error", err)
		os.Exit(1)
	}

	// Create router
	mux := router.NewRouter(engine, publicKey, cfg)

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
