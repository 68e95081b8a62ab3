package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/mquell/listling/internal/server"
	"github.com/mquell/listling/internal/storage"
	fsstore "github.com/mquell/listling/internal/storage/firestore"
	"github.com/mquell/listling/internal/storage/sqlite"
	"github.com/mquell/listling/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		slog.Error("Invalid PORT", "error", err)
		os.Exit(1)
	}

	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "720h"))
	if err != nil {
		slog.Error("Invalid TOKEN_TTL", "error", err)
		os.Exit(1)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	store, err := openStore()
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	srv := server.New(server.Config{
		Port:          port,
		JWTSecret:     secret,
		TokenDuration: tokenTTL,
	}, store)

	if err := srv.Start(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// openStore selects the storage backend: Firestore when a GCP project
// is configured, a local SQLite file otherwise.
func openStore() (storage.Store, error) {
	if project := os.Getenv("FIRESTORE_PROJECT"); project != "" {
		slog.Info("Storage backend: firestore", "project", project)
		return fsstore.New(context.Background(), project)
	}

	dbPath := getEnv("DB_PATH", "./data/listling.db")
	slog.Info("Storage backend: sqlite", "database", dbPath)
	return sqlite.New(dbPath)
}
