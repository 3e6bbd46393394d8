// Package main is the entry point for the blog platform server. It reads
// configuration from the environment, builds the logger, and hands off to
// internal/server — all actual logic lives in the imported packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sakif/blog-platform/internal/auth"
	"github.com/sakif/blog-platform/internal/server"
)

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// The signing secret has no default: the server refuses to start
	// without one, and the value is never logged.
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET is required (e.g. JWT_SECRET=$(openssl rand -hex 32))")
		os.Exit(1)
	}

	tokenTTL := auth.DefaultTokenTTL
	if ttlStr := os.Getenv("JWT_TTL_MINUTES"); ttlStr != "" {
		minutes, err := strconv.Atoi(ttlStr)
		if err != nil || minutes <= 0 {
			logger.Error("invalid JWT_TTL_MINUTES value", slog.String("value", ttlStr))
			os.Exit(1)
		}
		tokenTTL = time.Duration(minutes) * time.Minute
	}

	bcryptCost := auth.DefaultCost
	if costStr := os.Getenv("BCRYPT_COST"); costStr != "" {
		cost, err := strconv.Atoi(costStr)
		if err != nil {
			logger.Error("invalid BCRYPT_COST value", slog.String("value", costStr))
			os.Exit(1)
		}
		bcryptCost = cost
	}

	dbPath := "data/blog.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	templateDir, _ := filepath.Abs("web/templates")
	staticDir, _ := filepath.Abs("web/static")

	cfg := server.Config{
		Port:        port,
		TemplateDir: templateDir,
		StaticDir:   staticDir,
		DBPath:      dbPath,
		JWTSecret:   jwtSecret,
		TokenTTL:    tokenTTL,
		BcryptCost:  bcryptCost,
		Environment: envOr("ENVIRONMENT", "development"),
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
