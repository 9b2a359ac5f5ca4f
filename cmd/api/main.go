// Command api is the Boxline Data API server.
//
// Usage:
//
//	boxline-api
//	API_PORT=8080 ANALYTICS_BACKEND=sql boxline-api

// @title Boxline Data API
// @version 1.0.0
// @description NBA box-score analytics API. Answers natural-language and structured questions against a fact table of every player game since 1946, served from an in-memory view or from Postgres.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/boxline/boxline-data/internal/api"
	"github.com/boxline/boxline-data/internal/api/handler"
	"github.com/boxline/boxline-data/internal/boxscore"
	"github.com/boxline/boxline-data/internal/catalogue"
	"github.com/boxline/boxline-data/internal/catalogue/memstats"
	"github.com/boxline/boxline-data/internal/catalogue/pgstats"
	"github.com/boxline/boxline-data/internal/config"
	"github.com/boxline/boxline-data/internal/db"
	"github.com/boxline/boxline-data/internal/dispatch"
	"github.com/boxline/boxline-data/internal/factview"
	"github.com/boxline/boxline-data/internal/history"
	"github.com/boxline/boxline-data/internal/images"
	"github.com/boxline/boxline-data/internal/interp"

	_ "github.com/boxline/boxline-data/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var (
		analyzer    catalogue.Analyzer
		imageSource dispatch.ImageSource
		handle      *factview.Handle
		pool        *db.Pool
	)

	switch cfg.Backend {
	case config.BackendSQL:
		logger.Info("Connecting to database...")
		pool, err = db.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)

		analyzer = pgstats.New(pool)

		imgs, err := images.Load(ctx, pool)
		if err != nil {
			logger.Warn("Player images unavailable", "error", err)
		} else {
			imageSource = imgs
			logger.Info("Player images loaded", "count", imgs.Len())
		}

	case config.BackendMemory:
		loader := boxscore.NewLoader(cfg.DataDir)
		handle = factview.NewHandle(func(ctx context.Context) (*factview.View, error) {
			lines, err := loader.Boxscore(config.BoxscoreFile)
			if err != nil {
				return nil, err
			}
			games, err := loader.Games(config.GamesFile)
			if err != nil {
				return nil, err
			}
			players, err := loader.Players(config.PlayerInfoFile)
			if err != nil {
				return nil, err
			}
			return factview.Build(lines, games, players)
		})

		// Build eagerly so a bad data directory fails at startup, not on
		// the first request.
		logger.Info("Building fact view...", "data_dir", cfg.DataDir)
		start := time.Now()
		view, err := handle.View(ctx)
		if err != nil {
			logger.Error("Failed to build fact view", "error", err)
			os.Exit(1)
		}
		logger.Info("Fact view ready",
			"rows", len(view.Rows),
			"elapsed", time.Since(start).Round(time.Millisecond))

		analyzer = memstats.New(handle)

		records, err := loader.Images(config.PlayerImagesFile)
		if err != nil {
			logger.Warn("Player images unavailable", "error", err)
		} else if len(records) > 0 {
			imageSource = images.FromRecords(records)
			logger.Info("Player images loaded", "count", len(records))
		}
	}

	dispatcher := dispatch.New(analyzer, imageSource, logger)

	var interpreter *interp.Interpreter
	if cfg.AnthropicAPIKey != "" {
		interpreter = interp.New(interp.NewClient(cfg.AnthropicAPIKey), cfg.InterpreterModel, logger)
		logger.Info("Interpreter enabled", "model", cfg.InterpreterModel)
	} else {
		logger.Info("Interpreter disabled (no ANTHROPIC_API_KEY); /api/v1/analyze will answer 503")
	}

	var hist *history.Store
	if cfg.HistoryPath != "" {
		hist, err = history.Open(cfg.HistoryPath)
		if err != nil {
			logger.Warn("Query history disabled", "error", err)
		} else {
			defer hist.Close()
			logger.Info("Query history ready", "path", cfg.HistoryPath)
		}
	}

	h := handler.New(dispatcher, interpreter, hist, handle, pool, cfg)
	router := api.NewRouter(h, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Boxline Data API",
			"addr", addr,
			"backend", cfg.Backend,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
