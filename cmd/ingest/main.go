// Command ingest loads the CSV archive into Postgres for the sql backend.
//
// Usage:
//
//	boxline-ingest load --data-dir data
//	boxline-ingest load --data-dir data --no-truncate
//	boxline-ingest verify
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/boxline/boxline-data/internal/boxscore"
	"github.com/boxline/boxline-data/internal/config"
	"github.com/boxline/boxline-data/internal/db"
	"github.com/boxline/boxline-data/internal/factview"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "boxline-ingest",
		Short: "Boxline box-score ingestion CLI",
	}

	root.AddCommand(loadCmd())
	root.AddCommand(verifyCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// load command
// --------------------------------------------------------------------------

func loadCmd() *cobra.Command {
	var (
		dataDir    string
		noTruncate bool
	)
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Build the fact table from the CSV archive and load it into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if dataDir == "" {
					dataDir = cfg.DataDir
				}
				loader := boxscore.NewLoader(dataDir)

				start := time.Now()
				logger.Info("Reading archive", "data_dir", dataDir)
				lines, err := loader.Boxscore(config.BoxscoreFile)
				if err != nil {
					return err
				}
				games, err := loader.Games(config.GamesFile)
				if err != nil {
					return err
				}
				players, err := loader.Players(config.PlayerInfoFile)
				if err != nil {
					return err
				}
				images, err := loader.Images(config.PlayerImagesFile)
				if err != nil {
					return err
				}
				logger.Info("Archive read",
					"lines", len(lines), "games", len(games),
					"players", len(players), "images", len(images),
					"elapsed", time.Since(start).Round(time.Millisecond))

				// The database stores the built fact rows, not the raw CSV,
				// so both backends answer from identical facts.
				view, err := factview.Build(lines, games, players)
				if err != nil {
					return fmt.Errorf("build fact view: %w", err)
				}
				logger.Info("Fact view built", "rows", len(view.Rows), "has_ages", view.HasAges)

				if err := pool.Migrate(ctx); err != nil {
					return err
				}
				if !noTruncate {
					if err := pool.Truncate(ctx); err != nil {
						return err
					}
				}

				loadStart := time.Now()
				n, err := pool.LoadGames(ctx, games)
				if err != nil {
					return err
				}
				logger.Info("Games loaded", "rows", n)

				n, err = pool.LoadFactRows(ctx, view.Rows)
				if err != nil {
					return err
				}
				logger.Info("Boxscore loaded", "rows", n)

				n, err = pool.LoadPlayers(ctx, players)
				if err != nil {
					return err
				}
				logger.Info("Players loaded", "rows", n)

				n, err = pool.LoadImages(ctx, images)
				if err != nil {
					return err
				}
				logger.Info("Images loaded", "rows", n)

				logger.Info("Load finished",
					"elapsed", time.Since(loadStart).Round(time.Second),
					"total", time.Since(start).Round(time.Second))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Archive directory (default: DATA_DIR)")
	cmd.Flags().BoolVar(&noTruncate, "no-truncate", false, "Skip truncating existing tables before loading")
	return cmd
}

// --------------------------------------------------------------------------
// verify command
// --------------------------------------------------------------------------

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Report row counts for the analytical tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				box, games, players, images, err := pool.RowCounts(ctx)
				if err != nil {
					return err
				}
				logger.Info("Row counts",
					"boxscore", box, "games", games,
					"player_info", players, "player_image", images)
				if box == 0 || games == 0 {
					return fmt.Errorf("fact tables are empty; run boxline-ingest load first")
				}
				return nil
			})
		},
	}
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runDB handles config loading, DB connection, and context cancellation.
func runDB(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
