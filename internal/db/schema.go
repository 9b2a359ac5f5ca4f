package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/boxline/boxline-data/internal/boxscore"
	"github.com/boxline/boxline-data/internal/factview"
)

// The fact table stores what the in-memory view derives: pre-tracking
// stats are already NULL, minutes are numeric, and the per-game flags are
// materialized. Both backends therefore answer from the same facts.
const schema = `
CREATE TABLE IF NOT EXISTS games (
    game_id           BIGINT PRIMARY KEY,
    season_start_year INT NOT NULL,
    away_team         TEXT NOT NULL,
    points_away       INT,
    home_team         TEXT NOT NULL,
    points_home       INT,
    attendance        INT,
    notes             TEXT,
    start_et          TEXT,
    datetime          TIMESTAMP NOT NULL,
    is_regular        BOOLEAN NOT NULL,
    league            TEXT NOT NULL,
    is_final          BOOLEAN NOT NULL,
    is_playin         BOOLEAN,
    winner            TEXT,
    arena             TEXT
);

CREATE TABLE IF NOT EXISTS boxscore (
    game_id     BIGINT NOT NULL REFERENCES games(game_id),
    player_name TEXT NOT NULL,
    team_name   TEXT NOT NULL,
    minutes     DOUBLE PRECISION NOT NULL,
    is_starter  BOOLEAN NOT NULL,
    fg          DOUBLE PRECISION,
    fga         DOUBLE PRECISION,
    fg3         DOUBLE PRECISION,
    fg3a        DOUBLE PRECISION,
    ft          DOUBLE PRECISION,
    fta         DOUBLE PRECISION,
    orb         DOUBLE PRECISION,
    drb         DOUBLE PRECISION,
    trb         DOUBLE PRECISION,
    ast         DOUBLE PRECISION,
    stl         DOUBLE PRECISION,
    blk         DOUBLE PRECISION,
    tov         DOUBLE PRECISION,
    pf          DOUBLE PRECISION,
    pts         DOUBLE PRECISION,
    plus_minus  DOUBLE PRECISION,
    gmsc        DOUBLE PRECISION,
    played      BOOLEAN NOT NULL,
    win         BOOLEAN NOT NULL,
    dd          BOOLEAN NOT NULL,
    td          BOOLEAN NOT NULL,
    qd          BOOLEAN NOT NULL,
    PRIMARY KEY (game_id, player_name)
);

CREATE INDEX IF NOT EXISTS idx_boxscore_player_name ON boxscore(player_name);
CREATE INDEX IF NOT EXISTS idx_games_season ON games(season_start_year);
CREATE INDEX IF NOT EXISTS idx_games_datetime ON games(datetime);

CREATE TABLE IF NOT EXISTS player_info (
    name       TEXT PRIMARY KEY,
    birth_date DATE,
    from_year  INT,
    to_year    INT,
    position   TEXT,
    height     TEXT,
    weight     TEXT
);

CREATE TABLE IF NOT EXISTS player_image (
    player_name TEXT PRIMARY KEY,
    image_url   TEXT NOT NULL
);
`

// Migrate creates the schema.
func (p *Pool) Migrate(ctx context.Context) error {
	if _, err := p.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Truncate empties all analytical tables ahead of a full reload.
func (p *Pool) Truncate(ctx context.Context) error {
	_, err := p.Exec(ctx, `TRUNCATE boxscore, games, player_info, player_image`)
	if err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}

// LoadGames bulk-inserts game metadata.
func (p *Pool) LoadGames(ctx context.Context, games []boxscore.Game) (int64, error) {
	cols := []string{
		"game_id", "season_start_year", "away_team", "points_away",
		"home_team", "points_home", "attendance", "notes", "start_et",
		"datetime", "is_regular", "league", "is_final", "is_playin",
		"winner", "arena",
	}
	n, err := p.CopyFrom(ctx, pgx.Identifier{"games"}, cols,
		pgx.CopyFromSlice(len(games), func(i int) ([]any, error) {
			g := games[i]
			var isPlayin any
			if g.IsPlayin != nil {
				isPlayin = *g.IsPlayin != 0
			}
			return []any{
				g.GameID, g.SeasonStartYear, g.AwayTeam, g.PointsAway,
				g.HomeTeam, g.PointsHome, g.Attendance, g.Notes, g.StartET,
				g.Datetime.Time, g.IsRegular != 0, g.League, g.IsFinal != 0,
				isPlayin, g.Winner, g.Arena,
			}, nil
		}))
	if err != nil {
		return n, fmt.Errorf("copy games: %w", err)
	}
	return n, nil
}

// LoadFactRows bulk-inserts built fact rows. The rows must come from the
// fact view builder so the nulling and flag semantics match the in-memory
// backend exactly.
func (p *Pool) LoadFactRows(ctx context.Context, rows []factview.Row) (int64, error) {
	cols := []string{
		"game_id", "player_name", "team_name", "minutes", "is_starter",
		"fg", "fga", "fg3", "fg3a", "ft", "fta",
		"orb", "drb", "trb", "ast", "stl", "blk",
		"tov", "pf", "pts", "plus_minus", "gmsc",
		"played", "win", "dd", "td", "qd",
	}
	n, err := p.CopyFrom(ctx, pgx.Identifier{"boxscore"}, cols,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return []any{
				r.GameID, r.PlayerName, r.TeamName, r.Minutes, r.IsStarter,
				statVal(r.FG), statVal(r.FGA), statVal(r.FG3), statVal(r.FG3A),
				statVal(r.FT), statVal(r.FTA),
				statVal(r.ORB), statVal(r.DRB), statVal(r.TRB), statVal(r.AST),
				statVal(r.STL), statVal(r.BLK),
				statVal(r.TOV), statVal(r.PF), statVal(r.PTS),
				statVal(r.PlusMinus), statVal(r.GmSc),
				r.Played, r.Win, r.DD, r.TD, r.QD,
			}, nil
		}))
	if err != nil {
		return n, fmt.Errorf("copy boxscore: %w", err)
	}
	return n, nil
}

// LoadPlayers bulk-inserts the player biography table. The source keys
// players by name and carries a handful of same-name pairs; only the
// first row per name is loaded, since those names are excluded from
// analysis anyway.
func (p *Pool) LoadPlayers(ctx context.Context, players []boxscore.Player) (int64, error) {
	seen := make(map[string]bool, len(players))
	unique := make([]boxscore.Player, 0, len(players))
	for _, pl := range players {
		if seen[pl.Name] {
			continue
		}
		seen[pl.Name] = true
		unique = append(unique, pl)
	}

	cols := []string{"name", "birth_date", "from_year", "to_year", "position", "height", "weight"}
	n, err := p.CopyFrom(ctx, pgx.Identifier{"player_info"}, cols,
		pgx.CopyFromSlice(len(unique), func(i int) ([]any, error) {
			pl := unique[i]
			var birth any
			if !pl.BirthDate.IsZero() {
				birth = pl.BirthDate.Time
			}
			return []any{
				pl.Name, birth, pl.FromYear, pl.ToYear,
				pl.Position, pl.Height, pl.Weight,
			}, nil
		}))
	if err != nil {
		return n, fmt.Errorf("copy player_info: %w", err)
	}
	return n, nil
}

// LoadImages bulk-inserts the headshot lookup table.
func (p *Pool) LoadImages(ctx context.Context, images []boxscore.PlayerImage) (int64, error) {
	cols := []string{"player_name", "image_url"}
	n, err := p.CopyFrom(ctx, pgx.Identifier{"player_image"}, cols,
		pgx.CopyFromSlice(len(images), func(i int) ([]any, error) {
			img := images[i]
			return []any{img.PlayerName, img.ImageURL}, nil
		}))
	if err != nil {
		return n, fmt.Errorf("copy player_image: %w", err)
	}
	return n, nil
}

func statVal(s factview.Stat) any {
	if !s.Valid {
		return nil
	}
	return s.Val
}
