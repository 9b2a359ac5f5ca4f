// Package images resolves player names to headshot URLs for result
// enrichment. The whole mapping is small enough to hold in memory, so
// both backends load it once up front.
package images

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/boxline/boxline-data/internal/boxscore"
)

// Store is an immutable name-to-URL lookup.
type Store struct {
	urls map[string]string
}

// FromRecords builds a Store from loaded image records.
func FromRecords(records []boxscore.PlayerImage) *Store {
	urls := make(map[string]string, len(records))
	for _, r := range records {
		if r.PlayerName != "" && r.ImageURL != "" {
			urls[r.PlayerName] = r.ImageURL
		}
	}
	return &Store{urls: urls}
}

// Querier is the query surface needed to load from the database.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Load reads the player_image table into a Store.
func Load(ctx context.Context, q Querier) (*Store, error) {
	rows, err := q.Query(ctx, `SELECT player_name, image_url FROM player_image`)
	if err != nil {
		return nil, fmt.Errorf("load player images: %w", err)
	}
	defer rows.Close()

	urls := make(map[string]string)
	for rows.Next() {
		var name, url string
		if err := rows.Scan(&name, &url); err != nil {
			return nil, fmt.Errorf("scan player image: %w", err)
		}
		urls[name] = url
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read player images: %w", err)
	}
	return &Store{urls: urls}, nil
}

// URL returns the headshot URL for a player, if known.
func (s *Store) URL(_ context.Context, playerName string) (string, bool) {
	url, ok := s.urls[playerName]
	return url, ok
}

// Len returns the number of known players.
func (s *Store) Len() int {
	return len(s.urls)
}
