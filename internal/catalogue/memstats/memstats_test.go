package memstats

import (
	"testing"
	"time"

	"github.com/boxline/boxline-data/internal/factview"
)

// sv builds a non-null stat value.
func sv(v float64) factview.Stat { return factview.Stat{Val: v, Valid: true} }

// day maps a game ID to a date so ascending IDs are chronological.
func day(gameID int64) time.Time {
	return time.Date(1996, 11, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(gameID))
}

// row is a played regular-season home win for the Knicks with a typical
// stat line. Tests override fields as needed.
func row(gameID int64, player string, pts float64) factview.Row {
	return factview.Row{
		GameID:     gameID,
		PlayerName: player,
		TeamName:   "New York Knicks",
		MP:         "30:00",
		Minutes:    30,
		IsStarter:  true,

		PTS: sv(pts),
		TRB: sv(5),
		AST: sv(4),

		Date:            day(gameID),
		SeasonStartYear: 1996,
		League:          "NBA",
		IsRegular:       true,
		Winner:          "New York Knicks",
		HomeTeam:        "New York Knicks",
		AwayTeam:        "Boston Celtics",
		PointsHome:      100,
		PointsAway:      95,

		Played: true,
		Win:    true,
	}
}

// newBackend publishes the rows as a static view with ages available.
// Rows must be passed in chronological order, as Build would produce them.
func newBackend(t *testing.T, rows ...factview.Row) *Backend {
	t.Helper()
	return New(factview.NewStaticHandle(&factview.View{Rows: rows, HasAges: true}))
}
