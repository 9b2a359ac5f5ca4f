package memstats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boxline/boxline-data/internal/boxscore"
	"github.com/boxline/boxline-data/internal/catalogue"
	"github.com/boxline/boxline-data/internal/factview"
)

func TestConsecutiveGames(t *testing.T) {
	pts := []float64{25, 25, 10, 25, 25, 25}
	rows := make([]factview.Row, 0, len(pts)+1)
	for i, p := range pts {
		rows = append(rows, row(int64(i+1), "Streaky", p))
	}
	rows = append(rows, row(1, "Quiet", 10))

	b := newBackend(t, rows...)

	res, err := b.ConsecutiveGames(context.Background(), catalogue.ConsecutiveGamesParams{
		Label: "20PTS+",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"playerName", "20PTS+"}, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, []any{"Streaky", int64(3)}, res.Rows[0])
	// Players who never achieved the label still appear with zero.
	assert.Equal(t, []any{"Quiet", int64(0)}, res.Rows[1])
}

func TestConsecutiveGamesTeamFilter(t *testing.T) {
	away := row(2, "Traded", 30)
	away.TeamName = "Boston Celtics"

	b := newBackend(t, row(1, "Traded", 30), away, row(3, "Traded", 30))

	res, err := b.ConsecutiveGames(context.Background(), catalogue.ConsecutiveGamesParams{
		Label: "20PTS+",
		Team:  "knicks",
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	// The Celtics game is filtered out before streaks are counted, so the
	// two Knicks games become consecutive.
	assert.Equal(t, []any{"Traded", int64(2)}, res.Rows[0])
}

func TestGamesToReach(t *testing.T) {
	rows := []factview.Row{
		row(1, "Slow", 5), row(2, "Slow", 8), row(3, "Slow", 12), row(4, "Slow", 20),
		row(1, "Fast", 20),
		row(1, "Never", 6), row(2, "Never", 7),
	}

	b := newBackend(t, rows...)

	res, err := b.GamesToReach(context.Background(), catalogue.GamesToReachParams{
		Label:     "PTS",
		Threshold: 15,
	})
	require.NoError(t, err)

	// Fewest games first; players who never reached the total are absent.
	assert.Equal(t, []string{"playerName", "Games"}, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, []any{"Fast", int64(1)}, res.Rows[0])
	assert.Equal(t, []any{"Slow", int64(3)}, res.Rows[1])
}

func TestGamesToReachNullAdvancesCount(t *testing.T) {
	nullGame := row(2, "Alpha", 0)
	nullGame.PTS = factview.Stat{}

	b := newBackend(t, row(1, "Alpha", 10), nullGame, row(3, "Alpha", 10))

	res, err := b.GamesToReach(context.Background(), catalogue.GamesToReachParams{
		Label:     "PTS",
		Threshold: 20,
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	// The null game adds nothing but still counts as a game played.
	assert.Equal(t, []any{"Alpha", int64(3)}, res.Rows[0])
}

// TestSequenceOpsOverBuiltView runs the sequence operations against a view
// produced by the real builder rather than hand-assembled rows: one player,
// five chronological games across three seasons scoring 42, 38, 40, 19, 41.
func TestSequenceOpsOverBuiltView(t *testing.T) {
	pts := []float64{42, 38, 40, 19, 41}
	seasons := []int{1996, 1996, 1997, 1997, 1998}

	lines := make([]boxscore.Line, 0, len(pts))
	games := make([]boxscore.Game, 0, len(pts))
	for i := range pts {
		id := int64(i + 1)
		p := pts[i]
		lines = append(lines, boxscore.Line{
			GameID:     id,
			TeamName:   "New York Knicks",
			PlayerName: "Arc",
			MP:         "36:00",
			PTS:        &p,
		})
		games = append(games, boxscore.Game{
			GameID:          id,
			SeasonStartYear: seasons[i],
			HomeTeam:        "New York Knicks",
			AwayTeam:        "Boston Celtics",
			Datetime:        boxscore.Date{Time: time.Date(seasons[i], 11, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)},
			IsRegular:       1,
			League:          "NBA",
			Winner:          "New York Knicks",
		})
	}

	view, err := factview.Build(lines, games, nil)
	require.NoError(t, err)
	b := New(factview.NewStaticHandle(view))

	streak, err := b.ConsecutiveGames(context.Background(), catalogue.ConsecutiveGamesParams{
		Label: "40PTS+",
	})
	require.NoError(t, err)
	require.Len(t, streak.Rows, 1)
	// The 38-point second game breaks the opening run, so the 40-point
	// games never chain: the longest streak is a single game.
	assert.Equal(t, []any{"Arc", int64(1)}, streak.Rows[0])

	reach, err := b.GamesToReach(context.Background(), catalogue.GamesToReachParams{
		Label:     "PTS",
		Threshold: 100,
	})
	require.NoError(t, err)
	require.Len(t, reach.Rows, 1)
	// 42+38 = 80 falls short; the third game carries the total to 120.
	assert.Equal(t, []any{"Arc", int64(3)}, reach.Rows[0])
}

func TestNGameSpanRanking(t *testing.T) {
	b := newBackend(t,
		row(1, "Alpha", 10), row(2, "Alpha", 20), row(3, "Alpha", 5),
		row(1, "Short", 50),
	)

	res, err := b.NGameSpanRanking(context.Background(), catalogue.NGameSpanParams{
		Label:  "PTS",
		NGames: 2,
	})
	require.NoError(t, err)

	// Short has fewer games than the window and cannot qualify.
	assert.Equal(t, []string{"playerName", "PTS"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []any{"Alpha", int64(30)}, res.Rows[0])
}

func TestNGameSpanSkipsNullWindows(t *testing.T) {
	nullGame := row(2, "Alpha", 0)
	nullGame.PTS = factview.Stat{}

	b := newBackend(t, row(1, "Alpha", 10), nullGame, row(3, "Alpha", 30))

	res, err := b.NGameSpanRanking(context.Background(), catalogue.NGameSpanParams{
		Label:  "PTS",
		NGames: 2,
	})
	require.NoError(t, err)
	// Every 2-game window touches the null game, so no window counts.
	assert.True(t, res.Empty())
}

func TestNGameSpanRejectsBadWindow(t *testing.T) {
	b := newBackend(t, row(1, "Alpha", 10))
	_, err := b.NGameSpanRanking(context.Background(), catalogue.NGameSpanParams{
		Label:  "PTS",
		NGames: 0,
	})
	var ipe *catalogue.InvalidParameterError
	require.ErrorAs(t, err, &ipe)
}
