package factview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boxline/boxline-data/internal/boxscore"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func testGame(id int64, seasonStartYear int, date string) boxscore.Game {
	t, _ := time.Parse("2006-01-02", date)
	home := 100
	away := 95
	return boxscore.Game{
		GameID:          id,
		SeasonStartYear: seasonStartYear,
		AwayTeam:        "Boston Celtics",
		HomeTeam:        "New York Knicks",
		PointsAway:      &away,
		PointsHome:      &home,
		Datetime:        boxscore.Date{Time: t},
		IsRegular:       1,
		League:          "NBA",
		Winner:          "New York Knicks",
	}
}

func testLine(gameID int64, player string) boxscore.Line {
	return boxscore.Line{
		GameID:     gameID,
		TeamName:   "New York Knicks",
		PlayerName: player,
		MP:         "32:00",
		PTS:        fp(20),
		TRB:        fp(5),
		AST:        fp(4),
		STL:        fp(1),
		BLK:        fp(0),
		TOV:        fp(2),
	}
}

func TestBuildRequiresSources(t *testing.T) {
	_, err := Build(nil, []boxscore.Game{testGame(1, 1996, "1996-11-01")}, nil)
	require.ErrorIs(t, err, ErrMissingData)

	_, err = Build([]boxscore.Line{testLine(1, "A")}, nil, nil)
	require.ErrorIs(t, err, ErrMissingData)
}

func TestBuildNullsUntrackedStats(t *testing.T) {
	// 1970 predates STL/BLK/TOV/3P tracking; a recorded value must still
	// read as null.
	line := testLine(1, "Walt Frazier")
	line.FG3 = fp(0)
	view, err := Build([]boxscore.Line{line}, []boxscore.Game{testGame(1, 1970, "1971-01-15")}, nil)
	require.NoError(t, err)
	require.Len(t, view.Rows, 1)

	r := view.Rows[0]
	assert.True(t, r.PTS.Valid)
	assert.True(t, r.TRB.Valid, "TRB tracked since 1950")
	assert.False(t, r.STL.Valid)
	assert.False(t, r.BLK.Valid)
	assert.False(t, r.TOV.Valid)
	assert.False(t, r.FG3.Valid)
	assert.False(t, r.Stocks.Valid, "stocks needs both STL and BLK")
}

func TestBuildDerivedColumns(t *testing.T) {
	line := testLine(1, "Patrick Ewing")
	line.FG = fp(11)
	line.FGA = fp(20)
	line.FG3 = fp(1)
	line.FG3A = fp(2)
	line.PTS = fp(30)
	line.TRB = fp(12)
	line.AST = fp(11)

	view, err := Build([]boxscore.Line{line}, []boxscore.Game{testGame(1, 1996, "1996-11-01")}, nil)
	require.NoError(t, err)
	r := view.Rows[0]

	assert.True(t, r.Win, "team matches winner")
	assert.True(t, r.Played)
	assert.False(t, r.DD, "three doubles is a TD, not a DD")
	assert.True(t, r.TD)
	assert.False(t, r.QD)

	require.True(t, r.TwoP.Valid)
	assert.Equal(t, 10.0, r.TwoP.Val)
	require.True(t, r.TwoPA.Valid)
	assert.Equal(t, 18.0, r.TwoPA.Val)
	require.True(t, r.Stocks.Valid)
	assert.Equal(t, 1.0, r.Stocks.Val)
}

func TestBuildIdempotence(t *testing.T) {
	sources := func() ([]boxscore.Line, []boxscore.Game, []boxscore.Player) {
		big := testLine(1, "Patrick Ewing")
		big.FG = fp(11)
		big.FGA = fp(20)
		big.PTS = fp(30)
		big.TRB = fp(12)
		big.AST = fp(11)
		early := testLine(2, "Walt Frazier")
		players := []boxscore.Player{{
			Name:      "Patrick Ewing",
			BirthDate: boxscore.Date{Time: time.Date(1962, 8, 5, 0, 0, 0, 0, time.UTC)},
			FromYear:  ip(1985),
		}}
		games := []boxscore.Game{
			testGame(1, 1996, "1996-11-01"),
			testGame(2, 1970, "1971-01-15"),
		}
		return []boxscore.Line{big, early}, games, players
	}

	l1, g1, p1 := sources()
	v1, err := Build(l1, g1, p1)
	require.NoError(t, err)

	l2, g2, p2 := sources()
	v2, err := Build(l2, g2, p2)
	require.NoError(t, err)

	// Identical sources produce identical rows, derived columns included.
	assert.Equal(t, v1.Rows, v2.Rows)
	assert.Equal(t, v1.HasAges, v2.HasAges)
}

func TestBuildPlayedFlag(t *testing.T) {
	dnp := boxscore.Line{GameID: 1, TeamName: "New York Knicks", PlayerName: "Bench Guy", MP: "0"}
	view, err := Build([]boxscore.Line{dnp}, []boxscore.Game{testGame(1, 1996, "1996-11-01")}, nil)
	require.NoError(t, err)
	assert.False(t, view.Rows[0].Played)

	short := dnp
	short.MP = "1:30"
	view, err = Build([]boxscore.Line{short}, []boxscore.Game{testGame(1, 1996, "1996-11-01")}, nil)
	require.NoError(t, err)
	assert.True(t, view.Rows[0].Played, "nonzero minutes counts as played")
}

func TestBuildAgeAtGame(t *testing.T) {
	players := []boxscore.Player{{
		Name:      "Patrick Ewing",
		BirthDate: boxscore.Date{Time: time.Date(1962, 8, 5, 0, 0, 0, 0, time.UTC)},
		FromYear:  ip(1985),
	}}
	lines := []boxscore.Line{testLine(1, "Patrick Ewing"), testLine(2, "Patrick Ewing")}
	games := []boxscore.Game{
		testGame(1, 1996, "1996-08-04"), // day before birthday
		testGame(2, 1996, "1996-08-05"), // birthday
	}

	view, err := Build(lines, games, players)
	require.NoError(t, err)
	require.True(t, view.HasAges)
	require.Len(t, view.Rows, 2)

	assert.Equal(t, 33, view.Rows[0].Age)
	assert.Equal(t, 34, view.Rows[1].Age)
	assert.True(t, view.Rows[0].AgeKnown)
}

func TestBuildUnknownPlayerHasNoAge(t *testing.T) {
	players := []boxscore.Player{{Name: "Somebody Else"}}
	view, err := Build([]boxscore.Line{testLine(1, "Patrick Ewing")},
		[]boxscore.Game{testGame(1, 1996, "1996-11-01")}, players)
	require.NoError(t, err)
	assert.True(t, view.HasAges)
	assert.False(t, view.Rows[0].AgeKnown)
}

func TestBuildSortsChronologically(t *testing.T) {
	lines := []boxscore.Line{testLine(2, "B"), testLine(1, "A")}
	games := []boxscore.Game{
		testGame(1, 1996, "1996-11-01"),
		testGame(2, 1996, "1997-01-15"),
	}
	view, err := Build(lines, games, nil)
	require.NoError(t, err)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, "A", view.Rows[0].PlayerName)
	assert.Equal(t, "B", view.Rows[1].PlayerName)
	assert.False(t, view.HasAges)
}

func TestBuildSkipsOrphanLines(t *testing.T) {
	lines := []boxscore.Line{testLine(1, "A"), testLine(99, "Orphan")}
	view, err := Build(lines, []boxscore.Game{testGame(1, 1996, "1996-11-01")}, nil)
	require.NoError(t, err)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "A", view.Rows[0].PlayerName)
}

func TestRowSeasonAndOpponent(t *testing.T) {
	view, err := Build([]boxscore.Line{testLine(1, "A")},
		[]boxscore.Game{testGame(1, 1996, "1996-11-01")}, nil)
	require.NoError(t, err)
	r := view.Rows[0]
	assert.Equal(t, "1996-1997", r.Season())
	assert.Equal(t, "vs Boston Celtics", r.Opponent(), "home team sees the away team")

	away := testLine(1, "B")
	away.TeamName = "Boston Celtics"
	view, err = Build([]boxscore.Line{away}, []boxscore.Game{testGame(1, 1996, "1996-11-01")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "@ New York Knicks", view.Rows[0].Opponent())
}
