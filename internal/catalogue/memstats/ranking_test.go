package memstats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boxline/boxline-data/internal/catalogue"
	"github.com/boxline/boxline-data/internal/factview"
)

func TestRankingByAgeSum(t *testing.T) {
	b := newBackend(t,
		row(1, "Alpha", 30),
		row(1, "Bravo", 40),
		row(2, "Alpha", 20),
	)

	res, err := b.RankingByAge(context.Background(), catalogue.RankingByAgeParams{Label: "PTS"})
	require.NoError(t, err)

	assert.Equal(t, []string{"playerName", "PTS", "Games"}, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, []any{"Alpha", int64(50), int64(2)}, res.Rows[0])
	assert.Equal(t, []any{"Bravo", int64(40), int64(1)}, res.Rows[1])
}

func TestRankingByAgeTieBreaksByName(t *testing.T) {
	b := newBackend(t,
		row(1, "Zeta", 40),
		row(1, "Alpha", 40),
	)

	res, err := b.RankingByAge(context.Background(), catalogue.RankingByAgeParams{Label: "PTS"})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Alpha", res.Rows[0][0])
	assert.Equal(t, "Zeta", res.Rows[1][0])
}

func TestRankingByAgeMeanSkipsNulls(t *testing.T) {
	nullGame := row(2, "Alpha", 0)
	nullGame.PTS = factview.Stat{}

	b := newBackend(t, row(1, "Alpha", 10), nullGame)

	res, err := b.RankingByAge(context.Background(), catalogue.RankingByAgeParams{
		Label: "PTS",
		Agg:   catalogue.AggMean,
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	// One valid game averaging 10; the null game counts toward Games only.
	assert.Equal(t, []any{"Alpha", 10.0, int64(2)}, res.Rows[0])
}

func TestRankingByAgeMinGames(t *testing.T) {
	b := newBackend(t,
		row(1, "Alpha", 30),
		row(2, "Alpha", 20),
		row(1, "Bravo", 40),
	)

	res, err := b.RankingByAge(context.Background(), catalogue.RankingByAgeParams{
		Label:    "PTS",
		MinGames: 2,
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Alpha", res.Rows[0][0])
}

func TestRankingByAgeAgeWindow(t *testing.T) {
	young := row(1, "Young", 30)
	young.Age, young.AgeKnown = 21, true
	old := row(1, "Old", 40)
	old.Age, old.AgeKnown = 35, true
	unknown := row(1, "Unknown", 50)

	b := newBackend(t, young, old, unknown)

	maxAge := 22
	res, err := b.RankingByAge(context.Background(), catalogue.RankingByAgeParams{
		Label:  "PTS",
		MaxAge: &maxAge,
	})
	require.NoError(t, err)
	// Unknown ages never pass an age bound.
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Young", res.Rows[0][0])
}

func TestRankingByAgeWithoutAgesFails(t *testing.T) {
	view := &factview.View{Rows: []factview.Row{row(1, "Alpha", 30)}, HasAges: false}
	b := New(factview.NewStaticHandle(view))

	minAge := 30
	_, err := b.RankingByAge(context.Background(), catalogue.RankingByAgeParams{
		Label:  "PTS",
		MinAge: &minAge,
	})
	var ce *catalogue.ConfigurationError
	require.ErrorAs(t, err, &ce)
}

func TestRankingByAgeStarterAndTeamFilters(t *testing.T) {
	bench := row(1, "Bench Player", 30)
	bench.IsStarter = false
	celtic := row(1, "Celtic", 40)
	celtic.TeamName = "Boston Celtics"

	b := newBackend(t, row(1, "Starter", 20), bench, celtic)

	starter := true
	res, err := b.RankingByAge(context.Background(), catalogue.RankingByAgeParams{
		Label:     "PTS",
		IsStarter: &starter,
		Team:      "knicks",
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Starter", res.Rows[0][0])
}

func TestRankingExcludesDuplicateNames(t *testing.T) {
	b := newBackend(t,
		row(1, "David Lee", 50),
		row(1, "Alpha", 10),
	)

	res, err := b.RankingByAge(context.Background(), catalogue.RankingByAgeParams{Label: "PTS"})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Alpha", res.Rows[0][0])
}

func TestScopeGameTypes(t *testing.T) {
	regular := row(1, "Regular", 10)
	playoff := row(2, "Playoff", 20)
	playoff.IsRegular = false
	playin := row(3, "Playin", 30)
	playin.IsRegular = false
	playin.IsPlayin = true
	final := row(4, "Final", 40)
	final.IsRegular = false
	final.IsFinal = true

	b := newBackend(t, regular, playoff, playin, final)

	names := func(gt catalogue.GameType) []string {
		res, err := b.RankingByAge(context.Background(), catalogue.RankingByAgeParams{
			Scope: catalogue.Scope{GameType: gt},
			Label: "PTS",
		})
		require.NoError(t, err)
		out := make([]string, 0, len(res.Rows))
		for _, r := range res.Rows {
			out = append(out, r[0].(string))
		}
		return out
	}

	assert.ElementsMatch(t, []string{"Regular"}, names(catalogue.GameTypeRegular))
	// Play-in games are neither regular season nor playoffs.
	assert.ElementsMatch(t, []string{"Playoff", "Final"}, names(catalogue.GameTypePlayoff))
	assert.ElementsMatch(t, []string{"Final"}, names(catalogue.GameTypeFinal))
	assert.ElementsMatch(t, []string{"Regular", "Playoff", "Playin", "Final"}, names(catalogue.GameTypeAll))
}

func TestSeasonAchievementCount(t *testing.T) {
	g3 := row(3, "Alpha", 30)
	g3.SeasonStartYear = 1997
	b := newBackend(t,
		row(1, "Alpha", 30),
		row(2, "Alpha", 30),
		g3,
		row(1, "Bravo", 10),
	)

	res, err := b.SeasonAchievementCount(context.Background(), catalogue.SeasonAchievementCountParams{
		Label:     "PTS",
		Threshold: 50,
	})
	require.NoError(t, err)

	// Alpha: 60 in 1996, 30 in 1997. Bravo never reaches 50.
	assert.Equal(t, []string{"playerName", "50+PTS"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []any{"Alpha", int64(1)}, res.Rows[0])
}

func TestFilteredAchievementCount(t *testing.T) {
	lowAst := row(2, "Alpha", 40)
	lowAst.AST = sv(2)
	nullAst := row(1, "Bravo", 35)
	nullAst.AST = factview.Stat{}

	b := newBackend(t, row(1, "Alpha", 35), lowAst, nullAst)

	five := 5
	res, err := b.FilteredAchievementCount(context.Background(), catalogue.FilteredAchievementCountParams{
		CountColumn:    "PTS",
		CountThreshold: 30,
		FilterColumn:   "AST",
		FilterOp:       catalogue.FilterLT,
		FilterValue:    &five,
	})
	require.NoError(t, err)

	// Alpha's 35-point game had 4 assists (< 5); the 40-point game had 2
	// assists and also passes. Bravo's assists are null, so the filter
	// cannot evaluate and the row is skipped.
	assert.Equal(t, []string{"playerName", "Count"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []any{"Alpha", int64(2)}, res.Rows[0])
}

func TestFilteredAchievementCountRejectsBadOperator(t *testing.T) {
	b := newBackend(t, row(1, "Alpha", 30))
	one := 1
	_, err := b.FilteredAchievementCount(context.Background(), catalogue.FilteredAchievementCountParams{
		CountColumn:    "PTS",
		CountThreshold: 30,
		FilterColumn:   "AST",
		FilterOp:       catalogue.FilterOp("like"),
		FilterValue:    &one,
	})
	var ipe *catalogue.InvalidParameterError
	require.ErrorAs(t, err, &ipe)
}

func TestCombinedAchievementCount(t *testing.T) {
	big := row(1, "Alpha", 30)
	big.AST = sv(6)

	b := newBackend(t, big, row(2, "Alpha", 30), row(1, "Bravo", 10))

	res, err := b.CombinedAchievementCount(context.Background(), catalogue.CombinedAchievementCountParams{
		Thresholds: map[string]int{"PTS": 25, "AST": 5},
	})
	require.NoError(t, err)

	// Column name lists the stats alphabetically.
	assert.Equal(t, []string{"playerName", "5AST & 25PTS"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []any{"Alpha", int64(1)}, res.Rows[0])
}

func TestCombinedAchievementCountValidation(t *testing.T) {
	b := newBackend(t, row(1, "Alpha", 30))

	_, err := b.CombinedAchievementCount(context.Background(), catalogue.CombinedAchievementCountParams{})
	var ipe *catalogue.InvalidParameterError
	require.ErrorAs(t, err, &ipe)

	_, err = b.CombinedAchievementCount(context.Background(), catalogue.CombinedAchievementCountParams{
		Thresholds: map[string]int{"DD": 1},
	})
	require.ErrorAs(t, err, &ipe, "flags are not raw stat columns")
}

func TestBenchPlayerRanking(t *testing.T) {
	b1 := row(1, "Sixth Man", 20)
	b1.IsStarter = false
	b2 := row(2, "Sixth Man", 10)
	b2.IsStarter = false
	starter := row(1, "Starter", 40)

	b := newBackend(t, b1, b2, starter)

	res, err := b.BenchPlayerRanking(context.Background(), catalogue.BenchPlayerRankingParams{
		Label:    "PTS",
		MinGames: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"playerName", "BenchGames", "PPG", "RPG", "APG", "MPG", "PTS"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []any{"Sixth Man", int64(2), 15.0, 5.0, 4.0, 30.0, int64(30)}, res.Rows[0])
}

func TestBenchPlayerRankingSeasonFilter(t *testing.T) {
	b1 := row(1, "Sixth Man", 20)
	b1.IsStarter = false
	b2 := row(2, "Sixth Man", 10)
	b2.IsStarter = false
	b2.SeasonStartYear = 1997

	b := newBackend(t, b1, b2)

	season := 1996
	res, err := b.BenchPlayerRanking(context.Background(), catalogue.BenchPlayerRankingParams{
		Label:    "PTS",
		MinGames: 1,
		Season:   &season,
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, int64(1), res.Rows[0][1])
}

func TestTeammateRanking(t *testing.T) {
	opponent := row(1, "Opponent", 50)
	opponent.TeamName = "Boston Celtics"

	b := newBackend(t,
		row(1, "Anchor", 20),
		row(1, "Mate One", 10),
		opponent,
		row(2, "Anchor", 20),
		row(2, "Mate One", 20),
		row(2, "Mate Two", 5),
	)

	res, err := b.TeammateRanking(context.Background(), catalogue.TeammateRankingParams{
		PlayerName: "Anchor",
		Label:      "PTS",
		MinGames:   1,
	})
	require.NoError(t, err)

	// The opponent shared a game but not a team; the anchor is excluded
	// from their own ranking.
	assert.Equal(t, []string{"playerName", "PTS", "GamesTogether"}, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, []any{"Mate One", int64(30), int64(2)}, res.Rows[0])
	assert.Equal(t, []any{"Mate Two", int64(5), int64(1)}, res.Rows[1])
}

func TestTeammateRankingRequiresPlayer(t *testing.T) {
	b := newBackend(t, row(1, "Alpha", 10))
	_, err := b.TeammateRanking(context.Background(), catalogue.TeammateRankingParams{Label: "PTS", MinGames: 1})
	var ipe *catalogue.InvalidParameterError
	require.ErrorAs(t, err, &ipe)
}
