package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boxline/boxline-data/internal/catalogue"
)

// fakeAnalyzer returns a canned result for every operation and records the
// typed params it was called with.
type fakeAnalyzer struct {
	result *catalogue.Result
	err    error

	rankingParams *catalogue.RankingByAgeParams
	duelParams    *catalogue.DuelRankingParams
}

func (f *fakeAnalyzer) answer() (*catalogue.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeAnalyzer) RankingByAge(_ context.Context, p catalogue.RankingByAgeParams) (*catalogue.Result, error) {
	f.rankingParams = &p
	return f.answer()
}

func (f *fakeAnalyzer) ConsecutiveGames(context.Context, catalogue.ConsecutiveGamesParams) (*catalogue.Result, error) {
	return f.answer()
}

func (f *fakeAnalyzer) GamesToReach(context.Context, catalogue.GamesToReachParams) (*catalogue.Result, error) {
	return f.answer()
}

func (f *fakeAnalyzer) NGameSpanRanking(context.Context, catalogue.NGameSpanParams) (*catalogue.Result, error) {
	return f.answer()
}

func (f *fakeAnalyzer) SeasonAchievementCount(context.Context, catalogue.SeasonAchievementCountParams) (*catalogue.Result, error) {
	return f.answer()
}

func (f *fakeAnalyzer) DuelRanking(_ context.Context, p catalogue.DuelRankingParams) (*catalogue.Result, error) {
	f.duelParams = &p
	return f.answer()
}

func (f *fakeAnalyzer) FilteredAchievementCount(context.Context, catalogue.FilteredAchievementCountParams) (*catalogue.Result, error) {
	return f.answer()
}

func (f *fakeAnalyzer) PlayerCareerHigh(context.Context, catalogue.PlayerCareerHighParams) (*catalogue.Result, error) {
	return f.answer()
}

func (f *fakeAnalyzer) PlayerStarterComparison(context.Context, catalogue.PlayerStarterComparisonParams) (*catalogue.Result, error) {
	return f.answer()
}

func (f *fakeAnalyzer) BenchPlayerRanking(context.Context, catalogue.BenchPlayerRankingParams) (*catalogue.Result, error) {
	return f.answer()
}

func (f *fakeAnalyzer) TeammateRanking(context.Context, catalogue.TeammateRankingParams) (*catalogue.Result, error) {
	return f.answer()
}

func (f *fakeAnalyzer) CombinedAchievementCount(context.Context, catalogue.CombinedAchievementCountParams) (*catalogue.Result, error) {
	return f.answer()
}

type fakeImages map[string]string

func (f fakeImages) URL(_ context.Context, name string) (string, bool) {
	url, ok := f[name]
	return url, ok
}

func okResult() *catalogue.Result {
	res := catalogue.NewResult(catalogue.PlayerColumn, "PTS")
	res.Append("Alpha", int64(50))
	res.Append("Bravo", int64(40))
	return res
}

func TestExecuteOK(t *testing.T) {
	fa := &fakeAnalyzer{result: okResult()}
	d := New(fa, nil, nil)

	out := d.Execute(context.Background(), Request{
		Operation:   catalogue.OpRankingByAge,
		Params:      map[string]any{"label": "PTS", "max_age": float64(22)},
		Description: "top scorers under 22",
	})

	assert.Equal(t, StatusOK, out.Status)
	assert.Equal(t, "top scorers under 22", out.Message)
	assert.Equal(t, "PTS", out.ValueColumn)
	require.NotNil(t, fa.rankingParams)
	require.NotNil(t, fa.rankingParams.MaxAge)
	assert.Equal(t, 22, *fa.rankingParams.MaxAge)
	assert.Equal(t, catalogue.GameTypeRegular, fa.rankingParams.GameType, "default game type applied")
	assert.Equal(t, 10, fa.rankingParams.TopN, "default top_n applied")
}

func TestExecuteNoOperation(t *testing.T) {
	d := New(&fakeAnalyzer{}, nil, nil)

	out := d.Execute(context.Background(), Request{Description: "just chatting"})
	assert.Equal(t, StatusNoOperation, out.Status)
	assert.Equal(t, "just chatting", out.Message)

	out = d.Execute(context.Background(), Request{Operation: "get_made_up_thing"})
	assert.Equal(t, StatusNoOperation, out.Status)
	assert.Contains(t, out.Message, "get_made_up_thing")
}

func TestExecuteEmpty(t *testing.T) {
	d := New(&fakeAnalyzer{result: catalogue.NewResult(catalogue.PlayerColumn, "PTS")}, nil, nil)

	out := d.Execute(context.Background(), Request{
		Operation: catalogue.OpRankingByAge,
		Params:    map[string]any{"label": "PTS"},
	})
	assert.Equal(t, StatusEmpty, out.Status)
	assert.Nil(t, out.Result)
}

func TestExecuteFailed(t *testing.T) {
	d := New(&fakeAnalyzer{err: errors.New("boom")}, nil, nil)

	out := d.Execute(context.Background(), Request{
		Operation: catalogue.OpRankingByAge,
		Params:    map[string]any{"label": "PTS"},
	})
	assert.Equal(t, StatusFailed, out.Status)
	assert.Equal(t, "boom", out.Message)
}

func TestExecuteEnrichesImages(t *testing.T) {
	d := New(&fakeAnalyzer{result: okResult()}, fakeImages{"Alpha": "http://img/alpha.png"}, nil)

	out := d.Execute(context.Background(), Request{
		Operation: catalogue.OpRankingByAge,
		Params:    map[string]any{"label": "PTS"},
	})
	require.Equal(t, StatusOK, out.Status)

	require.Equal(t, []string{"player_image", catalogue.PlayerColumn, "PTS"}, out.Result.Columns)
	assert.Equal(t, "http://img/alpha.png", out.Result.Rows[0][0])
	assert.Nil(t, out.Result.Rows[1][0], "missing image is a nil cell")
}

func TestExecuteDuelParams(t *testing.T) {
	fa := &fakeAnalyzer{result: okResult()}
	d := New(fa, nil, nil)

	out := d.Execute(context.Background(), Request{
		Operation: catalogue.OpDuelRanking,
		Params: map[string]any{
			"label":     "PTS",
			"game_type": "final",
			"min_total": float64(60),
			"player1":   "Jordan",
		},
	})
	require.Equal(t, StatusOK, out.Status)
	require.NotNil(t, fa.duelParams)
	assert.Equal(t, catalogue.GameTypeFinal, fa.duelParams.GameType)
	assert.Equal(t, 60, fa.duelParams.MinTotal)
	assert.Equal(t, "Jordan", fa.duelParams.Player1)
}

func TestValueColumnFallbacks(t *testing.T) {
	res := catalogue.NewResult(catalogue.PlayerColumn, "Games")
	res.Append("Alpha", int64(3))
	assert.Equal(t, "Games", valueColumn(res, map[string]any{}))

	res = catalogue.NewResult(catalogue.PlayerColumn, "50+PTS")
	res.Append("Alpha", int64(3))
	assert.Equal(t, "50+PTS", valueColumn(res, map[string]any{}),
		"first non-identity column when nothing else matches")
}
