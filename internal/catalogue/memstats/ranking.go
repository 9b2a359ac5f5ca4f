package memstats

import (
	"context"
	"fmt"
	"sort"

	"github.com/boxline/boxline-data/internal/catalogue"
	"github.com/boxline/boxline-data/internal/factview"
)

// RankingByAge ranks players by an aggregated label inside an inclusive
// age window. Rows without a derived age are excluded whenever an age
// bound is present; they are never treated as age-eligible.
func (b *Backend) RankingByAge(ctx context.Context, p catalogue.RankingByAgeParams) (*catalogue.Result, error) {
	lb, err := catalogue.ParseLabel(p.Label)
	if err != nil {
		return nil, err
	}

	view, rows, err := b.scope(ctx, p.Scope)
	if err != nil {
		return nil, err
	}
	if (p.MaxAge != nil || p.MinAge != nil) && !view.HasAges {
		return nil, &catalogue.ConfigurationError{Missing: "age_at_game (player info was not joined)"}
	}

	type agg struct {
		sum   float64
		valid int
		games int
	}
	byPlayer := make(map[string]*agg)

	for _, r := range rows {
		if p.MaxAge != nil && (!r.AgeKnown || r.Age > *p.MaxAge) {
			continue
		}
		if p.MinAge != nil && (!r.AgeKnown || r.Age < *p.MinAge) {
			continue
		}
		if p.IsStarter != nil && r.IsStarter != *p.IsStarter {
			continue
		}
		if p.Team != "" && !containsFold(r.TeamName, p.Team) {
			continue
		}

		a := byPlayer[r.PlayerName]
		if a == nil {
			a = &agg{}
			byPlayer[r.PlayerName] = a
		}
		a.games++
		if v, ok := value(r, lb); ok {
			a.sum += v
			a.valid++
		}
	}

	minGames := p.MinGames
	if minGames <= 0 {
		minGames = 1
	}

	entries := make([]rankEntry, 0, len(byPlayer))
	for name, a := range byPlayer {
		if a.games < minGames {
			continue
		}
		var val float64
		var cell any
		if p.Agg == catalogue.AggMean {
			if a.valid == 0 {
				continue
			}
			val = round1(a.sum / float64(a.valid))
			cell = val
		} else {
			val = a.sum
			cell = int64(a.sum)
		}
		entries = append(entries, rankEntry{name: name, val: val, cells: []any{name, cell, int64(a.games)}})
	}
	sortRank(entries, false)

	res := catalogue.NewResult(catalogue.PlayerColumn, p.Label, "Games")
	for i, e := range entries {
		if i >= topN(p.TopN) {
			break
		}
		res.Append(e.cells...)
	}
	return res, nil
}

// SeasonAchievementCount counts, per player, the regular seasons whose
// label total met the threshold. Players with no qualifying season are
// excluded.
func (b *Backend) SeasonAchievementCount(ctx context.Context, p catalogue.SeasonAchievementCountParams) (*catalogue.Result, error) {
	lb, err := catalogue.ParseLabel(p.Label)
	if err != nil {
		return nil, err
	}

	scope := p.Scope
	scope.GameType = catalogue.GameTypeRegular
	_, rows, err := b.scope(ctx, scope)
	if err != nil {
		return nil, err
	}

	type seasonKey struct {
		player string
		season int
	}
	totals := make(map[seasonKey]float64)
	for _, r := range rows {
		if v, ok := value(r, lb); ok {
			totals[seasonKey{r.PlayerName, r.SeasonStartYear}] += v
		} else {
			// Null contributes nothing but the season still exists.
			totals[seasonKey{r.PlayerName, r.SeasonStartYear}] += 0
		}
	}

	counts := make(map[string]int)
	for k, total := range totals {
		if total >= float64(p.Threshold) {
			counts[k.player]++
		}
	}

	entries := make([]rankEntry, 0, len(counts))
	for name, n := range counts {
		entries = append(entries, rankEntry{name: name, val: float64(n), cells: []any{name, int64(n)}})
	}
	sortRank(entries, false)

	col := fmt.Sprintf("%d+%s", p.Threshold, p.Label)
	res := catalogue.NewResult(catalogue.PlayerColumn, col)
	for i, e := range entries {
		if i >= topN(p.TopN) {
			break
		}
		res.Append(e.cells...)
	}
	return res, nil
}

// FilteredAchievementCount counts games where count_column met its
// threshold, after an optional single-column comparison filter.
func (b *Backend) FilteredAchievementCount(ctx context.Context, p catalogue.FilteredAchievementCountParams) (*catalogue.Result, error) {
	countLb, err := catalogue.ParseLabel(p.CountColumn)
	if err != nil {
		return nil, err
	}

	var filterLb catalogue.Label
	filtering := p.FilterColumn != "" && p.FilterOp != "" && p.FilterValue != nil
	if filtering {
		if !p.FilterOp.Valid() {
			return nil, &catalogue.InvalidParameterError{Name: "filter_op", Reason: fmt.Sprintf("unrecognized operator %q", p.FilterOp)}
		}
		filterLb, err = catalogue.ParseLabel(p.FilterColumn)
		if err != nil {
			return nil, err
		}
	}

	_, rows, err := b.scope(ctx, p.Scope)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, r := range rows {
		if filtering {
			v, ok := value(r, filterLb)
			if !ok || !compare(v, p.FilterOp, float64(*p.FilterValue)) {
				continue
			}
		}
		if v, ok := value(r, countLb); ok && v >= float64(p.CountThreshold) {
			counts[r.PlayerName]++
		}
	}

	entries := make([]rankEntry, 0, len(counts))
	for name, n := range counts {
		if n > 0 {
			entries = append(entries, rankEntry{name: name, val: float64(n), cells: []any{name, int64(n)}})
		}
	}
	sortRank(entries, false)

	res := catalogue.NewResult(catalogue.PlayerColumn, "Count")
	for i, e := range entries {
		if i >= topN(p.TopN) {
			break
		}
		res.Append(e.cells...)
	}
	return res, nil
}

func compare(v float64, op catalogue.FilterOp, against float64) bool {
	switch op {
	case catalogue.FilterEQ:
		return v == against
	case catalogue.FilterNE:
		return v != against
	case catalogue.FilterLT:
		return v < against
	case catalogue.FilterLE:
		return v <= against
	case catalogue.FilterGT:
		return v > against
	case catalogue.FilterGE:
		return v >= against
	}
	return false
}

// CombinedAchievementCount counts games where every stat in the threshold
// map met its minimum simultaneously.
func (b *Backend) CombinedAchievementCount(ctx context.Context, p catalogue.CombinedAchievementCountParams) (*catalogue.Result, error) {
	if len(p.Thresholds) == 0 {
		return nil, &catalogue.InvalidParameterError{Name: "thresholds", Reason: "at least one stat threshold is required"}
	}

	stats := make([]string, 0, len(p.Thresholds))
	for code := range p.Thresholds {
		lb, err := catalogue.ParseLabel(code)
		if err != nil {
			return nil, err
		}
		if lb.Kind != catalogue.LabelStat {
			return nil, &catalogue.InvalidParameterError{Name: "thresholds", Reason: fmt.Sprintf("%q is not a raw stat column", code)}
		}
		stats = append(stats, code)
	}
	sort.Strings(stats)

	_, rows, err := b.scope(ctx, p.Scope)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, r := range rows {
		all := true
		for _, code := range stats {
			s, _ := r.Stat(code)
			// Untracked stats read as zero here, matching the counting
			// semantics of threshold indicators.
			v := 0.0
			if s.Valid {
				v = s.Val
			}
			if v < float64(p.Thresholds[code]) {
				all = false
				break
			}
		}
		if all {
			counts[r.PlayerName]++
		}
	}

	entries := make([]rankEntry, 0, len(counts))
	for name, n := range counts {
		if n > 0 {
			entries = append(entries, rankEntry{name: name, val: float64(n), cells: []any{name, int64(n)}})
		}
	}
	sortRank(entries, false)

	col := combinedLabel(stats, p.Thresholds)
	res := catalogue.NewResult(catalogue.PlayerColumn, col)
	for i, e := range entries {
		if i >= topN(p.TopN) {
			break
		}
		res.Append(e.cells...)
	}
	return res, nil
}

func combinedLabel(stats []string, thresholds map[string]int) string {
	out := ""
	for i, code := range stats {
		if i > 0 {
			out += " & "
		}
		out += fmt.Sprintf("%d%s", thresholds[code], code)
	}
	return out
}

// BenchPlayerRanking ranks players by their per-game average of the label
// across bench appearances with minutes played.
func (b *Backend) BenchPlayerRanking(ctx context.Context, p catalogue.BenchPlayerRankingParams) (*catalogue.Result, error) {
	lb, err := catalogue.ParseLabel(p.Label)
	if err != nil {
		return nil, err
	}

	_, rows, err := b.scope(ctx, p.Scope)
	if err != nil {
		return nil, err
	}

	byPlayer := make(map[string][]*factview.Row)
	for _, r := range rows {
		if r.IsStarter || r.Minutes <= 0 {
			continue
		}
		if p.Season != nil && r.SeasonStartYear != *p.Season {
			continue
		}
		byPlayer[r.PlayerName] = append(byPlayer[r.PlayerName], r)
	}

	minGames := p.MinGames
	if minGames <= 0 {
		minGames = 50
	}

	entries := make([]rankEntry, 0, len(byPlayer))
	for name, games := range byPlayer {
		if len(games) < minGames {
			continue
		}
		var sum float64
		var valid int
		for _, r := range games {
			if v, ok := value(r, lb); ok {
				sum += v
				valid++
			}
		}
		if valid == 0 {
			continue
		}
		avg := sum / float64(valid)
		entries = append(entries, rankEntry{
			name: name,
			val:  avg,
			cells: []any{
				name, int64(len(games)),
				meanOf(games, "PTS"), meanOf(games, "TRB"), meanOf(games, "AST"),
				meanMinutes(games), int64(sum),
			},
		})
	}
	sortRank(entries, false)

	res := catalogue.NewResult(catalogue.PlayerColumn, "BenchGames", "PPG", "RPG", "APG", "MPG", p.Label)
	for i, e := range entries {
		if i >= topN(p.TopN) {
			break
		}
		res.Append(e.cells...)
	}
	return res, nil
}

// TeammateRanking aggregates a label across every player who shared a
// team and a game with the reference player.
func (b *Backend) TeammateRanking(ctx context.Context, p catalogue.TeammateRankingParams) (*catalogue.Result, error) {
	if p.PlayerName == "" {
		return nil, &catalogue.InvalidParameterError{Name: "player_name", Reason: "required"}
	}
	lb, err := catalogue.ParseLabel(p.Label)
	if err != nil {
		return nil, err
	}

	_, rows, err := b.scope(ctx, p.Scope)
	if err != nil {
		return nil, err
	}

	type gameTeam struct {
		gameID int64
		team   string
	}
	shared := make(map[gameTeam]bool)
	for _, r := range rows {
		if r.PlayerName == p.PlayerName {
			shared[gameTeam{r.GameID, r.TeamName}] = true
		}
	}

	type agg struct {
		sum   float64
		valid int
		games int
	}
	byPlayer := make(map[string]*agg)
	for _, r := range rows {
		if r.PlayerName == p.PlayerName || !shared[gameTeam{r.GameID, r.TeamName}] {
			continue
		}
		a := byPlayer[r.PlayerName]
		if a == nil {
			a = &agg{}
			byPlayer[r.PlayerName] = a
		}
		a.games++
		if v, ok := value(r, lb); ok {
			a.sum += v
			a.valid++
		}
	}

	minGames := p.MinGames
	if minGames <= 0 {
		minGames = 50
	}

	entries := make([]rankEntry, 0, len(byPlayer))
	for name, a := range byPlayer {
		if a.games < minGames {
			continue
		}
		var val float64
		var cell any
		if p.Agg == catalogue.AggMean {
			if a.valid == 0 {
				continue
			}
			val = round1(a.sum / float64(a.valid))
			cell = val
		} else {
			val = a.sum
			cell = int64(a.sum)
		}
		entries = append(entries, rankEntry{name: name, val: val, cells: []any{name, cell, int64(a.games)}})
	}
	sortRank(entries, false)

	res := catalogue.NewResult(catalogue.PlayerColumn, p.Label, "GamesTogether")
	for i, e := range entries {
		if i >= topN(p.TopN) {
			break
		}
		res.Append(e.cells...)
	}
	return res, nil
}
