package memstats

import (
	"context"
	"fmt"
	"sort"

	"github.com/boxline/boxline-data/internal/catalogue"
	"github.com/boxline/boxline-data/internal/factview"
)

const dateLayout = "2006-01-02"

// DuelRanking pairs the top scorer of each team in a game and ranks the
// pairs by their combined label value. Game type defaults are applied by
// the dispatch layer; here "final" arrives like any other scope.
func (b *Backend) DuelRanking(ctx context.Context, p catalogue.DuelRankingParams) (*catalogue.Result, error) {
	lb, err := catalogue.ParseLabel(p.Label)
	if err != nil {
		return nil, err
	}

	_, rows, err := b.scope(ctx, p.Scope)
	if err != nil {
		return nil, err
	}

	// Top scorer per (game, team). Ties go to the alphabetically first
	// name so both backends produce the same pairing.
	type teamTop struct {
		row *factview.Row
		val float64
	}
	tops := make(map[int64]map[string]teamTop)
	for _, r := range rows {
		v, ok := value(r, lb)
		if !ok {
			continue
		}
		teams := tops[r.GameID]
		if teams == nil {
			teams = make(map[string]teamTop, 2)
			tops[r.GameID] = teams
		}
		cur, seen := teams[r.TeamName]
		if !seen || v > cur.val || (v == cur.val && r.PlayerName < cur.row.PlayerName) {
			teams[r.TeamName] = teamTop{row: r, val: v}
		}
	}

	type duel struct {
		high, low teamTop
		total     float64
	}
	duels := make([]duel, 0, len(tops))
	for _, teams := range tops {
		if len(teams) != 2 {
			continue
		}
		pair := make([]teamTop, 0, 2)
		for _, t := range teams {
			pair = append(pair, t)
		}
		hi, lo := pair[0], pair[1]
		if lo.val > hi.val || (lo.val == hi.val && lo.row.PlayerName < hi.row.PlayerName) {
			hi, lo = lo, hi
		}
		d := duel{high: hi, low: lo, total: hi.val + lo.val}
		if d.total < float64(p.MinTotal) {
			continue
		}
		pairing := d.high.row.PlayerName + " vs " + d.low.row.PlayerName
		if p.Player1 != "" && !containsFold(pairing, p.Player1) {
			continue
		}
		if p.Player2 != "" && !containsFold(pairing, p.Player2) {
			continue
		}
		duels = append(duels, d)
	}

	sort.SliceStable(duels, func(i, j int) bool {
		if duels[i].total != duels[j].total {
			return duels[i].total > duels[j].total
		}
		return duels[i].high.row.Date.Before(duels[j].high.row.Date)
	})

	totalCol := "Total" + p.Label
	res := catalogue.NewResult("Rank", "Date", "Season", catalogue.PlayerColumn, "Score", totalCol, "MatchUp", "GameScore")
	for i, d := range duels {
		if i >= topN(p.TopN) {
			break
		}
		g := d.high.row
		res.Append(
			int64(i+1),
			g.Date.Format(dateLayout),
			g.Season(),
			d.high.row.PlayerName+" vs "+d.low.row.PlayerName,
			fmt.Sprintf("%d - %d", int64(d.high.val), int64(d.low.val)),
			int64(d.total),
			g.AwayTeam+" @ "+g.HomeTeam,
			fmt.Sprintf("%d-%d", g.PointsAway, g.PointsHome),
		)
	}
	return res, nil
}

// PlayerCareerHigh lists the matching player's best single games by the
// label. Every qualifying game is its own row; the identity column holds
// date plus opponent so charts stay one-bar-per-game.
func (b *Backend) PlayerCareerHigh(ctx context.Context, p catalogue.PlayerCareerHighParams) (*catalogue.Result, error) {
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

	type game struct {
		row *factview.Row
		val float64
	}
	games := make([]game, 0)
	for _, r := range rows {
		if !containsFold(r.PlayerName, p.PlayerName) {
			continue
		}
		if v, ok := value(r, lb); ok {
			games = append(games, game{row: r, val: v})
		}
	}
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].val > games[j].val
	})

	res := catalogue.NewResult(catalogue.PlayerColumn, "Date", "Season", "Opponent", p.Label, "PTS", "TRB", "AST")
	for i, g := range games {
		if i >= topN(p.TopN) {
			break
		}
		r := g.row
		date := r.Date.Format(dateLayout)
		res.Append(
			date+" "+r.Opponent(),
			date,
			r.Season(),
			r.Opponent(),
			statCell(g.val),
			statOrNil(r, "PTS"),
			statOrNil(r, "TRB"),
			statOrNil(r, "AST"),
		)
	}
	return res, nil
}

// statCell renders the ranked label value, preserving integer display for
// counting stats while keeping fractional values (GmSc) as floats.
func statCell(v float64) any {
	if v == float64(int64(v)) {
		return int64(v)
	}
	return v
}

func statOrNil(r *factview.Row, code string) any {
	if s, ok := r.Stat(code); ok && s.Valid {
		return int64(s.Val)
	}
	return nil
}

// PlayerStarterComparison splits the matching player's games by role and
// averages the headline stats per role. Starter rows sort first; a role
// with zero games is simply absent.
func (b *Backend) PlayerStarterComparison(ctx context.Context, p catalogue.PlayerStarterComparisonParams) (*catalogue.Result, error) {
	if p.PlayerName == "" {
		return nil, &catalogue.InvalidParameterError{Name: "player_name", Reason: "required"}
	}
	if p.Label != "" {
		// Label is accepted for interface symmetry; the comparison always
		// reports the headline averages, but a bad label still fails fast.
		if _, err := catalogue.ParseLabel(p.Label); err != nil {
			return nil, err
		}
	}

	_, rows, err := b.scope(ctx, p.Scope)
	if err != nil {
		return nil, err
	}

	type roleKey struct {
		name    string
		starter bool
	}
	groups := make(map[roleKey][]*factview.Row)
	for _, r := range rows {
		if !containsFold(r.PlayerName, p.PlayerName) {
			continue
		}
		k := roleKey{name: r.PlayerName, starter: r.IsStarter}
		groups[k] = append(groups[k], r)
	}

	keys := make([]roleKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].starter != keys[j].starter {
			return keys[i].starter
		}
		return keys[i].name < keys[j].name
	})

	res := catalogue.NewResult(catalogue.PlayerColumn, "Role", "Games", "PPG", "RPG", "APG", "MPG")
	for _, k := range keys {
		games := groups[k]
		role := "Bench"
		if k.starter {
			role = "Starter"
		}
		res.Append(
			k.name, role, int64(len(games)),
			meanOf(games, "PTS"), meanOf(games, "TRB"), meanOf(games, "AST"),
			meanMinutes(games),
		)
	}
	return res, nil
}
