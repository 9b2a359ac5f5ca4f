package memstats

import (
	"context"

	"github.com/boxline/boxline-data/internal/catalogue"
	"github.com/boxline/boxline-data/internal/factview"
)

// byPlayer splits scoped rows into per-player chronological sequences.
// Input order is already chronological, so no re-sort is needed.
func byPlayer(rows []*factview.Row) map[string][]*factview.Row {
	out := make(map[string][]*factview.Row)
	for _, r := range rows {
		out[r.PlayerName] = append(out[r.PlayerName], r)
	}
	return out
}

// ConsecutiveGames ranks players by their longest run of consecutive
// played games achieving the label. The sequence is the player's played
// games in order, contiguous across season boundaries.
func (b *Backend) ConsecutiveGames(ctx context.Context, p catalogue.ConsecutiveGamesParams) (*catalogue.Result, error) {
	lb, err := catalogue.ParseLabel(p.Label)
	if err != nil {
		return nil, err
	}

	_, rows, err := b.scope(ctx, p.Scope)
	if err != nil {
		return nil, err
	}

	if p.Team != "" {
		filtered := rows[:0:0]
		for _, r := range rows {
			if containsFold(r.TeamName, p.Team) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	entries := make([]rankEntry, 0)
	for name, games := range byPlayer(rows) {
		var run, best int
		for _, r := range games {
			if achieved(r, lb) {
				run++
				if run > best {
					best = run
				}
			} else {
				run = 0
			}
		}
		entries = append(entries, rankEntry{name: name, val: float64(best), cells: []any{name, int64(best)}})
	}
	sortRank(entries, false)

	res := catalogue.NewResult(catalogue.PlayerColumn, p.Label)
	for i, e := range entries {
		if i >= topN(p.TopN) {
			break
		}
		res.Append(e.cells...)
	}
	return res, nil
}

// GamesToReach ranks players by how few games it took to accumulate the
// threshold of the label. Null games advance the game count but not the
// running total; players who never reached it are excluded.
func (b *Backend) GamesToReach(ctx context.Context, p catalogue.GamesToReachParams) (*catalogue.Result, error) {
	lb, err := catalogue.ParseLabel(p.Label)
	if err != nil {
		return nil, err
	}

	_, rows, err := b.scope(ctx, p.Scope)
	if err != nil {
		return nil, err
	}

	entries := make([]rankEntry, 0)
	for name, games := range byPlayer(rows) {
		var cum float64
		for i, r := range games {
			if v, ok := value(r, lb); ok {
				cum += v
			}
			if cum >= float64(p.Threshold) {
				n := i + 1
				entries = append(entries, rankEntry{name: name, val: float64(n), cells: []any{name, int64(n)}})
				break
			}
		}
	}
	sortRank(entries, true)

	res := catalogue.NewResult(catalogue.PlayerColumn, "Games")
	for i, e := range entries {
		if i >= topN(p.TopN) {
			break
		}
		res.Append(e.cells...)
	}
	return res, nil
}

// NGameSpanRanking ranks players by their best sum of the label over any
// n consecutive played games. Partial windows do not count, and a window
// containing a null value is skipped rather than treated as zero.
func (b *Backend) NGameSpanRanking(ctx context.Context, p catalogue.NGameSpanParams) (*catalogue.Result, error) {
	lb, err := catalogue.ParseLabel(p.Label)
	if err != nil {
		return nil, err
	}
	if p.NGames < 1 {
		return nil, &catalogue.InvalidParameterError{Name: "n_games", Reason: "must be at least 1"}
	}

	_, rows, err := b.scope(ctx, p.Scope)
	if err != nil {
		return nil, err
	}

	entries := make([]rankEntry, 0)
	for name, games := range byPlayer(rows) {
		if len(games) < p.NGames {
			continue
		}
		vals := make([]float64, len(games))
		valid := make([]bool, len(games))
		for i, r := range games {
			vals[i], valid[i] = value(r, lb)
		}

		best := 0.0
		found := false
		for start := 0; start+p.NGames <= len(vals); start++ {
			sum := 0.0
			ok := true
			for i := start; i < start+p.NGames; i++ {
				if !valid[i] {
					ok = false
					break
				}
				sum += vals[i]
			}
			if ok && (!found || sum > best) {
				best = sum
				found = true
			}
		}
		if !found {
			continue
		}
		entries = append(entries, rankEntry{name: name, val: best, cells: []any{name, int64(best)}})
	}
	sortRank(entries, false)

	res := catalogue.NewResult(catalogue.PlayerColumn, p.Label)
	for i, e := range entries {
		if i >= topN(p.TopN) {
			break
		}
		res.Append(e.cells...)
	}
	return res, nil
}
