// Package memstats implements the operation catalogue against the
// in-process fact view. Every operation is a pure read over an immutable,
// chronologically sorted row slice; group-bys and window functions a
// dataframe engine would supply are written out explicitly.
package memstats

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/boxline/boxline-data/internal/catalogue"
	"github.com/boxline/boxline-data/internal/factview"
)

const (
	defaultLeague = "NBA"
	defaultTopN   = 100
)

// Backend computes catalogue operations over a factview.Handle.
type Backend struct {
	handle  *factview.Handle
	exclude map[string]bool
}

var _ catalogue.Analyzer = (*Backend)(nil)

// New creates a Backend. The duplicate-name exclusion list is always
// applied; extraExclude adds to it.
func New(h *factview.Handle, extraExclude ...string) *Backend {
	exclude := make(map[string]bool, len(catalogue.DuplicateNamePlayers)+len(extraExclude))
	for _, name := range catalogue.DuplicateNamePlayers {
		exclude[name] = true
	}
	for _, name := range extraExclude {
		exclude[name] = true
	}
	return &Backend{handle: h, exclude: exclude}
}

// scope returns the view plus the rows passing the shared preconditions:
// league, game type, played, and the name exclusion list. Order is
// preserved, so per-player subsequences stay chronological.
func (b *Backend) scope(ctx context.Context, s catalogue.Scope) (*factview.View, []*factview.Row, error) {
	view, err := b.handle.View(ctx)
	if err != nil {
		return nil, nil, err
	}

	league := s.League
	if league == "" {
		league = defaultLeague
	}
	gt := s.GameType
	if gt == "" {
		gt = catalogue.GameTypeRegular
	}

	rows := make([]*factview.Row, 0, len(view.Rows))
	for i := range view.Rows {
		r := &view.Rows[i]
		if r.League != league || !r.Played || b.exclude[r.PlayerName] {
			continue
		}
		switch gt {
		case catalogue.GameTypeRegular:
			if !r.IsRegular {
				continue
			}
		case catalogue.GameTypePlayoff:
			if r.IsRegular || r.IsPlayin {
				continue
			}
		case catalogue.GameTypeFinal:
			if !r.IsFinal {
				continue
			}
		case catalogue.GameTypeAll:
		}
		rows = append(rows, r)
	}
	return view, rows, nil
}

func topN(n int) int {
	if n <= 0 {
		return defaultTopN
	}
	return n
}

// value computes a parsed label against one row. The second return is
// false when the underlying stat is null for this row; indicator labels
// always evaluate, with null components reading as unachieved.
func value(r *factview.Row, lb catalogue.Label) (float64, bool) {
	switch lb.Kind {
	case catalogue.LabelStat:
		s, _ := r.Stat(lb.StatCode)
		return s.Val, s.Valid

	case catalogue.LabelThreshold:
		s, _ := r.Stat(lb.StatCode)
		if s.Valid && s.Val >= lb.Threshold {
			return 1, true
		}
		return 0, true

	case catalogue.LabelFlag:
		return flagValue(r, lb.Flag), true
	}
	return 0, false
}

func flagValue(r *factview.Row, f catalogue.Flag) float64 {
	switch f {
	case catalogue.FlagWin:
		return b2f(r.Win)
	case catalogue.FlagLose:
		return b2f(!r.Win)
	case catalogue.FlagDD:
		return b2f(r.DD)
	case catalogue.FlagTD:
		return b2f(r.TD)
	case catalogue.FlagQD:
		return b2f(r.QD)
	case catalogue.FlagZeroTOV:
		return b2f(r.TOV.Valid && r.TOV.Val == 0)
	case catalogue.FlagASTTOVRatio3:
		return b2f(r.TOV.Valid && r.TOV.Val != 0 && r.AST.Valid && r.AST.Val/r.TOV.Val >= 3)
	case catalogue.FlagPtsAstDD:
		return b2f(r.PTS.Valid && r.PTS.Val >= 10 && r.AST.Valid && r.AST.Val >= 10)
	case catalogue.FlagPtsTrbDD:
		return b2f(r.PTS.Valid && r.PTS.Val >= 10 && r.TRB.Valid && r.TRB.Val >= 10)
	case catalogue.Flag20Pts20Trb:
		return b2f(r.PTS.Valid && r.PTS.Val >= 20 && r.TRB.Valid && r.TRB.Val >= 20)
	}
	return 0
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// achieved reports whether the row counts as an achievement for the label:
// indicator labels must be 1, raw stats must be at least 1.
func achieved(r *factview.Row, lb catalogue.Label) bool {
	v, ok := value(r, lb)
	return ok && v >= 1
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// meanOf averages the valid values of a stat across rows, rounded to one
// decimal. Null values are skipped, not counted as zero.
func meanOf(rows []*factview.Row, code string) any {
	var sum float64
	var n int
	for _, r := range rows {
		if s, ok := r.Stat(code); ok && s.Valid {
			sum += s.Val
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return round1(sum / float64(n))
}

func meanMinutes(rows []*factview.Row) float64 {
	var sum float64
	for _, r := range rows {
		sum += r.Minutes
	}
	if len(rows) == 0 {
		return 0
	}
	return round1(sum / float64(len(rows)))
}

// rankEntry is one player's aggregate before final ordering.
type rankEntry struct {
	name  string
	val   float64
	cells []any
}

// sortRank orders entries by value (descending unless asc), breaking ties
// by ascending player name so output is deterministic across backends.
func sortRank(entries []rankEntry, asc bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].val != entries[j].val {
			if asc {
				return entries[i].val < entries[j].val
			}
			return entries[i].val > entries[j].val
		}
		return entries[i].name < entries[j].name
	})
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
