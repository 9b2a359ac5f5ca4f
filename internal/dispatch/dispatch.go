// Package dispatch turns an interpreted query into a catalogue call. It
// owns the trust boundary between model output and typed parameters:
// every parameter is allow-listed, coerced, and defaulted here.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/boxline/boxline-data/internal/catalogue"
)

// Request is an interpreted query as produced by the interpreter (or
// submitted directly by an API caller).
type Request struct {
	Operation   string         `json:"function"`
	Params      map[string]any `json:"params"`
	Description string         `json:"description"`
}

// Status classifies an execution outcome.
type Status string

const (
	// StatusOK means the operation ran and returned at least one row.
	StatusOK Status = "ok"
	// StatusNoOperation means no runnable operation was requested: either
	// the interpreter declined to pick one, or it named an unknown one.
	// This is informational, not an error.
	StatusNoOperation Status = "no_operation"
	// StatusEmpty means the operation ran but nothing matched.
	StatusEmpty Status = "empty"
	// StatusFailed means the operation was rejected or errored.
	StatusFailed Status = "failed"
)

// Outcome is the full execution result handed to the API layer.
type Outcome struct {
	Status      Status             `json:"status"`
	Message     string             `json:"message,omitempty"`
	Result      *catalogue.Result  `json:"result,omitempty"`
	ValueColumn string             `json:"value_column,omitempty"`
}

// ImageSource resolves a player name to a headshot URL.
type ImageSource interface {
	URL(ctx context.Context, playerName string) (string, bool)
}

// Dispatcher executes interpreted queries against an Analyzer backend.
type Dispatcher struct {
	analyzer catalogue.Analyzer
	images   ImageSource
	logger   *slog.Logger
}

// New creates a Dispatcher. images may be nil, in which case results are
// not enriched.
func New(analyzer catalogue.Analyzer, images ImageSource, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{analyzer: analyzer, images: images, logger: logger}
}

// Execute sanitizes the request and runs it. Backend errors never
// propagate as Go errors: the outcome carries the classification, so the
// API layer can answer 200 with a structured body either way.
func (d *Dispatcher) Execute(ctx context.Context, req Request) Outcome {
	if req.Operation == "" {
		msg := req.Description
		if msg == "" {
			msg = "no analysis was requested"
		}
		return Outcome{Status: StatusNoOperation, Message: msg}
	}
	if _, ok := allowedParams[req.Operation]; !ok {
		return Outcome{
			Status:  StatusNoOperation,
			Message: fmt.Sprintf("%q is not a supported analysis type", req.Operation),
		}
	}

	m := sanitize(req.Operation, req.Params)
	d.logger.Debug("dispatching operation", "operation", req.Operation, "params", m)

	res, err := d.run(ctx, req.Operation, m)
	if err != nil {
		d.logger.Warn("operation failed", "operation", req.Operation, "error", err)
		return Outcome{Status: StatusFailed, Message: err.Error()}
	}
	if res.Empty() {
		return Outcome{Status: StatusEmpty, Message: "no data matched the requested conditions"}
	}

	d.enrich(ctx, res)

	msg := req.Description
	if msg == "" {
		msg = "analysis complete"
	}
	return Outcome{
		Status:      StatusOK,
		Message:     msg,
		Result:      res,
		ValueColumn: valueColumn(res, m),
	}
}

// run is the closed mapping from wire operation names to typed catalogue
// calls. Adding an operation means adding a case here; there is no
// reflection and no dynamic method lookup.
func (d *Dispatcher) run(ctx context.Context, op string, m map[string]any) (*catalogue.Result, error) {
	switch op {
	case catalogue.OpRankingByAge:
		return d.analyzer.RankingByAge(ctx, catalogue.RankingByAgeParams{
			Scope:     scopeOf(m),
			Label:     strOf(m, "label"),
			MaxAge:    intPtr(m, "max_age"),
			MinAge:    intPtr(m, "min_age"),
			MinGames:  intOf(m, "min_games"),
			Agg:       catalogue.AggFunc(strOf(m, "aggfunc")),
			IsStarter: boolPtr(m, "is_starter"),
			Team:      strOf(m, "team"),
		})

	case catalogue.OpConsecutiveGames:
		return d.analyzer.ConsecutiveGames(ctx, catalogue.ConsecutiveGamesParams{
			Scope: scopeOf(m),
			Label: strOf(m, "label"),
			Team:  strOf(m, "team"),
		})

	case catalogue.OpGamesToReach:
		return d.analyzer.GamesToReach(ctx, catalogue.GamesToReachParams{
			Scope:     scopeOf(m),
			Label:     strOf(m, "label"),
			Threshold: intOf(m, "threshold"),
		})

	case catalogue.OpNGameSpanRanking:
		return d.analyzer.NGameSpanRanking(ctx, catalogue.NGameSpanParams{
			Scope:  scopeOf(m),
			Label:  strOf(m, "label"),
			NGames: intOf(m, "n_games"),
		})

	case catalogue.OpSeasonAchievementCount:
		return d.analyzer.SeasonAchievementCount(ctx, catalogue.SeasonAchievementCountParams{
			Scope:     scopeOf(m),
			Label:     strOf(m, "label"),
			Threshold: intOf(m, "threshold"),
		})

	case catalogue.OpDuelRanking:
		return d.analyzer.DuelRanking(ctx, catalogue.DuelRankingParams{
			Scope:    scopeOf(m),
			Label:    strOf(m, "label"),
			MinTotal: intOf(m, "min_total"),
			Player1:  strOf(m, "player1"),
			Player2:  strOf(m, "player2"),
		})

	case catalogue.OpFilteredAchievementCount:
		return d.analyzer.FilteredAchievementCount(ctx, catalogue.FilteredAchievementCountParams{
			Scope:          scopeOf(m),
			CountColumn:    strOf(m, "count_column"),
			CountThreshold: intOf(m, "count_threshold"),
			FilterColumn:   strOf(m, "filter_column"),
			FilterOp:       catalogue.FilterOp(strOf(m, "filter_op")),
			FilterValue:    intPtr(m, "filter_value"),
		})

	case catalogue.OpPlayerCareerHigh:
		return d.analyzer.PlayerCareerHigh(ctx, catalogue.PlayerCareerHighParams{
			Scope:      scopeOf(m),
			PlayerName: strOf(m, "player_name"),
			Label:      strOf(m, "label"),
		})

	case catalogue.OpPlayerStarterComparison:
		return d.analyzer.PlayerStarterComparison(ctx, catalogue.PlayerStarterComparisonParams{
			Scope:      scopeOf(m),
			PlayerName: strOf(m, "player_name"),
			Label:      strOf(m, "label"),
		})

	case catalogue.OpBenchPlayerRanking:
		return d.analyzer.BenchPlayerRanking(ctx, catalogue.BenchPlayerRankingParams{
			Scope:    scopeOf(m),
			Label:    strOf(m, "label"),
			MinGames: intOf(m, "min_games"),
			Season:   intPtr(m, "season"),
		})

	case catalogue.OpTeammateRanking:
		return d.analyzer.TeammateRanking(ctx, catalogue.TeammateRankingParams{
			Scope:      scopeOf(m),
			PlayerName: strOf(m, "player_name"),
			Label:      strOf(m, "label"),
			Agg:        catalogue.AggFunc(strOf(m, "aggfunc")),
			MinGames:   intOf(m, "min_games"),
		})

	case catalogue.OpCombinedAchievementCount:
		thresholds, _ := m["thresholds"].(map[string]int)
		return d.analyzer.CombinedAchievementCount(ctx, catalogue.CombinedAchievementCountParams{
			Scope:      scopeOf(m),
			Thresholds: thresholds,
		})
	}
	return nil, fmt.Errorf("unhandled operation %q", op)
}

// enrich prepends a player_image column when the result is keyed by
// player name and an image source is configured. Missing images are nil
// cells, never an error.
func (d *Dispatcher) enrich(ctx context.Context, res *catalogue.Result) {
	if d.images == nil {
		return
	}
	idx := res.ColumnIndex(catalogue.PlayerColumn)
	if idx < 0 {
		return
	}
	res.PrependColumn("player_image", func(row []any) any {
		name, _ := row[idx].(string)
		if url, ok := d.images.URL(ctx, name); ok {
			return url
		}
		return nil
	})
}

// valueColumn picks the column a chart should plot, preferring the
// requested label over the generic fallbacks.
func valueColumn(res *catalogue.Result, m map[string]any) string {
	if label := strOf(m, "label"); label != "" && res.ColumnIndex(label) >= 0 {
		return label
	}
	for _, col := range []string{"TotalPTS", "PTS", "TRB", "AST", "STL", "BLK", "3P", "Win", "DD", "TD", "Games", "Count"} {
		if res.ColumnIndex(col) >= 0 {
			return col
		}
	}
	for _, col := range res.Columns {
		if col != catalogue.PlayerColumn && col != "player_image" {
			return col
		}
	}
	return ""
}
