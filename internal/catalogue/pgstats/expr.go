package pgstats

import "github.com/boxline/boxline-data/internal/catalogue"

// statColumns maps archive stat codes to SQL expressions over the
// boxscore alias b. The derived arithmetic stats are expressions rather
// than stored columns; like their sources they go NULL when a component
// predates tracking.
var statColumns = map[string]string{
	"PTS":    "b.pts",
	"TRB":    "b.trb",
	"AST":    "b.ast",
	"STL":    "b.stl",
	"BLK":    "b.blk",
	"TOV":    "b.tov",
	"ORB":    "b.orb",
	"DRB":    "b.drb",
	"FG":     "b.fg",
	"FGA":    "b.fga",
	"3P":     "b.fg3",
	"3PA":    "b.fg3a",
	"FT":     "b.ft",
	"FTA":    "b.fta",
	"PF":     "b.pf",
	"+/-":    "b.plus_minus",
	"GmSc":   "b.gmsc",
	"2P":     "(b.fg - b.fg3)",
	"2PA":    "(b.fga - b.fg3a)",
	"Stocks": "(b.stl + b.blk)",
}

// flagExprs render the composite indicators as 0/1 integer expressions.
// The dd/td/qd flags are stored at ingest; the rest are inline. NULL
// components read as unachieved, matching the in-memory backend.
var flagExprs = map[catalogue.Flag]string{
	catalogue.FlagWin:          "CASE WHEN b.win THEN 1 ELSE 0 END",
	catalogue.FlagLose:         "CASE WHEN b.win THEN 0 ELSE 1 END",
	catalogue.FlagDD:           "CASE WHEN b.dd THEN 1 ELSE 0 END",
	catalogue.FlagTD:           "CASE WHEN b.td THEN 1 ELSE 0 END",
	catalogue.FlagQD:           "CASE WHEN b.qd THEN 1 ELSE 0 END",
	catalogue.FlagZeroTOV:      "CASE WHEN b.tov = 0 THEN 1 ELSE 0 END",
	catalogue.FlagASTTOVRatio3: "CASE WHEN b.tov > 0 AND b.ast >= 3 * b.tov THEN 1 ELSE 0 END",
	catalogue.FlagPtsAstDD:     "CASE WHEN COALESCE(b.pts, 0) >= 10 AND COALESCE(b.ast, 0) >= 10 THEN 1 ELSE 0 END",
	catalogue.FlagPtsTrbDD:     "CASE WHEN COALESCE(b.pts, 0) >= 10 AND COALESCE(b.trb, 0) >= 10 THEN 1 ELSE 0 END",
	catalogue.Flag20Pts20Trb:   "CASE WHEN COALESCE(b.pts, 0) >= 20 AND COALESCE(b.trb, 0) >= 20 THEN 1 ELSE 0 END",
}

// statExpr renders a parsed label as a SQL expression. Raw stats keep
// their NULLs so SUM and AVG skip untracked games; indicator labels are
// always 0/1. Thresholds go through placeholders like every other value.
func statExpr(lb catalogue.Label, a *args) string {
	switch lb.Kind {
	case catalogue.LabelStat:
		return statColumns[lb.StatCode]
	case catalogue.LabelThreshold:
		return "CASE WHEN COALESCE(" + statColumns[lb.StatCode] + ", 0) >= " + a.add(lb.Threshold) + " THEN 1 ELSE 0 END"
	case catalogue.LabelFlag:
		return flagExprs[lb.Flag]
	}
	return "NULL"
}

// achievedExpr renders the per-game achievement indicator for a label:
// indicator labels already are 0/1, raw stats count when at least 1.
func achievedExpr(lb catalogue.Label, a *args) string {
	expr := statExpr(lb, a)
	if lb.Kind == catalogue.LabelStat {
		return "CASE WHEN COALESCE(" + expr + ", 0) >= 1 THEN 1 ELSE 0 END"
	}
	return expr
}

// filterOps maps the validated comparison enum to SQL operators.
var filterOps = map[catalogue.FilterOp]string{
	catalogue.FilterEQ: "=",
	catalogue.FilterNE: "!=",
	catalogue.FilterLT: "<",
	catalogue.FilterLE: "<=",
	catalogue.FilterGT: ">",
	catalogue.FilterGE: ">=",
}
