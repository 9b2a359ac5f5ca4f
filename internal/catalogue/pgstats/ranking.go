package pgstats

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/boxline/boxline-data/internal/catalogue"
)

func (b *Backend) RankingByAge(ctx context.Context, p catalogue.RankingByAgeParams) (*catalogue.Result, error) {
	lb, err := catalogue.ParseLabel(p.Label)
	if err != nil {
		return nil, err
	}

	a := &args{}
	expr := statExpr(lb, a)

	var aggExpr, having string
	if p.Agg == catalogue.AggMean {
		aggExpr = "ROUND(AVG(" + expr + ")::numeric, 1)::float8"
		having = " AND COUNT(" + expr + ") > 0"
	} else {
		aggExpr = "COALESCE(SUM(" + expr + "), 0)::bigint"
	}

	var extra strings.Builder
	if p.IsStarter != nil {
		if *p.IsStarter {
			extra.WriteString("\n    AND b.is_starter")
		} else {
			extra.WriteString("\n    AND NOT b.is_starter")
		}
	}
	if p.Team != "" {
		extra.WriteString("\n    AND b.team_name ILIKE " + a.add("%"+p.Team+"%"))
	}

	ageExpr := "EXTRACT(YEAR FROM age(g.datetime, pi.birth_date))::int"
	if p.MaxAge != nil {
		extra.WriteString("\n    AND pi.birth_date IS NOT NULL AND " + ageExpr + " <= " + a.add(*p.MaxAge))
	}
	if p.MinAge != nil {
		extra.WriteString("\n    AND pi.birth_date IS NOT NULL AND " + ageExpr + " >= " + a.add(*p.MinAge))
	}

	minGames := p.MinGames
	if minGames <= 0 {
		minGames = 1
	}

	col := quoteIdent(p.Label)
	sql := `
SELECT
    b.player_name AS "playerName",
    ` + aggExpr + ` AS ` + col + `,
    COUNT(*)::bigint AS "Games"
FROM boxscore b
JOIN games g ON b.game_id = g.game_id
LEFT JOIN player_info pi ON b.player_name = pi.name
WHERE ` + b.scopeClause(p.Scope, a) + extra.String() + `
GROUP BY b.player_name
HAVING COUNT(*) >= ` + a.add(minGames) + having + `
ORDER BY ` + col + ` DESC NULLS LAST, b.player_name ASC
LIMIT ` + a.add(limitOf(p.TopN))

	return b.query(ctx, sql, a)
}

func (b *Backend) SeasonAchievementCount(ctx context.Context, p catalogue.SeasonAchievementCountParams) (*catalogue.Result, error) {
	lb, err := catalogue.ParseLabel(p.Label)
	if err != nil {
		return nil, err
	}

	scope := p.Scope
	scope.GameType = catalogue.GameTypeRegular

	a := &args{}
	expr := statExpr(lb, a)
	col := quoteIdent(fmt.Sprintf("%d+%s", p.Threshold, p.Label))
	thr := a.add(p.Threshold)

	sql := `
WITH season_totals AS (
    SELECT
        b.player_name,
        g.season_start_year,
        SUM(COALESCE(` + expr + `, 0)) AS total
    FROM boxscore b
    JOIN games g ON b.game_id = g.game_id
    WHERE ` + b.scopeClause(scope, a) + `
    GROUP BY b.player_name, g.season_start_year
)
SELECT
    player_name AS "playerName",
    SUM(CASE WHEN total >= ` + thr + ` THEN 1 ELSE 0 END)::bigint AS ` + col + `
FROM season_totals
GROUP BY player_name
HAVING SUM(CASE WHEN total >= ` + thr + ` THEN 1 ELSE 0 END) > 0
ORDER BY ` + col + ` DESC, player_name ASC
LIMIT ` + a.add(limitOf(p.TopN))

	return b.query(ctx, sql, a)
}

func (b *Backend) FilteredAchievementCount(ctx context.Context, p catalogue.FilteredAchievementCountParams) (*catalogue.Result, error) {
	countLb, err := catalogue.ParseLabel(p.CountColumn)
	if err != nil {
		return nil, err
	}

	a := &args{}
	countExpr := "CASE WHEN COALESCE(" + statExpr(countLb, a) + ", 0) >= " + a.add(p.CountThreshold) + " THEN 1 ELSE 0 END"

	filter := ""
	if p.FilterColumn != "" && p.FilterOp != "" && p.FilterValue != nil {
		op, ok := filterOps[p.FilterOp]
		if !ok {
			return nil, &catalogue.InvalidParameterError{Name: "filter_op", Reason: fmt.Sprintf("unrecognized operator %q", p.FilterOp)}
		}
		filterLb, err := catalogue.ParseLabel(p.FilterColumn)
		if err != nil {
			return nil, err
		}
		filter = "\n    AND " + statExpr(filterLb, a) + " " + op + " " + a.add(*p.FilterValue)
	}

	sql := `
SELECT
    b.player_name AS "playerName",
    SUM(` + countExpr + `)::bigint AS "Count"
FROM boxscore b
JOIN games g ON b.game_id = g.game_id
WHERE ` + b.scopeClause(p.Scope, a) + filter + `
GROUP BY b.player_name
HAVING SUM(` + countExpr + `) > 0
ORDER BY "Count" DESC, b.player_name ASC
LIMIT ` + a.add(limitOf(p.TopN))

	return b.query(ctx, sql, a)
}

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

	a := &args{}
	conds := make([]string, 0, len(stats))
	labelParts := make([]string, 0, len(stats))
	for _, code := range stats {
		conds = append(conds, "COALESCE("+statColumns[code]+", 0) >= "+a.add(p.Thresholds[code]))
		labelParts = append(labelParts, fmt.Sprintf("%d%s", p.Thresholds[code], code))
	}
	achieved := "CASE WHEN " + strings.Join(conds, " AND ") + " THEN 1 ELSE 0 END"
	col := quoteIdent(strings.Join(labelParts, " & "))

	sql := `
SELECT
    b.player_name AS "playerName",
    SUM(` + achieved + `)::bigint AS ` + col + `
FROM boxscore b
JOIN games g ON b.game_id = g.game_id
WHERE ` + b.scopeClause(p.Scope, a) + `
GROUP BY b.player_name
HAVING SUM(` + achieved + `) > 0
ORDER BY ` + col + ` DESC, b.player_name ASC
LIMIT ` + a.add(limitOf(p.TopN))

	return b.query(ctx, sql, a)
}

func (b *Backend) BenchPlayerRanking(ctx context.Context, p catalogue.BenchPlayerRankingParams) (*catalogue.Result, error) {
	lb, err := catalogue.ParseLabel(p.Label)
	if err != nil {
		return nil, err
	}

	a := &args{}
	expr := statExpr(lb, a)

	season := ""
	if p.Season != nil {
		season = "\n    AND g.season_start_year = " + a.add(*p.Season)
	}
	minGames := p.MinGames
	if minGames <= 0 {
		minGames = 50
	}

	sql := `
SELECT
    b.player_name AS "playerName",
    COUNT(*)::bigint AS "BenchGames",
    ROUND(AVG(b.pts)::numeric, 1)::float8 AS "PPG",
    ROUND(AVG(b.trb)::numeric, 1)::float8 AS "RPG",
    ROUND(AVG(b.ast)::numeric, 1)::float8 AS "APG",
    ROUND(AVG(b.minutes)::numeric, 1)::float8 AS "MPG",
    COALESCE(SUM(` + expr + `), 0)::bigint AS ` + quoteIdent(p.Label) + `
FROM boxscore b
JOIN games g ON b.game_id = g.game_id
WHERE ` + b.scopeClause(p.Scope, a) + `
    AND NOT b.is_starter
    AND b.minutes > 0` + season + `
GROUP BY b.player_name
HAVING COUNT(*) >= ` + a.add(minGames) + `
ORDER BY AVG(` + expr + `) DESC NULLS LAST, b.player_name ASC
LIMIT ` + a.add(limitOf(p.TopN))

	return b.query(ctx, sql, a)
}

func (b *Backend) TeammateRanking(ctx context.Context, p catalogue.TeammateRankingParams) (*catalogue.Result, error) {
	if p.PlayerName == "" {
		return nil, &catalogue.InvalidParameterError{Name: "player_name", Reason: "required"}
	}
	lb, err := catalogue.ParseLabel(p.Label)
	if err != nil {
		return nil, err
	}

	a := &args{}
	expr := statExpr(lb, a)

	var aggExpr, having string
	if p.Agg == catalogue.AggMean {
		aggExpr = "ROUND(AVG(" + expr + ")::numeric, 1)::float8"
		having = " AND COUNT(" + expr + ") > 0"
	} else {
		aggExpr = "COALESCE(SUM(" + expr + "), 0)::bigint"
	}

	minGames := p.MinGames
	if minGames <= 0 {
		minGames = 50
	}

	anchor := a.add(p.PlayerName)
	col := quoteIdent(p.Label)

	sql := `
WITH anchor AS (
    SELECT b.game_id, b.team_name
    FROM boxscore b
    JOIN games g ON b.game_id = g.game_id
    WHERE ` + b.scopeClause(p.Scope, a) + `
        AND b.player_name = ` + anchor + `
)
SELECT
    b.player_name AS "playerName",
    ` + aggExpr + ` AS ` + col + `,
    COUNT(*)::bigint AS "GamesTogether"
FROM boxscore b
JOIN games g ON b.game_id = g.game_id
JOIN anchor t ON b.game_id = t.game_id AND b.team_name = t.team_name
WHERE ` + b.scopeClause(p.Scope, a) + `
    AND b.player_name != ` + anchor + `
GROUP BY b.player_name
HAVING COUNT(*) >= ` + a.add(minGames) + having + `
ORDER BY ` + col + ` DESC NULLS LAST, b.player_name ASC
LIMIT ` + a.add(limitOf(p.TopN))

	return b.query(ctx, sql, a)
}
