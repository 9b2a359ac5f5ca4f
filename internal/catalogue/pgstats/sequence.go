package pgstats

import (
	"context"

	"github.com/boxline/boxline-data/internal/catalogue"
)

// ConsecutiveGames computes longest achievement streaks with the
// gaps-and-islands method: numbering achieved games twice, once within
// all games and once within achieved games, makes the difference constant
// inside a streak.
func (b *Backend) ConsecutiveGames(ctx context.Context, p catalogue.ConsecutiveGamesParams) (*catalogue.Result, error) {
	lb, err := catalogue.ParseLabel(p.Label)
	if err != nil {
		return nil, err
	}

	a := &args{}
	achieved := achievedExpr(lb, a)

	team := ""
	if p.Team != "" {
		team = "\n        AND b.team_name ILIKE " + a.add("%"+p.Team+"%")
	}
	col := quoteIdent(p.Label)

	sql := `
WITH numbered AS (
    SELECT
        b.player_name,
        ` + achieved + ` AS achieved,
        ROW_NUMBER() OVER (PARTITION BY b.player_name ORDER BY g.datetime, b.game_id) AS rn
    FROM boxscore b
    JOIN games g ON b.game_id = g.game_id
    WHERE ` + b.scopeClause(p.Scope, a) + team + `
),
achieved_only AS (
    SELECT
        player_name,
        rn,
        ROW_NUMBER() OVER (PARTITION BY player_name ORDER BY rn) AS achieved_rn
    FROM numbered
    WHERE achieved = 1
),
grouped AS (
    SELECT
        player_name,
        COUNT(*) AS streak
    FROM achieved_only
    GROUP BY player_name, rn - achieved_rn
)
SELECT
    player_name AS "playerName",
    MAX(streak)::bigint AS ` + col + `
FROM grouped
GROUP BY player_name
ORDER BY ` + col + ` DESC, player_name ASC
LIMIT ` + a.add(limitOf(p.TopN))

	return b.query(ctx, sql, a)
}

// GamesToReach finds the first game where each player's running total
// crossed the threshold. Null games advance the game number but add
// nothing to the running sum.
func (b *Backend) GamesToReach(ctx context.Context, p catalogue.GamesToReachParams) (*catalogue.Result, error) {
	lb, err := catalogue.ParseLabel(p.Label)
	if err != nil {
		return nil, err
	}

	a := &args{}
	expr := statExpr(lb, a)

	sql := `
WITH cumulative AS (
    SELECT
        b.player_name,
        SUM(COALESCE(` + expr + `, 0)) OVER (
            PARTITION BY b.player_name
            ORDER BY g.datetime, b.game_id
        ) AS cumsum,
        ROW_NUMBER() OVER (
            PARTITION BY b.player_name
            ORDER BY g.datetime, b.game_id
        ) AS game_num
    FROM boxscore b
    JOIN games g ON b.game_id = g.game_id
    WHERE ` + b.scopeClause(p.Scope, a) + `
)
SELECT
    player_name AS "playerName",
    MIN(game_num)::bigint AS "Games"
FROM cumulative
WHERE cumsum >= ` + a.add(p.Threshold) + `
GROUP BY player_name
ORDER BY "Games" ASC, player_name ASC
LIMIT ` + a.add(limitOf(p.TopN))

	return b.query(ctx, sql, a)
}

// NGameSpanRanking finds each player's best sum over any n consecutive
// games. The HAVING pair rejects both partial windows at the end of a
// career and windows containing an untracked value.
func (b *Backend) NGameSpanRanking(ctx context.Context, p catalogue.NGameSpanParams) (*catalogue.Result, error) {
	lb, err := catalogue.ParseLabel(p.Label)
	if err != nil {
		return nil, err
	}
	if p.NGames < 1 {
		return nil, &catalogue.InvalidParameterError{Name: "n_games", Reason: "must be at least 1"}
	}

	a := &args{}
	expr := statExpr(lb, a)
	col := quoteIdent(p.Label)
	n := a.add(p.NGames)

	sql := `
WITH numbered AS (
    SELECT
        b.player_name,
        ` + expr + ` AS val,
        ROW_NUMBER() OVER (
            PARTITION BY b.player_name
            ORDER BY g.datetime, b.game_id
        ) AS rn
    FROM boxscore b
    JOIN games g ON b.game_id = g.game_id
    WHERE ` + b.scopeClause(p.Scope, a) + `
),
spans AS (
    SELECT
        n1.player_name,
        SUM(n2.val) AS span_total
    FROM numbered n1
    JOIN numbered n2
        ON n1.player_name = n2.player_name
        AND n2.rn BETWEEN n1.rn AND n1.rn + ` + n + ` - 1
    GROUP BY n1.player_name, n1.rn
    HAVING COUNT(*) = ` + n + ` AND COUNT(n2.val) = ` + n + `
)
SELECT
    player_name AS "playerName",
    MAX(span_total)::bigint AS ` + col + `
FROM spans
GROUP BY player_name
ORDER BY ` + col + ` DESC, player_name ASC
LIMIT ` + a.add(limitOf(p.TopN))

	return b.query(ctx, sql, a)
}
