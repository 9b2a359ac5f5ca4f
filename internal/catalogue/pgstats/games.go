package pgstats

import (
	"context"

	"github.com/boxline/boxline-data/internal/catalogue"
)

// DuelRanking pairs the top scorer of each team per game via DISTINCT ON
// and ranks the pairs by combined value. The pairing string always puts
// the higher scorer first, value ties broken by ascending name.
func (b *Backend) DuelRanking(ctx context.Context, p catalogue.DuelRankingParams) (*catalogue.Result, error) {
	lb, err := catalogue.ParseLabel(p.Label)
	if err != nil {
		return nil, err
	}

	a := &args{}
	expr := statExpr(lb, a)

	filters := ""
	if p.Player1 != "" {
		filters += "\n    AND (d.hi_name || ' vs ' || d.lo_name) ILIKE " + a.add("%"+p.Player1+"%")
	}
	if p.Player2 != "" {
		filters += "\n    AND (d.hi_name || ' vs ' || d.lo_name) ILIKE " + a.add("%"+p.Player2+"%")
	}
	totalCol := quoteIdent("Total" + p.Label)

	sql := `
WITH top_scorers AS (
    SELECT DISTINCT ON (b.game_id, b.team_name)
        b.game_id,
        b.team_name,
        b.player_name,
        ` + expr + ` AS val
    FROM boxscore b
    JOIN games g ON b.game_id = g.game_id
    WHERE ` + b.scopeClause(p.Scope, a) + `
        AND ` + expr + ` IS NOT NULL
    ORDER BY b.game_id, b.team_name, ` + expr + ` DESC, b.player_name ASC
),
duels AS (
    SELECT
        t1.game_id,
        CASE WHEN t1.val > t2.val OR (t1.val = t2.val AND t1.player_name < t2.player_name)
             THEN t1.player_name ELSE t2.player_name END AS hi_name,
        GREATEST(t1.val, t2.val) AS hi_val,
        CASE WHEN t1.val > t2.val OR (t1.val = t2.val AND t1.player_name < t2.player_name)
             THEN t2.player_name ELSE t1.player_name END AS lo_name,
        LEAST(t1.val, t2.val) AS lo_val,
        t1.val + t2.val AS total
    FROM top_scorers t1
    JOIN top_scorers t2
        ON t1.game_id = t2.game_id
        AND t1.team_name < t2.team_name
)
SELECT
    ROW_NUMBER() OVER (ORDER BY d.total DESC, g.datetime ASC)::bigint AS "Rank",
    to_char(g.datetime, 'YYYY-MM-DD') AS "Date",
    g.season_start_year::text || '-' || (g.season_start_year + 1)::text AS "Season",
    d.hi_name || ' vs ' || d.lo_name AS "playerName",
    d.hi_val::bigint::text || ' - ' || d.lo_val::bigint::text AS "Score",
    d.total::bigint AS ` + totalCol + `,
    g.away_team || ' @ ' || g.home_team AS "MatchUp",
    g.points_away::text || '-' || g.points_home::text AS "GameScore"
FROM duels d
JOIN games g ON d.game_id = g.game_id
WHERE d.total >= ` + a.add(p.MinTotal) + filters + `
ORDER BY d.total DESC, g.datetime ASC
LIMIT ` + a.add(limitOf(p.TopN))

	return b.query(ctx, sql, a)
}

// PlayerCareerHigh lists the matching player's best single games by the
// label. The identity column carries date plus opponent so each game is
// its own bar when charted.
func (b *Backend) PlayerCareerHigh(ctx context.Context, p catalogue.PlayerCareerHighParams) (*catalogue.Result, error) {
	if p.PlayerName == "" {
		return nil, &catalogue.InvalidParameterError{Name: "player_name", Reason: "required"}
	}
	lb, err := catalogue.ParseLabel(p.Label)
	if err != nil {
		return nil, err
	}

	a := &args{}
	expr := statExpr(lb, a)
	pat := a.add("%" + p.PlayerName + "%")

	opponent := `CASE WHEN b.team_name = g.home_team
             THEN 'vs ' || g.away_team
             ELSE '@ ' || g.home_team END`

	sql := `
SELECT
    to_char(g.datetime, 'YYYY-MM-DD') || ' ' || ` + opponent + ` AS "playerName",
    to_char(g.datetime, 'YYYY-MM-DD') AS "Date",
    g.season_start_year::text || '-' || (g.season_start_year + 1)::text AS "Season",
    ` + opponent + ` AS "Opponent",
    ` + expr + ` AS ` + quoteIdent(p.Label) + `,
    b.pts AS "PTS",
    b.trb AS "TRB",
    b.ast AS "AST"
FROM boxscore b
JOIN games g ON b.game_id = g.game_id
WHERE ` + b.scopeClause(p.Scope, a) + `
    AND b.player_name ILIKE ` + pat + `
    AND ` + expr + ` IS NOT NULL
ORDER BY ` + expr + ` DESC, g.datetime ASC
LIMIT ` + a.add(limitOf(p.TopN))

	return b.query(ctx, sql, a)
}

// PlayerStarterComparison averages the headline stats per role for the
// matching player. Starter rows sort first; an unused role produces no
// row at all.
func (b *Backend) PlayerStarterComparison(ctx context.Context, p catalogue.PlayerStarterComparisonParams) (*catalogue.Result, error) {
	if p.PlayerName == "" {
		return nil, &catalogue.InvalidParameterError{Name: "player_name", Reason: "required"}
	}
	if p.Label != "" {
		if _, err := catalogue.ParseLabel(p.Label); err != nil {
			return nil, err
		}
	}

	a := &args{}
	pat := a.add("%" + p.PlayerName + "%")

	sql := `
SELECT
    b.player_name AS "playerName",
    CASE WHEN b.is_starter THEN 'Starter' ELSE 'Bench' END AS "Role",
    COUNT(*)::bigint AS "Games",
    ROUND(AVG(b.pts)::numeric, 1)::float8 AS "PPG",
    ROUND(AVG(b.trb)::numeric, 1)::float8 AS "RPG",
    ROUND(AVG(b.ast)::numeric, 1)::float8 AS "APG",
    ROUND(AVG(b.minutes)::numeric, 1)::float8 AS "MPG"
FROM boxscore b
JOIN games g ON b.game_id = g.game_id
WHERE ` + b.scopeClause(p.Scope, a) + `
    AND b.player_name ILIKE ` + pat + `
GROUP BY b.player_name, b.is_starter
ORDER BY b.is_starter DESC, b.player_name ASC`

	return b.query(ctx, sql, a)
}
