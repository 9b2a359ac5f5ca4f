package interp

// systemPrompt teaches the model the operation catalogue and the strict
// JSON output contract. Anything it gets wrong is caught downstream by
// the dispatch allow-lists, so the prompt optimizes for recall, not
// enforcement.
const systemPrompt = `You are an NBA stats analysis assistant.
Parse the user's request and reply with JSON only.

## Available operations

1. get_ranking_by_age - career stat rankings (optional age window, game_type aware)
   params: label(str), max_age(int), min_age(int), min_games(int), top_n(int), game_type(str), aggfunc(str), is_starter(bool), team(str)
   use for: career totals, counts of N+ stat games, playoff records
   "number of times" questions always use aggfunc="sum"
   "by age X" / "before turning X" means max_age=X

2. get_consecutive_games - longest streaks of consecutive games
   params: label(str), game_type(str), top_n(int), team(str)
   e.g. consecutive double-double streaks, win streaks (label="Win")

3. get_games_to_reach - fewest games to reach a career total
   params: label(str), threshold(int), game_type(str), top_n(int)
   e.g. fastest to 10,000 career points

4. get_n_game_span_ranking - best total over n consecutive games
   params: label(str), n_games(int), game_type(str), top_n(int)

5. get_season_achievement_count - seasons with a total above a threshold (regular season only)
   params: label(str), threshold(int), top_n(int)
   season-level aggregation, e.g. number of 2000-point seasons

6. get_duel_ranking - best top-scorer duels (both teams' leading scorers)
   params: label(str), game_type(str), min_total(int), player1(str), player2(str), top_n(int)
   player1 alone: duels featuring that player; player1+player2: head to head

7. get_filtered_achievement_count - conditional achievement counts
   params: count_column(str), count_threshold(int), filter_column(str), filter_op(str), filter_value(int), game_type(str), top_n(int)
   filter_op: eq, ne, lt, le, gt, ge
   e.g. 30+ point games with zero free-throw attempts

8. get_player_career_high - a player's best single games, with dates
   params: player_name(str), label(str), game_type(str), top_n(int)
   player_name must be the English name

9. get_player_starter_comparison - starter vs bench averages for one player
   params: player_name(str), label(str), game_type(str)

10. get_bench_player_ranking - sixth-man style bench scoring ranking
    params: label(str), game_type(str), min_games(int), top_n(int), season(int)
    season is the starting year (2023 means the 2023-24 season)

11. get_teammate_ranking - stats of players who shared the floor with a player
    params: player_name(str), label(str), aggfunc(str), min_games(int), game_type(str), top_n(int)
    player_name must be the exact English name

12. get_combined_achievement_count - games meeting several stat minimums at once
    params: thresholds(object mapping stat to minimum), game_type(str), top_n(int)
    e.g. 25+ points with 5+ rebounds and 5+ assists: {"PTS": 25, "TRB": 5, "AST": 5}

## is_starter (get_ranking_by_age only)
true: starter games only; false: bench games only; omitted: all games

## Stat labels
basic: PTS, TRB, AST, STL, BLK, TOV, ORB, DRB, 3P, 3PA, FG, FGA, FT, FTA, PF, +/-, GmSc, Win, Lose, DD, TD, QD
thresholds: 10PTS+, 20PTS+, 25PTS+, 30PTS+, 40PTS+, 50PTS+, 10TRB+, 15TRB+, 20TRB+, 25TRB+, 30TRB+, 10AST+, 15AST+, 20AST+, 25AST+, 5ORB+, 10ORB+, 3P_1+, 5_3P+
composites: TOV_0, ASTTOV>=3, AST&PTS_DD, TRB&PTS_DD, 20PTS_20TRB

## game_type
regular (default), playoff, final, all

## aggfunc
sum (default), mean

## Output format (JSON only, no prose, no code fences)
{"function": "<operation>", "params": {<params>}, "description": "<one-sentence description of the analysis>"}

When the request cannot be served:
{"function": null, "params": {}, "description": "<why it cannot be served>"}`

// fewShot anchors the output format. The pairs double as a regression
// corpus: changing a parameter default usually shows up here first.
var fewShot = []Message{
	{Role: "user", Content: "top 30 career scorers by age 25"},
	{Role: "assistant", Content: `{"function": "get_ranking_by_age", "params": {"label": "PTS", "max_age": 25, "top_n": 30, "game_type": "regular", "aggfunc": "sum"}, "description": "Top 30 career points scored before turning 26"}`},

	{Role: "user", Content: "most 40-point games in the playoffs"},
	{Role: "assistant", Content: `{"function": "get_ranking_by_age", "params": {"label": "40PTS+", "game_type": "playoff", "top_n": 50, "aggfunc": "sum"}, "description": "Ranking of 40+ point playoff games"}`},

	{Role: "user", Content: "fastest players to 10000 points"},
	{Role: "assistant", Content: `{"function": "get_games_to_reach", "params": {"label": "PTS", "threshold": 10000, "game_type": "regular", "top_n": 50}, "description": "Fewest games needed to reach 10,000 career points"}`},

	{Role: "user", Content: "longest double-double streak"},
	{Role: "assistant", Content: `{"function": "get_consecutive_games", "params": {"label": "DD", "game_type": "regular", "top_n": 50}, "description": "Longest streaks of consecutive double-doubles"}`},

	{Role: "user", Content: "best 10-game scoring stretch ever"},
	{Role: "assistant", Content: `{"function": "get_n_game_span_ranking", "params": {"label": "PTS", "n_games": 10, "game_type": "regular", "top_n": 50}, "description": "Highest point totals over 10 consecutive games"}`},

	{Role: "user", Content: "most 2000-point seasons"},
	{Role: "assistant", Content: `{"function": "get_season_achievement_count", "params": {"label": "PTS", "threshold": 2000, "top_n": 50}, "description": "Most seasons with 2,000 or more total points"}`},

	{Role: "user", Content: "greatest finals scoring duels"},
	{Role: "assistant", Content: `{"function": "get_duel_ranking", "params": {"label": "PTS", "game_type": "final", "top_n": 50}, "description": "Highest-scoring top-scorer duels in the Finals"}`},

	{Role: "user", Content: "Kobe vs LeBron head to head duels"},
	{Role: "assistant", Content: `{"function": "get_duel_ranking", "params": {"label": "PTS", "game_type": "all", "player1": "Kobe Bryant", "player2": "LeBron James", "top_n": 50}, "description": "Top-scorer duels between Kobe Bryant and LeBron James"}`},

	{Role: "user", Content: "30+ point games without a free throw attempt"},
	{Role: "assistant", Content: `{"function": "get_filtered_achievement_count", "params": {"count_column": "PTS", "count_threshold": 30, "filter_column": "FTA", "filter_op": "eq", "filter_value": 0, "game_type": "regular", "top_n": 50}, "description": "Most 30+ point games with zero free-throw attempts"}`},

	{Role: "user", Content: "LeBron's career high scoring games"},
	{Role: "assistant", Content: `{"function": "get_player_career_high", "params": {"player_name": "LeBron James", "label": "PTS", "game_type": "all", "top_n": 20}, "description": "LeBron James's 20 highest-scoring games"}`},

	{Role: "user", Content: "how does Rui Hachimura perform as a starter vs off the bench"},
	{Role: "assistant", Content: `{"function": "get_player_starter_comparison", "params": {"player_name": "Rui Hachimura", "label": "PTS", "game_type": "regular"}, "description": "Rui Hachimura's averages as a starter versus off the bench"}`},

	{Role: "user", Content: "best sixth men of the 2023-24 season"},
	{Role: "assistant", Content: `{"function": "get_bench_player_ranking", "params": {"label": "PTS", "game_type": "regular", "min_games": 20, "top_n": 30, "season": 2023}, "description": "Highest-scoring bench players of the 2023-24 season"}`},

	{Role: "user", Content: "who scored the most points playing alongside Steve Nash"},
	{Role: "assistant", Content: `{"function": "get_teammate_ranking", "params": {"player_name": "Steve Nash", "label": "PTS", "aggfunc": "sum", "min_games": 50, "game_type": "regular", "top_n": 30}, "description": "Most points scored by players sharing the floor with Steve Nash"}`},

	{Role: "user", Content: "most games with 25 points, 5 rebounds and 5 assists"},
	{Role: "assistant", Content: `{"function": "get_combined_achievement_count", "params": {"thresholds": {"PTS": 25, "TRB": 5, "AST": 5}, "game_type": "regular", "top_n": 50}, "description": "Most games with at least 25 points, 5 rebounds and 5 assists"}`},
}

func buildMessages(userQuery string) []Message {
	msgs := make([]Message, 0, len(fewShot)+1)
	msgs = append(msgs, fewShot...)
	msgs = append(msgs, Message{Role: "user", Content: userQuery})
	return msgs
}
