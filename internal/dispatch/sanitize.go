package dispatch

import (
	"strconv"
	"strings"

	"github.com/boxline/boxline-data/internal/catalogue"
)

// allowedParams fixes, per operation, which wire parameters are read at
// all. Anything else the interpreter invents is dropped silently.
var allowedParams = map[string]map[string]bool{
	catalogue.OpRankingByAge: set(
		"label", "max_age", "min_age", "min_games", "aggfunc",
		"league", "game_type", "top_n", "is_starter", "team",
	),
	catalogue.OpConsecutiveGames: set("label", "game_type", "league", "top_n", "team"),
	catalogue.OpGamesToReach:     set("label", "threshold", "game_type", "league", "top_n"),
	catalogue.OpNGameSpanRanking: set("label", "n_games", "game_type", "league", "top_n"),
	catalogue.OpSeasonAchievementCount: set("label", "threshold", "league", "top_n"),
	catalogue.OpDuelRanking: set("label", "game_type", "min_total", "player1", "player2", "top_n"),
	catalogue.OpFilteredAchievementCount: set(
		"count_column", "count_threshold", "filter_column", "filter_op",
		"filter_value", "game_type", "league", "top_n",
	),
	catalogue.OpPlayerCareerHigh:        set("player_name", "label", "game_type", "league", "top_n"),
	catalogue.OpPlayerStarterComparison: set("player_name", "label", "game_type", "league"),
	catalogue.OpBenchPlayerRanking:      set("label", "game_type", "league", "min_games", "top_n", "season"),
	catalogue.OpTeammateRanking: set(
		"player_name", "label", "aggfunc", "min_games", "game_type", "league", "top_n",
	),
	catalogue.OpCombinedAchievementCount: set("thresholds", "game_type", "league", "top_n"),
}

// intParams are coerced to int; a value that does not coerce is dropped,
// never an error. The interpreter is a language model and its output is
// treated as hostile noise, not as a contract.
var intParams = set(
	"max_age", "min_age", "min_games", "threshold", "n_games",
	"top_n", "min_total", "count_threshold", "filter_value", "season",
)

func set(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// sanitize filters raw interpreter params down to the operation's allow
// list, coerces types, and applies the wire defaults: top_n 10, regular
// season, and sum aggregation for age rankings.
func sanitize(op string, raw map[string]any) map[string]any {
	cleaned := make(map[string]any, len(raw))
	allowed := allowedParams[op]

	for key, val := range raw {
		if !allowed[key] || val == nil {
			continue
		}

		switch {
		case intParams[key]:
			n, ok := toInt(val)
			if !ok {
				continue
			}
			cleaned[key] = n

		case key == "thresholds":
			m, ok := toThresholds(val)
			if !ok {
				continue
			}
			cleaned[key] = m

		case key == "is_starter":
			b, ok := toBool(val)
			if !ok {
				continue
			}
			cleaned[key] = b

		case key == "game_type":
			s, ok := val.(string)
			if !ok || !catalogue.GameType(s).Valid() {
				continue
			}
			cleaned[key] = s

		case key == "aggfunc":
			s, _ := val.(string)
			if s != string(catalogue.AggMean) {
				s = string(catalogue.AggSum)
			}
			cleaned[key] = s

		default:
			s, ok := val.(string)
			if !ok {
				continue
			}
			cleaned[key] = s
		}
	}

	if _, ok := cleaned["top_n"]; !ok && allowed["top_n"] {
		cleaned["top_n"] = 10
	}
	if _, ok := cleaned["game_type"]; !ok && allowed["game_type"] {
		cleaned["game_type"] = string(catalogue.GameTypeRegular)
	}
	if _, ok := cleaned["aggfunc"]; !ok && allowed["aggfunc"] {
		cleaned["aggfunc"] = string(catalogue.AggSum)
	}
	return cleaned
}

// toInt accepts the number shapes JSON decoding and model output produce.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(b) {
		case "true", "1", "yes":
			return true, true
		default:
			return false, true
		}
	case float64:
		return b != 0, true
	case int:
		return b != 0, true
	}
	return false, false
}

func toThresholds(v any) (map[string]int, bool) {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	out := make(map[string]int, len(raw))
	for k, val := range raw {
		n, ok := toInt(val)
		if !ok {
			return nil, false
		}
		out[k] = n
	}
	return out, true
}

// Typed accessors over a sanitized param map.

func strOf(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func intOf(m map[string]any, key string) int {
	n, _ := m[key].(int)
	return n
}

func intPtr(m map[string]any, key string) *int {
	if n, ok := m[key].(int); ok {
		return &n
	}
	return nil
}

func boolPtr(m map[string]any, key string) *bool {
	if b, ok := m[key].(bool); ok {
		return &b
	}
	return nil
}

func scopeOf(m map[string]any) catalogue.Scope {
	return catalogue.Scope{
		League:   strOf(m, "league"),
		GameType: catalogue.GameType(strOf(m, "game_type")),
		TopN:     intOf(m, "top_n"),
	}
}
