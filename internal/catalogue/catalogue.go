// Package catalogue defines the fixed set of analytical operations, their
// typed parameters, and the Analyzer contract both backends implement.
package catalogue

import "context"

// GameType selects which slice of the schedule an operation reads.
type GameType string

const (
	GameTypeRegular GameType = "regular"
	GameTypePlayoff GameType = "playoff"
	GameTypeFinal   GameType = "final"
	GameTypeAll     GameType = "all"
)

// Valid reports whether gt is one of the four recognized game types.
func (gt GameType) Valid() bool {
	switch gt {
	case GameTypeRegular, GameTypePlayoff, GameTypeFinal, GameTypeAll:
		return true
	}
	return false
}

// AggFunc selects the per-player aggregation for ranking operations.
type AggFunc string

const (
	AggSum  AggFunc = "sum"
	AggMean AggFunc = "mean"
)

// FilterOp is the comparison operator for conditional filters.
type FilterOp string

const (
	FilterEQ FilterOp = "eq"
	FilterNE FilterOp = "ne"
	FilterLT FilterOp = "lt"
	FilterLE FilterOp = "le"
	FilterGT FilterOp = "gt"
	FilterGE FilterOp = "ge"
)

// Valid reports whether op is a recognized comparison operator.
func (op FilterOp) Valid() bool {
	switch op {
	case FilterEQ, FilterNE, FilterLT, FilterLE, FilterGT, FilterGE:
		return true
	}
	return false
}

// Wire operation names. The interpreter must produce these exactly
// (case-sensitive); anything else is rejected by the dispatch layer.
const (
	OpRankingByAge             = "get_ranking_by_age"
	OpConsecutiveGames         = "get_consecutive_games"
	OpGamesToReach             = "get_games_to_reach"
	OpNGameSpanRanking         = "get_n_game_span_ranking"
	OpSeasonAchievementCount   = "get_season_achievement_count"
	OpDuelRanking              = "get_duel_ranking"
	OpFilteredAchievementCount = "get_filtered_achievement_count"
	OpPlayerCareerHigh         = "get_player_career_high"
	OpPlayerStarterComparison  = "get_player_starter_comparison"
	OpBenchPlayerRanking       = "get_bench_player_ranking"
	OpTeammateRanking          = "get_teammate_ranking"
	OpCombinedAchievementCount = "get_combined_achievement_count"
)

// Operations lists every wire operation name.
func Operations() []string {
	return []string{
		OpRankingByAge,
		OpConsecutiveGames,
		OpGamesToReach,
		OpNGameSpanRanking,
		OpSeasonAchievementCount,
		OpDuelRanking,
		OpFilteredAchievementCount,
		OpPlayerCareerHigh,
		OpPlayerStarterComparison,
		OpBenchPlayerRanking,
		OpTeammateRanking,
		OpCombinedAchievementCount,
	}
}

// DuplicateNamePlayers are excluded from every operation: the archive keys
// players by name alone, and these names belong to more than one person.
var DuplicateNamePlayers = []string{
	"Eddie Johnson",
	"George Johnson",
	"Mike Dunleavy",
	"David Lee",
	"Jim Paxson",
	"Larry Johnson",
	"Matt Guokas",
}

// --------------------------------------------------------------------------
// Parameter structs, one per operation
// --------------------------------------------------------------------------

// Scope carries the filters shared by every operation.
type Scope struct {
	League   string
	GameType GameType
	TopN     int
}

type RankingByAgeParams struct {
	Scope
	Label     string
	MaxAge    *int
	MinAge    *int
	MinGames  int
	Agg       AggFunc
	IsStarter *bool
	Team      string // substring match on team name
}

type ConsecutiveGamesParams struct {
	Scope
	Label string
	Team  string
}

type GamesToReachParams struct {
	Scope
	Label     string
	Threshold int
}

type NGameSpanParams struct {
	Scope
	Label  string
	NGames int
}

type SeasonAchievementCountParams struct {
	// Regular season only: Scope.GameType is ignored.
	Scope
	Label     string
	Threshold int
}

type DuelRankingParams struct {
	Scope
	Label    string
	MinTotal int
	Player1  string // substring match against the pairing
	Player2  string
}

type FilteredAchievementCountParams struct {
	Scope
	CountColumn    string
	CountThreshold int
	FilterColumn   string
	FilterOp       FilterOp
	FilterValue    *int
}

type PlayerCareerHighParams struct {
	Scope
	PlayerName string // substring match
	Label      string
}

type PlayerStarterComparisonParams struct {
	Scope
	PlayerName string // substring match
	Label      string
}

type BenchPlayerRankingParams struct {
	Scope
	Label    string
	MinGames int
	Season   *int // seasonStartYear
}

type TeammateRankingParams struct {
	Scope
	PlayerName string // exact match
	Label      string
	Agg        AggFunc
	MinGames   int
}

type CombinedAchievementCountParams struct {
	Scope
	Thresholds map[string]int // stat code -> minimum, all must hold
}

// --------------------------------------------------------------------------
// The operation contract
// --------------------------------------------------------------------------

// Analyzer is the operation contract shared by the in-memory and the
// SQL-pushdown backends. Every method returns a ranked result table;
// "no rows matched" is an empty result, never an error.
type Analyzer interface {
	RankingByAge(ctx context.Context, p RankingByAgeParams) (*Result, error)
	ConsecutiveGames(ctx context.Context, p ConsecutiveGamesParams) (*Result, error)
	GamesToReach(ctx context.Context, p GamesToReachParams) (*Result, error)
	NGameSpanRanking(ctx context.Context, p NGameSpanParams) (*Result, error)
	SeasonAchievementCount(ctx context.Context, p SeasonAchievementCountParams) (*Result, error)
	DuelRanking(ctx context.Context, p DuelRankingParams) (*Result, error)
	FilteredAchievementCount(ctx context.Context, p FilteredAchievementCountParams) (*Result, error)
	PlayerCareerHigh(ctx context.Context, p PlayerCareerHighParams) (*Result, error)
	PlayerStarterComparison(ctx context.Context, p PlayerStarterComparisonParams) (*Result, error)
	BenchPlayerRanking(ctx context.Context, p BenchPlayerRankingParams) (*Result, error)
	TeammateRanking(ctx context.Context, p TeammateRankingParams) (*Result, error)
	CombinedAchievementCount(ctx context.Context, p CombinedAchievementCountParams) (*Result, error)
}
