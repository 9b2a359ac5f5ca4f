// Package factview builds and publishes the immutable fact view every
// analytical operation reads from: box-score lines joined to game metadata,
// pre-tracking-era stats nulled, and derived flags computed once.
package factview

import (
	"time"
)

// Stat is a nullable stat value. Valid is false when the stat was not
// tracked in the row's season or was absent from the source.
type Stat struct {
	Val   float64
	Valid bool
}

// stat builds a Stat from an optional source value.
func stat(v *float64) Stat {
	if v == nil {
		return Stat{}
	}
	return Stat{Val: *v, Valid: true}
}

// Row is one player-game fact row: raw counters, joined game metadata, and
// derived flags. Rows are immutable after Build returns.
type Row struct {
	GameID     int64
	PlayerName string
	TeamName   string

	MP        string
	Minutes   float64
	IsStarter bool

	FG, FGA, FG3, FG3A, FT, FTA   Stat
	ORB, DRB, TRB, AST, STL, BLK  Stat
	TOV, PF, PTS, PlusMinus, GmSc Stat
	TwoP, TwoPA, Stocks           Stat

	Date            time.Time
	SeasonStartYear int
	League          string
	IsRegular       bool
	IsFinal         bool
	IsPlayin        bool
	Winner          string
	Arena           string
	HomeTeam        string
	AwayTeam        string
	PointsHome      int
	PointsAway      int

	Played bool
	Win    bool
	DD     bool
	TD     bool
	QD     bool

	Age      int
	AgeKnown bool
}

// Stat returns the raw stat identified by its archive code. The second
// return is false for codes the view does not carry.
func (r *Row) Stat(code string) (Stat, bool) {
	switch code {
	case "PTS":
		return r.PTS, true
	case "TRB":
		return r.TRB, true
	case "AST":
		return r.AST, true
	case "STL":
		return r.STL, true
	case "BLK":
		return r.BLK, true
	case "TOV":
		return r.TOV, true
	case "ORB":
		return r.ORB, true
	case "DRB":
		return r.DRB, true
	case "FG":
		return r.FG, true
	case "FGA":
		return r.FGA, true
	case "3P":
		return r.FG3, true
	case "3PA":
		return r.FG3A, true
	case "FT":
		return r.FT, true
	case "FTA":
		return r.FTA, true
	case "PF":
		return r.PF, true
	case "+/-":
		return r.PlusMinus, true
	case "GmSc":
		return r.GmSc, true
	case "2P":
		return r.TwoP, true
	case "2PA":
		return r.TwoPA, true
	case "Stocks":
		return r.Stocks, true
	}
	return Stat{}, false
}

// Season renders the row's season as "1996-1997".
func (r *Row) Season() string {
	return seasonString(r.SeasonStartYear)
}

// Opponent renders the row's opponent from the home/away split:
// "vs X" at home, "@ X" on the road.
func (r *Row) Opponent() string {
	if r.TeamName == r.HomeTeam {
		return "vs " + r.AwayTeam
	}
	return "@ " + r.HomeTeam
}

// View is the immutable, chronologically sorted fact table. Concurrent
// readers are safe by construction: nothing mutates a published View.
type View struct {
	Rows []Row

	// HasAges reports whether the player-info join ran, i.e. whether
	// age-filtered operations may be served.
	HasAges bool
}
