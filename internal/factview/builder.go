package factview

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/boxline/boxline-data/internal/boxscore"
)

// ErrMissingData reports that a required source table was absent.
var ErrMissingData = errors.New("factview: required source table is missing")

// Build joins box-score lines to game metadata, nulls stats from seasons
// before their tracking start, derives the flag columns, joins player info
// for age-at-game, and returns the view sorted by game datetime ascending.
//
// players may be nil, in which case no ages are derived and age-filtered
// operations will refuse to run.
//
// Build is deterministic and side-effect free: the same inputs always
// produce an identical view, and the inputs are never mutated.
func Build(lines []boxscore.Line, games []boxscore.Game, players []boxscore.Player) (*View, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: boxscore", ErrMissingData)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("%w: games", ErrMissingData)
	}

	gameByID := make(map[int64]*boxscore.Game, len(games))
	for i := range games {
		gameByID[games[i].GameID] = &games[i]
	}

	var birthdays map[string]time.Time
	if players != nil {
		birthdays = make(map[string]time.Time, len(players))
		for _, p := range players {
			if !p.BirthDate.IsZero() {
				birthdays[p.Name] = p.BirthDate.Time
			}
		}
	}

	rows := make([]Row, 0, len(lines))
	for i := range lines {
		g, ok := gameByID[lines[i].GameID]
		if !ok {
			// Left join: a line without metadata carries no season or date
			// and cannot participate in any operation. Skip it.
			continue
		}
		rows = append(rows, buildRow(&lines[i], g, birthdays))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	return &View{Rows: rows, HasAges: players != nil}, nil
}

func buildRow(l *boxscore.Line, g *boxscore.Game, birthdays map[string]time.Time) Row {
	r := Row{
		GameID:     l.GameID,
		PlayerName: l.PlayerName,
		TeamName:   l.TeamName,
		MP:         l.MP,
		Minutes:    boxscore.ParseMinutes(l.MP),
		IsStarter:  l.IsStarter == 1,

		Date:            g.Datetime.Time,
		SeasonStartYear: g.SeasonStartYear,
		League:          g.League,
		IsRegular:       g.IsRegular == 1,
		IsFinal:         g.IsFinal == 1,
		IsPlayin:        g.IsPlayin != nil && *g.IsPlayin == 1,
		Winner:          g.Winner,
		Arena:           g.Arena,
		HomeTeam:        g.HomeTeam,
		AwayTeam:        g.AwayTeam,
	}
	if g.PointsHome != nil {
		r.PointsHome = *g.PointsHome
	}
	if g.PointsAway != nil {
		r.PointsAway = *g.PointsAway
	}

	// Raw stats, with pre-tracking seasons nulled. Nulling runs before any
	// derived flag so a flag over an untracked stat sees null, not zero.
	year := g.SeasonStartYear
	r.FG = stat(l.FG)
	r.FGA = stat(l.FGA)
	r.FG3 = tracked("3P", year, l.FG3)
	r.FG3A = tracked("3PA", year, l.FG3A)
	r.FT = stat(l.FT)
	r.FTA = stat(l.FTA)
	r.ORB = tracked("ORB", year, l.ORB)
	r.DRB = tracked("DRB", year, l.DRB)
	r.TRB = tracked("TRB", year, l.TRB)
	r.AST = stat(l.AST)
	r.STL = tracked("STL", year, l.STL)
	r.BLK = tracked("BLK", year, l.BLK)
	r.TOV = tracked("TOV", year, l.TOV)
	r.PF = stat(l.PF)
	r.PTS = stat(l.PTS)
	r.PlusMinus = tracked("+/-", year, l.PlusMinus)
	r.GmSc = stat(l.GmSc)

	// Two-point splits and stocks need both components tracked.
	r.TwoP = subStat(r.FG, r.FG3)
	r.TwoPA = subStat(r.FGA, r.FG3A)
	r.Stocks = addStat(r.STL, r.BLK)

	r.Win = r.TeamName == r.Winner && r.Winner != ""
	r.Played = playedFlag(&r)

	doubles := 0
	for _, s := range []Stat{r.PTS, r.TRB, r.AST, r.STL, r.BLK} {
		if s.Valid && s.Val >= 10 {
			doubles++
		}
	}
	r.DD = doubles == 2
	r.TD = doubles == 3
	r.QD = doubles == 4

	if birthdays != nil {
		if bd, ok := birthdays[r.PlayerName]; ok && !r.Date.IsZero() {
			r.Age = ageAt(bd, r.Date)
			r.AgeKnown = true
		}
	}

	return r
}

func tracked(code string, seasonStartYear int, v *float64) Stat {
	if start, ok := boxscore.TrackingStart[code]; ok && seasonStartYear < start {
		return Stat{}
	}
	return stat(v)
}

func subStat(a, b Stat) Stat {
	if !a.Valid || !b.Valid {
		return Stat{}
	}
	return Stat{Val: a.Val - b.Val, Valid: true}
}

func addStat(a, b Stat) Stat {
	if !a.Valid || !b.Valid {
		return Stat{}
	}
	return Stat{Val: a.Val + b.Val, Valid: true}
}

// playedFlag reports whether the row shows any participation: a nonzero
// recorded stat or nonzero minutes.
func playedFlag(r *Row) bool {
	for _, s := range []Stat{
		r.FG, r.FGA, r.FG3, r.FG3A, r.FT, r.FTA,
		r.ORB, r.DRB, r.TRB, r.AST, r.STL, r.BLK,
		r.TOV, r.PF, r.PTS, r.PlusMinus,
	} {
		if s.Valid && s.Val != 0 {
			return true
		}
	}
	return r.MP != "" && r.MP != "0"
}

// ageAt computes age in whole years at the given moment, truncating by
// month/day comparison rather than subtracting years.
func ageAt(birth, at time.Time) int {
	age := at.Year() - birth.Year()
	if at.Month() < birth.Month() ||
		(at.Month() == birth.Month() && at.Day() < birth.Day()) {
		age--
	}
	return age
}

func seasonString(startYear int) string {
	return fmt.Sprintf("%d-%d", startYear, startYear+1)
}
