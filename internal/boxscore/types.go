// Package boxscore defines the raw archive row types and the CSV loader for
// the historical box-score dataset: one row per player per game, one row per
// game, plus the player biography and image lookup tables.
package boxscore

import (
	"fmt"
	"strings"
	"time"
)

// Date parses the archive's date columns, which appear both as plain dates
// and as full timestamps depending on the era of the export.
type Date struct {
	time.Time
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006",
}

// UnmarshalText implements encoding.TextUnmarshaler for csvutil.
func (d *Date) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q", s)
}

// Line is one player's stat line in one game, as stored in the archive.
// Stat counters are pointers: an empty CSV cell means the value was never
// recorded, which is distinct from a recorded zero.
type Line struct {
	GameID     int64    `csv:"game_id"`
	TeamName   string   `csv:"teamName"`
	PlayerName string   `csv:"playerName"`
	MP         string   `csv:"MP"` // "MM:SS", or "0" for DNP
	FG         *float64 `csv:"FG"`
	FGA        *float64 `csv:"FGA"`
	FG3        *float64 `csv:"3P"`
	FG3A       *float64 `csv:"3PA"`
	FT         *float64 `csv:"FT"`
	FTA        *float64 `csv:"FTA"`
	ORB        *float64 `csv:"ORB"`
	DRB        *float64 `csv:"DRB"`
	TRB        *float64 `csv:"TRB"`
	AST        *float64 `csv:"AST"`
	STL        *float64 `csv:"STL"`
	BLK        *float64 `csv:"BLK"`
	TOV        *float64 `csv:"TOV"`
	PF         *float64 `csv:"PF"`
	PTS        *float64 `csv:"PTS"`
	PlusMinus  *float64 `csv:"+/-"`
	IsStarter  int      `csv:"isStarter"`
	GmSc       *float64 `csv:"GmSc"`
}

// Game is one game's metadata row.
type Game struct {
	GameID          int64  `csv:"game_id"`
	SeasonStartYear int    `csv:"seasonStartYear"`
	AwayTeam        string `csv:"awayTeam"`
	PointsAway      *int   `csv:"pointsAway"`
	HomeTeam        string `csv:"homeTeam"`
	PointsHome      *int   `csv:"pointsHome"`
	Attendance      *int   `csv:"attendance"`
	Notes           string `csv:"notes"`
	StartET         string `csv:"startET"`
	Datetime        Date   `csv:"datetime"`
	IsRegular       int    `csv:"isRegular"`
	League          string `csv:"League"`
	IsFinal         int    `csv:"isFinal"`
	IsPlayin        *int   `csv:"isPlayin"` // absent before the play-in era
	Winner          string `csv:"Winner"`
	Arena           string `csv:"Arena"`
}

// Player is one row of the player biography table, joined to lines by exact
// name match.
type Player struct {
	Name      string `csv:"name"`
	BirthDate Date   `csv:"birth_date"`
	FromYear  *int   `csv:"from"`
	ToYear    *int   `csv:"to"`
	Position  string `csv:"pos"`
	Height    string `csv:"height"`
	Weight    string `csv:"weight"`
}

// PlayerImage maps a player name to a headshot URL, used only for
// presentation enrichment.
type PlayerImage struct {
	PlayerName string `csv:"playerName"`
	ImageURL   string `csv:"image_url"`
}

// TrackingStart maps a stat code to the first seasonStartYear the league
// recorded it. Values from seasons before the tracking start are nulled by
// the fact view builder: "not tracked" must never read as zero.
var TrackingStart = map[string]int{
	"TRB": 1950,
	"STL": 1973,
	"BLK": 1973,
	"ORB": 1973,
	"DRB": 1973,
	"TOV": 1977,
	"3P":  1979,
	"3PA": 1979,
	"+/-": 1996,
}

// ParseMinutes converts an "MM:SS" minutes string to fractional minutes.
// Plain numbers ("0", "31") are accepted as whole minutes. Unparseable
// values count as zero.
func ParseMinutes(mp string) float64 {
	mp = strings.TrimSpace(mp)
	if mp == "" {
		return 0
	}
	if i := strings.IndexByte(mp, ':'); i >= 0 {
		var mins, secs int
		if _, err := fmt.Sscanf(mp, "%d:%d", &mins, &secs); err != nil {
			return 0
		}
		return float64(mins) + float64(secs)/60.0
	}
	var mins float64
	if _, err := fmt.Sscanf(mp, "%f", &mins); err != nil {
		return 0
	}
	return mins
}
