package catalogue

import (
	"regexp"
	"strconv"
)

// LabelKind classifies how a label is computed from a fact row.
type LabelKind int

const (
	// LabelStat is a raw or arithmetic stat column (PTS, TRB, 2P, Stocks…).
	LabelStat LabelKind = iota
	// LabelThreshold is a per-game achievement indicator of the form
	// "{N}{STAT}+", worth 1 when STAT >= N.
	LabelThreshold
	// LabelFlag is a precomputed or composite boolean indicator
	// (Win, DD, TD, AST&PTS_DD…).
	LabelFlag
)

// Flag identifies the composite boolean indicators.
type Flag int

const (
	FlagWin Flag = iota
	FlagLose
	FlagDD
	FlagTD
	FlagQD
	FlagZeroTOV
	FlagASTTOVRatio3 // AST/TOV >= 3 with at least one turnover recorded
	FlagPtsAstDD     // PTS >= 10 and AST >= 10
	FlagPtsTrbDD     // PTS >= 10 and TRB >= 10
	Flag20Pts20Trb   // PTS >= 20 and TRB >= 20
)

// Label is a parsed, validated label parameter.
type Label struct {
	Name      string
	Kind      LabelKind
	StatCode  string  // LabelStat and LabelThreshold
	Threshold float64 // LabelThreshold
	Flag      Flag    // LabelFlag
}

// statCodes are the raw columns a label may reference directly.
var statCodes = map[string]bool{
	"PTS": true, "TRB": true, "AST": true, "STL": true, "BLK": true,
	"TOV": true, "ORB": true, "DRB": true, "FG": true, "FGA": true,
	"3P": true, "3PA": true, "FT": true, "FTA": true, "PF": true,
	"+/-": true, "GmSc": true, "2P": true, "2PA": true, "Stocks": true,
}

// namedFlags are composite indicators with fixed names.
var namedFlags = map[string]Flag{
	"Win":         FlagWin,
	"Lose":        FlagLose,
	"DD":          FlagDD,
	"TD":          FlagTD,
	"QD":          FlagQD,
	"TOV_0":       FlagZeroTOV,
	"ASTTOV>=3":   FlagASTTOVRatio3,
	"AST&PTS_DD":  FlagPtsAstDD,
	"TRB&PTS_DD":  FlagPtsTrbDD,
	"20PTS_20TRB": Flag20Pts20Trb,
}

// thresholdSets fixes the enumerable thresholds per stat. These exact
// column names are part of the query contract; 45PTS+ is not a column.
var thresholdSets = map[string][]int{
	"PTS": {10, 20, 25, 30, 40, 50},
	"TRB": {10, 15, 20, 25, 30},
	"AST": {10, 15, 20, 25},
	"ORB": {5, 10},
}

var thresholdPattern = regexp.MustCompile(`^(\d+)([A-Z0-9+/-]+)\+$`)

// ParseLabel validates a label parameter and resolves how to compute it.
// Unknown names, and thresholds outside the fixed per-stat sets, fail with
// UnknownColumnError.
func ParseLabel(name string) (Label, error) {
	if statCodes[name] {
		return Label{Name: name, Kind: LabelStat, StatCode: name}, nil
	}
	if f, ok := namedFlags[name]; ok {
		return Label{Name: name, Kind: LabelFlag, Flag: f}, nil
	}

	// The three-pointer thresholds predate the {N}{STAT}+ convention.
	switch name {
	case "3P_1+":
		return Label{Name: name, Kind: LabelThreshold, StatCode: "3P", Threshold: 1}, nil
	case "5_3P+":
		return Label{Name: name, Kind: LabelThreshold, StatCode: "3P", Threshold: 5}, nil
	}

	if m := thresholdPattern.FindStringSubmatch(name); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Label{}, &UnknownColumnError{Column: name}
		}
		set, ok := thresholdSets[m[2]]
		if !ok {
			return Label{}, &UnknownColumnError{Column: name}
		}
		for _, allowed := range set {
			if n == allowed {
				return Label{Name: name, Kind: LabelThreshold, StatCode: m[2], Threshold: float64(n)}, nil
			}
		}
		return Label{}, &UnknownColumnError{Column: name}
	}

	return Label{}, &UnknownColumnError{Column: name}
}
