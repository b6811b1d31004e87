package model

import (
	"math"
	"time"
)

// Position is a player's assigned position in a match, as reported by the
// Stratz API. The zero value is PositionUnknown.
type Position int

const (
	PositionUnknown Position = iota
	Position1
	Position2
	Position3
	Position4
	Position5
)

// ParsePosition maps a Stratz position string to a Position. Anything
// outside the known set (including a missing field) parses as unknown.
func ParsePosition(s string) Position {
	switch s {
	case "POSITION_1":
		return Position1
	case "POSITION_2":
		return Position2
	case "POSITION_3":
		return Position3
	case "POSITION_4":
		return Position4
	case "POSITION_5":
		return Position5
	default:
		return PositionUnknown
	}
}

func (p Position) String() string {
	switch p {
	case Position1:
		return "POSITION_1"
	case Position2:
		return "POSITION_2"
	case Position3:
		return "POSITION_3"
	case Position4:
		return "POSITION_4"
	case Position5:
		return "POSITION_5"
	default:
		return "UNKNOWN"
	}
}

// Role returns the human-readable role label for the position.
func (p Position) Role() string {
	switch p {
	case Position1:
		return "Carry (Pos 1)"
	case Position2:
		return "Mid (Pos 2)"
	case Position3:
		return "Offlane (Pos 3)"
	case Position4:
		return "Soft Support (Pos 4)"
	case Position5:
		return "Hard Support (Pos 5)"
	default:
		return "Unknown"
	}
}

// Lane is the lane zone a player occupied during the laning stage.
// The zero value is LaneUnknown.
type Lane int

const (
	LaneUnknown Lane = iota
	LaneSafe
	LaneMid
	LaneOff
	LaneJungle
	LaneRoaming
)

// ParseLane maps a Stratz lane string to a Lane. Anything outside the
// known set parses as unknown.
func ParseLane(s string) Lane {
	switch s {
	case "SAFE_LANE":
		return LaneSafe
	case "MID_LANE":
		return LaneMid
	case "OFF_LANE":
		return LaneOff
	case "JUNGLE":
		return LaneJungle
	case "ROAMING":
		return LaneRoaming
	default:
		return LaneUnknown
	}
}

func (l Lane) String() string {
	switch l {
	case LaneSafe:
		return "SAFE_LANE"
	case LaneMid:
		return "MID_LANE"
	case LaneOff:
		return "OFF_LANE"
	case LaneJungle:
		return "JUNGLE"
	case LaneRoaming:
		return "ROAMING"
	default:
		return "UNKNOWN"
	}
}

// Label returns the human-readable lane label.
func (l Lane) Label() string {
	switch l {
	case LaneSafe:
		return "Safe Lane"
	case LaneMid:
		return "Mid Lane"
	case LaneOff:
		return "Off Lane"
	case LaneJungle:
		return "Jungle"
	case LaneRoaming:
		return "Roaming"
	default:
		return "Unknown"
	}
}

// Record is one normalized row of the merged match table: one roster
// player's view of one match. Row identity is (PlayerName, MatchID).
type Record struct {
	PlayerName       string    `json:"player_name"`
	MatchID          int64     `json:"match_id"`
	MatchDate        time.Time `json:"match_date"`
	DurationMin      float64   `json:"duration_min"`
	Hero             string    `json:"hero"`
	IsVictory        bool      `json:"is_victory"`
	PerformanceScore int       `json:"performance_score"`
	Kills            int       `json:"kills"`
	Deaths           int       `json:"deaths"`
	Assists          int       `json:"assists"`
	KDA              float64   `json:"kda"`
	Level            int       `json:"level"`
	Position         string    `json:"position"`
	Role             string    `json:"role"`
	Lane             string    `json:"lane"`
	IsParty          bool      `json:"is_party"`
	PartyWith        string    `json:"party_with,omitempty"`
	LanePartners     string    `json:"lane_partners,omitempty"`
}

// KDA computes (kills + assists) / max(deaths, 1), rounded to two
// decimals. The denominator floor is exactly 1, so zero deaths never
// divides by zero.
func KDA(kills, deaths, assists int) float64 {
	d := deaths
	if d < 1 {
		d = 1
	}
	return math.Round(float64(kills+assists)/float64(d)*100) / 100
}

// DurationMinutes converts a match duration in seconds to minutes,
// rounded to one decimal.
func DurationMinutes(seconds int) float64 {
	return math.Round(float64(seconds)/60*10) / 10
}
