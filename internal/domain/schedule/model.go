package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Phase is the part of a league year a game belongs to.
type Phase string

const (
	PhasePre  Phase = "PRE"
	PhaseReg  Phase = "REG"
	PhasePost Phase = "POST"
)

var AllPhases = map[Phase]struct{}{
	PhasePre:  {},
	PhaseReg:  {},
	PhasePost: {},
}

// ParsePhase accepts upper or lower case phase names; empty means regular season.
func ParsePhase(raw string) (Phase, error) {
	value := Phase(strings.ToUpper(strings.TrimSpace(raw)))
	if value == "" {
		return PhaseReg, nil
	}
	if _, ok := AllPhases[value]; !ok {
		return "", fmt.Errorf("invalid phase %q: valid values are PRE, REG, POST", raw)
	}
	return value, nil
}

// Game is one scheduled contest between two teams.
type Game struct {
	EventID  string `json:"eid"`
	GameKey  string `json:"gamekey"`
	Home     string `json:"home"`
	Away     string `json:"away"`
	Season   int    `json:"season"`
	Week     int    `json:"week"`
	Phase    Phase  `json:"seasonType"`
	Finished bool   `json:"finished"`
}

// Involves reports whether team played on either side of the game.
func (g Game) Involves(team string) bool {
	return g.Home == team || g.Away == team
}

// Date decodes the calendar date embedded in the event id.
func (g Game) Date() (time.Time, error) {
	return DateFromEventID(g.EventID)
}

// DateFromEventID reads YYYYMMDD from the first eight characters of an event id.
func DateFromEventID(eventID string) (time.Time, error) {
	if len(eventID) < 8 {
		return time.Time{}, fmt.Errorf("event id %q is too short to carry a date", eventID)
	}
	parsed, err := time.Parse("20060102", eventID[:8])
	if err != nil {
		return time.Time{}, fmt.Errorf("decode date from event id %q: %w", eventID, err)
	}
	return parsed, nil
}

// SeasonOf names the season a date belongs to. A season is named after the
// year it starts in and rolls over on March 1.
func SeasonOf(date time.Time) int {
	if date.Month() < time.March {
		return date.Year() - 1
	}
	return date.Year()
}
