package scoring

import (
	"fmt"
	"strings"
)

// FieldGoalMode selects how made field goals are valued.
type FieldGoalMode string

const (
	// FieldGoalBracketed pays LongFieldGoal per make when the kicker's field
	// goal yardage reaches LongFieldGoalYards, FieldGoal otherwise.
	FieldGoalBracketed FieldGoalMode = "bracketed"
	// FieldGoalFlat pays FieldGoal per make.
	FieldGoalFlat FieldGoalMode = "flat"
)

// Bracket awards Points when points allowed is at most MaxAllowed.
type Bracket struct {
	MaxAllowed int     `koanf:"max_allowed"`
	Points     float64 `koanf:"points"`
}

// Rules stores every multiplier of the fantasy points formula.
type Rules struct {
	PassingYardsPerPoint   float64       `koanf:"passing_yards_per_point"`
	PassingTouchdown       float64       `koanf:"passing_touchdown"`
	InterceptionThrown     float64       `koanf:"interception_thrown"`
	RushingYardsPerPoint   float64       `koanf:"rushing_yards_per_point"`
	RushingTouchdown       float64       `koanf:"rushing_touchdown"`
	ReceivingYardsPerPoint float64       `koanf:"receiving_yards_per_point"`
	ReceivingTouchdown     float64       `koanf:"receiving_touchdown"`
	TwoPointConversion     float64       `koanf:"two_point_conversion"`
	FumbleRecovery         float64       `koanf:"fumble_recovery"`
	FieldGoalMode          FieldGoalMode `koanf:"field_goal_mode"`
	FieldGoal              float64       `koanf:"field_goal"`
	LongFieldGoal          float64       `koanf:"long_field_goal"`
	LongFieldGoalYards     float64       `koanf:"long_field_goal_yards"`
	ExtraPoint             float64       `koanf:"extra_point"`
	ReturnTouchdown        float64       `koanf:"return_touchdown"`
	Sack                   float64       `koanf:"sack"`
	DefensiveInterception  float64       `koanf:"defensive_interception"`
	DefensivePositions     []string      `koanf:"defensive_positions"`
	PointsAllowed          []Bracket     `koanf:"points_allowed"`
	PointsAllowedFloor     float64       `koanf:"points_allowed_floor"`
}

func DefaultRules() Rules {
	return Rules{
		PassingYardsPerPoint:   25,
		PassingTouchdown:       4,
		InterceptionThrown:     -2,
		RushingYardsPerPoint:   10,
		RushingTouchdown:       6,
		ReceivingYardsPerPoint: 10,
		ReceivingTouchdown:     6,
		TwoPointConversion:     2,
		FumbleRecovery:         2,
		FieldGoalMode:          FieldGoalBracketed,
		FieldGoal:              3,
		LongFieldGoal:          5,
		LongFieldGoalYards:     50,
		ExtraPoint:             1,
		ReturnTouchdown:        6,
		Sack:                   1,
		DefensiveInterception:  2,
		DefensivePositions:     []string{"NT", "DB", "DT", "LB", "DE", "CB", "SAF"},
		PointsAllowed: []Bracket{
			{MaxAllowed: 0, Points: 10},
			{MaxAllowed: 6, Points: 7},
			{MaxAllowed: 13, Points: 4},
			{MaxAllowed: 20, Points: 1},
			{MaxAllowed: 27, Points: 0},
			{MaxAllowed: 34, Points: -1},
		},
		PointsAllowedFloor: -4,
	}
}

func ParseFieldGoalMode(raw string) (FieldGoalMode, error) {
	switch FieldGoalMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FieldGoalBracketed:
		return FieldGoalBracketed, nil
	case FieldGoalFlat:
		return FieldGoalFlat, nil
	default:
		return "", fmt.Errorf("invalid field goal mode %q: valid values are %s, %s", raw, FieldGoalBracketed, FieldGoalFlat)
	}
}

func (r Rules) Validate() error {
	if r.PassingYardsPerPoint <= 0 || r.RushingYardsPerPoint <= 0 || r.ReceivingYardsPerPoint <= 0 {
		return fmt.Errorf("yards per point must be greater than zero")
	}
	if _, err := ParseFieldGoalMode(string(r.FieldGoalMode)); err != nil {
		return err
	}
	for i := 1; i < len(r.PointsAllowed); i++ {
		if r.PointsAllowed[i].MaxAllowed <= r.PointsAllowed[i-1].MaxAllowed {
			return fmt.Errorf("points allowed brackets must be strictly increasing at index %d", i)
		}
	}
	return nil
}
