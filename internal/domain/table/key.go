package table

import (
	"fmt"

	"github.com/riskibarqy/gridiron-loader/internal/domain/schedule"
)

// Level is the aggregation tier a key addresses.
type Level string

const (
	LevelEvent  Level = "event"
	LevelPeriod Level = "period"
	LevelSeason Level = "season"
)

// Key addresses one cached table. Period is zero for season tables and Team is
// empty for period and season tables.
type Key struct {
	Season int            `json:"season" validate:"required,gte=1970,lte=2100"`
	Phase  schedule.Phase `json:"phase" validate:"required,oneof=PRE REG POST"`
	Period int            `json:"period" validate:"gte=0,lte=25"`
	Team   string         `json:"team,omitempty" validate:"omitempty,alphanum,max=4"`
}

func EventKey(season int, phase schedule.Phase, period int, team string) Key {
	return Key{Season: season, Phase: phase, Period: period, Team: team}
}

func PeriodKey(season int, phase schedule.Phase, period int) Key {
	return Key{Season: season, Phase: phase, Period: period}
}

func SeasonKey(season int, phase schedule.Phase) Key {
	return Key{Season: season, Phase: phase}
}

func (k Key) Level() Level {
	switch {
	case k.Team != "":
		return LevelEvent
	case k.Period > 0:
		return LevelPeriod
	default:
		return LevelSeason
	}
}

func (k Key) String() string {
	switch k.Level() {
	case LevelEvent:
		return fmt.Sprintf("%d/%s/%d/%s", k.Season, k.Phase, k.Period, k.Team)
	case LevelPeriod:
		return fmt.Sprintf("%d/%s/%d", k.Season, k.Phase, k.Period)
	default:
		return fmt.Sprintf("%d/%s", k.Season, k.Phase)
	}
}
