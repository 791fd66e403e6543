package schedule

import (
	"context"
	"time"
)

// Service resolves games for a season, phase and week.
type Service interface {
	ResolveEvent(ctx context.Context, season int, phase Phase, week int, team string) (Game, bool, error)
	PeriodEvents(ctx context.Context, season int, phase Phase, week int) ([]Game, error)
	CurrentSeason(ref time.Time) int
	CurrentWeek(ctx context.Context, season int, phase Phase) (int, error)
}
