package usecase

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/gridiron-loader/internal/domain/schedule"
	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
	idgen "github.com/riskibarqy/gridiron-loader/internal/platform/id"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
	"github.com/riskibarqy/gridiron-loader/internal/platform/metrics"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultPeriodCounts is the number of weeks per phase.
var DefaultPeriodCounts = map[schedule.Phase]int{
	schedule.PhasePre:  4,
	schedule.PhaseReg:  17,
	schedule.PhasePost: 4,
}

type SeasonTableServiceConfig struct {
	PeriodCounts      map[schedule.Phase]int
	SkipFailedPeriods bool
}

type SeasonTableService struct {
	schedule     schedule.Service
	periods      PeriodTables
	store        table.Store
	periodCounts map[schedule.Phase]int
	skipFailed   bool
	ids          idgen.Generator
	logger       *logging.Logger
	metrics      *metrics.Recorder
	now          func() time.Time
}

func NewSeasonTableService(
	scheduleSvc schedule.Service,
	periods PeriodTables,
	store table.Store,
	cfg SeasonTableServiceConfig,
	ids idgen.Generator,
	logger *logging.Logger,
	recorder *metrics.Recorder,
) *SeasonTableService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = idgen.NewRunIDs("season-")
	}
	counts := make(map[schedule.Phase]int, len(DefaultPeriodCounts))
	for phase, count := range DefaultPeriodCounts {
		counts[phase] = count
	}
	for phase, count := range cfg.PeriodCounts {
		counts[phase] = count
	}
	return &SeasonTableService{
		schedule:     scheduleSvc,
		periods:      periods,
		store:        store,
		periodCounts: counts,
		skipFailed:   cfg.SkipFailedPeriods,
		ids:          ids,
		logger:       logger,
		metrics:      recorder,
		now:          time.Now,
	}
}

// Get returns the union of every period of a completed season. Seasons that
// are not strictly before the current one yield an empty table that is never
// persisted.
func (s *SeasonTableService) Get(ctx context.Context, key table.Key, opts TableOptions) (out table.Table, err error) {
	key, err = normalizeKey(key, table.LevelSeason)
	if err != nil {
		return table.Table{}, err
	}

	if !opts.Refresh {
		if cached, ok := lookupCache(ctx, s.store, key, s.logger, s.metrics); ok {
			return cached, nil
		}
	}

	current := s.schedule.CurrentSeason(s.now())
	if key.Season >= current {
		s.logger.InfoContext(ctx, "season still in progress, returning empty table", "key", key.String(), "current_season", current)
		return table.New(nil), nil
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return table.Table{}, crerr.Wrap(err, "generate season run id")
	}
	logger := s.logger.With("run_id", runID, "key", key.String())

	ctx, finish := traceStep(ctx, "usecase.SeasonTableService.Get",
		attribute.String("table.key", key.String()),
		attribute.String("run_id", runID),
	)
	started := time.Now()
	defer func() {
		recordBuild(s.metrics, table.LevelSeason, out, err, started)
		finish(err)
	}()

	count := s.periodCounts[key.Phase]
	parts := make([]table.Table, 0, count)
	skipped := 0
	for period := 1; period <= count; period++ {
		if err := ctx.Err(); err != nil {
			return table.Table{}, keyError(key, err)
		}

		periodKey := table.PeriodKey(key.Season, key.Phase, period)
		result, err := s.periods.Get(ctx, periodKey, TableOptions{NoPersist: opts.NoPersist})
		if err != nil {
			if s.skipFailed {
				skipped++
				logger.WarnContext(ctx, "skipping failed period", "period", period, "error", err)
				continue
			}
			return table.Table{}, keyError(periodKey, crerr.Wrapf(err, "period %d", period))
		}
		logger.DebugContext(ctx, "period loaded", "period", period, "rows", len(result.Rows))
		parts = append(parts, result)
	}

	out = table.Union(parts...)
	if skipped > 0 {
		logger.WarnContext(ctx, "season table incomplete, not persisting", "skipped", skipped)
	} else if !opts.NoPersist {
		if err := s.store.Put(ctx, key, out); err != nil {
			return table.Table{}, keyError(key, crerr.Wrap(err, "persist season table"))
		}
	}

	logger.InfoContext(ctx, "season table built", "periods", count, "skipped", skipped, "rows", len(out.Rows))
	return out, nil
}
