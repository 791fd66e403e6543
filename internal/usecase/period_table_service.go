package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/gridiron-loader/internal/domain/schedule"
	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
	"github.com/riskibarqy/gridiron-loader/internal/platform/metrics"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

// PeriodTables builds or loads whole-period tables.
type PeriodTables interface {
	Get(ctx context.Context, key table.Key, opts TableOptions) (table.Table, error)
}

type PeriodTableService struct {
	schedule       schedule.Service
	events         EventTables
	store          table.Store
	maxConcurrency int
	logger         *logging.Logger
	metrics        *metrics.Recorder
}

var _ PeriodTables = (*PeriodTableService)(nil)

// NewPeriodTableService runs one task per team. maxConcurrency <= 0 leaves the
// fan-out unbounded.
func NewPeriodTableService(
	scheduleSvc schedule.Service,
	events EventTables,
	store table.Store,
	maxConcurrency int,
	logger *logging.Logger,
	recorder *metrics.Recorder,
) *PeriodTableService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PeriodTableService{
		schedule:       scheduleSvc,
		events:         events,
		store:          store,
		maxConcurrency: maxConcurrency,
		logger:         logger,
		metrics:        recorder,
	}
}

// teamTable is one slot of the period accumulation buffer.
type teamTable struct {
	order int
	table table.Table
}

func (s *PeriodTableService) Get(ctx context.Context, key table.Key, opts TableOptions) (out table.Table, err error) {
	key, err = normalizeKey(key, table.LevelPeriod)
	if err != nil {
		return table.Table{}, err
	}

	if !opts.Refresh {
		if cached, ok := lookupCache(ctx, s.store, key, s.logger, s.metrics); ok {
			return cached, nil
		}
	}

	ctx, finish := traceStep(ctx, "usecase.PeriodTableService.Get", attribute.String("table.key", key.String()))
	started := time.Now()
	defer func() {
		recordBuild(s.metrics, table.LevelPeriod, out, err, started)
		finish(err)
	}()

	games, err := s.schedule.PeriodEvents(ctx, key.Season, key.Phase, key.Period)
	if err != nil {
		return table.Table{}, keyError(key, crerr.Wrap(err, "list period events"))
	}
	teams := teamsOf(games)
	if len(teams) == 0 {
		s.logger.InfoContext(ctx, "period has no events", "key", key.String())
		return table.New(nil), nil
	}

	var (
		mu     sync.Mutex
		buffer = make([]teamTable, 0, len(teams))
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	if s.maxConcurrency > 0 {
		p = p.WithMaxGoroutines(s.maxConcurrency)
	}
	for i, team := range teams {
		order, team := i, team
		p.Go(func(ctx context.Context) error {
			eventKey := table.EventKey(key.Season, key.Phase, key.Period, team)
			result, err := s.events.Get(ctx, eventKey, TableOptions{Refresh: opts.Refresh, NoPersist: opts.NoPersist})
			if err != nil {
				return keyError(eventKey, crerr.Mark(crerr.Wrapf(err, "team %s", team), ErrIncompletePeriod))
			}

			mu.Lock()
			buffer = append(buffer, teamTable{order: order, table: result})
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		s.logger.WarnContext(ctx, "period build incomplete", "key", key.String(), "error", err)
		return table.Table{}, err
	}

	sort.Slice(buffer, func(i, j int) bool {
		return buffer[i].order < buffer[j].order
	})
	parts := make([]table.Table, 0, len(buffer))
	for _, item := range buffer {
		parts = append(parts, item.table)
	}
	out = table.Union(parts...)

	if !opts.NoPersist {
		if err := s.store.Put(ctx, key, out); err != nil {
			return table.Table{}, keyError(key, crerr.Wrap(err, "persist period table"))
		}
	}

	s.logger.InfoContext(ctx, "period table built", "key", key.String(), "teams", len(teams), "rows", len(out.Rows))
	return out, nil
}

// teamsOf lists home then away for each game, in schedule order.
func teamsOf(games []schedule.Game) []string {
	seen := make(map[string]struct{}, len(games)*2)
	out := make([]string, 0, len(games)*2)
	for _, game := range games {
		for _, team := range []string{game.Home, game.Away} {
			if team == "" {
				continue
			}
			if _, ok := seen[team]; ok {
				continue
			}
			seen[team] = struct{}{}
			out = append(out, team)
		}
	}
	return out
}
