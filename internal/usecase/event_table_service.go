package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/gridiron-loader/internal/domain/registry"
	"github.com/riskibarqy/gridiron-loader/internal/domain/schedule"
	"github.com/riskibarqy/gridiron-loader/internal/domain/scoring"
	"github.com/riskibarqy/gridiron-loader/internal/domain/stats"
	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
	"github.com/riskibarqy/gridiron-loader/internal/platform/metrics"
	"go.opentelemetry.io/otel/attribute"
)

// StatsFeed returns the decoded statistics of one event.
type StatsFeed interface {
	FetchEventRecord(ctx context.Context, eventID string) (stats.EventRecord, error)
}

// EventTables builds or loads single-event tables.
type EventTables interface {
	Get(ctx context.Context, key table.Key, opts TableOptions) (table.Table, error)
}

type EventTableService struct {
	schedule  schedule.Service
	feed      StatsFeed
	directory ParticipantDirectory
	store     table.Store
	engine    *scoring.Engine
	logger    *logging.Logger
	metrics   *metrics.Recorder
	now       func() time.Time
}

var _ EventTables = (*EventTableService)(nil)

func NewEventTableService(
	scheduleSvc schedule.Service,
	feed StatsFeed,
	directory ParticipantDirectory,
	store table.Store,
	engine *scoring.Engine,
	logger *logging.Logger,
	recorder *metrics.Recorder,
) *EventTableService {
	if logger == nil {
		logger = logging.Default()
	}
	if engine == nil {
		engine = scoring.NewEngine(scoring.DefaultRules())
	}
	return &EventTableService{
		schedule:  scheduleSvc,
		feed:      feed,
		directory: directory,
		store:     store,
		engine:    engine,
		logger:    logger,
		metrics:   recorder,
		now:       time.Now,
	}
}

// Get returns the cached table for key, building it on a miss.
func (s *EventTableService) Get(ctx context.Context, key table.Key, opts TableOptions) (table.Table, error) {
	key, err := normalizeKey(key, table.LevelEvent)
	if err != nil {
		return table.Table{}, err
	}

	if !opts.Refresh {
		if cached, ok := lookupCache(ctx, s.store, key, s.logger, s.metrics); ok {
			return cached, nil
		}
	}
	return s.Build(ctx, key, opts)
}

// Build always recomputes the table for key from the upstream services.
func (s *EventTableService) Build(ctx context.Context, key table.Key, opts TableOptions) (out table.Table, err error) {
	key, err = normalizeKey(key, table.LevelEvent)
	if err != nil {
		return table.Table{}, err
	}

	ctx, finish := traceStep(ctx, "usecase.EventTableService.Build", attribute.String("table.key", key.String()))
	started := time.Now()
	defer func() {
		recordBuild(s.metrics, table.LevelEvent, out, err, started)
		finish(err)
	}()

	out, err = s.build(ctx, key)
	if err != nil {
		return table.Table{}, keyError(key, err)
	}

	if !opts.NoPersist {
		if err := s.store.Put(ctx, key, out); err != nil {
			return table.Table{}, keyError(key, crerr.Wrap(err, "persist event table"))
		}
	}

	s.logger.InfoContext(ctx, "event table built", "key", key.String(), "rows", len(out.Rows), "columns", len(out.Columns))
	return out, nil
}

func (s *EventTableService) build(ctx context.Context, key table.Key) (table.Table, error) {
	game, found, err := s.schedule.ResolveEvent(ctx, key.Season, key.Phase, key.Period, key.Team)
	if err != nil {
		if !crerr.Is(err, ErrDependencyUnavailable) {
			err = crerr.Mark(err, ErrDependencyUnavailable)
		}
		return table.Table{}, crerr.Wrap(err, "resolve event")
	}
	if !found {
		return table.Table{}, crerr.Wrapf(ErrNoEventFound, "team %s has no event", key.Team)
	}

	record, err := s.feed.FetchEventRecord(ctx, game.EventID)
	if err != nil {
		if !crerr.Is(err, ErrFeedUnavailable) {
			err = crerr.Mark(err, ErrFeedUnavailable)
		}
		return table.Table{}, crerr.Wrapf(err, "fetch event %s", game.EventID)
	}

	date, err := schedule.DateFromEventID(game.EventID)
	if err != nil {
		return table.Table{}, crerr.Mark(err, ErrFeedUnavailable)
	}

	own, opponent, home, ok := record.SideOf(key.Team)
	if !ok {
		return table.Table{}, crerr.Wrapf(ErrTeamNotInEvent, "team %s in event %s (home %s, away %s)",
			key.Team, game.EventID, record.Home.Abbr, record.Away.Abbr)
	}
	rows := participantRows(own)
	if len(rows) == 0 {
		return table.New(nil), nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ParticipantID)
	}
	directory, err := s.directory.LookupMany(ctx, ids)
	if err != nil {
		if !crerr.Is(err, ErrRegistryLookupFailed) {
			err = crerr.Mark(err, ErrRegistryLookupFailed)
		}
		return table.Table{}, err
	}

	currentSeason := s.schedule.CurrentSeason(s.now())
	for i := range rows {
		row := &rows[i]
		row.Team = key.Team
		row.Opponent = opponent.Abbr
		row.Home = home
		row.Period = key.Period
		row.Date = date.Format("2006-01-02")
		row.Year = date.Year()
		row.Month = int(date.Month())
		row.Day = date.Day()
		row.Weekday = mondayFirstWeekday(date)
		row.TotalPointsScored = own.Score
		row.PointsAllowed = opponent.Score

		if meta, ok := directory[row.ParticipantID]; ok {
			applyMetadata(row, meta.AsOfSeason(currentSeason, key.Season))
		}
	}

	out := table.New(rows)
	s.engine.Apply(&out)
	return out, nil
}

// participantRows outer-joins every non-empty category of side on
// participant id. Rows are ordered by participant id.
func participantRows(side stats.Side) []table.Row {
	byID := make(map[string]*table.Row)
	for _, category := range side.SortedCategories() {
		schema := stats.SchemaFor(category)
		for participantID, line := range side.Categories[category] {
			row, ok := byID[participantID]
			if !ok {
				row = &table.Row{
					ParticipantID: participantID,
					Stats:         make(map[string]float64, len(line.Fields)),
				}
				byID[participantID] = row
			}
			if row.Name == "" {
				row.Name = strings.TrimSpace(line.Name)
			}
			for field, value := range line.Fields {
				row.Stats[schema.Column(field)] = value
			}
		}
	}

	out := make([]table.Row, 0, len(byID))
	for _, row := range byID {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ParticipantID < out[j].ParticipantID
	})
	return out
}

func applyMetadata(row *table.Row, meta registry.Metadata) {
	row.RegistryID = meta.RegistryID
	row.Position = meta.Position
	row.Number = meta.Number
	row.Status = meta.Status
	row.HeightCM = meta.HeightCM
	row.WeightKG = meta.WeightKG
	row.Age = meta.Age
	row.Experience = meta.Experience
	row.College = meta.College
	row.RosterTeam = meta.Team
	if row.Name == "" {
		row.Name = meta.ShortName
	}
}

// mondayFirstWeekday numbers days Monday=0 through Sunday=6.
func mondayFirstWeekday(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}
