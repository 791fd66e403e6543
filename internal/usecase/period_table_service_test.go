package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/gridiron-loader/internal/domain/schedule"
	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
	"github.com/riskibarqy/gridiron-loader/internal/infrastructure/tablecache"
	schedulemock "github.com/riskibarqy/gridiron-loader/internal/mocks/domain/schedule"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubEventTables serves one canned table per team and records every request.
type stubEventTables struct {
	mu     sync.Mutex
	tables map[string]table.Table
	fail   map[string]error
	calls  []table.Key
	opts   []TableOptions
}

func (s *stubEventTables) Get(_ context.Context, key table.Key, opts TableOptions) (table.Table, error) {
	s.mu.Lock()
	s.calls = append(s.calls, key)
	s.opts = append(s.opts, opts)
	s.mu.Unlock()

	if err, ok := s.fail[key.Team]; ok {
		return table.Table{}, err
	}
	return s.tables[key.Team], nil
}

func (s *stubEventTables) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func weekOneGames() []schedule.Game {
	return []schedule.Game{
		{EventID: "2019090800", Home: "PHI", Away: "WAS", Season: 2019, Week: 1, Phase: schedule.PhaseReg},
		{EventID: "2019090801", Home: "DAL", Away: "NYG", Season: 2019, Week: 1, Phase: schedule.PhaseReg},
	}
}

func teamTableFor(team string, columns map[string]float64) table.Table {
	return table.New([]table.Row{{ParticipantID: team + "-1", Team: team, Stats: columns}})
}

func newWeekOneEvents() *stubEventTables {
	return &stubEventTables{
		tables: map[string]table.Table{
			"PHI": teamTableFor("PHI", map[string]float64{"pass_yds": 250}),
			"WAS": teamTableFor("WAS", map[string]float64{"def_sk": 2}),
			"DAL": teamTableFor("DAL", map[string]float64{"rush_yds": 80}),
			"NYG": table.New(nil),
		},
	}
}

func TestPeriodTableService_Get_UnionsEveryTeam(t *testing.T) {
	t.Parallel()

	sched := schedulemock.NewService(t)
	sched.On("PeriodEvents", mock.Anything, 2019, schedule.PhaseReg, 1).Return(weekOneGames(), nil).Once()
	events := newWeekOneEvents()
	store := tablecache.NewMemoryStore(0, 0)

	svc := NewPeriodTableService(sched, events, store, 2, logging.NewNop(), nil)
	key := table.PeriodKey(2019, schedule.PhaseReg, 1)
	got, err := svc.Get(context.Background(), key, TableOptions{})
	require.NoError(t, err)

	require.Len(t, got.Rows, 3)
	assert.Equal(t, []string{"PHI", "WAS", "DAL"}, []string{got.Rows[0].Team, got.Rows[1].Team, got.Rows[2].Team})
	assert.Equal(t, []string{"def_sk", "pass_yds", "rush_yds"}, got.Columns)
	for _, row := range got.Rows {
		assert.Len(t, row.Stats, 3)
	}
	assert.Equal(t, 0.0, got.Rows[0].Stat("rush_yds"))

	requested := make(map[string]bool)
	for _, call := range events.calls {
		assert.Equal(t, 2019, call.Season)
		assert.Equal(t, 1, call.Period)
		requested[call.Team] = true
	}
	assert.Equal(t, map[string]bool{"PHI": true, "WAS": true, "DAL": true, "NYG": true}, requested)

	cached, found, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, got, cached)
}

func TestPeriodTableService_Get_Idempotent(t *testing.T) {
	t.Parallel()

	sched := schedulemock.NewService(t)
	sched.On("PeriodEvents", mock.Anything, 2019, schedule.PhaseReg, 1).Return(weekOneGames(), nil).Once()
	events := newWeekOneEvents()

	svc := NewPeriodTableService(sched, events, tablecache.NewMemoryStore(0, 0), 0, logging.NewNop(), nil)
	key := table.PeriodKey(2019, schedule.PhaseReg, 1)

	first, err := svc.Get(context.Background(), key, TableOptions{})
	require.NoError(t, err)
	second, err := svc.Get(context.Background(), key, TableOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 4, events.callCount(), "second call must not reach the event tier")
}

func TestPeriodTableService_Get_RefreshPropagates(t *testing.T) {
	t.Parallel()

	sched := schedulemock.NewService(t)
	sched.On("PeriodEvents", mock.Anything, 2019, schedule.PhaseReg, 1).Return(weekOneGames(), nil).Once()
	events := newWeekOneEvents()
	store := tablecache.NewMemoryStore(0, 0)

	svc := NewPeriodTableService(sched, events, store, 0, logging.NewNop(), nil)
	key := table.PeriodKey(2019, schedule.PhaseReg, 1)
	_, err := svc.Get(context.Background(), key, TableOptions{Refresh: true, NoPersist: true})
	require.NoError(t, err)

	for _, opts := range events.opts {
		assert.Equal(t, TableOptions{Refresh: true, NoPersist: true}, opts)
	}
	assertNotCached(t, store, key)
}

func TestPeriodTableService_Get_PartialFailureCachesNothing(t *testing.T) {
	t.Parallel()

	sched := schedulemock.NewService(t)
	sched.On("PeriodEvents", mock.Anything, 2019, schedule.PhaseReg, 1).Return(weekOneGames(), nil).Once()
	events := newWeekOneEvents()
	events.fail = map[string]error{"DAL": crerr.Mark(errors.New("upstream 503"), ErrFeedUnavailable)}
	store := tablecache.NewMemoryStore(0, 0)

	svc := NewPeriodTableService(sched, events, store, 1, logging.NewNop(), nil)
	key := table.PeriodKey(2019, schedule.PhaseReg, 1)
	_, err := svc.Get(context.Background(), key, TableOptions{})
	require.Error(t, err)

	if !crerr.Is(err, ErrIncompletePeriod) {
		t.Fatalf("expected ErrIncompletePeriod, got %v", err)
	}
	if !crerr.Is(err, ErrFeedUnavailable) {
		t.Fatalf("expected the feed failure to stay visible, got %v", err)
	}
	var keyErr *KeyError
	require.True(t, errors.As(err, &keyErr))
	assert.Equal(t, table.EventKey(2019, schedule.PhaseReg, 1, "DAL"), keyErr.Key)

	assertNotCached(t, store, key)
}

func TestPeriodTableService_Get_NoGames(t *testing.T) {
	t.Parallel()

	sched := schedulemock.NewService(t)
	sched.On("PeriodEvents", mock.Anything, 2019, schedule.PhaseReg, 1).Return(nil, nil).Once()
	store := tablecache.NewMemoryStore(0, 0)

	svc := NewPeriodTableService(sched, &stubEventTables{}, store, 0, logging.NewNop(), nil)
	key := table.PeriodKey(2019, schedule.PhaseReg, 1)
	got, err := svc.Get(context.Background(), key, TableOptions{})
	require.NoError(t, err)
	assert.True(t, got.Empty())
	assertNotCached(t, store, key)
}

func TestPeriodTableService_Get_ScheduleFailure(t *testing.T) {
	t.Parallel()

	sched := schedulemock.NewService(t)
	sched.
		On("PeriodEvents", mock.Anything, 2019, schedule.PhaseReg, 1).
		Return(nil, crerr.Mark(errors.New("timeout"), ErrDependencyUnavailable)).
		Once()

	svc := NewPeriodTableService(sched, &stubEventTables{}, tablecache.NewMemoryStore(0, 0), 0, logging.NewNop(), nil)
	_, err := svc.Get(context.Background(), table.PeriodKey(2019, schedule.PhaseReg, 1), TableOptions{})
	if !crerr.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestTeamsOf(t *testing.T) {
	t.Parallel()

	games := append(weekOneGames(), schedule.Game{Home: "PHI", Away: ""})
	assert.Equal(t, []string{"PHI", "WAS", "DAL", "NYG"}, teamsOf(games))
}
