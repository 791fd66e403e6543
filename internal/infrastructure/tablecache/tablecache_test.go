package tablecache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/gridiron-loader/internal/domain/schedule"
	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
)

func sampleTable() table.Table {
	return table.New([]table.Row{
		{ParticipantID: "00-0023459", Name: "A.Rodgers", Team: "GB", Stats: map[string]float64{"pass_yds": 203}, FantasyPoints: 8.12},
		{ParticipantID: "00-0031237", Name: "A.Jones", Team: "GB", Stats: map[string]float64{"rush_yds": 39}},
	})
}

func TestDiskStore_Layout(t *testing.T) {
	store := NewDiskStore("/data/tables")

	assert.Equal(t, filepath.FromSlash("/data/tables/2019/REG/1/GB.json"), store.Path(table.EventKey(2019, schedule.PhaseReg, 1, "GB")))
	assert.Equal(t, filepath.FromSlash("/data/tables/2019/REG/1.json"), store.Path(table.PeriodKey(2019, schedule.PhaseReg, 1)))
	assert.Equal(t, filepath.FromSlash("/data/tables/2019/POST.json"), store.Path(table.SeasonKey(2019, schedule.PhasePost)))
}

func TestDiskStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewDiskStore(t.TempDir())
	key := table.EventKey(2019, schedule.PhaseReg, 1, "GB")

	_, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put(ctx, key, sampleTable()))

	got, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sampleTable(), got)
}

func TestDiskStore_EmptyTableIsAHit(t *testing.T) {
	ctx := context.Background()
	store := NewDiskStore(t.TempDir())
	key := table.SeasonKey(2018, schedule.PhasePre)

	require.NoError(t, store.Put(ctx, key, table.Table{}))

	got, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, got.Empty())
}

func TestDiskStore_CorruptFileIsAnError(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewDiskStore(root)
	key := table.PeriodKey(2019, schedule.PhaseReg, 2)

	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path(key)), 0o755))
	require.NoError(t, os.WriteFile(store.Path(key), []byte("{"), 0o600))

	_, found, err := store.Get(ctx, key)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestMemoryStore_ClonesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute, 0)
	key := table.PeriodKey(2019, schedule.PhaseReg, 1)

	value := sampleTable()
	require.NoError(t, store.Put(ctx, key, value))
	value.Rows[0].Stats["pass_yds"] = 0

	got, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, float64(203), got.Rows[0].Stats["pass_yds"])

	got.Rows[0].Stats["pass_yds"] = 1
	again, _, _ := store.Get(ctx, key)
	assert.Equal(t, float64(203), again.Rows[0].Stats["pass_yds"])
}

func TestMemoryStore_Bounded(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0, 1)
	first := table.EventKey(2019, schedule.PhaseReg, 1, "GB")
	second := table.EventKey(2019, schedule.PhaseReg, 1, "CHI")

	require.NoError(t, store.Put(ctx, first, sampleTable()))
	require.NoError(t, store.Put(ctx, second, sampleTable()))

	_, found, _ := store.Get(ctx, first)
	assert.False(t, found)
	_, found, _ = store.Get(ctx, second)
	assert.True(t, found)
}

type failingStore struct {
	putErr error
	puts   int
}

func (s *failingStore) Get(context.Context, table.Key) (table.Table, bool, error) {
	return table.Table{}, false, nil
}

func (s *failingStore) Put(context.Context, table.Key, table.Table) error {
	s.puts++
	return s.putErr
}

func TestLayered_BackfillsFasterLayers(t *testing.T) {
	ctx := context.Background()
	memory := NewMemoryStore(time.Minute, 0)
	disk := NewDiskStore(t.TempDir())
	layered := NewLayered(nil, memory, disk)
	key := table.EventKey(2019, schedule.PhaseReg, 1, "GB")

	require.NoError(t, disk.Put(ctx, key, sampleTable()))

	got, found, err := layered.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, got.Rows, 2)

	_, found, err = memory.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestLayered_DurableFailureSkipsMemory(t *testing.T) {
	ctx := context.Background()
	memory := NewMemoryStore(time.Minute, 0)
	durable := &failingStore{putErr: errors.New("disk full")}
	layered := NewLayered(nil, memory, durable)
	key := table.PeriodKey(2019, schedule.PhaseReg, 3)

	err := layered.Put(ctx, key, sampleTable())
	require.Error(t, err)
	assert.Equal(t, 1, durable.puts)

	_, found, _ := memory.Get(ctx, key)
	assert.False(t, found)
}
