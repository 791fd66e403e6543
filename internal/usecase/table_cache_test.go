package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/gridiron-loader/internal/domain/schedule"
	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
	tablemock "github.com/riskibarqy/gridiron-loader/internal/mocks/domain/table"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
)

func TestLookupCache(t *testing.T) {
	ctx := context.Background()
	key := table.PeriodKey(2019, schedule.PhaseReg, 1)
	cached := table.New([]table.Row{{ParticipantID: "00-1", Stats: map[string]float64{"pass_yds": 250}}})

	t.Run("hit", func(t *testing.T) {
		store := tablemock.NewStore(t)
		store.On("Get", mock.Anything, key).Return(cached, true, nil).Once()

		got, ok := lookupCache(ctx, store, key, logging.NewNop(), nil)
		assert.True(t, ok)
		assert.Equal(t, cached, got)
	})

	t.Run("miss", func(t *testing.T) {
		store := tablemock.NewStore(t)
		store.On("Get", mock.Anything, key).Return(table.Table{}, false, nil).Once()

		_, ok := lookupCache(ctx, store, key, logging.NewNop(), nil)
		assert.False(t, ok)
	})

	t.Run("read error is a miss", func(t *testing.T) {
		store := tablemock.NewStore(t)
		store.On("Get", mock.Anything, key).Return(table.Table{}, false, errors.New("corrupt entry")).Once()

		got, ok := lookupCache(ctx, store, key, logging.NewNop(), nil)
		assert.False(t, ok)
		assert.True(t, got.Empty())
	})
}
