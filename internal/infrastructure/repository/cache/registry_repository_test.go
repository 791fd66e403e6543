package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/gridiron-loader/internal/domain/registry"
	"github.com/riskibarqy/gridiron-loader/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRegistry struct {
	registry.Repository
	lookups   [][]string
	listCalls int
	failNext  error
}

func (c *countingRegistry) GetByParticipantIDs(ctx context.Context, ids []string) ([]registry.Metadata, error) {
	c.lookups = append(c.lookups, append([]string(nil), ids...))
	if c.failNext != nil {
		err := c.failNext
		c.failNext = nil
		return nil, err
	}
	return c.Repository.GetByParticipantIDs(ctx, ids)
}

func (c *countingRegistry) ListActive(ctx context.Context) ([]registry.Metadata, error) {
	c.listCalls++
	return c.Repository.ListActive(ctx)
}

func TestRegistryRepository_OnlyLoadsMisses(t *testing.T) {
	ctx := context.Background()
	inner := &countingRegistry{Repository: memory.NewRegistryRepository([]registry.Metadata{
		{ParticipantID: "a", Name: "A", Active: true},
		{ParticipantID: "b", Name: "B"},
	})}
	repo := NewRegistryRepository(inner, time.Minute)

	got, err := repo.GetByParticipantIDs(ctx, []string{"a", "x"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = repo.GetByParticipantIDs(ctx, []string{"b", "a", "a"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Name)
	assert.Equal(t, "A", got[1].Name)

	require.Len(t, inner.lookups, 2)
	assert.Equal(t, []string{"a", "x"}, inner.lookups[0])
	assert.Equal(t, []string{"b"}, inner.lookups[1])
}

func TestRegistryRepository_UpsertInvalidates(t *testing.T) {
	ctx := context.Background()
	inner := &countingRegistry{Repository: memory.NewRegistryRepository([]registry.Metadata{
		{ParticipantID: "a", Name: "A", Active: true},
	})}
	repo := NewRegistryRepository(inner, time.Minute)

	_, err := repo.ListActive(ctx)
	require.NoError(t, err)
	_, err = repo.GetByParticipantIDs(ctx, []string{"a"})
	require.NoError(t, err)

	require.NoError(t, repo.Upsert(ctx, []registry.Metadata{{ParticipantID: "a", Name: "A2", Active: true}}))

	got, err := repo.GetByParticipantIDs(ctx, []string{"a"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A2", got[0].Name)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 2, inner.listCalls)
}

func TestRegistryRepository_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	inner := &countingRegistry{
		Repository: memory.NewRegistryRepository([]registry.Metadata{{ParticipantID: "a"}}),
		failNext:   errors.New("db down"),
	}
	repo := NewRegistryRepository(inner, time.Minute)

	_, err := repo.GetByParticipantIDs(ctx, []string{"a"})
	require.Error(t, err)

	got, err := repo.GetByParticipantIDs(ctx, []string{"a"})
	require.NoError(t, err)
	require.Len(t, got, 1)
}
