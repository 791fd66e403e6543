package usecase

import (
	"context"
	"errors"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/gridiron-loader/internal/domain/registry"
	"github.com/riskibarqy/gridiron-loader/internal/infrastructure/repository/memory"
	registrymock "github.com/riskibarqy/gridiron-loader/internal/mocks/domain/registry"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegistryService_LookupMany_CreatesMissingProfiles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewRegistryRepository([]registry.Metadata{
		{ParticipantID: "00-1", Name: "Known", Position: "QB"},
	})
	fetcher := registrymock.NewFetcher(t)
	fetcher.
		On("FetchProfile", mock.Anything, "00-2").
		Return(registry.Metadata{ParticipantID: "00-2", Name: "Fetched", Position: "WR"}, nil).
		Once()
	fetcher.
		On("FetchProfile", mock.Anything, "00-3").
		Return(registry.Metadata{}, crerr.Wrap(registry.ErrProfileNotFound, "upstream")).
		Once()

	svc := NewRegistryService(repo, fetcher, 2, logging.NewNop(), nil)
	got, err := svc.LookupMany(ctx, []string{"00-1", "00-2", "00-3", "00-2", " "})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Known", got["00-1"].Name)
	assert.Equal(t, "Fetched", got["00-2"].Name)
	assert.Positive(t, got["00-2"].RegistryID, "fetched profile must carry the id the registry assigned")
	assert.True(t, got["00-3"].IsPlaceholder())
	assert.Equal(t, registry.PlaceholderStatus, got["00-3"].Status)

	stored, err := repo.GetByParticipantIDs(ctx, []string{"00-2", "00-3"})
	require.NoError(t, err)
	require.Len(t, stored, 1, "placeholders are never stored")
}

func TestRegistryService_LookupMany_FetchFailureYieldsPlaceholder(t *testing.T) {
	t.Parallel()

	repo := memory.NewRegistryRepository(nil)
	fetcher := registrymock.NewFetcher(t)
	fetcher.
		On("FetchProfile", mock.Anything, "00-9").
		Return(registry.Metadata{}, errors.New("connection reset")).
		Once()

	svc := NewRegistryService(repo, fetcher, 0, logging.NewNop(), nil)
	got, err := svc.LookupMany(context.Background(), []string{"00-9"})
	require.NoError(t, err)
	assert.Equal(t, registry.Placeholder("00-9"), got["00-9"])
}

func TestRegistryService_LookupMany_RepositoryFailurePropagates(t *testing.T) {
	t.Parallel()

	repo := registrymock.NewRepository(t)
	repo.
		On("GetByParticipantIDs", mock.Anything, []string{"00-1"}).
		Return(nil, errors.New("db down")).
		Once()

	svc := NewRegistryService(repo, nil, 0, logging.NewNop(), nil)
	_, err := svc.LookupMany(context.Background(), []string{"00-1"})
	if !crerr.Is(err, ErrRegistryLookupFailed) {
		t.Fatalf("expected ErrRegistryLookupFailed, got %v", err)
	}
}

func TestRegistryService_LookupMany_UpsertFailurePropagates(t *testing.T) {
	t.Parallel()

	repo := registrymock.NewRepository(t)
	fetcher := registrymock.NewFetcher(t)
	repo.
		On("GetByParticipantIDs", mock.Anything, []string{"00-1"}).
		Return([]registry.Metadata{}, nil).
		Once()
	fetcher.
		On("FetchProfile", mock.Anything, "00-1").
		Return(registry.Metadata{ParticipantID: "00-1"}, nil).
		Once()
	repo.
		On("Upsert", mock.Anything, []registry.Metadata{{ParticipantID: "00-1"}}).
		Return(errors.New("constraint violation")).
		Once()

	svc := NewRegistryService(repo, fetcher, 1, logging.NewNop(), nil)
	_, err := svc.LookupMany(context.Background(), []string{"00-1"})
	if !crerr.Is(err, ErrRegistryLookupFailed) {
		t.Fatalf("expected ErrRegistryLookupFailed, got %v", err)
	}
}

func TestRegistryService_LookupMany_WithoutFetcher(t *testing.T) {
	t.Parallel()

	svc := NewRegistryService(memory.NewRegistryRepository(nil), nil, 0, logging.NewNop(), nil)
	got, err := svc.LookupMany(context.Background(), []string{"00-1"})
	require.NoError(t, err)
	assert.True(t, got["00-1"].IsPlaceholder())
}
