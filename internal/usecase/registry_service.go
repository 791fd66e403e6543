package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/gridiron-loader/internal/domain/registry"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
	"github.com/riskibarqy/gridiron-loader/internal/platform/metrics"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultRegistryFetchWorkers = 8

	placeholderReasonNotFound  = "not_found"
	placeholderReasonFetch     = "fetch_failed"
	placeholderReasonNoFetcher = "no_fetcher"
)

// ParticipantDirectory resolves registry metadata for a batch of participants.
// Every requested id is present in the result; unresolved ids map to
// registry.Placeholder.
type ParticipantDirectory interface {
	LookupMany(ctx context.Context, participantIDs []string) (map[string]registry.Metadata, error)
}

type RegistryService struct {
	repo    registry.Repository
	fetcher registry.Fetcher
	workers int
	logger  *logging.Logger
	metrics *metrics.Recorder
}

var _ ParticipantDirectory = (*RegistryService)(nil)

// NewRegistryService wires the registry. fetcher may be nil, in which case
// unknown participants always resolve to placeholders.
func NewRegistryService(repo registry.Repository, fetcher registry.Fetcher, workers int, logger *logging.Logger, recorder *metrics.Recorder) *RegistryService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultRegistryFetchWorkers
	}
	return &RegistryService{
		repo:    repo,
		fetcher: fetcher,
		workers: workers,
		logger:  logger,
		metrics: recorder,
	}
}

func (s *RegistryService) LookupMany(ctx context.Context, participantIDs []string) (result map[string]registry.Metadata, err error) {
	ids := uniqueIDs(participantIDs)
	ctx, finish := traceStep(ctx, "usecase.RegistryService.LookupMany", attribute.Int("registry.participants", len(ids)))
	defer func() { finish(err) }()

	result = make(map[string]registry.Metadata, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	stored, err := s.repo.GetByParticipantIDs(ctx, ids)
	if err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "read registry"), ErrRegistryLookupFailed)
	}
	for _, item := range stored {
		result[item.ParticipantID] = item
	}

	missing := make([]string, 0, len(ids)-len(result))
	for _, id := range ids {
		if _, ok := result[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return result, nil
	}

	if s.fetcher == nil {
		for _, id := range missing {
			s.placeholder(ctx, result, id, placeholderReasonNoFetcher, nil)
		}
		return result, nil
	}

	fetched, failures, err := s.fetchMissing(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, reason := range failures {
		s.placeholder(ctx, result, id, reason.reason, reason.err)
	}
	if len(fetched) == 0 {
		return result, nil
	}

	if err := s.repo.Upsert(ctx, fetched); err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "store fetched registry profiles"), ErrRegistryLookupFailed)
	}

	// Re-read so callers see the ids the registry assigned.
	fetchedIDs := make([]string, 0, len(fetched))
	for _, item := range fetched {
		result[item.ParticipantID] = item
		fetchedIDs = append(fetchedIDs, item.ParticipantID)
	}
	stored, err = s.repo.GetByParticipantIDs(ctx, fetchedIDs)
	if err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "re-read registry"), ErrRegistryLookupFailed)
	}
	for _, item := range stored {
		result[item.ParticipantID] = item
	}

	s.logger.InfoContext(ctx, "registry profiles created", "count", len(fetched), "placeholders", len(failures))
	return result, nil
}

// ListActive returns the participants flagged active in the registry.
func (s *RegistryService) ListActive(ctx context.Context) ([]registry.Metadata, error) {
	items, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "list active registry players"), ErrRegistryLookupFailed)
	}
	return items, nil
}

type fetchFailure struct {
	reason string
	err    error
}

type fetchOutcome struct {
	id   string
	item registry.Metadata
	err  error
}

func (s *RegistryService) fetchMissing(ctx context.Context, missing []string) ([]registry.Metadata, map[string]fetchFailure, error) {
	pool, err := ants.NewPool(min(s.workers, len(missing)))
	if err != nil {
		return nil, nil, fmt.Errorf("create registry worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan fetchOutcome, len(missing))
	var workers sync.WaitGroup
	for _, id := range missing {
		id := id
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			item, fetchErr := s.fetcher.FetchProfile(ctx, id)
			results <- fetchOutcome{id: id, item: item, err: fetchErr}
		}); err != nil {
			workers.Done()
			return nil, nil, fmt.Errorf("submit registry fetch to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	fetched := make([]registry.Metadata, 0, len(missing))
	failures := make(map[string]fetchFailure)
	for outcome := range results {
		switch {
		case outcome.err == nil:
			outcome.item.ParticipantID = outcome.id
			fetched = append(fetched, outcome.item)
		case crerr.Is(outcome.err, registry.ErrProfileNotFound):
			failures[outcome.id] = fetchFailure{reason: placeholderReasonNotFound, err: outcome.err}
		default:
			failures[outcome.id] = fetchFailure{reason: placeholderReasonFetch, err: outcome.err}
		}
	}

	sort.Slice(fetched, func(i, j int) bool {
		return fetched[i].ParticipantID < fetched[j].ParticipantID
	})
	return fetched, failures, nil
}

func (s *RegistryService) placeholder(ctx context.Context, result map[string]registry.Metadata, id, reason string, cause error) {
	result[id] = registry.Placeholder(id)
	s.metrics.RegistryPlaceholder(reason)
	if cause != nil {
		s.logger.WarnContext(ctx, "registry metadata unavailable, using placeholder", "participant_id", id, "reason", reason, "error", cause)
		return
	}
	s.logger.WarnContext(ctx, "registry metadata unavailable, using placeholder", "participant_id", id, "reason", reason)
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
