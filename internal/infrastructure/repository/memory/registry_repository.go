package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/gridiron-loader/internal/domain/registry"
)

type RegistryRepository struct {
	mu     sync.RWMutex
	byID   map[string]registry.Metadata
	nextID int64
}

func NewRegistryRepository(items []registry.Metadata) *RegistryRepository {
	repo := &RegistryRepository{
		byID:   make(map[string]registry.Metadata, len(items)),
		nextID: 1,
	}
	for _, item := range items {
		repo.store(item)
	}
	return repo
}

func (r *RegistryRepository) GetByParticipantIDs(_ context.Context, participantIDs []string) ([]registry.Metadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]registry.Metadata, 0, len(participantIDs))
	for _, id := range participantIDs {
		item, ok := r.byID[strings.TrimSpace(id)]
		if !ok {
			continue
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *RegistryRepository) Upsert(_ context.Context, items []registry.Metadata) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.store(item)
	}
	return nil
}

func (r *RegistryRepository) ListActive(_ context.Context) ([]registry.Metadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]registry.Metadata, 0, len(r.byID))
	for _, item := range r.byID {
		if item.Active {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ParticipantID < out[j].ParticipantID
	})

	return out, nil
}

// store must be called with the write lock held or during construction.
func (r *RegistryRepository) store(item registry.Metadata) {
	item.ParticipantID = strings.TrimSpace(item.ParticipantID)
	if existing, ok := r.byID[item.ParticipantID]; ok {
		item.RegistryID = existing.RegistryID
	} else if item.RegistryID <= 0 {
		item.RegistryID = r.nextID
	}
	if item.RegistryID >= r.nextID {
		r.nextID = item.RegistryID + 1
	}
	r.byID[item.ParticipantID] = item
}
