package cache

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/gridiron-loader/internal/domain/registry"
	basecache "github.com/riskibarqy/gridiron-loader/internal/platform/cache"
)

const (
	registryIDKeyPrefix = "registry:id:"
	registryActiveKey   = "registry:active"
)

// RegistryRepository caches registry reads per participant. Misses are not
// cached so that a later create-on-miss becomes visible immediately.
type RegistryRepository struct {
	next   registry.Repository
	items  *basecache.Store[registry.Metadata]
	active *basecache.Store[[]registry.Metadata]
}

func NewRegistryRepository(next registry.Repository, ttl time.Duration) *RegistryRepository {
	return &RegistryRepository{
		next:   next,
		items:  basecache.NewStore[registry.Metadata](ttl),
		active: basecache.NewStore[[]registry.Metadata](ttl),
	}
}

func (r *RegistryRepository) GetByParticipantIDs(ctx context.Context, participantIDs []string) ([]registry.Metadata, error) {
	found := make(map[string]registry.Metadata, len(participantIDs))
	missing := make([]string, 0, len(participantIDs))
	for _, id := range participantIDs {
		id = strings.TrimSpace(id)
		if item, ok := r.items.Get(ctx, registryIDKeyPrefix+id); ok {
			found[id] = item
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		loaded, err := r.next.GetByParticipantIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, item := range loaded {
			r.items.Set(ctx, registryIDKeyPrefix+item.ParticipantID, item)
			found[item.ParticipantID] = item
		}
	}

	out := make([]registry.Metadata, 0, len(found))
	seen := make(map[string]struct{}, len(found))
	for _, id := range participantIDs {
		id = strings.TrimSpace(id)
		item, ok := found[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, item)
	}

	return out, nil
}

func (r *RegistryRepository) Upsert(ctx context.Context, items []registry.Metadata) error {
	if err := r.next.Upsert(ctx, items); err != nil {
		return err
	}

	// The registry assigns ids on insert, so drop entries instead of
	// writing the caller's copy through.
	for _, item := range items {
		r.items.Delete(ctx, registryIDKeyPrefix+strings.TrimSpace(item.ParticipantID))
	}
	r.active.Delete(ctx, registryActiveKey)
	return nil
}

func (r *RegistryRepository) ListActive(ctx context.Context) ([]registry.Metadata, error) {
	items, err := r.active.GetOrLoad(ctx, registryActiveKey, func(ctx context.Context) ([]registry.Metadata, error) {
		items, err := r.next.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		return append([]registry.Metadata(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	return append([]registry.Metadata(nil), items...), nil
}
