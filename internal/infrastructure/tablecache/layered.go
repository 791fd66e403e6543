package tablecache

import (
	"context"
	"fmt"

	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
)

// Layered reads through stores fastest first and backfills the faster layers
// on a hit further down. Writes go slowest first so a failed durable write
// never leaves the value only in memory.
type Layered struct {
	layers []table.Store
	logger *logging.Logger
}

func NewLayered(logger *logging.Logger, layers ...table.Store) *Layered {
	if logger == nil {
		logger = logging.Default()
	}
	return &Layered{layers: layers, logger: logger}
}

func (l *Layered) Get(ctx context.Context, key table.Key) (table.Table, bool, error) {
	for i, layer := range l.layers {
		value, found, err := layer.Get(ctx, key)
		if err != nil {
			return table.Table{}, false, fmt.Errorf("table cache layer %d get %s: %w", i, key, err)
		}
		if !found {
			continue
		}

		for j := 0; j < i; j++ {
			if err := l.layers[j].Put(ctx, key, value); err != nil {
				l.logger.WarnContext(ctx, "table cache backfill failed", "key", key.String(), "layer", j, "error", err)
			}
		}
		return value, true, nil
	}
	return table.Table{}, false, nil
}

func (l *Layered) Put(ctx context.Context, key table.Key, value table.Table) error {
	for i := len(l.layers) - 1; i >= 0; i-- {
		if err := l.layers[i].Put(ctx, key, value); err != nil {
			return fmt.Errorf("table cache layer %d put %s: %w", i, key, err)
		}
	}
	return nil
}
