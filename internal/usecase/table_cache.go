package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
	"github.com/riskibarqy/gridiron-loader/internal/platform/metrics"
)

// lookupCache treats an unreadable entry as a miss so the tier rebuilds it.
func lookupCache(ctx context.Context, store table.Store, key table.Key, logger *logging.Logger, recorder *metrics.Recorder) (table.Table, bool) {
	level := string(key.Level())
	cached, found, err := store.Get(ctx, key)
	if err != nil {
		recorder.CacheLookup(level, metrics.ResultError)
		logger.WarnContext(ctx, "table cache read failed, rebuilding", "key", key.String(), "error", err)
		return table.Table{}, false
	}
	if !found {
		recorder.CacheLookup(level, metrics.ResultMiss)
		return table.Table{}, false
	}
	recorder.CacheLookup(level, metrics.ResultHit)
	return cached, true
}

func recordBuild(recorder *metrics.Recorder, level table.Level, out table.Table, err error, started time.Time) {
	status := metrics.StatusOK
	switch {
	case err != nil:
		status = metrics.StatusFailed
	case out.Empty():
		status = metrics.StatusEmpty
	}
	recorder.BuildFinished(string(level), status, time.Since(started))
}
