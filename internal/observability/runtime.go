package observability

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/gridiron-loader/internal/config"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
)

// Runtime holds the process-wide tracing, profiling and debug endpoints of
// one binary. The zero value is a no-op.
type Runtime struct {
	logger        *logging.Logger
	stopTracing   func(context.Context) error
	stopProfiling func() error
	debug         *debugServer
}

// Start brings up whatever cfg enables. component ends up as a resource
// attribute and profile tag so api and loader runs can be told apart.
func Start(cfg config.Config, component string, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}
	rt := &Runtime{logger: logger.Named("observability")}

	var err error
	if rt.stopTracing, err = startTracing(cfg, component, rt.logger); err != nil {
		return nil, crerr.Wrap(err, "start tracing")
	}
	if rt.stopProfiling, err = startProfiling(cfg, component, rt.logger); err != nil {
		_ = rt.Shutdown(context.Background())
		return nil, crerr.Wrap(err, "start profiling")
	}
	if rt.debug, err = startDebugServer(cfg, rt.logger); err != nil {
		_ = rt.Shutdown(context.Background())
		return nil, crerr.Wrap(err, "start pprof")
	}
	return rt, nil
}

// DebugAddr is the bound pprof address, empty when pprof is off.
func (r *Runtime) DebugAddr() string {
	if r == nil || r.debug == nil {
		return ""
	}
	return r.debug.addr
}

// Shutdown stops the debug server first and flushes traces last.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}

	var errs error
	if r.debug != nil {
		errs = crerr.CombineErrors(errs, r.debug.stop(ctx))
		r.debug = nil
	}
	if r.stopProfiling != nil {
		errs = crerr.CombineErrors(errs, r.stopProfiling())
		r.stopProfiling = nil
	}
	if r.stopTracing != nil {
		errs = crerr.CombineErrors(errs, r.stopTracing(ctx))
		r.stopTracing = nil
	}
	return errs
}
