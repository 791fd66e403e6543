package observability

import (
	"context"

	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/gridiron-loader/internal/config"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
)

func startTracing(cfg config.Config, component string, logger *logging.Logger) (func(context.Context) error, error) {
	switch {
	case !cfg.UptraceEnabled:
		logger.Debug("tracing off", "reason", "UPTRACE_ENABLED=false")
		return nil, nil
	case cfg.UptraceDSN == "":
		logger.Warn("tracing off", "reason", "UPTRACE_DSN empty")
		return nil, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(attribute.String("gridiron.component", component)),
	)
	logger.Info("tracing to uptrace", "component", component, "version", cfg.ServiceVersion)
	return uptrace.Shutdown, nil
}
