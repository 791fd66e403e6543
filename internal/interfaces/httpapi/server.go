package httpapi

import (
	"net/http"

	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
)

type middleware func(http.Handler) http.Handler

// NewRouter serves the table routes. metricsHandler may be nil when metrics
// are disabled.
func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	metricsHandler http.Handler,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	routes := map[string]http.Handler{
		"GET /healthz": http.HandlerFunc(handler.Healthz),

		"GET /v1/seasons/{season}/tables":                              http.HandlerFunc(handler.GetSeasonTable),
		"GET /v1/seasons/{season}/periods/{period}/tables":             http.HandlerFunc(handler.GetPeriodTable),
		"GET /v1/seasons/{season}/periods/{period}/teams/{team}/table": http.HandlerFunc(handler.GetEventTable),
	}
	if handler.roster != nil {
		routes["GET /v1/registry/active"] = http.HandlerFunc(handler.GetActiveRoster)
	}
	if handler.weeks != nil {
		routes["GET /v1/seasons/{season}/current-week"] = http.HandlerFunc(handler.GetCurrentWeek)
	}
	if metricsHandler != nil {
		routes["GET /metrics"] = metricsHandler
	}

	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.Handle(pattern, h)
	}

	// Outermost first.
	return chain(mux,
		RequestTracing,
		func(next http.Handler) http.Handler { return RequestLogging(logger, next) },
		func(next http.Handler) http.Handler { return CORS(corsAllowedOrigins, next) },
		func(next http.Handler) http.Handler { return recoverPanic(logger, next) },
	)
}

func chain(h http.Handler, layers ...middleware) http.Handler {
	for i := len(layers) - 1; i >= 0; i-- {
		h = layers[i](h)
	}
	return h
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
			writeInternalError(r.Context(), w)
		}()
		next.ServeHTTP(w, r)
	})
}
