package playerprofile

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/gridiron-loader/internal/domain/registry"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
	"github.com/riskibarqy/gridiron-loader/internal/platform/metrics"
	"github.com/riskibarqy/gridiron-loader/internal/platform/resilience"
	"github.com/riskibarqy/gridiron-loader/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	clientName     = "playerprofile"
	defaultBaseURL = "http://www.nfl.com/feeds-rs/playerStats"
	defaultTimeout = 5 * time.Second
	defaultBackoff = 500 * time.Millisecond
)

var errProfileTransient = crerr.New("player profile transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	Metrics        *metrics.Recorder
	CircuitBreaker resilience.CircuitBreakerConfig
	Now            func() time.Time
}

// Client downloads participant profiles for registry create-on-miss.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	backoff    time.Duration
	logger     *logging.Logger
	metrics    *metrics.Recorder
	breaker    *resilience.CircuitBreaker
	now        func() time.Time
}

var _ registry.Fetcher = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		maxRetries: max(cfg.MaxRetries, 0),
		backoff:    backoff,
		logger:     logger,
		metrics:    cfg.Metrics,
		breaker:    resilience.NewCircuitBreakerFromConfig(clientName, cfg.CircuitBreaker, cfg.Metrics.CircuitStateChanged),
		now:        now,
	}
}

// FetchProfile returns registry.ErrProfileNotFound when the upstream has no
// profile for participantID.
func (c *Client) FetchProfile(ctx context.Context, participantID string) (registry.Metadata, error) {
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return registry.Metadata{}, fmt.Errorf("%w: participant id is required", usecase.ErrInvalidInput)
	}

	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "player profile circuit breaker rejected request", "state", c.breaker.State())
		c.metrics.UpstreamRequest(clientName, "rejected", 0)
		return registry.Metadata{}, crerr.Wrapf(usecase.ErrDependencyUnavailable, "player profile circuit open participant_id=%s", participantID)
	}

	started := time.Now()
	raw, err := c.executeRequest(ctx, c.baseURL+"/"+url.PathEscape(participantID))
	c.recordCircuitResult(err)
	if err != nil {
		outcome := "error"
		if stderrors.Is(err, registry.ErrProfileNotFound) {
			outcome = "not_found"
		}
		c.metrics.UpstreamRequest(clientName, outcome, time.Since(started))
		return registry.Metadata{}, crerr.Wrapf(err, "fetch profile participant_id=%s", participantID)
	}
	c.metrics.UpstreamRequest(clientName, "ok", time.Since(started))

	var payload profilePayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return registry.Metadata{}, fmt.Errorf("decode player profile: %w", err)
	}

	item, err := payload.toMetadata(participantID, c.now())
	if err != nil {
		return registry.Metadata{}, err
	}
	return item, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errProfileTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errProfileTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, registry.ErrProfileNotFound
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: upstream status=%d", errProfileTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("upstream status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("player profile request failed")
	}
	c.logger.WarnContext(ctx, "player profile request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) recordCircuitResult(err error) {
	if c.breaker == nil {
		return
	}
	if err != nil && stderrors.Is(err, errProfileTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
