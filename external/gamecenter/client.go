package gamecenter

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/gridiron-loader/internal/domain/stats"
	"github.com/riskibarqy/gridiron-loader/internal/platform/jsonfile"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
	"github.com/riskibarqy/gridiron-loader/internal/platform/metrics"
	"github.com/riskibarqy/gridiron-loader/internal/platform/resilience"
	"github.com/riskibarqy/gridiron-loader/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	clientName         = "gamecenter"
	defaultBaseURL     = "http://www.nfl.com/liveupdate/game-center"
	defaultTimeout     = 10 * time.Second
	defaultBackoff     = time.Second
	maxResponseBodyLen = 8 << 20
)

var errGameCenterTransient = crerr.New("game center transient failure")

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	ArchiveDir     string
	Logger         *logging.Logger
	Metrics        *metrics.Recorder
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads per-event statistics documents. Documents of finished events
// are archived on disk and served from there afterwards.
type Client struct {
	httpClient *fasthttp.Client
	baseURL    string
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	archiveDir string
	logger     *logging.Logger
	metrics    *metrics.Recorder
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight[stats.EventRecord]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "gridiron-loader",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBodyLen,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		timeout:    timeout,
		maxRetries: max(cfg.MaxRetries, 0),
		backoff:    backoff,
		archiveDir: strings.TrimSpace(cfg.ArchiveDir),
		logger:     logger,
		metrics:    cfg.Metrics,
		breaker:    resilience.NewCircuitBreakerFromConfig(clientName, cfg.CircuitBreaker, cfg.Metrics.CircuitStateChanged),
	}
}

// FetchEventRecord returns the statistics of one event. Concurrent calls for
// the same event share a single upstream request.
func (c *Client) FetchEventRecord(ctx context.Context, eventID string) (stats.EventRecord, error) {
	eventID = strings.TrimSpace(eventID)
	if len(eventID) < 8 {
		return stats.EventRecord{}, fmt.Errorf("%w: malformed event id %q", usecase.ErrInvalidInput, eventID)
	}

	record, err, _ := c.flight.Do(ctx, eventID, func(ctx context.Context) (stats.EventRecord, error) {
		return c.fetch(ctx, eventID)
	})
	if err != nil {
		return stats.EventRecord{}, err
	}
	return record, nil
}

func (c *Client) fetch(ctx context.Context, eventID string) (stats.EventRecord, error) {
	if record, ok := c.fromArchive(ctx, eventID); ok {
		return record, nil
	}

	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "game center circuit breaker rejected request", "event_id", eventID, "state", c.breaker.State())
		c.metrics.UpstreamRequest(clientName, "rejected", 0)
		return stats.EventRecord{}, crerr.Mark(crerr.Wrapf(usecase.ErrDependencyUnavailable, "game center circuit open event_id=%s", eventID), usecase.ErrFeedUnavailable)
	}

	started := time.Now()
	raw, err := c.executeRequest(ctx, c.eventURL(eventID))
	c.recordCircuitResult(err)
	if err != nil {
		c.metrics.UpstreamRequest(clientName, "error", time.Since(started))
		return stats.EventRecord{}, crerr.Mark(crerr.Wrapf(err, "fetch event_id=%s", eventID), usecase.ErrFeedUnavailable)
	}
	c.metrics.UpstreamRequest(clientName, "ok", time.Since(started))

	doc, err := decodeDocument(raw, eventID)
	if err != nil {
		return stats.EventRecord{}, crerr.Mark(err, usecase.ErrFeedUnavailable)
	}

	if c.archiveDir != "" && doc.final {
		if err := jsonfile.WriteRaw(c.archivePath(eventID), raw); err != nil {
			c.logger.WarnContext(ctx, "archive game center document failed", "event_id", eventID, "error", err)
		}
	}

	return doc.record, nil
}

func (c *Client) fromArchive(ctx context.Context, eventID string) (stats.EventRecord, bool) {
	if c.archiveDir == "" {
		return stats.EventRecord{}, false
	}

	raw, found, err := jsonfile.ReadRaw(c.archivePath(eventID))
	if err != nil {
		c.logger.WarnContext(ctx, "read game center archive failed", "event_id", eventID, "error", err)
		return stats.EventRecord{}, false
	}
	if !found {
		return stats.EventRecord{}, false
	}

	doc, err := decodeDocument(raw, eventID)
	if err != nil {
		c.logger.WarnContext(ctx, "discarding unreadable game center archive", "event_id", eventID, "error", err)
		return stats.EventRecord{}, false
	}
	c.metrics.UpstreamRequest(clientName, "archive", 0)
	return doc.record, true
}

func (c *Client) eventURL(eventID string) string {
	return c.baseURL + "/" + eventID + "/" + eventID + "_gtd.json"
}

func (c *Client) archivePath(eventID string) string {
	return filepath.Join(c.archiveDir, eventID+".json")
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, status, err := c.do(ctx, fullURL)
		switch {
		case err != nil:
			lastErr = fmt.Errorf("%w: send request: %v", errGameCenterTransient, err)
		case status >= 200 && status < 300:
			return raw, nil
		case isRetryableStatus(status):
			lastErr = fmt.Errorf("%w: upstream status=%d body=%s", errGameCenterTransient, status, abbreviateBody(raw))
		default:
			return nil, fmt.Errorf("upstream status=%d body=%s", status, abbreviateBody(raw))
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
		lastErr = fmt.Errorf("game center request failed")
	}
	c.logger.WarnContext(ctx, "game center request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, fullURL string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return nil, 0, err
	}

	body := append([]byte(nil), resp.Body()...)
	return body, resp.StatusCode(), nil
}

func (c *Client) recordCircuitResult(err error) {
	if c.breaker == nil {
		return
	}
	if err != nil && stderrors.Is(err, errGameCenterTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == fasthttp.StatusRequestTimeout ||
		statusCode == fasthttp.StatusTooManyRequests ||
		statusCode >= fasthttp.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if len(text) <= 512 {
		return text
	}
	return text[:512] + "...(truncated)"
}
