package scorestrip

import (
	"context"
	"encoding/xml"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/gridiron-loader/internal/domain/schedule"
	"github.com/riskibarqy/gridiron-loader/internal/platform/jsonfile"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
	"github.com/riskibarqy/gridiron-loader/internal/platform/metrics"
	"github.com/riskibarqy/gridiron-loader/internal/platform/resilience"
	"github.com/riskibarqy/gridiron-loader/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	clientName     = "scorestrip"
	defaultBaseURL = "http://www.nfl.com/ajax/scorestrip"
	defaultTimeout = 10 * time.Second
	defaultBackoff = time.Second
)

var errScoreStripTransient = crerr.New("scorestrip transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	CacheDir       string
	Logger         *logging.Logger
	Metrics        *metrics.Recorder
	CircuitBreaker resilience.CircuitBreakerConfig
	Now            func() time.Time
	// PeriodCounts bounds the weeks CurrentWeek scans. Missing phases fall
	// back to usecase.DefaultPeriodCounts.
	PeriodCounts map[schedule.Phase]int
}

// Client resolves weekly schedules from the score strip XML feed. Weeks whose
// games are all finished are cached on disk.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	backoff    time.Duration
	cacheDir   string
	logger     *logging.Logger
	metrics    *metrics.Recorder
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight[[]schedule.Game]
	now        func() time.Time
	weeks      map[schedule.Phase]int
}

var _ schedule.Service = (*Client)(nil)

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

	weeks := make(map[schedule.Phase]int, len(usecase.DefaultPeriodCounts))
	for phase, count := range usecase.DefaultPeriodCounts {
		weeks[phase] = count
	}
	for phase, count := range cfg.PeriodCounts {
		if count > 0 {
			weeks[phase] = count
		}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		maxRetries: max(cfg.MaxRetries, 0),
		backoff:    backoff,
		cacheDir:   strings.TrimSpace(cfg.CacheDir),
		logger:     logger,
		metrics:    cfg.Metrics,
		breaker:    resilience.NewCircuitBreakerFromConfig(clientName, cfg.CircuitBreaker, cfg.Metrics.CircuitStateChanged),
		now:        now,
		weeks:      weeks,
	}
}

// CurrentSeason names the season in progress at ref.
func (c *Client) CurrentSeason(ref time.Time) int {
	return schedule.SeasonOf(ref)
}

// CurrentWeek returns the first week of phase that still has an unfinished
// game. Weeks without games are skipped. When every week is finished the last
// week of the phase is returned.
func (c *Client) CurrentWeek(ctx context.Context, season int, phase schedule.Phase) (int, error) {
	last, ok := c.weeks[phase]
	if !ok {
		return 0, fmt.Errorf("%w: phase %q", usecase.ErrInvalidInput, phase)
	}
	for week := 1; week <= last; week++ {
		games, err := c.PeriodEvents(ctx, season, phase, week)
		if err != nil {
			return 0, crerr.Wrapf(err, "scan week %d", week)
		}
		for _, game := range games {
			if !game.Finished {
				return week, nil
			}
		}
	}
	return last, nil
}

// ResolveEvent finds the game team played in the given week.
func (c *Client) ResolveEvent(ctx context.Context, season int, phase schedule.Phase, week int, team string) (schedule.Game, bool, error) {
	games, err := c.PeriodEvents(ctx, season, phase, week)
	if err != nil {
		return schedule.Game{}, false, err
	}

	team = strings.ToUpper(strings.TrimSpace(team))
	for _, game := range games {
		if game.Involves(team) {
			return game, true, nil
		}
	}
	return schedule.Game{}, false, nil
}

// PeriodEvents lists the games of one week.
func (c *Client) PeriodEvents(ctx context.Context, season int, phase schedule.Phase, week int) ([]schedule.Game, error) {
	if season <= 0 || week < 0 {
		return nil, fmt.Errorf("%w: season=%d week=%d", usecase.ErrInvalidInput, season, week)
	}
	if _, ok := schedule.AllPhases[phase]; !ok {
		return nil, fmt.Errorf("%w: phase %q", usecase.ErrInvalidInput, phase)
	}

	key := fmt.Sprintf("%d/%s/%d", season, phase, week)
	games, err, _ := c.flight.Do(ctx, key, func(ctx context.Context) ([]schedule.Game, error) {
		return c.loadWeek(ctx, season, phase, week)
	})
	if err != nil {
		return nil, err
	}
	return append([]schedule.Game(nil), games...), nil
}

func (c *Client) loadWeek(ctx context.Context, season int, phase schedule.Phase, week int) ([]schedule.Game, error) {
	if games, ok := c.fromCache(ctx, season, phase, week); ok {
		return games, nil
	}

	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "scorestrip circuit breaker rejected request", "state", c.breaker.State())
		c.metrics.UpstreamRequest(clientName, "rejected", 0)
		return nil, crerr.Wrapf(usecase.ErrDependencyUnavailable, "schedule service circuit open season=%d week=%d", season, week)
	}

	values := url.Values{}
	values.Set("season", strconv.Itoa(season))
	values.Set("seasonType", string(phase))
	values.Set("week", strconv.Itoa(week))
	fullURL := c.baseURL + "?" + values.Encode()

	started := time.Now()
	raw, err := c.executeRequest(ctx, fullURL)
	c.recordCircuitResult(err)
	if err != nil {
		c.metrics.UpstreamRequest(clientName, "error", time.Since(started))
		if stderrors.Is(err, errScoreStripTransient) {
			err = crerr.Mark(err, usecase.ErrDependencyUnavailable)
		}
		return nil, crerr.Wrapf(err, "load schedule season=%d phase=%s week=%d", season, phase, week)
	}
	c.metrics.UpstreamRequest(clientName, "ok", time.Since(started))

	games, err := parseScoreStrip(raw, season, phase, week, c.now())
	if err != nil {
		return nil, err
	}

	if c.cacheDir != "" && allFinished(games) {
		if err := jsonfile.Write(c.cachePath(season, phase, week), games); err != nil {
			c.logger.WarnContext(ctx, "write schedule cache failed", "season", season, "phase", phase, "week", week, "error", err)
		}
	}

	return games, nil
}

func (c *Client) fromCache(ctx context.Context, season int, phase schedule.Phase, week int) ([]schedule.Game, bool) {
	if c.cacheDir == "" {
		return nil, false
	}

	var games []schedule.Game
	found, err := jsonfile.Read(c.cachePath(season, phase, week), &games)
	if err != nil {
		c.logger.WarnContext(ctx, "read schedule cache failed", "season", season, "phase", phase, "week", week, "error", err)
		return nil, false
	}
	if !found || !allFinished(games) {
		return nil, false
	}
	return games, true
}

func (c *Client) cachePath(season int, phase schedule.Phase, week int) string {
	return filepath.Join(c.cacheDir, strconv.Itoa(season), string(phase), strconv.Itoa(week)+".json")
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/xml")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errScoreStripTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errScoreStripTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: upstream status=%d", errScoreStripTransient, resp.StatusCode)
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
		lastErr = fmt.Errorf("scorestrip request failed")
	}
	c.logger.WarnContext(ctx, "scorestrip request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) recordCircuitResult(err error) {
	if c.breaker == nil {
		return
	}
	if err != nil && stderrors.Is(err, errScoreStripTransient) {
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

type scoreStripDocument struct {
	Games struct {
		Items []scoreStripGame `xml:"g"`
	} `xml:"gms"`
}

type scoreStripGame struct {
	EventID string `xml:"eid,attr"`
	GameKey string `xml:"gsis,attr"`
	Quarter string `xml:"q,attr"`
	Home    string `xml:"h,attr"`
	Away    string `xml:"v,attr"`
}

func parseScoreStrip(raw []byte, season int, phase schedule.Phase, week int, now time.Time) ([]schedule.Game, error) {
	var doc scoreStripDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode scorestrip payload: %w", err)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	games := make([]schedule.Game, 0, len(doc.Games.Items))
	for _, item := range doc.Games.Items {
		eventID := strings.TrimSpace(item.EventID)
		date, err := schedule.DateFromEventID(eventID)
		if err != nil {
			return nil, err
		}
		games = append(games, schedule.Game{
			EventID:  eventID,
			GameKey:  strings.TrimSpace(item.GameKey),
			Home:     strings.ToUpper(strings.TrimSpace(item.Home)),
			Away:     strings.ToUpper(strings.TrimSpace(item.Away)),
			Season:   season,
			Week:     week,
			Phase:    phase,
			Finished: isFinalQuarter(item.Quarter) || date.Before(today),
		})
	}
	return games, nil
}

func isFinalQuarter(q string) bool {
	switch strings.ToUpper(strings.TrimSpace(q)) {
	case "F", "FO":
		return true
	default:
		return false
	}
}

func allFinished(games []schedule.Game) bool {
	if len(games) == 0 {
		return false
	}
	for _, game := range games {
		if !game.Finished {
			return false
		}
	}
	return true
}
