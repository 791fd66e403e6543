package gamecenter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
	"github.com/riskibarqy/gridiron-loader/internal/platform/resilience"
	"github.com/riskibarqy/gridiron-loader/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEventID = "2019090500"

const sampleDocument = `{
  "2019090500": {
    "qtr": "Final",
    "home": {
      "abbr": "CHI",
      "score": {"1": 3, "2": 0, "3": 0, "4": 0, "5": 0, "T": 3},
      "stats": {
        "passing": {
          "00-0033873": {"name": "M.Trubisky", "att": 45, "cmp": 26, "yds": 228, "tds": 0, "ints": 1, "twopta": 0, "twoptm": 0}
        },
        "team": {"totfd": 13, "totyds": 254}
      }
    },
    "away": {
      "abbr": "GB",
      "score": {"T": 10},
      "stats": {
        "passing": {
          "00-0023459": {"name": "A.Rodgers", "att": 30, "cmp": 18, "yds": 203, "tds": 1, "ints": 0, "twopta": 0, "twoptm": 0}
        },
        "kicking": {
          "00-0031409": {"name": "M.Crosby", "fgm": 1, "fga": 1, "fgyds": "39", "xpmade": 1}
        }
      }
    }
  },
  "nextupdate": 1200
}`

func newTestClient(t *testing.T, baseURL string, mutate func(*ClientConfig)) *Client {
	t.Helper()
	cfg := ClientConfig{
		BaseURL:      baseURL,
		Timeout:      2 * time.Second,
		MaxRetries:   1,
		RetryBackoff: time.Millisecond,
		Logger:       logging.NewNop(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg)
}

func TestClient_FetchEventRecord(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(sampleDocument))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)
	record, err := client.FetchEventRecord(context.Background(), sampleEventID)
	require.NoError(t, err)

	assert.Equal(t, "/2019090500/2019090500_gtd.json", gotPath)
	assert.Equal(t, sampleEventID, record.EventID)
	assert.Equal(t, "CHI", record.Home.Abbr)
	assert.Equal(t, 3.0, record.Home.Score)
	assert.Equal(t, 10.0, record.Away.Score)

	line := record.Away.Categories["passing"]["00-0023459"]
	assert.Equal(t, "A.Rodgers", line.Name)
	assert.Equal(t, 203.0, line.Fields["yds"])
	assert.Equal(t, 39.0, record.Away.Categories["kicking"]["00-0031409"].Fields["fgyds"])
	assert.Empty(t, record.Home.Categories["team"])
	assert.Equal(t, []string{"passing"}, record.Home.SortedCategories())
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(sampleDocument))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)
	_, err := client.FetchEventRecord(context.Background(), sampleEventID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_NotFoundIsFeedUnavailableWithoutRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, func(cfg *ClientConfig) { cfg.MaxRetries = 3 })
	_, err := client.FetchEventRecord(context.Background(), sampleEventID)
	require.Error(t, err)
	assert.True(t, crerr.Is(err, usecase.ErrFeedUnavailable))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_CollapsesConcurrentFetches(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		<-release
		_, _ = w.Write([]byte(sampleDocument))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.FetchEventRecord(context.Background(), sampleEventID)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ServesFinishedEventsFromArchive(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(sampleDocument))
	}))
	defer server.Close()

	archive := t.TempDir()
	client := newTestClient(t, server.URL, func(cfg *ClientConfig) {
		cfg.ArchiveDir = archive
		cfg.MaxRetries = 0
	})

	_, err := client.FetchEventRecord(context.Background(), sampleEventID)
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(archive, sampleEventID+".json"))
	require.NoError(t, statErr)

	record, err := client.FetchEventRecord(context.Background(), sampleEventID)
	require.NoError(t, err)
	assert.Equal(t, "GB", record.Away.Abbr)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_OpenCircuitRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, func(cfg *ClientConfig) {
		cfg.MaxRetries = 0
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenMaxReq: 1}
	})

	_, err := client.FetchEventRecord(context.Background(), sampleEventID)
	require.Error(t, err)

	_, err = client.FetchEventRecord(context.Background(), sampleEventID)
	require.Error(t, err)
	assert.True(t, crerr.Is(err, usecase.ErrDependencyUnavailable))
	assert.True(t, crerr.Is(err, usecase.ErrFeedUnavailable))
}

func TestClient_RejectsMalformedEventID(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1", nil)
	_, err := client.FetchEventRecord(context.Background(), "2019")
	require.Error(t, err)
	assert.True(t, crerr.Is(err, usecase.ErrInvalidInput))
}
