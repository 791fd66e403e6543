package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/gridiron-loader/internal/config"
	"github.com/riskibarqy/gridiron-loader/internal/domain/schedule"
	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
	"github.com/riskibarqy/gridiron-loader/internal/infrastructure/tablecache"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()

	client := config.ClientConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}
	return config.Config{
		AppEnv:               config.EnvDev,
		ServiceName:          "gridiron-loader",
		HTTPAddr:             ":0",
		DataDir:              t.TempDir(),
		MemoryCacheEnabled:   true,
		MemoryCacheTTL:       time.Minute,
		GameCenter:           client,
		ScoreStrip:           client,
		Profile:              client,
		RegistryBackend:      config.RegistryBackendMemory,
		RegistryCacheTTL:     time.Minute,
		RegistryFetchWorkers: 2,
		MetricsEnabled:       true,
	}
}

func TestNewPipeline_MemoryBackend(t *testing.T) {
	cfg := testConfig(t)

	pipeline, err := NewPipeline(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build pipeline: %v", err)
	}
	defer func() { _ = pipeline.Close() }()

	if pipeline.Events == nil || pipeline.Periods == nil || pipeline.Seasons == nil || pipeline.Registry == nil {
		t.Fatalf("expected every tier to be wired")
	}

	srv, err := NewHTTPServer(cfg, pipeline, logging.NewNop())
	if err != nil {
		t.Fatalf("build http server: %v", err)
	}

	for _, path := range []string{"/healthz", "/metrics", "/v1/registry/active"} {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, rec.Code)
		}
	}
}

func TestNewPipeline_RejectsBadScoringFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.ScoringRulesFile = "/does/not/exist.yaml"

	if _, err := NewPipeline(cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected missing scoring file to fail")
	}
}

func TestNewTableStore_Layering(t *testing.T) {
	cfg := testConfig(t)

	if _, ok := newTableStore(cfg, logging.NewNop()).(*tablecache.Layered); !ok {
		t.Fatalf("expected layered store when memory cache is enabled")
	}

	cfg.MemoryCacheEnabled = false
	store := newTableStore(cfg, logging.NewNop())
	if _, ok := store.(*tablecache.DiskStore); !ok {
		t.Fatalf("expected disk store when memory cache is disabled")
	}

	key := table.SeasonKey(2018, schedule.PhaseReg)
	if err := store.Put(context.Background(), key, table.New(nil)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, found, err := store.Get(context.Background(), key); err != nil || !found {
		t.Fatalf("expected persisted season table, found=%v err=%v", found, err)
	}
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	cfg := testConfig(t)
	pipeline, err := NewPipeline(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build pipeline: %v", err)
	}

	cfg.HTTPAddr = ""
	if _, err := NewHTTPServer(cfg, pipeline, logging.NewNop()); err == nil {
		t.Fatalf("expected empty addr to fail")
	}
}
