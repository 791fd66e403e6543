package app

import (
	"fmt"
	"net/http"
	"path/filepath"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/riskibarqy/gridiron-loader/external/gamecenter"
	"github.com/riskibarqy/gridiron-loader/external/playerprofile"
	"github.com/riskibarqy/gridiron-loader/external/scorestrip"
	"github.com/riskibarqy/gridiron-loader/internal/config"
	"github.com/riskibarqy/gridiron-loader/internal/domain/registry"
	"github.com/riskibarqy/gridiron-loader/internal/domain/schedule"
	"github.com/riskibarqy/gridiron-loader/internal/domain/scoring"
	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
	"github.com/riskibarqy/gridiron-loader/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/gridiron-loader/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/gridiron-loader/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/gridiron-loader/internal/infrastructure/tablecache"
	"github.com/riskibarqy/gridiron-loader/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/gridiron-loader/internal/platform/id"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
	"github.com/riskibarqy/gridiron-loader/internal/platform/metrics"
	"github.com/riskibarqy/gridiron-loader/internal/usecase"
)

const (
	tablesDirName   = "tables"
	archiveDirName  = "archive"
	scheduleDirName = "schedule"
)

// Pipeline holds the wired table tiers shared by the API and the CLI.
type Pipeline struct {
	Events   *usecase.EventTableService
	Periods  *usecase.PeriodTableService
	Seasons  *usecase.SeasonTableService
	Registry *usecase.RegistryService
	Schedule schedule.Service
	Metrics  *metrics.Recorder

	db *sqlx.DB
}

// NewPipeline builds every dependency of the table pipeline from cfg.
func NewPipeline(cfg config.Config, logger *logging.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var recorder *metrics.Recorder
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewRecorder(reg)
	}

	rules, err := config.LoadScoringRules(cfg)
	if err != nil {
		return nil, crerr.Wrap(err, "load scoring rules")
	}
	engine := scoring.NewEngine(rules)

	store := newTableStore(cfg, logger)

	scheduleClient := scorestrip.NewClient(scorestrip.ClientConfig{
		BaseURL:        cfg.ScoreStrip.BaseURL,
		Timeout:        cfg.ScoreStrip.Timeout,
		MaxRetries:     cfg.ScoreStrip.MaxRetries,
		CacheDir:       filepath.Join(cfg.DataDir, scheduleDirName),
		Logger:         logger.Named("scorestrip"),
		Metrics:        recorder,
		CircuitBreaker: cfg.ScoreStrip.Circuit,
		PeriodCounts:   cfg.PeriodCounts,
	})

	archiveDir := ""
	if cfg.GameCenterArchiveEnabled {
		archiveDir = filepath.Join(cfg.DataDir, archiveDirName)
	}
	feedClient := gamecenter.NewClient(gamecenter.ClientConfig{
		BaseURL:        cfg.GameCenter.BaseURL,
		Timeout:        cfg.GameCenter.Timeout,
		MaxRetries:     cfg.GameCenter.MaxRetries,
		ArchiveDir:     archiveDir,
		Logger:         logger.Named("gamecenter"),
		Metrics:        recorder,
		CircuitBreaker: cfg.GameCenter.Circuit,
	})

	profileClient := playerprofile.NewClient(playerprofile.ClientConfig{
		BaseURL:        cfg.Profile.BaseURL,
		Timeout:        cfg.Profile.Timeout,
		MaxRetries:     cfg.Profile.MaxRetries,
		Logger:         logger.Named("playerprofile"),
		Metrics:        recorder,
		CircuitBreaker: cfg.Profile.Circuit,
	})

	p := &Pipeline{Metrics: recorder}
	repo, err := p.newRegistryRepository(cfg, logger)
	if err != nil {
		return nil, err
	}

	p.Schedule = scheduleClient
	p.Registry = usecase.NewRegistryService(repo, profileClient, cfg.RegistryFetchWorkers, logger, recorder)
	p.Events = usecase.NewEventTableService(scheduleClient, feedClient, p.Registry, store, engine, logger, recorder)
	p.Periods = usecase.NewPeriodTableService(scheduleClient, p.Events, store, cfg.PeriodMaxConcurrency, logger, recorder)
	p.Seasons = usecase.NewSeasonTableService(scheduleClient, p.Periods, store, usecase.SeasonTableServiceConfig{
		PeriodCounts:      cfg.PeriodCounts,
		SkipFailedPeriods: cfg.SkipFailedPeriods,
	}, idgen.NewRunIDs("season-"), logger, recorder)

	logger.Info("table pipeline ready",
		"data_dir", cfg.DataDir,
		"registry_backend", cfg.RegistryBackend,
		"memory_cache", cfg.MemoryCacheEnabled,
		"field_goal_mode", string(rules.FieldGoalMode),
	)
	return p, nil
}

// Close releases the registry database, if one was opened.
func (p *Pipeline) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}

func newTableStore(cfg config.Config, logger *logging.Logger) table.Store {
	disk := tablecache.NewDiskStore(filepath.Join(cfg.DataDir, tablesDirName))
	if !cfg.MemoryCacheEnabled {
		return disk
	}
	return tablecache.NewLayered(logger, tablecache.NewMemoryStore(cfg.MemoryCacheTTL, cfg.MemoryCacheMaxEntries), disk)
}

func (p *Pipeline) newRegistryRepository(cfg config.Config, logger *logging.Logger) (registry.Repository, error) {
	var base registry.Repository
	switch cfg.RegistryBackend {
	case config.RegistryBackendPostgres:
		db, err := openRegistryDB(cfg)
		if err != nil {
			return nil, err
		}
		p.db = db
		base = postgres.NewRegistryRepository(db)
		logger.Info("registry backed by postgres", "db_name", databaseName(cfg.DBURL))
	default:
		base = memory.NewRegistryRepository(nil)
	}
	return cache.NewRegistryRepository(base, cfg.RegistryCacheTTL), nil
}

// NewHTTPServer exposes the pipeline over HTTP.
func NewHTTPServer(cfg config.Config, pipeline *Pipeline, logger *logging.Logger) (*http.Server, error) {
	handler := httpapi.NewHandler(httpapi.Services{
		Seasons: pipeline.Seasons,
		Periods: pipeline.Periods,
		Events:  pipeline.Events,
		Roster:  pipeline.Registry,
		Weeks:   pipeline.Schedule,
	}, logger)

	var metricsHandler http.Handler
	if pipeline.Metrics != nil {
		metricsHandler = pipeline.Metrics.Handler()
	}
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, metricsHandler)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
