package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/gridiron-loader/internal/app"
	"github.com/riskibarqy/gridiron-loader/internal/config"
	"github.com/riskibarqy/gridiron-loader/internal/domain/registry"
	"github.com/riskibarqy/gridiron-loader/internal/domain/schedule"
	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
	"github.com/riskibarqy/gridiron-loader/internal/observability"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
	"github.com/riskibarqy/gridiron-loader/internal/usecase"
)

type tableGetter interface {
	Get(ctx context.Context, key table.Key, opts usecase.TableOptions) (table.Table, error)
}

type weekFinder interface {
	CurrentWeek(ctx context.Context, season int, phase schedule.Phase) (int, error)
}

type rosterLister interface {
	ListActive(ctx context.Context) ([]registry.Metadata, error)
}

type tiers struct {
	events  tableGetter
	periods tableGetter
	seasons tableGetter
	weeks   weekFinder
}

type options struct {
	seasons     []int
	phase       schedule.Phase
	week        int
	currentWeek bool
	team        string
	roster      bool
	table       usecase.TableOptions
	csvPath     string
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

// execute runs one loader invocation and returns the process exit code.
func execute(args []string) int {
	opts, err := parseOptions(args, os.Stderr)
	if err != nil {
		if crerr.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg = loaderConfig(cfg)
	format := cfg.LogFormat
	if format == "" {
		format = logging.FormatConsole
	}
	logger := logging.New(format, cfg.LogLevel, os.Stderr).Named("loader")
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	rt, err := observability.Start(cfg, "loader", logger)
	if err != nil {
		logger.Error("start observability", "error", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = rt.Shutdown(ctx)
	}()

	pipeline, err := app.NewPipeline(cfg, logger)
	if err != nil {
		logger.Error("build pipeline", "error", err)
		return 1
	}
	defer func() { _ = pipeline.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.roster {
		if err := listRoster(ctx, pipeline.Registry, opts.csvPath, logger); err != nil {
			logger.Error("list active roster failed", "error", err)
			return 1
		}
		return 0
	}

	started := time.Now()
	all := tiers{events: pipeline.Events, periods: pipeline.Periods, seasons: pipeline.Seasons, weeks: pipeline.Schedule}
	result, err := run(ctx, all, opts, logger)
	if err != nil {
		var keyErr *usecase.KeyError
		if crerr.As(err, &keyErr) {
			logger.Error("load failed", "key", keyErr.Key.String(), "error", err)
		} else {
			logger.Error("load failed", "error", err)
		}
		return 1
	}
	logger.Info("load finished", "rows", len(result.Rows), "columns", len(result.Columns), "elapsed", time.Since(started).String())

	if err := writeCSV(opts.csvPath, result); err != nil {
		logger.Error("write csv", "path", opts.csvPath, "error", err)
		return 1
	}
	return 0
}

// loaderConfig adapts the shared configuration to a one-shot run, where the
// disk cache is the only hit signal.
func loaderConfig(cfg config.Config) config.Config {
	cfg.MemoryCacheEnabled = false
	return cfg
}

func parseOptions(args []string, output io.Writer) (options, error) {
	fs := flag.NewFlagSet("loader", flag.ContinueOnError)
	fs.SetOutput(output)

	var (
		rawSeasons = fs.String("season", "", "season year, or a comma separated list of seasons")
		rawPhase   = fs.String("phase", string(schedule.PhaseReg), "phase: PRE, REG or POST")
		week       = fs.Int("week", 0, "week within the phase; omit for a whole season")
		current    = fs.Bool("current-week", false, "use the first week of the phase with an unfinished game")
		team       = fs.String("team", "", "team abbreviation; requires -week or -current-week")
		roster     = fs.Bool("active-roster", false, "list the active registry participants instead of a table")
		refresh    = fs.Bool("refresh", false, "rebuild the requested table even when cached")
		noSave     = fs.Bool("no-save", false, "do not write built tables to the cache")
		csvPath    = fs.String("csv", "", "write the table as CSV to this path, - for stdout")
	)
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts := options{
		week:        *week,
		currentWeek: *current,
		team:        strings.ToUpper(strings.TrimSpace(*team)),
		roster:      *roster,
		table:       usecase.TableOptions{Refresh: *refresh, NoPersist: *noSave},
		csvPath:     strings.TrimSpace(*csvPath),
	}
	if opts.roster {
		return opts, nil
	}

	for _, item := range strings.Split(*rawSeasons, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		season, err := strconv.Atoi(item)
		if err != nil {
			return options{}, crerr.Wrapf(err, "invalid season %q", item)
		}
		opts.seasons = append(opts.seasons, season)
	}
	if len(opts.seasons) == 0 {
		return options{}, crerr.New("-season is required")
	}

	phase, err := schedule.ParsePhase(*rawPhase)
	if err != nil {
		return options{}, err
	}
	opts.phase = phase

	if opts.week < 0 {
		return options{}, crerr.New("-week must be >= 0")
	}
	if opts.currentWeek && opts.week > 0 {
		return options{}, crerr.New("-week and -current-week are exclusive")
	}
	if opts.team != "" && opts.week == 0 && !opts.currentWeek {
		return options{}, crerr.New("-team requires -week or -current-week")
	}
	return opts, nil
}

// run builds the requested table for every season in order and unions them.
func run(ctx context.Context, t tiers, opts options, logger *logging.Logger) (table.Table, error) {
	parts := make([]table.Table, 0, len(opts.seasons))
	for _, season := range opts.seasons {
		week := opts.week
		if opts.currentWeek {
			current, err := t.weeks.CurrentWeek(ctx, season, opts.phase)
			if err != nil {
				return table.Table{}, crerr.Wrapf(err, "resolve current week of %d %s", season, opts.phase)
			}
			logger.Info("current week resolved", "season", season, "phase", string(opts.phase), "week", current)
			week = current
		}

		var (
			svc tableGetter
			key table.Key
		)
		switch {
		case opts.team != "":
			svc, key = t.events, table.EventKey(season, opts.phase, week, opts.team)
		case week > 0:
			svc, key = t.periods, table.PeriodKey(season, opts.phase, week)
		default:
			svc, key = t.seasons, table.SeasonKey(season, opts.phase)
		}

		logger.Info("loading table", "key", key.String(), "refresh", opts.table.Refresh, "no_save", opts.table.NoPersist)
		result, err := svc.Get(ctx, key, opts.table)
		if err != nil {
			return table.Table{}, err
		}
		if result.Empty() {
			logger.Warn("table is empty", "key", key.String())
		}
		parts = append(parts, result)
	}
	return table.Union(parts...), nil
}

func writeCSV(path string, result table.Table) error {
	return writeOutput(path, result.WriteCSV)
}

// writeOutput sends write to path. An empty path discards and - is stdout.
func writeOutput(path string, write func(io.Writer) error) error {
	switch path {
	case "":
		return nil
	case "-":
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func listRoster(ctx context.Context, roster rosterLister, path string, logger *logging.Logger) error {
	items, err := roster.ListActive(ctx)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "active roster listed", "participants", len(items))
	return writeOutput(path, func(w io.Writer) error { return writeRoster(w, items) })
}

var rosterHeader = []string{
	"participant_id", "registry_id", "name", "short_name", "position", "number",
	"status", "team", "height_cm", "weight_kg", "age", "experience", "college",
}

func writeRoster(w io.Writer, items []registry.Metadata) error {
	out := csv.NewWriter(w)
	if err := out.Write(rosterHeader); err != nil {
		return err
	}
	for _, m := range items {
		record := []string{
			m.ParticipantID, strconv.FormatInt(m.RegistryID, 10), m.Name, m.ShortName, m.Position,
			strconv.Itoa(m.Number), m.Status, m.Team, strconv.Itoa(m.HeightCM), strconv.Itoa(m.WeightKG),
			strconv.Itoa(m.Age), strconv.Itoa(m.Experience), m.College,
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}
