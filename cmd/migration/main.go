package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/riskibarqy/gridiron-loader/internal/config"
	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
)

var errUsage = crerr.New("usage")

// migrator is the subset of *migrate.Migrate the commands drive.
type migrator interface {
	Up() error
	Steps(n int) error
	Migrate(version uint) error
	Force(version int) error
	Version() (uint, bool, error)
}

type command struct {
	args string
	run  func(m migrator, args []string, out io.Writer, logger *logging.Logger) error
}

var commands = map[string]command{
	"up": {run: func(m migrator, _ []string, _ io.Writer, logger *logging.Logger) error {
		applied, err := settle(m.Up())
		if err == nil {
			logger.Info("registry migrations applied", "changed", applied)
		}
		return err
	}},
	"down": {args: "[steps]", run: func(m migrator, args []string, _ io.Writer, logger *logging.Logger) error {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || n <= 0 {
				return crerr.Newf("down steps must be a positive integer, got %q", args[0])
			}
			steps = n
		}
		applied, err := settle(m.Steps(-steps))
		if err == nil {
			logger.Info("registry migrations rolled back", "steps", steps, "changed", applied)
		}
		return err
	}},
	"goto": {args: "<version>", run: func(m migrator, args []string, _ io.Writer, logger *logging.Logger) error {
		if len(args) == 0 {
			return crerr.Wrap(errUsage, "goto needs a target version")
		}
		target, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 64)
		if err != nil {
			return crerr.Wrapf(err, "target version %q", args[0])
		}
		applied, err := settle(m.Migrate(uint(target)))
		if err == nil {
			logger.Info("registry migrated", "version", target, "changed", applied)
		}
		return err
	}},
	"force": {args: "<version>", run: func(m migrator, args []string, _ io.Writer, logger *logging.Logger) error {
		if len(args) == 0 {
			return crerr.Wrap(errUsage, "force needs a version")
		}
		version, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil || version < -1 {
			return crerr.Newf("force version must be an integer >= -1, got %q", args[0])
		}
		if err := m.Force(version); err != nil {
			return crerr.Wrapf(err, "force version %d", version)
		}
		logger.Info("registry migration version forced", "version", version)
		return nil
	}},
	"version": {run: func(m migrator, _ []string, out io.Writer, _ *logging.Logger) error {
		version, dirty, err := m.Version()
		switch {
		case crerr.Is(err, migrate.ErrNilVersion):
			_, err = fmt.Fprintln(out, "version: none\ndirty: false")
			return err
		case err != nil:
			return crerr.Wrap(err, "read version")
		}
		_, err = fmt.Fprintf(out, "version: %d\ndirty: %t\n", version, dirty)
		return err
	}},
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd, ok := commands[strings.ToLower(strings.TrimSpace(os.Args[1]))]
	if !ok {
		usage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := logging.NewConsole(cfg.LogLevel).Named("migration")
	defer func() { _ = logger.Sync() }()

	m, err := open(cfg.DBURL)
	if err != nil {
		logger.Error("open migrator", "error", err)
		os.Exit(1)
	}
	defer closeMigrator(m, logger)

	if err := cmd.run(m, os.Args[2:], os.Stdout, logger); err != nil {
		logger.Error("migration failed", "command", os.Args[1], "error", err)
		if crerr.Is(err, errUsage) {
			usage(os.Stderr)
		}
		closeMigrator(m, logger)
		os.Exit(1)
	}
}

func open(dbURL string) (*migrate.Migrate, error) {
	dbURL = strings.TrimSpace(dbURL)
	if dbURL == "" {
		return nil, crerr.New("DB_URL is required")
	}
	dir, err := migrationsDir(os.Getenv("MIGRATIONS_DIR"))
	if err != nil {
		return nil, err
	}
	m, err := migrate.New("file://"+filepath.ToSlash(dir), dbURL)
	if err != nil {
		return nil, crerr.Wrap(err, "create migrator")
	}
	return m, nil
}

// settle treats ErrNoChange as success and reports whether anything moved.
func settle(err error) (bool, error) {
	if crerr.Is(err, migrate.ErrNoChange) {
		return false, nil
	}
	return err == nil, err
}

func closeMigrator(m *migrate.Migrate, logger *logging.Logger) {
	srcErr, dbErr := m.Close()
	if err := crerr.CombineErrors(srcErr, dbErr); err != nil {
		logger.Warn("close migrator", "error", err)
	}
}

// migrationsDir returns the first existing directory among override and the
// in-repo and container locations.
func migrationsDir(override string) (string, error) {
	candidates := []string{strings.TrimSpace(override), "./db/migrations", "/app/db/migrations"}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", crerr.Newf("migration directory not found in %s", strings.Join(candidates[1:], ", "))
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "usage: %s <command> [args]\ncommands:\n", prog)
	for _, name := range names {
		fmt.Fprintf(w, "  %s %s\n", name, commands[name].args)
	}
}
