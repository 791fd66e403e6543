package main

import (
	"bytes"
	"path/filepath"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/gridiron-loader/internal/platform/logging"
)

type fakeMigrator struct {
	calls   []string
	steps   int
	target  uint
	forced  int
	version uint
	dirty   bool
	err     error
}

func (f *fakeMigrator) Up() error {
	f.calls = append(f.calls, "up")
	return f.err
}

func (f *fakeMigrator) Steps(n int) error {
	f.calls = append(f.calls, "steps")
	f.steps = n
	return f.err
}

func (f *fakeMigrator) Migrate(version uint) error {
	f.calls = append(f.calls, "migrate")
	f.target = version
	return f.err
}

func (f *fakeMigrator) Force(version int) error {
	f.calls = append(f.calls, "force")
	f.forced = version
	return f.err
}

func (f *fakeMigrator) Version() (uint, bool, error) { return f.version, f.dirty, f.err }

func runCommand(t *testing.T, m *fakeMigrator, name string, args ...string) (string, error) {
	t.Helper()
	cmd, ok := commands[name]
	require.True(t, ok, "unknown command %s", name)
	var out bytes.Buffer
	err := cmd.run(m, args, &out, logging.NewNop())
	return out.String(), err
}

func TestDown(t *testing.T) {
	m := &fakeMigrator{}
	_, err := runCommand(t, m, "down")
	require.NoError(t, err)
	assert.Equal(t, -1, m.steps)

	_, err = runCommand(t, m, "down", " 3 ")
	require.NoError(t, err)
	assert.Equal(t, -3, m.steps)

	for _, raw := range []string{"0", "-2", "x"} {
		_, err := runCommand(t, &fakeMigrator{}, "down", raw)
		assert.Error(t, err, raw)
	}
}

func TestUp_NoChangeIsSuccess(t *testing.T) {
	_, err := runCommand(t, &fakeMigrator{err: migrate.ErrNoChange}, "up")
	assert.NoError(t, err)

	boom := crerr.New("lock timeout")
	_, err = runCommand(t, &fakeMigrator{err: boom}, "up")
	assert.ErrorIs(t, err, boom)
}

func TestGotoAndForce(t *testing.T) {
	m := &fakeMigrator{}
	_, err := runCommand(t, m, "goto", "1")
	require.NoError(t, err)
	assert.Equal(t, uint(1), m.target)

	_, err = runCommand(t, m, "goto")
	assert.True(t, crerr.Is(err, errUsage))
	_, err = runCommand(t, m, "goto", "abc")
	assert.Error(t, err)

	_, err = runCommand(t, m, "force", "-1")
	require.NoError(t, err)
	assert.Equal(t, -1, m.forced)
	_, err = runCommand(t, m, "force", "-2")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := runCommand(t, &fakeMigrator{version: 1, dirty: true}, "version")
	require.NoError(t, err)
	assert.Equal(t, "version: 1\ndirty: true\n", out)

	out, err = runCommand(t, &fakeMigrator{err: migrate.ErrNilVersion}, "version")
	require.NoError(t, err)
	assert.Equal(t, "version: none\ndirty: false\n", out)
}

func TestMigrationsDir(t *testing.T) {
	dir := t.TempDir()
	got, err := migrationsDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	if _, err := migrationsDir(filepath.Join(dir, "missing")); err != nil {
		assert.Contains(t, err.Error(), "db/migrations")
	}
}

func TestUsageListsCommands(t *testing.T) {
	var out bytes.Buffer
	usage(&out)
	for name := range commands {
		assert.Contains(t, out.String(), "  "+name)
	}
}
