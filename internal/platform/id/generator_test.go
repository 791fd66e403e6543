package id

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIDs_NewID(t *testing.T) {
	gen := NewRunIDs("season-")

	first, err := gen.NewID()
	require.NoError(t, err)
	second, err := gen.NewID()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	require.True(t, strings.HasPrefix(first, "season-"))

	parsed, err := uuid.Parse(strings.TrimPrefix(first, "season-"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.LessOrEqual(t, first, second)
}
