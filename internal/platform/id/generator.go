package id

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Generator creates opaque ids, used to correlate the logs of one build run.
type Generator interface {
	NewID() (string, error)
}

// RunIDs issues UUIDv7 values, which sort by creation time, optionally behind
// a fixed prefix such as "season-".
type RunIDs struct {
	prefix string
}

func NewRunIDs(prefix string) RunIDs {
	return RunIDs{prefix: prefix}
}

func (g RunIDs) NewID() (string, error) {
	value, err := uuid.NewV7()
	if err != nil {
		return "", errors.Wrap(err, "generate run id")
	}
	return g.prefix + value.String(), nil
}
