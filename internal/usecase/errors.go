package usecase

import (
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
)

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")

	ErrNoEventFound         = crerr.New("no event found")
	ErrFeedUnavailable      = crerr.New("statistics feed unavailable")
	ErrRegistryLookupFailed = crerr.New("registry lookup failed")
	ErrIncompletePeriod     = crerr.New("incomplete period")

	// ErrTeamNotInEvent means the schedule and the statistics document disagree
	// about who played.
	ErrTeamNotInEvent = crerr.Mark(crerr.New("team not in event record"), ErrFeedUnavailable)
)

// KeyError attaches the cache key of the unit that failed.
type KeyError struct {
	Key table.Key
	Err error
}

func (e *KeyError) Error() string {
	if e.Err == nil {
		return e.Key.String()
	}
	return e.Key.String() + ": " + e.Err.Error()
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

func keyError(key table.Key, err error) error {
	if err == nil {
		return nil
	}
	// The innermost failing unit wins.
	var existing *KeyError
	if crerr.As(err, &existing) {
		return err
	}
	return &KeyError{Key: key, Err: err}
}
