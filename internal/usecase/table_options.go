package usecase

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
)

// TableOptions tune a table request. The zero value reads through the cache
// and persists what it builds.
type TableOptions struct {
	// Refresh skips the cache lookup of the requested tier.
	Refresh bool
	// NoPersist builds without writing the result to the cache.
	NoPersist bool
}

var keyValidator = validator.New(validator.WithRequiredStructEnabled())

func normalizeKey(key table.Key, level table.Level) (table.Key, error) {
	key.Team = strings.ToUpper(strings.TrimSpace(key.Team))
	if err := keyValidator.Struct(key); err != nil {
		return key, fmt.Errorf("%w: %s: %v", ErrInvalidInput, key, err)
	}
	if key.Level() != level {
		return key, fmt.Errorf("%w: key %s addresses a %s table, expected %s", ErrInvalidInput, key, key.Level(), level)
	}
	return key, nil
}
