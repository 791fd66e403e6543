package table

import "context"

// Store persists tables by key. A missing key is reported as found=false
// with a nil error.
type Store interface {
	Get(ctx context.Context, key Key) (Table, bool, error)
	Put(ctx context.Context, key Key, value Table) error
}
