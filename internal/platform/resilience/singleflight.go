package resilience

import (
	"context"
	"fmt"
	"sync"
)

// SingleFlight shares one execution of a keyed load among every caller that
// arrives while it is running. Results are not remembered once it finishes.
type SingleFlight[T any] struct {
	mu       sync.Mutex
	inflight map[string]*flight[T]
}

type flight[T any] struct {
	done    chan struct{}
	value   T
	err     error
	waiters int
}

// Do runs fn for key unless a run is already in flight, in which case it waits
// for that run. A waiter whose ctx ends returns ctx.Err() without cancelling
// the run. shared reports whether another caller received the same result.
func (g *SingleFlight[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error)) (value T, err error, shared bool) {
	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = make(map[string]*flight[T])
	}
	if f, ok := g.inflight[key]; ok {
		f.waiters++
		g.mu.Unlock()
		select {
		case <-f.done:
			return f.value, f.err, true
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err(), false
		}
	}

	f := &flight[T]{done: make(chan struct{})}
	g.inflight[key] = f
	g.mu.Unlock()

	f.value, f.err = run(ctx, fn)

	g.mu.Lock()
	if g.inflight[key] == f {
		delete(g.inflight, key)
	}
	shared = f.waiters > 0
	g.mu.Unlock()
	close(f.done)

	return f.value, f.err, shared
}

func run[T any](ctx context.Context, fn func(context.Context) (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("singleflight: load panicked: %v", r)
		}
	}()
	return fn(ctx)
}
