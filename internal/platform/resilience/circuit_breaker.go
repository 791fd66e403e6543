package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// StateChangeFunc observes breaker transitions.
type StateChangeFunc func(name string, from, to CircuitState)

// CircuitBreakerConfig is loaded per upstream client.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// Counts is a point-in-time view of a breaker, for logs.
type Counts struct {
	State               CircuitState
	ConsecutiveFailures int
	Trials              int
	OpenFor             time.Duration
}

// CircuitBreaker trips after FailureThreshold consecutive failures, rejects
// calls for OpenTimeout, then lets HalfOpenMaxReq trial calls through. All trials
// must succeed to close again; any trial failure reopens it.
// A nil *CircuitBreaker allows every call.
type CircuitBreaker struct {
	name     string
	cfg      CircuitBreakerConfig
	onChange StateChangeFunc
	now      func() time.Time

	mu        sync.Mutex
	state     CircuitState
	failures  int
	openedAt  time.Time
	inFlight  int
	succeeded int
}

// NewCircuitBreakerFromConfig returns nil when the breaker is disabled.
func NewCircuitBreakerFromConfig(name string, cfg CircuitBreakerConfig, onChange StateChangeFunc) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	cfg.FailureThreshold = max(cfg.FailureThreshold, 1)
	cfg.HalfOpenMaxReq = max(cfg.HalfOpenMaxReq, 1)
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 15 * time.Second
	}
	return &CircuitBreaker{
		name:     name,
		cfg:      cfg,
		onChange: onChange,
		now:      time.Now,
		state:    CircuitStateClosed,
	}
}

func (b *CircuitBreaker) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

// Allow reserves a call slot or returns ErrCircuitOpen. Every allowed call
// must be followed by RecordSuccess or RecordFailure.
func (b *CircuitBreaker) Allow() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.notify(b.state)

	if b.state == CircuitStateOpen {
		if !b.cooledDown() {
			return ErrCircuitOpen
		}
		b.moveTo(CircuitStateHalfOpen)
	}
	if b.state == CircuitStateHalfOpen {
		if b.inFlight >= b.cfg.HalfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.inFlight++
	}
	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.record(true)
}

func (b *CircuitBreaker) RecordFailure() {
	b.record(false)
}

func (b *CircuitBreaker) record(ok bool) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.notify(b.state)

	switch b.state {
	case CircuitStateClosed:
		if ok {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.moveTo(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		b.inFlight = max(b.inFlight-1, 0)
		if !ok {
			b.moveTo(CircuitStateOpen)
			return
		}
		b.succeeded++
		if b.succeeded >= b.cfg.HalfOpenMaxReq && b.inFlight == 0 {
			b.moveTo(CircuitStateClosed)
		}
	case CircuitStateOpen:
		// a late failure restarts the cool-down
		if !ok {
			b.openedAt = b.now()
		}
	}
}

// State reports half-open once the cool-down elapsed, before the next Allow.
func (b *CircuitBreaker) State() CircuitState {
	return b.Counts().State
}

func (b *CircuitBreaker) Counts() Counts {
	if b == nil {
		return Counts{State: CircuitStateClosed}
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	out := Counts{State: b.state, ConsecutiveFailures: b.failures, Trials: b.inFlight}
	if b.state == CircuitStateOpen {
		out.OpenFor = b.now().Sub(b.openedAt)
		if b.cooledDown() {
			out.State = CircuitStateHalfOpen
		}
	}
	return out
}

func (b *CircuitBreaker) cooledDown() bool {
	return b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout
}

// moveTo resets the per-state counters. Callers hold mu.
func (b *CircuitBreaker) moveTo(state CircuitState) {
	b.state = state
	b.inFlight = 0
	b.succeeded = 0
	switch state {
	case CircuitStateOpen:
		b.openedAt = b.now()
	case CircuitStateClosed:
		b.failures = 0
		b.openedAt = time.Time{}
	}
}

// notify unlocks mu and reports a transition away from from.
func (b *CircuitBreaker) notify(from CircuitState) {
	to := b.state
	b.mu.Unlock()
	if b.onChange != nil && from != to {
		b.onChange(b.name, from, to)
	}
}
