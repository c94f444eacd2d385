// Package circuitbreaker implements the three-state breaker PublishEngine
// wraps every call in (spec.md §4.7, B3). Grounded on
// Chris-Alexander-Pop-go-hyperforge/pkg/servicemesh/circuitbreaker, adapted
// from that repo's consecutive-failure trigger to the sliding-window-of-N
// trigger spec.md requires ("failure rate in a sliding window of N≈10 recent
// calls reaches ≥50%").
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State is one of the three breaker states.
type State string

const (
	StateClosed   State = "CLOSED"
	StateOpen     State = "OPEN"
	StateHalfOpen State = "HALF_OPEN"
)

// ErrOpen is returned by Allow when the breaker rejects a call outright.
var ErrOpen = errors.New("circuitbreaker: open")

// Config tunes the breaker. WindowSize is the number of recent outcomes kept
// for the failure-rate calculation; FailureThreshold is the fraction (0..1)
// of failures in that window that trips the breaker; OpenDuration is how long
// it stays OPEN before admitting half-open probes; HalfOpenProbes is how many
// concurrent probes HALF_OPEN admits before deciding to close or reopen.
type Config struct {
	WindowSize       int
	FailureThreshold float64
	OpenDuration     time.Duration
	HalfOpenProbes   int
}

// Breaker is safe for concurrent use; all state transitions are guarded by a
// single mutex since decisions must be made atomically with the state read.
type Breaker struct {
	cfg Config

	mu       sync.Mutex
	state    State
	window   []bool // ring buffer of recent outcomes, true = success
	next     int
	filled   int
	openedAt time.Time

	halfOpenAdmitted int
	halfOpenResults  []bool
}

// New builds a Breaker with sane defaults for any zero-valued Config fields.
func New(cfg Config) *Breaker {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = 10
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 0.5
	}
	if cfg.OpenDuration <= 0 {
		cfg.OpenDuration = 30 * time.Second
	}
	if cfg.HalfOpenProbes <= 0 {
		cfg.HalfOpenProbes = 3
	}
	return &Breaker{
		cfg:    cfg,
		state:  StateClosed,
		window: make([]bool, cfg.WindowSize),
	}
}

// Allow reports whether a call may proceed. When it returns true, the caller
// MUST call Report exactly once with the outcome.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Since(b.openedAt) < b.cfg.OpenDuration {
			return false
		}
		b.transitionLocked(StateHalfOpen)
		fallthrough
	case StateHalfOpen:
		if b.halfOpenAdmitted >= b.cfg.HalfOpenProbes {
			return false
		}
		b.halfOpenAdmitted++
		return true
	}
	return false
}

// Report records the outcome of a call previously admitted by Allow.
func (b *Breaker) Report(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.record(success)
		if b.filled > 0 && b.failureRateLocked() >= b.cfg.FailureThreshold {
			b.transitionLocked(StateOpen)
		}
	case StateHalfOpen:
		b.halfOpenResults = append(b.halfOpenResults, success)
		if !success {
			b.transitionLocked(StateOpen)
			return
		}
		if len(b.halfOpenResults) >= b.cfg.HalfOpenProbes {
			b.transitionLocked(StateClosed)
		}
	}
}

// State returns the current state (for health/diagnostics and tests).
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) record(success bool) {
	b.window[b.next] = success
	b.next = (b.next + 1) % len(b.window)
	if b.filled < len(b.window) {
		b.filled++
	}
}

func (b *Breaker) failureRateLocked() float64 {
	failures := 0
	for i := 0; i < b.filled; i++ {
		if !b.window[i] {
			failures++
		}
	}
	return float64(failures) / float64(len(b.window))
}

func (b *Breaker) transitionLocked(to State) {
	b.state = to
	switch to {
	case StateOpen:
		b.openedAt = time.Now()
		b.halfOpenAdmitted = 0
		b.halfOpenResults = nil
	case StateHalfOpen:
		b.halfOpenAdmitted = 0
		b.halfOpenResults = nil
	case StateClosed:
		b.next = 0
		b.filled = 0
		b.window = make([]bool, len(b.window))
		b.halfOpenAdmitted = 0
		b.halfOpenResults = nil
	}
}
