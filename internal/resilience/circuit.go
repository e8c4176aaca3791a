package resilience

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// ErrCircuitOpen is returned when a call is rejected because the circuit is
// open. Callers treat it as a transient unavailability.
var ErrCircuitOpen = eris.New("circuit breaker is open")

// CircuitBreaker guards a single upstream provider in long-running serve
// mode. After FailureThreshold consecutive failures calls are rejected
// outright until ResetTimeout has elapsed, at which point one probe call is
// let through; its outcome closes or re-opens the circuit.
type CircuitBreaker struct {
	failureThreshold int
	resetTimeout     time.Duration

	mu                  sync.Mutex
	open                bool
	consecutiveFailures int
	lastFailureTime     time.Time

	// nowFunc allows test injection of time.
	nowFunc func() time.Time
}

// NewCircuitBreaker creates a breaker. Non-positive arguments fall back to
// a threshold of 5 failures and a 30s reset timeout.
func NewCircuitBreaker(failureThreshold int, resetTimeout time.Duration) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if resetTimeout <= 0 {
		resetTimeout = 30 * time.Second
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		nowFunc:          time.Now,
	}
}

// Allow reports whether a call may proceed. When the circuit is open and the
// reset timeout has elapsed, one probe is allowed through.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !cb.open {
		return nil
	}
	if cb.nowFunc().Sub(cb.lastFailureTime) >= cb.resetTimeout {
		// Half-open probe. Stays open until the probe reports success.
		return nil
	}
	return ErrCircuitOpen
}

// Record feeds a call outcome into the breaker. transient selects which
// failures count toward the threshold; nil errors always reset it.
func (cb *CircuitBreaker) Record(err error, transient func(error) bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil || (transient != nil && !transient(err)) {
		cb.open = false
		cb.consecutiveFailures = 0
		return
	}

	cb.consecutiveFailures++
	cb.lastFailureTime = cb.nowFunc()
	if cb.consecutiveFailures >= cb.failureThreshold {
		cb.open = true
	}
}
