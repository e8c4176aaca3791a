package resilience

import (
	"errors"
	"testing"
	"time"
)

func alwaysTransient(error) bool { return true }

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		if err := cb.Allow(); err != nil {
			t.Fatalf("call %d rejected early: %v", i, err)
		}
		cb.Record(boom, alwaysTransient)
	}

	if err := cb.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
}

func TestCircuitBreaker_SuccessResetsCounter(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)
	boom := errors.New("boom")

	cb.Record(boom, alwaysTransient)
	cb.Record(boom, alwaysTransient)
	cb.Record(nil, alwaysTransient)
	cb.Record(boom, alwaysTransient)
	cb.Record(boom, alwaysTransient)

	if err := cb.Allow(); err != nil {
		t.Fatalf("circuit should still be closed: %v", err)
	}
}

func TestCircuitBreaker_NonTransientDoesNotTrip(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute)
	cb.Record(errors.New("not found"), func(error) bool { return false })

	if err := cb.Allow(); err != nil {
		t.Fatalf("non-transient failures must not open the circuit: %v", err)
	}
}

func TestCircuitBreaker_ProbeAfterResetTimeout(t *testing.T) {
	cb := NewCircuitBreaker(1, 30*time.Second)
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	cb.nowFunc = func() time.Time { return now }

	cb.Record(errors.New("boom"), alwaysTransient)
	if err := cb.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatal("expected open circuit")
	}

	now = now.Add(31 * time.Second)
	if err := cb.Allow(); err != nil {
		t.Fatalf("expected probe to be allowed, got %v", err)
	}

	// Probe success closes the circuit.
	cb.Record(nil, alwaysTransient)
	if err := cb.Allow(); err != nil {
		t.Fatalf("expected closed circuit after probe success, got %v", err)
	}

	// A failing probe re-opens it immediately.
	cb.Record(errors.New("boom"), alwaysTransient)
	if err := cb.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatal("expected re-opened circuit after probe failure")
	}
}
