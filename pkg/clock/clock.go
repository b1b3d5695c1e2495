// Package clock provides a deterministic clock abstraction for keyforge.
//
// GUARDRAIL: core logic packages MUST NOT call time.Now() directly.
// Every event, envelope, and certificate validity window is timestamped
// through an injected Clock so that bootstrap runs are reproducible in
// tests.
//
// Usage:
//
//	type Orchestrator struct {
//	    clock clock.Clock
//	}
//
//	func (o *Orchestrator) now() time.Time {
//	    return o.clock.Now()
//	}
//
//	// In tests
//	fixed := clock.NewFixed(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
package clock

import "time"

// Clock provides the current time.
// All core logic should depend on this interface, not time.Now().
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual system time.
// Use only at application entry points (cmd/*).
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns a fixed time.
// Use for deterministic testing.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed time.
func (c FixedClock) Now() time.Time {
	return c.T
}

// FuncClock wraps a function as a Clock.
// Useful for incremental time or custom test scenarios.
type FuncClock func() time.Time

// Now calls the wrapped function.
func (f FuncClock) Now() time.Time {
	return f()
}

// NewReal returns a Clock that uses the real system time.
// ONLY use at application entry points (cmd/*).
func NewReal() Clock {
	return RealClock{}
}

// NewFixed returns a Clock that always returns the given time.
// Use for deterministic testing.
func NewFixed(t time.Time) Clock {
	return FixedClock{T: t}
}

// NewFunc returns a Clock backed by a custom function.
// Useful for tests that need incrementing or dynamic time.
func NewFunc(f func() time.Time) Clock {
	return FuncClock(f)
}

// StepClock advances by a fixed step on every call to Now.
//
// The event store's temporal index orders envelopes by timestamp; tests
// that assert ordering across several events in one correlation need
// strictly increasing timestamps rather than one frozen instant.
type StepClock struct {
	next time.Time
	step time.Duration
}

// NewStep returns a Clock starting at start and advancing by step on each
// call to Now (the first call returns start unmodified).
func NewStep(start time.Time, step time.Duration) *StepClock {
	return &StepClock{next: start, step: step}
}

// Now returns the current instant and advances the clock by its step.
func (c *StepClock) Now() time.Time {
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}

// Verify interface compliance at compile time.
var (
	_ Clock = RealClock{}
	_ Clock = FixedClock{}
	_ Clock = FuncClock(nil)
	_ Clock = &StepClock{}
)
