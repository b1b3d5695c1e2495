package clock

import (
	"testing"
	"time"
)

func TestFixedClockIsStable(t *testing.T) {
	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFixed(want)
	for i := 0; i < 3; i++ {
		if got := c.Now(); !got.Equal(want) {
			t.Fatalf("FixedClock.Now() = %v, want %v", got, want)
		}
	}
}

func TestStepClockAdvances(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewStep(start, time.Second)

	first := c.Now()
	second := c.Now()
	third := c.Now()

	if !first.Equal(start) {
		t.Fatalf("first tick = %v, want %v", first, start)
	}
	if !second.After(first) || second.Sub(first) != time.Second {
		t.Fatalf("second tick = %v, want %v", second, first.Add(time.Second))
	}
	if !third.After(second) {
		t.Fatalf("third tick did not advance past second")
	}
}
