// Package timing measures named blocks of work and persists their durations
// as one-key JSON records that can later be merged back into a single mapping.
package timing

import (
	"fmt"
	"time"
)

// Timer is a monotonic stopwatch bound to a block name.
type Timer struct {
	name     string
	start    time.Time
	duration time.Duration
	stopped  bool
}

// StartTimer starts a timer for the named block.
func StartTimer(name string) *Timer {
	return &Timer{
		name:  name,
		start: time.Now(),
	}
}

// Stop stops the timer and returns the elapsed duration.
// Calling Stop again returns the first measurement.
func (t *Timer) Stop() time.Duration {
	if !t.stopped {
		t.duration = time.Since(t.start)
		t.stopped = true
	}
	return t.duration
}

// Seconds returns the recorded duration in seconds (only valid after Stop()).
func (t *Timer) Seconds() float64 {
	return t.duration.Seconds()
}

// Name returns the block name.
func (t *Timer) Name() string {
	return t.name
}

// String formats the timer the way it is reported on the console.
func (t *Timer) String() string {
	return FormatLine(t.name, t.Seconds())
}

// FormatLine returns the console line reported for one recording.
func FormatLine(name string, seconds float64) string {
	return fmt.Sprintf("[%s] took %vs", name, seconds)
}
