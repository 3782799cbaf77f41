// Package clock abstracts the monotonic hardware counter the monitoring
// core depends on. The core only assumes a monotonically increasing tick
// value with a known rate, never a specific counter instruction.
package clock

import (
	"sync/atomic"
	"time"
)

// Clock provides monotonic tick readings.
type Clock interface {
	// Ticks returns the current counter value. Successive calls never
	// return a smaller value.
	Ticks() uint64
	// TickRate returns the number of ticks per second.
	TickRate() uint64
}

// System reads the Go runtime's monotonic clock at nanosecond resolution.
type System struct {
	origin time.Time
}

// NewSystem creates a system clock anchored at construction time.
func NewSystem() *System {
	return &System{origin: time.Now()}
}

// Ticks returns nanoseconds elapsed since construction.
func (s *System) Ticks() uint64 {
	return uint64(time.Since(s.origin))
}

// TickRate returns the tick rate in ticks per second.
func (s *System) TickRate() uint64 {
	return uint64(time.Second / time.Nanosecond)
}

// Manual is a test clock advanced explicitly.
type Manual struct {
	ticks atomic.Uint64
	rate  uint64
}

// NewManual creates a manual clock with the given tick rate.
func NewManual(rate uint64) *Manual {
	return &Manual{rate: rate}
}

// Ticks returns the current manual tick value.
func (m *Manual) Ticks() uint64 { return m.ticks.Load() }

// TickRate returns the configured tick rate.
func (m *Manual) TickRate() uint64 { return m.rate }

// Advance moves the clock forward by n ticks.
func (m *Manual) Advance(n uint64) { m.ticks.Add(n) }
