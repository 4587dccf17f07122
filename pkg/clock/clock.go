// Package clock provides the wall-clock capability used for provider selection
// and request windows.
package clock

import "time"

// Clock returns the current time as Unix epoch milliseconds.
type Clock interface {
	NowMillis() int64
}

// System reads the wall clock.
type System struct{}

// NowMillis implements Clock.
func (System) NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Fixed always returns the same instant.
type Fixed int64

// NowMillis implements Clock.
func (f Fixed) NowMillis() int64 {
	return int64(f)
}

// NowSeconds truncates the clock reading to whole seconds.
func NowSeconds(c Clock) int64 {
	return c.NowMillis() / 1000
}
