// Package clock provides the wall-clock implementation of ports.Clock.
package clock

import "time"

// System reads the real wall clock.
type System struct{}

// Now returns the current local time.
func (System) Now() time.Time {
	return time.Now()
}
