package pipeline

import "time"

// Clock returns the current wall-clock instant.
type Clock func() time.Time

// stamp returns the current time, never earlier than prev.
func (c Clock) stamp(prev time.Time) time.Time {
	now := c()
	if now.Before(prev) {
		return prev
	}

	return now
}
