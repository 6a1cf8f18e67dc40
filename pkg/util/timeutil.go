package util

import "time"

// Clock yields the current instant. Components take one so tests can pin time.
type Clock func() time.Time

// NowUTC is the production Clock.
func NowUTC() time.Time {
	return time.Now().UTC()
}
