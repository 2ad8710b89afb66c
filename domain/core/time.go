package core

import (
	"time"
)

// Timestamp represents a point in time with timezone awareness
type Timestamp time.Time

// NewTimestamp creates a new timestamp from time.Time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// Before returns true if t is before u
func (t Timestamp) Before(u Timestamp) bool {
	return time.Time(t).Before(time.Time(u))
}

// After returns true if t is after u
func (t Timestamp) After(u Timestamp) bool {
	return time.Time(t).After(time.Time(u))
}

// EpochSeconds returns the timestamp as seconds since the Unix epoch.
// The regression abscissa is expressed on this scale.
func (t Timestamp) EpochSeconds() float64 {
	return float64(time.Time(t).Unix())
}

// FromEpochSeconds builds a timestamp from seconds since the Unix epoch
func FromEpochSeconds(s int64) Timestamp {
	return Timestamp(time.Unix(s, 0).UTC())
}
