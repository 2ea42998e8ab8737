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

// Now returns the current timestamp in UTC
func Now() Timestamp {
	return Timestamp(time.Now().UTC())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// Sub returns the duration t-u
func (t Timestamp) Sub(u Timestamp) time.Duration {
	return time.Time(t).Sub(time.Time(u))
}

func (t Timestamp) String() string {
	return time.Time(t).Format(time.RFC3339)
}

// JSON marshaling for Timestamp
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var tm time.Time
	if err := tm.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Timestamp(tm)
	return nil
}
