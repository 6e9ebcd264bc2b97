package clock

import "time"

// Clock allows injecting time into services so hold expiry and
// promotion windows are testable.
type Clock interface {
    Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now in UTC.
func NewSystem() Clock {
    return systemClock{}
}

func (systemClock) Now() time.Time {
    return time.Now().UTC()
}
