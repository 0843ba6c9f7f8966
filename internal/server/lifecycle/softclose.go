package lifecycle

import (
	"errors"
	"time"
)

// SoftClose is the anti-snipe rule: a bid landing within Window of the
// deadline pushes the deadline out by Extension, counted from the
// deadline itself rather than from the bid instant.
type SoftClose struct {
	Window    time.Duration
	Extension time.Duration
}

// Validate rejects negative durations. A zero Window or Extension turns
// soft close off.
func (s SoftClose) Validate() error {
	var errs []error
	if s.Window < 0 {
		errs = append(errs, errors.New("soft close window must not be negative"))
	}
	if s.Extension < 0 {
		errs = append(errs, errors.New("soft close extension must not be negative"))
	}
	return errors.Join(errs...)
}

// Apply returns the deadline after a bid at now and whether it moved.
// The deadline never moves backwards.
func (s SoftClose) Apply(endTime, now time.Time) (time.Time, bool) {
	if s.Extension <= 0 || s.Window < 0 || now.Before(endTime.Add(-s.Window)) {
		return endTime, false
	}
	return endTime.Add(s.Extension), true
}
