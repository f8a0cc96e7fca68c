// Package stamp formats the human-readable completion timestamp stored on
// completed tasks.
package stamp

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultLayout renders the local date and time joined by " at ",
// e.g. "3/14/2025 at 9:26:53 AM".
const DefaultLayout = "1/2/2006 at 3:04:05 PM"

// Clock returns the current time. Tests inject a fixed clock.
type Clock func() time.Time

// System is the wall clock in the local time zone.
func System() time.Time { return time.Now() }

// Format renders t in the local time zone using layout.
// An empty layout falls back to DefaultLayout.
func Format(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultLayout
	}
	return t.Local().Format(layout)
}

// Now stamps the current time of clock using layout.
func Now(clock Clock, layout string) string {
	if clock == nil {
		clock = System
	}
	return Format(clock(), layout)
}

// Parse reads a stamp back into a time. Stamps are free-form strings once
// persisted, so callers must treat a parse failure as "unknown time".
func Parse(s, layout string) (time.Time, error) {
	if layout == "" {
		layout = DefaultLayout
	}
	t, err := time.ParseInLocation(layout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stamp %q: %w", s, err)
	}
	return t, nil
}

// ValidateLayout checks that layout renders a non-empty string that
// still carries the year, so completion stamps stay meaningful.
func ValidateLayout(layout string) error {
	if layout == "" {
		return errors.New("stamp layout is empty")
	}
	// Any instant other than the reference time; formatting the reference
	// time reproduces every layout verbatim.
	sample := time.Date(2009, time.November, 10, 23, 1, 2, 0, time.UTC) //nolint:mnd // sample instant
	out := sample.Format(layout)
	if out == layout {
		return fmt.Errorf("stamp layout %q contains no time fields", layout)
	}
	if !strings.Contains(out, "09") {
		return fmt.Errorf("stamp layout %q does not include the year", layout)
	}
	return nil
}
