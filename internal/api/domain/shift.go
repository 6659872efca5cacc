package domain

import (
	"fmt"
	"strings"
	"time"
)

// Shift is a half-day slot. Paired with a date it forms a schedulable unit.
type Shift string

const (
	ShiftAM Shift = "AM"
	ShiftPM Shift = "PM"
)

// DateLayout is the canonical wire and comparison format for shift dates.
const DateLayout = "2006-01-02"

// ParseShift normalizes and validates a shift value.
func ParseShift(s string) (Shift, error) {
	switch Shift(strings.ToUpper(strings.TrimSpace(s))) {
	case ShiftAM:
		return ShiftAM, nil
	case ShiftPM:
		return ShiftPM, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidShift, s)
	}
}

// SameDay compares two timestamps on their calendar date only, in UTC.
func SameDay(a, b time.Time) bool {
	return a.UTC().Format(DateLayout) == b.UTC().Format(DateLayout)
}
