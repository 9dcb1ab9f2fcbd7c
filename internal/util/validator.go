package util

import (
	"fmt"
	"time"
)

// maxAmount caps a single movement; amounts above this are almost certainly
// input mistakes.
const maxAmount int64 = 100_000_000_000

// dateLayouts accepted for transaction/budget dates, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ValidateAmount verifies a movement amount is a positive integer within bounds.
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", amount)
	}
	if amount >= maxAmount {
		return fmt.Errorf("amount too large, got %d", amount)
	}
	return nil
}

// ParseDate parses a calendar date and truncates it to midnight so that
// inclusive date-window comparisons work on whole days.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %q", s)
}

// ValidateDateRange verifies start does not come after end.
func ValidateDateRange(start, end time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("start date %s is after end date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return nil
}
