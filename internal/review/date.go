// Package review implements the spaced-repetition core: per-word learning
// records, the interval policy, queue composition, daily statistics and
// the flashcard session.
package review

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day component. Scheduling
// operates at date granularity in the learner's local timezone.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in t's location.
func NewDate(t time.Time) Date {
	year, month, day := t.Date()
	return Date{time.Date(year, month, day, 0, 0, 0, 0, t.Location())}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("time.ParseInLocation > %w", err)
	}
	return Date{t}, nil
}

// AddDays returns the date n calendar days after d.
func (d Date) AddDays(n int) Date {
	return NewDate(d.AddDate(0, 0, n))
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON writes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON accepts both the YYYY-MM-DD format and RFC3339
// timestamps written by earlier versions.
func (d *Date) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	if t, err := time.ParseInLocation(dateLayout, value, time.Local); err == nil {
		*d = Date{t}
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value, err)
	}
	*d = NewDate(t.Local())
	return nil
}
