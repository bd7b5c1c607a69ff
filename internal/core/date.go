package core

import (
	"errors"
	"time"
)

// Date is a calendar day, fixed at UTC midnight. The system never does
// timezone-aware arithmetic: a date is a day, not an instant.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate extracts the literal YYYY-MM-DD components from s, ignoring
// any time-of-day or zone suffix. A timestamp like 2024-03-31T23:00-03:00
// therefore stays on March 31 instead of shifting into April. This is the
// single extraction rule used by the aggregator and the report path alike.
func ParseDate(s string) (Date, error) {
	if len(s) < 10 {
		return Date{}, errors.New("date too short, want YYYY-MM-DD")
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// SameMonth reports whether d falls in the given month and year, compared
// on literal components only.
func (d Date) SameMonth(month, year int) bool {
	return d.Month() == month && d.Year() == year
}

// StartOfMonth returns the first calendar day of d's month.
func (d Date) StartOfMonth() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

// Before reports whether d is an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// MarshalJSON encodes the date as "YYYY-MM-DD", or "" for the zero date
// so optional dates (assistance end, conquest) round-trip as empty.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD", full timestamps (literal components
// only), "" and null, the formats found in real backup files.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
