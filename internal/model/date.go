package model

import (
	"fmt"
	"time"
)

// DateLayout is the ISO-8601 calendar date layout used on the wire and in storage
const DateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day or zone component
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a strict YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, s)
	}
	return DateOf(t), nil
}

// DateOf returns the UTC calendar day containing t
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Year: y, Month: m, Day: d}
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero Date
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight UTC of the date
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is an earlier day than o
func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
