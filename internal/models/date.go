package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const (
	// DateLayout is the user-facing date format (mm-dd-yyyy).
	DateLayout = "01-02-2006"
	isoLayout  = "2006-01-02"
)

// Date is a calendar date without time of day. It is stored as an ISO
// YYYY-MM-DD value so both Postgres DATE columns and SQLite text columns
// compare correctly.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the Date for y-m-d.
func NewDate(y int, m time.Month, d int) Date {
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a mm-dd-yyyy string and rejects impossible dates.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return dateOf(t), nil
}

func dateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

func (d Date) IsZero() bool { return d == (Date{}) }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats d as mm-dd-yyyy.
func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.Time().Format(isoLayout), nil
}

// Scan implements sql.Scanner. Drivers hand dates back either as time.Time
// (pgx, and SQLite for DATE-declared columns) or as ISO text.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = dateOf(v)
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanText(s string) error {
	if len(s) > len(isoLayout) {
		s = s[:len(isoLayout)]
	}
	t, err := time.Parse(isoLayout, s)
	if err != nil {
		return fmt.Errorf("cannot parse date %q: %w", s, err)
	}
	*d = dateOf(t)
	return nil
}
