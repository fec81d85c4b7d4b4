package domain

import (
	"fmt"
	"time"
)

const (
	// TimestampLayout is a local wall-clock time without zone; every stored
	// appointment uses it.
	TimestampLayout = "2006-01-02T15:04:05"
	DateLayout      = "2006-01-02"
)

// Timestamp is an appointment instant stored as local wall-clock text.
// RFC 3339 input is accepted and converted to local time.
type Timestamp struct {
	t time.Time
}

func At(t time.Time) Timestamp { return Timestamp{t: t} }

func ParseTimestamp(s string) (Timestamp, error) {
	if t, err := time.ParseInLocation(TimestampLayout, s, time.Local); err == nil {
		return Timestamp{t: t}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Timestamp{t: t.Local()}, nil
	}
	// datetime-local inputs omit seconds
	if t, err := time.ParseInLocation("2006-01-02T15:04", s, time.Local); err == nil {
		return Timestamp{t: t}, nil
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}

func MustTimestamp(s string) Timestamp {
	ts, err := ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return ts
}

func (ts Timestamp) Time() time.Time { return ts.t }
func (ts Timestamp) IsZero() bool    { return ts.t.IsZero() }
func (ts Timestamp) String() string  { return ts.t.Format(TimestampLayout) }

// Day returns the calendar date of ts in its own location.
func (ts Timestamp) Day() Date {
	y, m, d := ts.t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, ts.t.Location())}
}

func (ts Timestamp) MarshalText() ([]byte, error) {
	return []byte(ts.String()), nil
}

func (ts *Timestamp) UnmarshalText(b []byte) error {
	parsed, err := ParseTimestamp(string(b))
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// Date is a calendar day (date of birth, calendar cells).
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	return Date{t: t}, nil
}

func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Time() time.Time { return d.t }
func (d Date) IsZero() bool    { return d.t.IsZero() }
func (d Date) String() string  { return d.t.Format(DateLayout) }

func (d Date) Equal(o Date) bool {
	return d.String() == o.String()
}

func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
