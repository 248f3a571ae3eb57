package domain

import (
	"bytes"
	"context"
	"fmt"
	"time"
)

// DateLayout is the wire format of offer dates.
const DateLayout = "2006-01-02"

// Date is a calendar day at midnight UTC.
type Date time.Time

// NewDate returns the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Today returns the current local calendar day.
func Today() Date {
	return DateOf(time.Now())
}

type clockKey struct{}

// WithClock returns a context whose date rules take today from now.
func WithClock(ctx context.Context, now func() time.Time) context.Context {
	return context.WithValue(ctx, clockKey{}, now)
}

// TodayIn returns today according to the clock carried by ctx, falling back
// to the wall clock.
func TodayIn(ctx context.Context) Date {
	if now, ok := ctx.Value(clockKey{}).(func() time.Time); ok && now != nil {
		return DateOf(now())
	}
	return Today()
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date(t), nil
}

// Time returns the underlying time value.
func (d Date) Time() time.Time { return time.Time(d) }

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool { return time.Time(d).IsZero() }

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return Date(time.Time(d).AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return time.Time(d).Before(time.Time(o)) }

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return time.Time(d).After(time.Time(o)) }

func (d Date) String() string {
	return time.Time(d).Format(DateLayout)
}

// MarshalJSON renders the date as "YYYY-MM-DD", or null when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD" or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("date must be a string in %s format", DateLayout)
	}
	parsed, err := ParseDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
