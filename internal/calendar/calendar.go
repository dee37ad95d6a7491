// Package calendar provides civil date and time-of-day primitives evaluated
// in a fixed, configurable timezone. Every date comparison in the reservation
// engine goes through this package so that day boundaries never depend on the
// host machine's local timezone.
package calendar

import (
	"fmt"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// DefaultTimezoneName is the civil timezone the product operates in.
const DefaultTimezoneName = "America/Sao_Paulo"

// DefaultUTCOffset is the offset literal attached to composed timestamps.
const DefaultUTCOffset = "-03:00"

// InvalidInputError reports a malformed civil date or clock value. Parsing
// never coerces: a value that does not match the expected layout exactly is
// rejected.
type InvalidInputError struct {
	Kind  string
	Value string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("calendar: invalid %s %q", e.Kind, e.Value)
}

// Date is a civil calendar date without time-of-day or timezone.
// The zero value represents an unset date.
type Date struct {
	year  int
	month time.Month
	day   int
}

// ParseDate parses a strict "YYYY-MM-DD" string into a Date.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil || t.Format(dateLayout) != value {
		return Date{}, &InvalidInputError{Kind: "date", Value: value}
	}
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}, nil
}

// MustDate parses a date string and panics on failure. Intended for tests
// and fixtures.
func MustDate(value string) Date {
	d, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.year == 0
}

// String renders the date as "YYYY-MM-DD". The zero date renders empty.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

// Weekday returns the day of week of the civil date.
func (d Date) Weekday() time.Weekday {
	return d.time().Weekday()
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	t := d.time().AddDate(0, 0, n)
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

// NextMonthSameDay returns the next calendar month carrying the same
// day-of-month, skipping months that do not contain it (a January 31st
// series jumps from January to March).
func (d Date) NextMonthSameDay() Date {
	year, month := d.year, d.month
	for {
		month++
		if month > time.December {
			month = time.January
			year++
		}
		if d.day <= daysIn(year, month) {
			return Date{year: year, month: month, day: d.day}
		}
	}
}

// Compare orders two dates chronologically, returning -1, 0, or 1.
func (d Date) Compare(other Date) int {
	a := d.year*10000 + int(d.month)*100 + d.day
	b := other.year*10000 + int(other.month)*100 + other.day
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// Equal reports whether both values name the same civil day.
func (d Date) Equal(other Date) bool { return d.Compare(other) == 0 }

func (d Date) time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Clock is a time-of-day with minute precision. The zero value represents an
// unset clock, distinct from midnight.
type Clock struct {
	minutes int
	set     bool
}

// ParseClock parses a strict zero-padded "HH:MM" string into a Clock.
func ParseClock(value string) (Clock, error) {
	t, err := time.Parse(clockLayout, value)
	if err != nil || t.Format(clockLayout) != value {
		return Clock{}, &InvalidInputError{Kind: "time", Value: value}
	}
	return Clock{minutes: t.Hour()*60 + t.Minute(), set: true}, nil
}

// MustClock parses a clock string and panics on failure. Intended for tests
// and fixtures.
func MustClock(value string) Clock {
	c, err := ParseClock(value)
	if err != nil {
		panic(err)
	}
	return c
}

// IsZero reports whether the clock is unset.
func (c Clock) IsZero() bool { return !c.set }

// String renders the clock as "HH:MM". The zero clock renders empty.
func (c Clock) String() string {
	if !c.set {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", c.minutes/60, c.minutes%60)
}

// Before reports whether c is strictly earlier than other. The ordering is
// identical to a lexical compare of the zero-padded "HH:MM" forms.
func (c Clock) Before(other Clock) bool { return c.minutes < other.minutes }

// After reports whether c is strictly later than other.
func (c Clock) After(other Clock) bool { return c.minutes > other.minutes }

// Calendar binds the civil timezone the application reasons in. Time is read
// through an injectable now func so services and tests share one clock source.
type Calendar struct {
	loc    *time.Location
	offset string
	now    func() time.Time
}

// New constructs a Calendar for the given location and offset literal. A nil
// location falls back to America/Sao_Paulo; a nil now func falls back to
// time.Now.
func New(loc *time.Location, offset string, now func() time.Time) Calendar {
	if loc == nil {
		loc = DefaultLocation()
	}
	if offset == "" {
		offset = DefaultUTCOffset
	}
	if now == nil {
		now = time.Now
	}
	return Calendar{loc: loc, offset: offset, now: now}
}

// Default returns a Calendar in the product's standard timezone backed by the
// system clock.
func Default() Calendar {
	return New(nil, "", nil)
}

// DefaultLocation resolves the product timezone, falling back to a fixed
// -03:00 zone when the tzdata lookup fails.
func DefaultLocation() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezoneName)
	if err != nil {
		return time.FixedZone("-03", -3*60*60)
	}
	return loc
}

// Now returns the current instant expressed in the calendar's timezone.
func (c Calendar) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the current civil date in the calendar's timezone.
func (c Calendar) Today() Date {
	return c.DateOf(c.now())
}

// DateOf converts an instant into the civil date it falls on in the
// calendar's timezone.
func (c Calendar) DateOf(t time.Time) Date {
	local := t.In(c.loc)
	return Date{year: local.Year(), month: local.Month(), day: local.Day()}
}

// IsPast reports whether the civil date lies strictly before today,
// ignoring time-of-day. Used to reject backdated bookings.
func (c Calendar) IsPast(d Date) bool {
	return d.Before(c.Today())
}

// SameDay reports whether two instants fall on the same calendar day when
// both are evaluated in the calendar's timezone.
func (c Calendar) SameDay(a, b time.Time) bool {
	return c.DateOf(a).Equal(c.DateOf(b))
}

// ComposeISO combines a civil date and clock into an ISO-8601 string carrying
// the calendar's fixed offset literal. This is deliberately plain string
// composition: attaching the offset textually keeps stored timestamps
// unambiguous without ever consulting the host timezone.
func (c Calendar) ComposeISO(d Date, t Clock) (string, error) {
	if d.IsZero() {
		return "", &InvalidInputError{Kind: "date", Value: ""}
	}
	if t.IsZero() {
		return "", &InvalidInputError{Kind: "time", Value: ""}
	}
	return fmt.Sprintf("%sT%s:00%s", d.String(), t.String(), c.offset), nil
}
