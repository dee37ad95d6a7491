package calendar

import (
	"errors"
	"testing"
	"time"
)

func fixedNow(value string) func() time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func TestParseDate(t *testing.T) {
	t.Run("accepts well formed dates", func(t *testing.T) {
		d, err := ParseDate("2024-06-10")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.String() != "2024-06-10" {
			t.Fatalf("round trip mismatch: %s", d)
		}
		if d.Weekday() != time.Monday {
			t.Fatalf("expected Monday, got %s", d.Weekday())
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, value := range []string{"", "2024-6-1", "10/06/2024", "2024-02-30", "2024-13-01", "yesterday"} {
			_, err := ParseDate(value)
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("ParseDate(%q): expected InvalidInputError, got %v", value, err)
			}
		}
	})
}

func TestParseClock(t *testing.T) {
	t.Run("accepts zero padded times", func(t *testing.T) {
		c, err := ParseClock("09:30")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.String() != "09:30" {
			t.Fatalf("round trip mismatch: %s", c)
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, value := range []string{"", "9:30", "24:00", "10:60", "10h30", "10:30:00"} {
			_, err := ParseClock(value)
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("ParseClock(%q): expected InvalidInputError, got %v", value, err)
			}
		}
	})

	t.Run("midnight is distinct from unset", func(t *testing.T) {
		midnight := MustClock("00:00")
		if midnight.IsZero() {
			t.Fatal("parsed midnight reported as unset")
		}
		var unset Clock
		if !unset.IsZero() {
			t.Fatal("zero value reported as set")
		}
	})
}

func TestClockOrdering(t *testing.T) {
	earlier := MustClock("10:00")
	later := MustClock("11:00")

	if !earlier.Before(later) || later.Before(earlier) {
		t.Fatal("Before ordering broken")
	}
	if !later.After(earlier) || earlier.After(later) {
		t.Fatal("After ordering broken")
	}
	if earlier.Before(earlier) || earlier.After(earlier) {
		t.Fatal("equal clocks must not order before or after each other")
	}
}

func TestDateArithmetic(t *testing.T) {
	t.Run("AddDays crosses month boundaries", func(t *testing.T) {
		d := MustDate("2024-06-28").AddDays(7)
		if d.String() != "2024-07-05" {
			t.Fatalf("expected 2024-07-05, got %s", d)
		}
	})

	t.Run("NextMonthSameDay skips short months", func(t *testing.T) {
		d := MustDate("2024-01-31").NextMonthSameDay()
		if d.String() != "2024-03-31" {
			t.Fatalf("expected 2024-03-31, got %s", d)
		}
	})

	t.Run("NextMonthSameDay crosses year boundaries", func(t *testing.T) {
		d := MustDate("2024-12-15").NextMonthSameDay()
		if d.String() != "2025-01-15" {
			t.Fatalf("expected 2025-01-15, got %s", d)
		}
	})
}

func TestCalendarToday(t *testing.T) {
	// 2024-06-11T01:30Z is still June 10th in Sao Paulo (-03:00).
	cal := New(time.FixedZone("-03", -3*60*60), "-03:00", fixedNow("2024-06-11T01:30:00Z"))

	if got := cal.Today().String(); got != "2024-06-10" {
		t.Fatalf("expected 2024-06-10, got %s", got)
	}
}

func TestCalendarIsPast(t *testing.T) {
	cal := New(time.FixedZone("-03", -3*60*60), "-03:00", fixedNow("2024-06-10T12:00:00-03:00"))

	if !cal.IsPast(MustDate("2000-01-01")) {
		t.Fatal("ancient date must be past")
	}
	if cal.IsPast(MustDate("2024-06-10")) {
		t.Fatal("today must not be past")
	}
	if cal.IsPast(MustDate("2024-06-11")) {
		t.Fatal("tomorrow must not be past")
	}
}

func TestCalendarSameDay(t *testing.T) {
	cal := New(time.FixedZone("-03", -3*60*60), "-03:00", nil)

	// Both instants are June 10th in -03:00 even though the second is June
	// 11th in UTC.
	a, _ := time.Parse(time.RFC3339, "2024-06-10T08:00:00-03:00")
	b, _ := time.Parse(time.RFC3339, "2024-06-11T01:59:00Z")
	if !cal.SameDay(a, b) {
		t.Fatal("expected same civil day")
	}

	c, _ := time.Parse(time.RFC3339, "2024-06-11T03:01:00Z")
	if cal.SameDay(a, c) {
		t.Fatal("expected different civil days")
	}
}

func TestComposeISO(t *testing.T) {
	cal := New(time.FixedZone("-03", -3*60*60), "-03:00", nil)

	iso, err := cal.ComposeISO(MustDate("2024-06-10"), MustClock("09:30"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iso != "2024-06-10T09:30:00-03:00" {
		t.Fatalf("unexpected composition: %s", iso)
	}

	if _, err := cal.ComposeISO(Date{}, MustClock("09:30")); err == nil {
		t.Fatal("expected error for unset date")
	}
	if _, err := cal.ComposeISO(MustDate("2024-06-10"), Clock{}); err == nil {
		t.Fatal("expected error for unset clock")
	}
}
