// Package recurrence expands recurring reservations into their concrete
// calendar occurrences and generates the candidate-side day sequences the
// availability filter evaluates.
//
// The two paths intentionally differ: the candidate generator honors the
// requested cadence (daily, weekly, biweekly, monthly), while the stored
// expander always steps seven days regardless of the stored recurrence type.
// The stored path mirrors the behavior the product has always had; do not
// unify them.
package recurrence

import (
	"fmt"

	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/calendar"
)

// MaxOccurrences caps stored-reservation expansion. A series whose end date
// lies further out is truncated, never an error.
const MaxOccurrences = 52

// OccurrenceID derives the display identifier for an expanded occurrence.
// The underscore separator guarantees derived ids never collide with stored
// reservation ids.
func OccurrenceID(originalID string, date calendar.Date) string {
	return fmt.Sprintf("%s_%s", originalID, date)
}

// GenerateDays produces the ordered civil dates a recurring candidate would
// occupy, from start to end inclusive. An unset start or end yields no days.
func GenerateDays(start calendar.Date, freq booking.Frequency, end calendar.Date) []calendar.Date {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil
	}

	var step func(calendar.Date) calendar.Date
	switch freq {
	case booking.FrequencyDaily:
		step = func(d calendar.Date) calendar.Date { return d.AddDays(1) }
	case booking.FrequencyWeekly:
		step = func(d calendar.Date) calendar.Date { return d.AddDays(7) }
	case booking.FrequencyBiweekly:
		step = func(d calendar.Date) calendar.Date { return d.AddDays(14) }
	case booking.FrequencyMonthly:
		step = func(d calendar.Date) calendar.Date { return d.NextMonthSameDay() }
	default:
		return nil
	}

	days := make([]calendar.Date, 0)
	for current := start; !current.After(end); current = step(current) {
		days = append(days, current)
	}
	return days
}

// ExpandOccurrences turns a stored reservation into its per-date occurrence
// records. Non-recurring reservations, and recurring ones without an end
// date, pass through as a single occurrence mirroring the reservation itself.
// Recurring entries step seven days from the start date up to the recurrence
// end date inclusive, capped at MaxOccurrences; a series that yields no dates
// also falls back to the pass-through form.
func ExpandOccurrences(reservation booking.Reservation) []booking.Occurrence {
	if !reservation.IsRecurring || reservation.RecurrenceEndDate == nil || reservation.RecurrenceEndDate.IsZero() {
		return []booking.Occurrence{passThrough(reservation)}
	}

	end := *reservation.RecurrenceEndDate
	occurrences := make([]booking.Occurrence, 0, MaxOccurrences)
	for current := reservation.Date; !current.After(end) && len(occurrences) < MaxOccurrences; current = current.AddDays(7) {
		occurrences = append(occurrences, booking.Occurrence{
			ID:                    OccurrenceID(reservation.ID, current),
			RoomID:                reservation.RoomID,
			Status:                reservation.Status,
			Date:                  current,
			StartTime:             reservation.StartTime,
			EndTime:               reservation.EndTime,
			IsRecurrenceInstance:  true,
			OriginalReservationID: reservation.ID,
		})
	}

	if len(occurrences) == 0 {
		return []booking.Occurrence{passThrough(reservation)}
	}
	return occurrences
}

// ExpandAll expands every reservation in a snapshot, preserving input order.
func ExpandAll(reservations []booking.Reservation) []booking.Occurrence {
	occurrences := make([]booking.Occurrence, 0, len(reservations))
	for _, reservation := range reservations {
		occurrences = append(occurrences, ExpandOccurrences(reservation)...)
	}
	return occurrences
}

func passThrough(reservation booking.Reservation) booking.Occurrence {
	return booking.Occurrence{
		ID:        reservation.ID,
		RoomID:    reservation.RoomID,
		Status:    reservation.Status,
		Date:      reservation.Date,
		StartTime: reservation.StartTime,
		EndTime:   reservation.EndTime,
	}
}
