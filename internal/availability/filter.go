package availability

import (
	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/calendar"
	"github.com/example/room-reservation/internal/recurrence"
)

// FilterAvailable returns the subset of rooms the candidate could book, in
// the same order the catalog was supplied. The filter is a pure function of
// its three snapshot inputs; it holds no state between calls and is safe to
// re-evaluate on every input change.
//
// Stages, each narrowing the previous result:
//  1. an incomplete candidate yields no rooms (policy, not an error)
//  2. inactive rooms are dropped
//  3. fixed-reservation rooms are dropped for recurring candidates
//  4. rooms missing a required resource are dropped
//  5. rooms with an approved conflict on any date the candidate would occupy
//     are dropped; for recurring candidates a single conflicting date
//     disqualifies the room for the whole series
func FilterAvailable(rooms []booking.Room, occurrences []booking.Occurrence, candidate booking.Candidate) []booking.Room {
	if !candidate.Complete() {
		return nil
	}

	days := candidateDays(candidate)
	if len(days) == 0 {
		return nil
	}

	available := make([]booking.Room, 0, len(rooms))
	for _, room := range rooms {
		if !room.IsActive {
			continue
		}
		if candidate.IsRecurring && room.IsFixedReservation {
			continue
		}
		if !room.Resources.Satisfies(candidate.RequiredResources) {
			continue
		}
		if conflictsOnAnyDay(room.ID, days, candidate, occurrences) {
			continue
		}
		available = append(available, room)
	}

	if len(available) == 0 {
		return nil
	}
	return available
}

// candidateDays lists every civil date the candidate window would occupy.
func candidateDays(candidate booking.Candidate) []calendar.Date {
	if !candidate.IsRecurring {
		return []calendar.Date{candidate.Date}
	}
	var end calendar.Date
	if candidate.RecurrenceEndDate != nil {
		end = *candidate.RecurrenceEndDate
	}
	return recurrence.GenerateDays(candidate.Date, candidate.Frequency, end)
}

func conflictsOnAnyDay(roomID string, days []calendar.Date, candidate booking.Candidate, occurrences []booking.Occurrence) bool {
	for _, day := range days {
		window := Window{Date: day, Start: candidate.StartTime, End: candidate.EndTime}
		if ConflictsWithRoom(window, roomID, occurrences) {
			return true
		}
	}
	return false
}
