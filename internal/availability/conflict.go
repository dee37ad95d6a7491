// Package availability implements the pure room-availability engine: interval
// conflict detection against an expanded occurrence snapshot, and the
// candidate filter that narrows the room catalog down to bookable rooms.
package availability

import (
	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/calendar"
)

// Window is a candidate time-of-day range on a single civil date.
type Window struct {
	Date  calendar.Date
	Start calendar.Clock
	End   calendar.Clock
}

// Overlaps reports whether two half-open [start, end) time ranges intersect.
// Back-to-back ranges touching at a boundary do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd calendar.Clock) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ConflictsWithRoom reports whether any occurrence blocks the candidate
// window in the given room. An occurrence blocks only when it belongs to the
// room, carries an approved status, falls on the same civil date, and its
// time range overlaps the window.
func ConflictsWithRoom(window Window, roomID string, occurrences []booking.Occurrence) bool {
	for _, occ := range occurrences {
		if occ.RoomID != roomID {
			continue
		}
		if !occ.Status.Blocks() {
			continue
		}
		if !occ.Date.Equal(window.Date) {
			continue
		}
		if Overlaps(window.Start, window.End, occ.StartTime, occ.EndTime) {
			return true
		}
	}
	return false
}
