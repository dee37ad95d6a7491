// Package booking defines the pure domain types shared by the recurrence and
// availability engines. Values here are snapshots: the engines never mutate
// them and never cache them between evaluations.
package booking

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/example/room-reservation/internal/calendar"
)

// Status describes the approval state of a reservation. Only approved
// reservations participate in conflict detection.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Blocks reports whether a reservation in this status occupies its room.
func (s Status) Blocks() bool {
	return s == StatusApproved
}

// Frequency names the supported recurrence cadences.
type Frequency string

const (
	FrequencyNone     Frequency = "none"
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// Flag is a boolean that tolerates the encodings the legacy data source emits
// for resource markers: JSON true/false, 0/1 numerics, and their string forms.
type Flag bool

// UnmarshalJSON normalizes truthy encodings to a canonical boolean.
func (f *Flag) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch string(trimmed) {
	case "true", "1", `"true"`, `"1"`:
		*f = true
		return nil
	case "false", "0", "null", `"false"`, `"0"`, `""`:
		*f = false
		return nil
	}
	if n, err := strconv.ParseFloat(string(trimmed), 64); err == nil {
		*f = n != 0
		return nil
	}
	return fmt.Errorf("booking: cannot decode %s as resource flag", trimmed)
}

// MarshalJSON renders the canonical boolean form.
func (f Flag) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatBool(bool(f))), nil
}

// ResourceFlags records the equipment a room offers, or a candidate requires.
type ResourceFlags struct {
	Projector       Flag `json:"projector"`
	Internet        Flag `json:"internet"`
	AirConditioning Flag `json:"air_conditioning"`
}

// Satisfies reports whether the room flags cover every required resource.
func (r ResourceFlags) Satisfies(required ResourceFlags) bool {
	if required.Projector && !r.Projector {
		return false
	}
	if required.Internet && !r.Internet {
		return false
	}
	if required.AirConditioning && !r.AirConditioning {
		return false
	}
	return true
}

// Room is a snapshot of a catalog entry.
type Room struct {
	ID                 string
	Name               string
	Capacity           int
	IsActive           bool
	IsFixedReservation bool
	Resources          ResourceFlags
}

// Reservation is a snapshot of a stored reservation as the engines consume
// it. Recurring entries carry a single start date plus recurrence fields and
// are expanded into Occurrences before conflict checks.
type Reservation struct {
	ID                string
	RoomID            string
	Status            Status
	Date              calendar.Date
	StartTime         calendar.Clock
	EndTime           calendar.Clock
	IsRecurring       bool
	RecurrenceType    Frequency
	RecurrenceEndDate *calendar.Date

	Title       string
	Description string
	PeopleCount int
	ProjectID   string
	RequestedBy string
}

// Occurrence is one concrete calendar instance derived from a reservation.
// It is a view, produced fresh on every expansion pass, never persisted.
type Occurrence struct {
	ID                    string
	RoomID                string
	Status                Status
	Date                  calendar.Date
	StartTime             calendar.Clock
	EndTime               calendar.Clock
	IsRecurrenceInstance  bool
	OriginalReservationID string
}

// Candidate is the tentative window a user is trying to book, rebuilt by the
// caller on every filter evaluation and never persisted.
type Candidate struct {
	Date              calendar.Date
	StartTime         calendar.Clock
	EndTime           calendar.Clock
	PeopleCount       int
	Description       string
	ProjectRequired   bool
	ProjectID         string
	IsRecurring       bool
	Frequency         Frequency
	RecurrenceEndDate *calendar.Date
	RequiredResources ResourceFlags
}

// Complete reports whether every field required to suggest rooms is present.
// An incomplete candidate is a policy short-circuit, not an error: the
// availability filter returns no rooms for it.
func (c Candidate) Complete() bool {
	if c.Date.IsZero() || c.StartTime.IsZero() || c.EndTime.IsZero() {
		return false
	}
	if c.PeopleCount <= 0 || c.Description == "" {
		return false
	}
	if c.ProjectRequired && c.ProjectID == "" {
		return false
	}
	if c.IsRecurring {
		if c.Frequency == "" || c.Frequency == FrequencyNone {
			return false
		}
		if c.RecurrenceEndDate == nil || c.RecurrenceEndDate.IsZero() {
			return false
		}
	}
	return true
}
