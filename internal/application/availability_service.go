package application

import (
	"context"
	"log/slog"

	"github.com/example/room-reservation/internal/availability"
	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/recurrence"
)

// AvailabilityService answers "which rooms could host this booking". Every
// query works on a fresh snapshot of the catalog and the approved
// reservations; results are never cached.
type AvailabilityService struct {
	rooms        RoomRepository
	reservations ReservationRepository
	logger       *slog.Logger
}

// NewAvailabilityService wires an AvailabilityService.
func NewAvailabilityService(rooms RoomRepository, reservations ReservationRepository, logger *slog.Logger) *AvailabilityService {
	return &AvailabilityService{
		rooms:        rooms,
		reservations: reservations,
		logger:       defaultLogger(logger),
	}
}

// AvailableRooms returns the rooms that could host the queried window.
// Malformed civil values are reported as field errors; a query that is
// merely incomplete returns an empty result without error, so interactive
// forms can probe as the user types.
func (s *AvailabilityService) AvailableRooms(ctx context.Context, principal Principal, query AvailabilityQuery) (result []booking.Room, err error) {
	logger := serviceLogger(ctx, s.logger, "availability", "AvailableRooms", "actor_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.Warn("availability query failed", "error_kind", ErrorKind(err))
			return
		}
		logger.Info("availability query served", "rooms", len(result))
	}()

	candidate, vErr := s.buildCandidate(principal, query)
	if vErr != nil {
		return nil, vErr
	}

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	approved, err := s.reservations.ListReservations(ctx, ReservationQuery{Status: booking.StatusApproved})
	if err != nil {
		return nil, err
	}

	snapshots := make([]booking.Reservation, 0, len(approved))
	for _, entry := range approved {
		snapshots = append(snapshots, entry.Reservation)
	}
	occurrences := recurrence.ExpandAll(snapshots)

	return availability.FilterAvailable(rooms, occurrences, candidate), nil
}

// buildCandidate translates the wire query into an engine candidate. Empty
// civil fields stay unset so the completeness gate can short-circuit; only
// present but malformed values are errors.
func (s *AvailabilityService) buildCandidate(principal Principal, query AvailabilityQuery) (booking.Candidate, *ValidationError) {
	vErr := &ValidationError{}
	candidate := booking.Candidate{
		PeopleCount:       query.PeopleCount,
		Description:       query.Description,
		ProjectRequired:   principal.Role.RequiresProject(),
		ProjectID:         query.ProjectID,
		IsRecurring:       query.IsRecurring,
		RequiredResources: query.Resources,
	}

	if query.Date != "" {
		candidate.Date = parseDateField(vErr, "date", query.Date)
	}
	if query.StartTime != "" {
		candidate.StartTime = parseClockField(vErr, "start_time", query.StartTime)
	}
	if query.EndTime != "" {
		candidate.EndTime = parseClockField(vErr, "end_time", query.EndTime)
	}
	if !candidate.StartTime.IsZero() && !candidate.EndTime.IsZero() && !candidate.StartTime.Before(candidate.EndTime) {
		vErr.add("end_time", "must be after start time")
	}

	if query.IsRecurring {
		if query.RecurrenceType != "" {
			candidate.Frequency = parseFrequencyField(vErr, "recurrence_type", query.RecurrenceType)
		}
		if query.RecurrenceEndDate != "" {
			endDate := parseDateField(vErr, "recurrence_end_date", query.RecurrenceEndDate)
			if !endDate.IsZero() {
				candidate.RecurrenceEndDate = &endDate
			}
		}
	}

	if vErr.HasErrors() {
		return booking.Candidate{}, vErr
	}
	return candidate, nil
}
