package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/example/room-reservation/internal/availability"
	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/calendar"
	"github.com/example/room-reservation/internal/recurrence"
)

// ReservationService handles reservation intake, moderation and expansion.
// Conflict checks always run against a fresh snapshot of the approved
// reservations for the room; nothing is cached between calls.
type ReservationService struct {
	reservations ReservationRepository
	rooms        RoomRepository
	projects     ProjectRepository
	logger       *slog.Logger
	cal          calendar.Calendar
	idGenerator  func() string
}

// NewReservationService wires a ReservationService.
func NewReservationService(reservations ReservationRepository, rooms RoomRepository, projects ProjectRepository, logger *slog.Logger, cal calendar.Calendar, idGenerator func() string) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		rooms:        rooms,
		projects:     projects,
		logger:       defaultLogger(logger),
		cal:          cal,
		idGenerator:  idGenerator,
	}
}

// CreateReservation validates and stores a reservation request. Requests by
// coordinators and admins are approved on the spot; everyone else starts in
// pending. A request that would collide with an approved reservation on any
// of its days is rejected outright.
func (s *ReservationService) CreateReservation(ctx context.Context, principal Principal, params CreateReservationParams) (reservation Reservation, err error) {
	logger := serviceLogger(ctx, s.logger, "reservation", "CreateReservation", "actor_id", principal.UserID, "room_id", params.RoomID)
	defer func() {
		if err != nil {
			logger.Warn("create reservation failed", "error_kind", ErrorKind(err))
			return
		}
		logger.Info("reservation created", "reservation_id", reservation.ID, "status", string(reservation.Status))
	}()

	vErr := &ValidationError{}

	var room booking.Room
	if params.RoomID == "" {
		vErr.add("room_id", "must not be empty")
	} else {
		room, err = s.rooms.GetRoom(ctx, params.RoomID)
		if errors.Is(err, ErrNotFound) {
			vErr.add("room_id", "unknown room")
			err = nil
		} else if err != nil {
			return Reservation{}, err
		} else if !room.IsActive {
			vErr.add("room_id", "room is not active")
		}
	}

	if strings.TrimSpace(params.Title) == "" {
		vErr.add("title", "must not be empty")
	}
	if strings.TrimSpace(params.Description) == "" {
		vErr.add("description", "must not be empty")
	}
	if params.PeopleCount <= 0 {
		vErr.add("people_count", "must be greater than zero")
	} else if room.ID != "" && params.PeopleCount > room.Capacity {
		vErr.add("people_count", "exceeds room capacity")
	}

	date := parseDateField(vErr, "date", params.Date)
	start := parseClockField(vErr, "start_time", params.StartTime)
	end := parseClockField(vErr, "end_time", params.EndTime)
	if !start.IsZero() && !end.IsZero() && !start.Before(end) {
		vErr.add("end_time", "must be after start time")
	}
	if !date.IsZero() && s.cal.IsPast(date) {
		vErr.add("date", "must not be in the past")
	}

	freq := booking.FrequencyNone
	var recurrenceEnd *calendar.Date
	if params.IsRecurring {
		freq = parseFrequencyField(vErr, "recurrence_type", params.RecurrenceType)
		if params.RecurrenceEndDate == "" {
			vErr.add("recurrence_end_date", "required for recurring reservations")
		} else {
			endDate := parseDateField(vErr, "recurrence_end_date", params.RecurrenceEndDate)
			if !endDate.IsZero() {
				if !date.IsZero() && endDate.Before(date) {
					vErr.add("recurrence_end_date", "must not be before the start date")
				}
				recurrenceEnd = &endDate
			}
		}
		if room.ID != "" && room.IsFixedReservation {
			vErr.add("room_id", "fixed reservation rooms do not accept recurring reservations")
		}
	}

	if params.ProjectID != "" {
		message, prjErr := s.checkProject(ctx, params.ProjectID)
		if prjErr != nil {
			return Reservation{}, prjErr
		}
		if message != "" {
			vErr.add("project_id", message)
		}
	} else if principal.Role.RequiresProject() {
		vErr.add("project_id", "required for student reservations")
	}

	if vErr.HasErrors() {
		return Reservation{}, vErr
	}

	conflict, err := s.hasConflict(ctx, room.ID, date, start, end, params.IsRecurring, freq, recurrenceEnd, "")
	if err != nil {
		return Reservation{}, err
	}
	if conflict {
		return Reservation{}, ErrRoomConflict
	}

	startISO, err := s.cal.ComposeISO(date, start)
	if err != nil {
		return Reservation{}, err
	}
	endISO, err := s.cal.ComposeISO(date, end)
	if err != nil {
		return Reservation{}, err
	}

	now := s.cal.Now().UTC()
	reservation = Reservation{
		Reservation: booking.Reservation{
			ID:                s.idGenerator(),
			RoomID:            room.ID,
			Status:            booking.StatusPending,
			Date:              date,
			StartTime:         start,
			EndTime:           end,
			IsRecurring:       params.IsRecurring,
			RecurrenceType:    freq,
			RecurrenceEndDate: recurrenceEnd,
			Title:             strings.TrimSpace(params.Title),
			Description:       strings.TrimSpace(params.Description),
			PeopleCount:       params.PeopleCount,
			ProjectID:         params.ProjectID,
			RequestedBy:       principal.UserID,
		},
		StartISO:  startISO,
		EndISO:    endISO,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if principal.Role.CanModerate() {
		reservation.Status = booking.StatusApproved
		reservation.DecidedBy = principal.UserID
		reservation.DecidedAt = &now
	}

	if err = s.reservations.CreateReservation(ctx, reservation); err != nil {
		return Reservation{}, err
	}
	return reservation, nil
}

// ApproveReservation moves a pending reservation to approved. The conflict
// check runs again at decision time: the snapshot may have changed since the
// request was filed.
func (s *ReservationService) ApproveReservation(ctx context.Context, principal Principal, id string) (reservation Reservation, err error) {
	logger := serviceLogger(ctx, s.logger, "reservation", "ApproveReservation", "actor_id", principal.UserID, "reservation_id", id)
	defer func() {
		if err != nil {
			logger.Warn("approve reservation failed", "error_kind", ErrorKind(err))
			return
		}
		logger.Info("reservation approved")
	}()

	if !principal.Role.CanModerate() {
		return Reservation{}, ErrUnauthorized
	}

	reservation, err = s.reservations.GetReservation(ctx, id)
	if err != nil {
		return Reservation{}, err
	}
	if reservation.Status != booking.StatusPending {
		return Reservation{}, ErrInvalidTransition
	}

	conflict, err := s.hasConflict(ctx, reservation.RoomID, reservation.Date, reservation.StartTime, reservation.EndTime,
		reservation.IsRecurring, reservation.RecurrenceType, reservation.RecurrenceEndDate, reservation.ID)
	if err != nil {
		return Reservation{}, err
	}
	if conflict {
		return Reservation{}, ErrRoomConflict
	}

	now := s.cal.Now().UTC()
	reservation.Status = booking.StatusApproved
	reservation.DecidedBy = principal.UserID
	reservation.DecidedAt = &now
	reservation.UpdatedAt = now
	if err = s.reservations.UpdateReservation(ctx, reservation); err != nil {
		return Reservation{}, err
	}
	return reservation, nil
}

// RejectReservation moves a pending reservation to rejected.
func (s *ReservationService) RejectReservation(ctx context.Context, principal Principal, id string) (reservation Reservation, err error) {
	logger := serviceLogger(ctx, s.logger, "reservation", "RejectReservation", "actor_id", principal.UserID, "reservation_id", id)
	defer func() {
		if err != nil {
			logger.Warn("reject reservation failed", "error_kind", ErrorKind(err))
			return
		}
		logger.Info("reservation rejected")
	}()

	if !principal.Role.CanModerate() {
		return Reservation{}, ErrUnauthorized
	}

	reservation, err = s.reservations.GetReservation(ctx, id)
	if err != nil {
		return Reservation{}, err
	}
	if reservation.Status != booking.StatusPending {
		return Reservation{}, ErrInvalidTransition
	}

	now := s.cal.Now().UTC()
	reservation.Status = booking.StatusRejected
	reservation.DecidedBy = principal.UserID
	reservation.DecidedAt = &now
	reservation.UpdatedAt = now
	if err = s.reservations.UpdateReservation(ctx, reservation); err != nil {
		return Reservation{}, err
	}
	return reservation, nil
}

// CancelReservation cancels a pending or approved reservation. The requester
// may cancel their own reservation; moderators may cancel any.
func (s *ReservationService) CancelReservation(ctx context.Context, principal Principal, id string) (reservation Reservation, err error) {
	logger := serviceLogger(ctx, s.logger, "reservation", "CancelReservation", "actor_id", principal.UserID, "reservation_id", id)
	defer func() {
		if err != nil {
			logger.Warn("cancel reservation failed", "error_kind", ErrorKind(err))
			return
		}
		logger.Info("reservation cancelled")
	}()

	reservation, err = s.reservations.GetReservation(ctx, id)
	if err != nil {
		return Reservation{}, err
	}
	if reservation.RequestedBy != principal.UserID && !principal.Role.CanModerate() {
		return Reservation{}, ErrUnauthorized
	}
	if reservation.Status != booking.StatusPending && reservation.Status != booking.StatusApproved {
		return Reservation{}, ErrInvalidTransition
	}

	reservation.Status = booking.StatusCancelled
	reservation.UpdatedAt = s.cal.Now().UTC()
	if err = s.reservations.UpdateReservation(ctx, reservation); err != nil {
		return Reservation{}, err
	}
	return reservation, nil
}

// GetReservation returns a reservation by id.
func (s *ReservationService) GetReservation(ctx context.Context, id string) (Reservation, error) {
	return s.reservations.GetReservation(ctx, id)
}

// ListReservations returns reservations matching the query, ordered by date
// then start time.
func (s *ReservationService) ListReservations(ctx context.Context, query ReservationQuery) ([]Reservation, error) {
	return s.reservations.ListReservations(ctx, query)
}

// ListOccurrences expands a stored reservation into its concrete calendar
// instances.
func (s *ReservationService) ListOccurrences(ctx context.Context, id string) ([]booking.Occurrence, error) {
	reservation, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	return recurrence.ExpandOccurrences(reservation.Reservation), nil
}

// SweepStalePending cancels pending requests whose last possible day has
// already passed. A request nobody decided before its own date can never be
// honored, so moderation queues stay free of dead entries.
func (s *ReservationService) SweepStalePending(ctx context.Context) error {
	logger := serviceLogger(ctx, s.logger, "reservation", "SweepStalePending")

	pending, err := s.reservations.ListReservations(ctx, ReservationQuery{Status: booking.StatusPending})
	if err != nil {
		logger.Error("stale pending sweep failed", "error", err)
		return err
	}

	swept := 0
	for _, reservation := range pending {
		lastDay := reservation.Date
		if reservation.IsRecurring && reservation.RecurrenceEndDate != nil {
			lastDay = *reservation.RecurrenceEndDate
		}
		if !s.cal.IsPast(lastDay) {
			continue
		}
		reservation.Status = booking.StatusCancelled
		reservation.UpdatedAt = s.cal.Now().UTC()
		if err := s.reservations.UpdateReservation(ctx, reservation); err != nil {
			logger.Error("stale pending sweep failed", "reservation_id", reservation.ID, "error", err)
			return err
		}
		swept++
	}

	logger.Info("stale pending sweep completed", "swept", swept)
	return nil
}

// hasConflict reports whether the window collides with any approved
// occurrence in the room. excludeID removes the reservation's own
// occurrences from the snapshot when re-checking at approval time.
func (s *ReservationService) hasConflict(ctx context.Context, roomID string, date calendar.Date, start, end calendar.Clock, recurring bool, freq booking.Frequency, recurrenceEnd *calendar.Date, excludeID string) (bool, error) {
	approved, err := s.reservations.ListReservations(ctx, ReservationQuery{
		RoomID: roomID,
		Status: booking.StatusApproved,
	})
	if err != nil {
		return false, err
	}

	snapshots := make([]booking.Reservation, 0, len(approved))
	for _, entry := range approved {
		if excludeID != "" && entry.ID == excludeID {
			continue
		}
		snapshots = append(snapshots, entry.Reservation)
	}
	occurrences := recurrence.ExpandAll(snapshots)

	days := []calendar.Date{date}
	if recurring && recurrenceEnd != nil {
		days = recurrence.GenerateDays(date, freq, *recurrenceEnd)
	}
	for _, day := range days {
		window := availability.Window{Date: day, Start: start, End: end}
		if availability.ConflictsWithRoom(window, roomID, occurrences) {
			return true, nil
		}
	}
	return false, nil
}

// checkProject returns a field level message when the project is unusable,
// or an error for repository failures.
func (s *ReservationService) checkProject(ctx context.Context, id string) (string, error) {
	project, err := s.projects.GetProject(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return "unknown project", nil
	}
	if err != nil {
		return "", err
	}
	if !project.IsActive {
		return "project is not active", nil
	}
	return "", nil
}

func parseDateField(vErr *ValidationError, field, value string) calendar.Date {
	if value == "" {
		vErr.add(field, "must not be empty")
		return calendar.Date{}
	}
	d, err := calendar.ParseDate(value)
	if err != nil {
		vErr.add(field, "must be a date in YYYY-MM-DD form")
		return calendar.Date{}
	}
	return d
}

func parseClockField(vErr *ValidationError, field, value string) calendar.Clock {
	if value == "" {
		vErr.add(field, "must not be empty")
		return calendar.Clock{}
	}
	c, err := calendar.ParseClock(value)
	if err != nil {
		vErr.add(field, "must be a time in HH:MM form")
		return calendar.Clock{}
	}
	return c
}

func parseFrequencyField(vErr *ValidationError, field, value string) booking.Frequency {
	switch booking.Frequency(value) {
	case booking.FrequencyDaily, booking.FrequencyWeekly, booking.FrequencyBiweekly, booking.FrequencyMonthly:
		return booking.Frequency(value)
	}
	vErr.add(field, "must be one of daily, weekly, biweekly, monthly")
	return booking.FrequencyNone
}
