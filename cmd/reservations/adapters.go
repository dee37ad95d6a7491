package main

import (
	"context"
	"errors"
	"time"

	"github.com/example/room-reservation/internal/application"
	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/calendar"
	"github.com/example/room-reservation/internal/persistence"
)

// translateErr maps persistence sentinels onto the application vocabulary so
// services never see storage-level errors.
func translateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return application.ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return application.ErrAlreadyExists
	default:
		return err
	}
}

type userRepositoryAdapter struct {
	repo persistence.UserRepository
}

func newUserRepositoryAdapter(repo persistence.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{repo: repo}
}

func (a *userRepositoryAdapter) CreateUser(ctx context.Context, user application.User) error {
	return translateErr(a.repo.CreateUser(ctx, toPersistenceUser(user)))
}

func (a *userRepositoryAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, translateErr(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) GetUserByEmail(ctx context.Context, email string) (application.User, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.User{}, translateErr(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) ListUsers(ctx context.Context) ([]application.User, error) {
	models, err := a.repo.ListUsers(ctx)
	if err != nil {
		return nil, translateErr(err)
	}
	users := make([]application.User, 0, len(models))
	for _, model := range models {
		users = append(users, toApplicationUser(model))
	}
	return users, nil
}

func (a *userRepositoryAdapter) UpdateUser(ctx context.Context, user application.User) error {
	return translateErr(a.repo.UpdateUser(ctx, toPersistenceUser(user)))
}

func (a *userRepositoryAdapter) DeleteUser(ctx context.Context, id string) error {
	return translateErr(a.repo.DeleteUser(ctx, id))
}

// roomRepositoryAdapter stamps row timestamps itself since the catalog
// snapshot the services exchange carries none.
type roomRepositoryAdapter struct {
	repo persistence.RoomRepository
	now  func() time.Time
}

func newRoomRepositoryAdapter(repo persistence.RoomRepository, now func() time.Time) *roomRepositoryAdapter {
	if now == nil {
		now = time.Now
	}
	return &roomRepositoryAdapter{repo: repo, now: now}
}

func (a *roomRepositoryAdapter) CreateRoom(ctx context.Context, room booking.Room) error {
	row := toPersistenceRoom(room)
	row.CreatedAt = a.now().UTC()
	row.UpdatedAt = row.CreatedAt
	return translateErr(a.repo.CreateRoom(ctx, row))
}

func (a *roomRepositoryAdapter) GetRoom(ctx context.Context, id string) (booking.Room, error) {
	stored, err := a.repo.GetRoom(ctx, id)
	if err != nil {
		return booking.Room{}, translateErr(err)
	}
	return toBookingRoom(stored), nil
}

func (a *roomRepositoryAdapter) ListRooms(ctx context.Context) ([]booking.Room, error) {
	models, err := a.repo.ListRooms(ctx)
	if err != nil {
		return nil, translateErr(err)
	}
	rooms := make([]booking.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, toBookingRoom(model))
	}
	return rooms, nil
}

func (a *roomRepositoryAdapter) UpdateRoom(ctx context.Context, room booking.Room) error {
	current, err := a.repo.GetRoom(ctx, room.ID)
	if err != nil {
		return translateErr(err)
	}
	row := toPersistenceRoom(room)
	row.CreatedAt = current.CreatedAt
	row.UpdatedAt = a.now().UTC()
	return translateErr(a.repo.UpdateRoom(ctx, row))
}

func (a *roomRepositoryAdapter) DeleteRoom(ctx context.Context, id string) error {
	return translateErr(a.repo.DeleteRoom(ctx, id))
}

type projectRepositoryAdapter struct {
	repo persistence.ProjectRepository
}

func newProjectRepositoryAdapter(repo persistence.ProjectRepository) *projectRepositoryAdapter {
	return &projectRepositoryAdapter{repo: repo}
}

func (a *projectRepositoryAdapter) CreateProject(ctx context.Context, project application.Project) error {
	return translateErr(a.repo.CreateProject(ctx, toPersistenceProject(project)))
}

func (a *projectRepositoryAdapter) GetProject(ctx context.Context, id string) (application.Project, error) {
	stored, err := a.repo.GetProject(ctx, id)
	if err != nil {
		return application.Project{}, translateErr(err)
	}
	return toApplicationProject(stored), nil
}

func (a *projectRepositoryAdapter) ListProjects(ctx context.Context) ([]application.Project, error) {
	models, err := a.repo.ListProjects(ctx)
	if err != nil {
		return nil, translateErr(err)
	}
	projects := make([]application.Project, 0, len(models))
	for _, model := range models {
		projects = append(projects, toApplicationProject(model))
	}
	return projects, nil
}

func (a *projectRepositoryAdapter) UpdateProject(ctx context.Context, project application.Project) error {
	return translateErr(a.repo.UpdateProject(ctx, toPersistenceProject(project)))
}

func (a *projectRepositoryAdapter) DeleteProject(ctx context.Context, id string) error {
	return translateErr(a.repo.DeleteProject(ctx, id))
}

type reservationRepositoryAdapter struct {
	repo persistence.ReservationRepository
}

func newReservationRepositoryAdapter(repo persistence.ReservationRepository) *reservationRepositoryAdapter {
	return &reservationRepositoryAdapter{repo: repo}
}

func (a *reservationRepositoryAdapter) CreateReservation(ctx context.Context, reservation application.Reservation) error {
	return translateErr(a.repo.CreateReservation(ctx, toPersistenceReservation(reservation)))
}

func (a *reservationRepositoryAdapter) GetReservation(ctx context.Context, id string) (application.Reservation, error) {
	stored, err := a.repo.GetReservation(ctx, id)
	if err != nil {
		return application.Reservation{}, translateErr(err)
	}
	return toApplicationReservation(stored)
}

func (a *reservationRepositoryAdapter) ListReservations(ctx context.Context, query application.ReservationQuery) ([]application.Reservation, error) {
	filter := persistence.ReservationFilter{
		RoomID:      query.RoomID,
		RequestedBy: query.RequestedBy,
		Status:      string(query.Status),
	}
	if !query.DateFrom.IsZero() {
		filter.DateFrom = query.DateFrom.String()
	}
	if !query.DateTo.IsZero() {
		filter.DateTo = query.DateTo.String()
	}

	models, err := a.repo.ListReservations(ctx, filter)
	if err != nil {
		return nil, translateErr(err)
	}
	reservations := make([]application.Reservation, 0, len(models))
	for _, model := range models {
		reservation, err := toApplicationReservation(model)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	return reservations, nil
}

func (a *reservationRepositoryAdapter) UpdateReservation(ctx context.Context, reservation application.Reservation) error {
	return translateErr(a.repo.UpdateReservation(ctx, toPersistenceReservation(reservation)))
}

func (a *reservationRepositoryAdapter) DeleteReservation(ctx context.Context, id string) error {
	return translateErr(a.repo.DeleteReservation(ctx, id))
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, translateErr(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, translateErr(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, translateErr(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return translateErr(a.repo.DeleteExpiredSessions(ctx, reference))
}

func toApplicationUser(model persistence.User) application.User {
	return application.User{
		ID:           model.ID,
		Email:        model.Email,
		DisplayName:  model.DisplayName,
		Role:         application.Role(model.Role),
		PasswordHash: model.PasswordHash,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func toPersistenceUser(user application.User) persistence.User {
	return persistence.User{
		ID:           user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		Role:         persistence.Role(user.Role),
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func toBookingRoom(model persistence.Room) booking.Room {
	return booking.Room{
		ID:                 model.ID,
		Name:               model.Name,
		Capacity:           model.Capacity,
		IsActive:           model.IsActive,
		IsFixedReservation: model.IsFixedReservation,
		Resources: booking.ResourceFlags{
			Projector:       booking.Flag(model.HasProjector),
			Internet:        booking.Flag(model.HasInternet),
			AirConditioning: booking.Flag(model.HasAirConditioning),
		},
	}
}

func toPersistenceRoom(room booking.Room) persistence.Room {
	return persistence.Room{
		ID:                 room.ID,
		Name:               room.Name,
		Capacity:           room.Capacity,
		IsActive:           room.IsActive,
		IsFixedReservation: room.IsFixedReservation,
		HasProjector:       bool(room.Resources.Projector),
		HasInternet:        bool(room.Resources.Internet),
		HasAirConditioning: bool(room.Resources.AirConditioning),
	}
}

func toApplicationProject(model persistence.Project) application.Project {
	return application.Project{
		ID:        model.ID,
		Name:      model.Name,
		OwnerID:   model.OwnerID,
		IsActive:  model.IsActive,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceProject(project application.Project) persistence.Project {
	return persistence.Project{
		ID:        project.ID,
		Name:      project.Name,
		OwnerID:   project.OwnerID,
		IsActive:  project.IsActive,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
}

func toApplicationReservation(model persistence.Reservation) (application.Reservation, error) {
	date, err := calendar.ParseDate(model.Date)
	if err != nil {
		return application.Reservation{}, err
	}
	start, err := calendar.ParseClock(model.StartTime)
	if err != nil {
		return application.Reservation{}, err
	}
	end, err := calendar.ParseClock(model.EndTime)
	if err != nil {
		return application.Reservation{}, err
	}

	reservation := application.Reservation{
		Reservation: booking.Reservation{
			ID:             model.ID,
			RoomID:         model.RoomID,
			Status:         booking.Status(model.Status),
			Date:           date,
			StartTime:      start,
			EndTime:        end,
			IsRecurring:    model.IsRecurring,
			RecurrenceType: booking.Frequency(model.RecurrenceType),
			Title:          model.Title,
			Description:    model.Description,
			PeopleCount:    model.PeopleCount,
			RequestedBy:    model.RequestedBy,
		},
		StartISO:  model.StartISO,
		EndISO:    model.EndISO,
		DecidedAt: model.DecidedAt,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if model.ProjectID != nil {
		reservation.ProjectID = *model.ProjectID
	}
	if model.RecurrenceEndDate != nil {
		endDate, err := calendar.ParseDate(*model.RecurrenceEndDate)
		if err != nil {
			return application.Reservation{}, err
		}
		reservation.RecurrenceEndDate = &endDate
	}
	if model.DecidedBy != nil {
		reservation.DecidedBy = *model.DecidedBy
	}
	return reservation, nil
}

func toPersistenceReservation(reservation application.Reservation) persistence.Reservation {
	row := persistence.Reservation{
		ID:             reservation.ID,
		RoomID:         reservation.RoomID,
		RequestedBy:    reservation.RequestedBy,
		Title:          reservation.Title,
		Description:    reservation.Description,
		PeopleCount:    reservation.PeopleCount,
		Status:         string(reservation.Status),
		Date:           reservation.Date.String(),
		StartTime:      reservation.StartTime.String(),
		EndTime:        reservation.EndTime.String(),
		StartISO:       reservation.StartISO,
		EndISO:         reservation.EndISO,
		IsRecurring:    reservation.IsRecurring,
		RecurrenceType: string(reservation.RecurrenceType),
		DecidedAt:      reservation.DecidedAt,
		CreatedAt:      reservation.CreatedAt,
		UpdatedAt:      reservation.UpdatedAt,
	}
	if reservation.ProjectID != "" {
		projectID := reservation.ProjectID
		row.ProjectID = &projectID
	}
	if reservation.RecurrenceEndDate != nil {
		endDate := reservation.RecurrenceEndDate.String()
		row.RecurrenceEndDate = &endDate
	}
	if reservation.DecidedBy != "" {
		decidedBy := reservation.DecidedBy
		row.DecidedBy = &decidedBy
	}
	return row
}

func toApplicationSession(model persistence.Session) application.Session {
	return application.Session{
		ID:        model.ID,
		UserID:    model.UserID,
		Token:     model.Token,
		ExpiresAt: model.ExpiresAt,
		CreatedAt: model.CreatedAt,
		RevokedAt: model.RevokedAt,
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:        session.ID,
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.CreatedAt,
		RevokedAt: session.RevokedAt,
	}
}
