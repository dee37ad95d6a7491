package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/calendar"
)

type memUserRepo struct {
	users map[string]User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: map[string]User{}} }

func (r *memUserRepo) CreateUser(_ context.Context, user User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return ErrAlreadyExists
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetUser(_ context.Context, id string) (User, error) {
	user, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *memUserRepo) ListUsers(_ context.Context) ([]User, error) {
	var out []User
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *memUserRepo) UpdateUser(_ context.Context, user User) error {
	if _, ok := r.users[user.ID]; !ok {
		return ErrNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) DeleteUser(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type memRoomRepo struct {
	rooms map[string]booking.Room
	order []string
}

func newMemRoomRepo() *memRoomRepo { return &memRoomRepo{rooms: map[string]booking.Room{}} }

func (r *memRoomRepo) CreateRoom(_ context.Context, room booking.Room) error {
	for _, existing := range r.rooms {
		if existing.Name == room.Name {
			return ErrAlreadyExists
		}
	}
	r.rooms[room.ID] = room
	r.order = append(r.order, room.ID)
	return nil
}

func (r *memRoomRepo) GetRoom(_ context.Context, id string) (booking.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return booking.Room{}, ErrNotFound
	}
	return room, nil
}

func (r *memRoomRepo) ListRooms(_ context.Context) ([]booking.Room, error) {
	out := make([]booking.Room, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rooms[id])
	}
	return out, nil
}

func (r *memRoomRepo) UpdateRoom(_ context.Context, room booking.Room) error {
	if _, ok := r.rooms[room.ID]; !ok {
		return ErrNotFound
	}
	r.rooms[room.ID] = room
	return nil
}

func (r *memRoomRepo) DeleteRoom(_ context.Context, id string) error {
	if _, ok := r.rooms[id]; !ok {
		return ErrNotFound
	}
	delete(r.rooms, id)
	return nil
}

type memProjectRepo struct {
	projects map[string]Project
}

func newMemProjectRepo() *memProjectRepo { return &memProjectRepo{projects: map[string]Project{}} }

func (r *memProjectRepo) CreateProject(_ context.Context, project Project) error {
	r.projects[project.ID] = project
	return nil
}

func (r *memProjectRepo) GetProject(_ context.Context, id string) (Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	return project, nil
}

func (r *memProjectRepo) ListProjects(_ context.Context) ([]Project, error) {
	var out []Project
	for _, project := range r.projects {
		out = append(out, project)
	}
	return out, nil
}

func (r *memProjectRepo) UpdateProject(_ context.Context, project Project) error {
	if _, ok := r.projects[project.ID]; !ok {
		return ErrNotFound
	}
	r.projects[project.ID] = project
	return nil
}

func (r *memProjectRepo) DeleteProject(_ context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

type memReservationRepo struct {
	reservations map[string]Reservation
	order        []string
}

func newMemReservationRepo() *memReservationRepo {
	return &memReservationRepo{reservations: map[string]Reservation{}}
}

func (r *memReservationRepo) CreateReservation(_ context.Context, reservation Reservation) error {
	r.reservations[reservation.ID] = reservation
	r.order = append(r.order, reservation.ID)
	return nil
}

func (r *memReservationRepo) GetReservation(_ context.Context, id string) (Reservation, error) {
	reservation, ok := r.reservations[id]
	if !ok {
		return Reservation{}, ErrNotFound
	}
	return reservation, nil
}

func (r *memReservationRepo) ListReservations(_ context.Context, query ReservationQuery) ([]Reservation, error) {
	var out []Reservation
	for _, id := range r.order {
		entry := r.reservations[id]
		if query.RoomID != "" && entry.RoomID != query.RoomID {
			continue
		}
		if query.RequestedBy != "" && entry.RequestedBy != query.RequestedBy {
			continue
		}
		if query.Status != "" && entry.Status != query.Status {
			continue
		}
		if !query.DateFrom.IsZero() && entry.Date.Before(query.DateFrom) {
			continue
		}
		if !query.DateTo.IsZero() && entry.Date.After(query.DateTo) {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func (r *memReservationRepo) UpdateReservation(_ context.Context, reservation Reservation) error {
	if _, ok := r.reservations[reservation.ID]; !ok {
		return ErrNotFound
	}
	r.reservations[reservation.ID] = reservation
	return nil
}

func (r *memReservationRepo) DeleteReservation(_ context.Context, id string) error {
	if _, ok := r.reservations[id]; !ok {
		return ErrNotFound
	}
	delete(r.reservations, id)
	return nil
}

type memSessionRepo struct {
	sessions map[string]Session
}

func newMemSessionRepo() *memSessionRepo { return &memSessionRepo{sessions: map[string]Session{}} }

func (r *memSessionRepo) CreateSession(_ context.Context, session Session) (Session, error) {
	r.sessions[session.Token] = session
	return session, nil
}

func (r *memSessionRepo) GetSession(_ context.Context, token string) (Session, error) {
	session, ok := r.sessions[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

func (r *memSessionRepo) RevokeSession(_ context.Context, token string, revokedAt time.Time) (Session, error) {
	session, ok := r.sessions[token]
	if !ok || session.RevokedAt != nil {
		return Session{}, ErrNotFound
	}
	session.RevokedAt = &revokedAt
	r.sessions[token] = session
	return session, nil
}

func (r *memSessionRepo) DeleteExpiredSessions(_ context.Context, reference time.Time) error {
	for token, session := range r.sessions {
		if session.ExpiresAt.Before(reference) {
			delete(r.sessions, token)
		}
	}
	return nil
}

// testClock is a controllable time source shared by the service under test
// and the calendar it reasons with.
type testClock struct {
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time         { return c.current }
func (c *testClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

type testEnv struct {
	clock        *testClock
	cal          calendar.Calendar
	users        *memUserRepo
	rooms        *memRoomRepo
	projects     *memProjectRepo
	reservations *memReservationRepo
	sessions     *memSessionRepo
}

func newTestEnv() *testEnv {
	clock := newTestClock()
	return &testEnv{
		clock:        clock,
		cal:          calendar.New(nil, "", clock.Now),
		users:        newMemUserRepo(),
		rooms:        newMemRoomRepo(),
		projects:     newMemProjectRepo(),
		reservations: newMemReservationRepo(),
		sessions:     newMemSessionRepo(),
	}
}

func (e *testEnv) seedRoom(id, name string, capacity int, fixed bool) booking.Room {
	room := booking.Room{
		ID:       id,
		Name:     name,
		Capacity: capacity,
		IsActive: true,
		Resources: booking.ResourceFlags{
			Projector: true,
			Internet:  true,
		},
		IsFixedReservation: fixed,
	}
	_ = e.rooms.CreateRoom(context.Background(), room)
	return room
}

func (e *testEnv) seedProject(id, name, ownerID string, active bool) Project {
	project := Project{ID: id, Name: name, OwnerID: ownerID, IsActive: active}
	_ = e.projects.CreateProject(context.Background(), project)
	return project
}

var (
	student     = Principal{UserID: "user-student", Role: RoleStudent}
	professor   = Principal{UserID: "user-professor", Role: RoleProfessor}
	coordinator = Principal{UserID: "user-coordinator", Role: RoleCoordinator}
	admin       = Principal{UserID: "user-admin", Role: RoleAdmin}
)

func TestUserServiceCreateUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	service := NewUserService(env.users, nil, env.clock.Now, sequentialIDs("user"))

	t.Run("requires admin", func(t *testing.T) {
		_, err := service.CreateUser(ctx, coordinator, CreateUserParams{})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("rejects malformed fields", func(t *testing.T) {
		_, err := service.CreateUser(ctx, admin, CreateUserParams{
			Email:    "not-an-email",
			Password: "short",
			Role:     Role("owner"),
		})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.FieldErrors, "email")
		assert.Contains(t, vErr.FieldErrors, "display_name")
		assert.Contains(t, vErr.FieldErrors, "password")
		assert.Contains(t, vErr.FieldErrors, "role")
	})

	t.Run("normalizes email and hashes password", func(t *testing.T) {
		user, err := service.CreateUser(ctx, admin, CreateUserParams{
			Email:       "  Maria@Example.EDU ",
			DisplayName: "Maria Silva",
			Password:    "correct horse",
			Role:        RoleProfessor,
		})
		require.NoError(t, err)
		assert.Equal(t, "maria@example.edu", user.Email)
		assert.NotEqual(t, "correct horse", user.PasswordHash)

		ok, err := VerifyPassword("correct horse", user.PasswordHash)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestAuthServiceLoginFlow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	hash, err := HashPassword("segredo123", DefaultArgon2idParams)
	require.NoError(t, err)
	require.NoError(t, env.users.CreateUser(ctx, User{
		ID:           "user-1",
		Email:        "ana@example.edu",
		DisplayName:  "Ana",
		Role:         RoleCoordinator,
		PasswordHash: hash,
	}))

	service := NewAuthService(env.users, env.sessions, nil, env.clock.Now, sequentialIDs("sess"), time.Hour)

	t.Run("wrong password and unknown account look identical", func(t *testing.T) {
		_, _, err := service.Login(ctx, "ana@example.edu", "errado")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, _, err = service.Login(ctx, "ninguem@example.edu", "segredo123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	session, user, err := service.Login(ctx, "Ana@Example.EDU", "segredo123")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.NotEmpty(t, session.Token)

	t.Run("token resolves to the principal", func(t *testing.T) {
		principal, err := service.Authenticate(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, Principal{UserID: "user-1", Role: RoleCoordinator}, principal)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		env.clock.Advance(2 * time.Hour)
		_, err := service.Authenticate(ctx, session.Token)
		assert.ErrorIs(t, err, ErrSessionExpired)
		env.clock.Advance(-2 * time.Hour)
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		require.NoError(t, service.Logout(ctx, session.Token))
		_, err := service.Authenticate(ctx, session.Token)
		assert.ErrorIs(t, err, ErrSessionRevoked)
	})
}

func TestReservationServiceCreate(t *testing.T) {
	ctx := context.Background()

	validParams := func(roomID string) CreateReservationParams {
		return CreateReservationParams{
			RoomID:      roomID,
			Title:       "Orientação",
			Description: "Reunião de orientação",
			PeopleCount: 5,
			Date:        "2024-06-03",
			StartTime:   "10:00",
			EndTime:     "11:00",
		}
	}

	t.Run("student needs an active project", func(t *testing.T) {
		env := newTestEnv()
		env.seedRoom("room-1", "A101", 20, false)
		service := NewReservationService(env.reservations, env.rooms, env.projects, nil, env.cal, sequentialIDs("res"))

		_, err := service.CreateReservation(ctx, student, validParams("room-1"))
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.FieldErrors, "project_id")

		env.seedProject("proj-1", "PIBIC", student.UserID, false)
		params := validParams("room-1")
		params.ProjectID = "proj-1"
		_, err = service.CreateReservation(ctx, student, params)
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "project is not active", vErr.FieldErrors["project_id"])

		env.seedProject("proj-2", "PIBIC ativo", student.UserID, true)
		params.ProjectID = "proj-2"
		reservation, err := service.CreateReservation(ctx, student, params)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, reservation.Status)
		assert.Equal(t, "2024-06-03T10:00:00-03:00", reservation.StartISO)
	})

	t.Run("rejects past dates", func(t *testing.T) {
		env := newTestEnv()
		env.seedRoom("room-1", "A101", 20, false)
		service := NewReservationService(env.reservations, env.rooms, env.projects, nil, env.cal, sequentialIDs("res"))

		params := validParams("room-1")
		params.Date = "2024-05-20"
		_, err := service.CreateReservation(ctx, professor, params)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.FieldErrors, "date")
	})

	t.Run("rejects recurring requests on fixed reservation rooms", func(t *testing.T) {
		env := newTestEnv()
		env.seedRoom("room-1", "Auditório", 100, true)
		service := NewReservationService(env.reservations, env.rooms, env.projects, nil, env.cal, sequentialIDs("res"))

		params := validParams("room-1")
		params.IsRecurring = true
		params.RecurrenceType = "weekly"
		params.RecurrenceEndDate = "2024-06-24"
		_, err := service.CreateReservation(ctx, professor, params)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.FieldErrors, "room_id")
	})

	t.Run("coordinator requests are approved on creation", func(t *testing.T) {
		env := newTestEnv()
		env.seedRoom("room-1", "A101", 20, false)
		service := NewReservationService(env.reservations, env.rooms, env.projects, nil, env.cal, sequentialIDs("res"))

		reservation, err := service.CreateReservation(ctx, coordinator, validParams("room-1"))
		require.NoError(t, err)
		assert.Equal(t, booking.StatusApproved, reservation.Status)
		assert.Equal(t, coordinator.UserID, reservation.DecidedBy)
		require.NotNil(t, reservation.DecidedAt)
	})

	t.Run("conflict with an approved weekly series", func(t *testing.T) {
		env := newTestEnv()
		env.seedRoom("room-1", "A101", 20, false)
		service := NewReservationService(env.reservations, env.rooms, env.projects, nil, env.cal, sequentialIDs("res"))

		series := validParams("room-1")
		series.IsRecurring = true
		series.RecurrenceType = "weekly"
		series.RecurrenceEndDate = "2024-06-24"
		_, err := service.CreateReservation(ctx, coordinator, series)
		require.NoError(t, err)

		overlapping := validParams("room-1")
		overlapping.Date = "2024-06-10"
		overlapping.StartTime = "10:30"
		overlapping.EndTime = "11:30"
		_, err = service.CreateReservation(ctx, professor, overlapping)
		assert.ErrorIs(t, err, ErrRoomConflict)

		touching := validParams("room-1")
		touching.Date = "2024-06-10"
		touching.StartTime = "11:00"
		touching.EndTime = "12:00"
		_, err = service.CreateReservation(ctx, professor, touching)
		assert.NoError(t, err)
	})
}

func TestReservationServiceModeration(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.seedRoom("room-1", "A101", 20, false)
	service := NewReservationService(env.reservations, env.rooms, env.projects, nil, env.cal, sequentialIDs("res"))

	params := CreateReservationParams{
		RoomID:      "room-1",
		Title:       "Defesa",
		Description: "Defesa de dissertação",
		PeopleCount: 10,
		Date:        "2024-06-05",
		StartTime:   "14:00",
		EndTime:     "16:00",
	}
	pending, err := service.CreateReservation(ctx, professor, params)
	require.NoError(t, err)
	require.Equal(t, booking.StatusPending, pending.Status)

	// Filed while the first request is still pending: pending requests never
	// block each other, only approved ones do.
	second, err := service.CreateReservation(ctx, professor, CreateReservationParams{
		RoomID:      "room-1",
		Title:       "Aula extra",
		Description: "Reposição",
		PeopleCount: 10,
		Date:        "2024-06-05",
		StartTime:   "15:00",
		EndTime:     "17:00",
	})
	require.NoError(t, err)

	t.Run("students cannot moderate", func(t *testing.T) {
		_, err := service.ApproveReservation(ctx, student, pending.ID)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("approval records the decision", func(t *testing.T) {
		approved, err := service.ApproveReservation(ctx, coordinator, pending.ID)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusApproved, approved.Status)
		assert.Equal(t, coordinator.UserID, approved.DecidedBy)
	})

	t.Run("double approval is an invalid transition", func(t *testing.T) {
		_, err := service.ApproveReservation(ctx, coordinator, pending.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("approval rechecks conflicts at decision time", func(t *testing.T) {
		_, err := service.ApproveReservation(ctx, coordinator, second.ID)
		assert.ErrorIs(t, err, ErrRoomConflict)
	})

	t.Run("owner can cancel an approved reservation", func(t *testing.T) {
		cancelled, err := service.CancelReservation(ctx, professor, pending.ID)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, cancelled.Status)

		_, err = service.CancelReservation(ctx, professor, pending.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestReservationServiceCreateAfterCancellation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.seedRoom("room-1", "A101", 20, false)
	service := NewReservationService(env.reservations, env.rooms, env.projects, nil, env.cal, sequentialIDs("res"))

	params := CreateReservationParams{
		RoomID:      "room-1",
		Title:       "Seminário",
		Description: "Seminário semanal",
		PeopleCount: 15,
		Date:        "2024-06-05",
		StartTime:   "10:00",
		EndTime:     "11:00",
	}
	first, err := service.CreateReservation(ctx, coordinator, params)
	require.NoError(t, err)

	_, err = service.CreateReservation(ctx, professor, params)
	require.ErrorIs(t, err, ErrRoomConflict)

	_, err = service.CancelReservation(ctx, coordinator, first.ID)
	require.NoError(t, err)

	_, err = service.CreateReservation(ctx, professor, params)
	assert.NoError(t, err)
}

func TestReservationServiceSweepStalePending(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.seedRoom("room-1", "A101", 20, false)
	env.seedRoom("room-2", "B201", 20, false)
	service := NewReservationService(env.reservations, env.rooms, env.projects, nil, env.cal, sequentialIDs("res"))

	stale, err := service.CreateReservation(ctx, professor, CreateReservationParams{
		RoomID:      "room-1",
		Title:       "Reunião",
		Description: "Reunião de planejamento",
		PeopleCount: 5,
		Date:        "2024-06-05",
		StartTime:   "10:00",
		EndTime:     "11:00",
	})
	require.NoError(t, err)

	upcoming, err := service.CreateReservation(ctx, professor, CreateReservationParams{
		RoomID:      "room-1",
		Title:       "Defesa",
		Description: "Defesa de dissertação",
		PeopleCount: 10,
		Date:        "2024-06-20",
		StartTime:   "14:00",
		EndTime:     "16:00",
	})
	require.NoError(t, err)

	recurring, err := service.CreateReservation(ctx, professor, CreateReservationParams{
		RoomID:            "room-2",
		Title:             "Monitoria",
		Description:       "Monitoria semanal",
		PeopleCount:       6,
		Date:              "2024-06-03",
		StartTime:         "08:00",
		EndTime:           "09:00",
		IsRecurring:       true,
		RecurrenceType:    "weekly",
		RecurrenceEndDate: "2024-06-17",
	})
	require.NoError(t, err)

	// Nine days later the single request of the 5th is dead, but the
	// recurring one still has days left until the 17th.
	env.clock.Advance(9 * 24 * time.Hour)
	require.NoError(t, service.SweepStalePending(ctx))

	got, err := service.GetReservation(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, got.Status)

	got, err = service.GetReservation(ctx, upcoming.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, got.Status)

	got, err = service.GetReservation(ctx, recurring.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, got.Status)

	// Past the recurrence end date it goes too.
	env.clock.Advance(9 * 24 * time.Hour)
	require.NoError(t, service.SweepStalePending(ctx))

	got, err = service.GetReservation(ctx, recurring.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, got.Status)
}

func TestReservationServiceListOccurrences(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.seedRoom("room-1", "A101", 20, false)
	service := NewReservationService(env.reservations, env.rooms, env.projects, nil, env.cal, sequentialIDs("res"))

	reservation, err := service.CreateReservation(ctx, coordinator, CreateReservationParams{
		RoomID:            "room-1",
		Title:             "Grupo de estudos",
		Description:       "Encontro semanal",
		PeopleCount:       8,
		Date:              "2024-06-03",
		StartTime:         "10:00",
		EndTime:           "11:00",
		IsRecurring:       true,
		RecurrenceType:    "weekly",
		RecurrenceEndDate: "2024-06-24",
	})
	require.NoError(t, err)

	occurrences, err := service.ListOccurrences(ctx, reservation.ID)
	require.NoError(t, err)
	require.Len(t, occurrences, 4)
	assert.Equal(t, reservation.ID+"_2024-06-03", occurrences[0].ID)
	assert.Equal(t, "2024-06-24", occurrences[3].Date.String())
	for _, occurrence := range occurrences {
		assert.True(t, occurrence.IsRecurrenceInstance)
		assert.Equal(t, reservation.ID, occurrence.OriginalReservationID)
	}
}

func TestAvailabilityServiceAvailableRooms(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.seedRoom("room-1", "A101", 20, false)
	env.seedRoom("room-2", "A102", 20, false)
	service := NewAvailabilityService(env.rooms, env.reservations, nil)
	reservations := NewReservationService(env.reservations, env.rooms, env.projects, nil, env.cal, sequentialIDs("res"))

	_, err := reservations.CreateReservation(ctx, coordinator, CreateReservationParams{
		RoomID:      "room-1",
		Title:       "Aula",
		Description: "Aula regular",
		PeopleCount: 10,
		Date:        "2024-06-03",
		StartTime:   "10:00",
		EndTime:     "12:00",
	})
	require.NoError(t, err)

	query := AvailabilityQuery{
		Date:        "2024-06-03",
		StartTime:   "11:00",
		EndTime:     "13:00",
		PeopleCount: 5,
		Description: "Monitoria",
	}

	t.Run("occupied room is excluded", func(t *testing.T) {
		rooms, err := service.AvailableRooms(ctx, professor, query)
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, "room-2", rooms[0].ID)
	})

	t.Run("incomplete query returns empty without error", func(t *testing.T) {
		partial := query
		partial.Description = ""
		rooms, err := service.AvailableRooms(ctx, professor, partial)
		require.NoError(t, err)
		assert.Empty(t, rooms)
	})

	t.Run("malformed date is a field error", func(t *testing.T) {
		bad := query
		bad.Date = "03/06/2024"
		_, err := service.AvailableRooms(ctx, professor, bad)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.FieldErrors, "date")
	})

	t.Run("students must name a project", func(t *testing.T) {
		rooms, err := service.AvailableRooms(ctx, student, query)
		require.NoError(t, err)
		assert.Empty(t, rooms)

		withProject := query
		withProject.ProjectID = "proj-1"
		rooms, err = service.AvailableRooms(ctx, student, withProject)
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, "room-2", rooms[0].ID)
	})
}
