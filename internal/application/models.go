// Package application implements the use cases of the room reservation
// product: account and session management, the room and project catalogs,
// reservation intake and moderation, and availability queries. Services
// depend on repository interfaces declared here; the composition root wires
// them to the persistence layer.
package application

import (
	"context"
	"time"

	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/calendar"
)

// Role names the account profiles the product recognizes.
type Role string

const (
	RoleStudent     Role = "student"
	RoleProfessor   Role = "professor"
	RoleCoordinator Role = "coordinator"
	RoleAdmin       Role = "admin"
)

// Valid reports whether the role is one of the recognized profiles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleProfessor, RoleCoordinator, RoleAdmin:
		return true
	}
	return false
}

// CanModerate reports whether the role may approve or reject reservations.
func (r Role) CanModerate() bool {
	return r == RoleCoordinator || r == RoleAdmin
}

// CanManageCatalog reports whether the role may administer rooms, projects
// and accounts.
func (r Role) CanManageCatalog() bool {
	return r == RoleAdmin
}

// RequiresProject reports whether reservations made by this role must be
// booked under a project.
func (r Role) RequiresProject() bool {
	return r == RoleStudent
}

// Principal identifies the authenticated actor behind a request.
type Principal struct {
	UserID string
	Role   Role
}

// User is an account as the application layer sees it.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Project groups reservations under a named effort. Students must book under
// an active project.
type Project struct {
	ID        string
	Name      string
	OwnerID   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session is an issued authentication token.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// Reservation is a stored reservation together with its bookkeeping fields.
// The embedded snapshot is what the recurrence and availability engines
// consume.
type Reservation struct {
	booking.Reservation

	StartISO  string
	EndISO    string
	DecidedBy string
	DecidedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReservationQuery narrows a reservation listing.
type ReservationQuery struct {
	RoomID      string
	RequestedBy string
	Status      booking.Status
	DateFrom    calendar.Date
	DateTo      calendar.Date
}

// CreateUserParams carries the fields needed to register an account.
type CreateUserParams struct {
	Email       string
	DisplayName string
	Password    string
	Role        Role
}

// UpdateUserParams carries optional account changes. Nil fields are left
// untouched.
type UpdateUserParams struct {
	DisplayName *string
	Password    *string
	Role        *Role
}

// CreateRoomParams carries the fields needed to register a room.
type CreateRoomParams struct {
	Name               string
	Capacity           int
	IsActive           bool
	IsFixedReservation bool
	Resources          booking.ResourceFlags
}

// UpdateRoomParams carries optional room changes. Nil fields are left
// untouched.
type UpdateRoomParams struct {
	Name               *string
	Capacity           *int
	IsActive           *bool
	IsFixedReservation *bool
	Resources          *booking.ResourceFlags
}

// CreateProjectParams carries the fields needed to register a project.
type CreateProjectParams struct {
	Name    string
	OwnerID string
}

// CreateReservationParams carries a reservation request with its civil date
// and clock fields still in their wire form. The service parses them strictly
// and reports malformed values as field errors.
type CreateReservationParams struct {
	RoomID            string
	Title             string
	Description       string
	PeopleCount       int
	ProjectID         string
	Date              string
	StartTime         string
	EndTime           string
	IsRecurring       bool
	RecurrenceType    string
	RecurrenceEndDate string
}

// AvailabilityQuery describes the tentative window a user is trying to book.
// Civil fields arrive in wire form, mirroring CreateReservationParams.
type AvailabilityQuery struct {
	Date              string
	StartTime         string
	EndTime           string
	PeopleCount       int
	Description       string
	ProjectID         string
	IsRecurring       bool
	RecurrenceType    string
	RecurrenceEndDate string
	Resources         booking.ResourceFlags
}

// UserRepository stores accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, user User) error
	DeleteUser(ctx context.Context, id string) error
}

// RoomRepository stores the room catalog.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room booking.Room) error
	GetRoom(ctx context.Context, id string) (booking.Room, error)
	ListRooms(ctx context.Context) ([]booking.Room, error)
	UpdateRoom(ctx context.Context, room booking.Room) error
	DeleteRoom(ctx context.Context, id string) error
}

// ProjectRepository stores projects.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project Project) error
	GetProject(ctx context.Context, id string) (Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	UpdateProject(ctx context.Context, project Project) error
	DeleteProject(ctx context.Context, id string) error
}

// ReservationRepository stores reservations.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	ListReservations(ctx context.Context, query ReservationQuery) ([]Reservation, error)
	UpdateReservation(ctx context.Context, reservation Reservation) error
	DeleteReservation(ctx context.Context, id string) error
}

// SessionRepository stores authentication sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
