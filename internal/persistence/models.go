package persistence

import "time"

// Role names the account profiles the reservation product recognizes.
type Role string

const (
	RoleStudent     Role = "student"
	RoleProfessor   Role = "professor"
	RoleCoordinator Role = "coordinator"
	RoleAdmin       Role = "admin"
)

// User represents a stored account.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Room represents a room catalog entry. Resource flags are stored as
// integers for compatibility with the legacy schema and normalized to
// booleans at the repository boundary.
type Room struct {
	ID                 string
	Name               string
	Capacity           int
	IsActive           bool
	IsFixedReservation bool
	HasProjector       bool
	HasInternet        bool
	HasAirConditioning bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Project represents a project a reservation can be booked under.
type Project struct {
	ID        string
	Name      string
	OwnerID   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reservation represents a stored reservation row. Civil date and clock
// values are persisted as their string forms ("YYYY-MM-DD", "HH:MM")
// alongside composed ISO timestamps carrying the product's UTC offset, so
// rows stay unambiguous regardless of where they are read.
type Reservation struct {
	ID                string
	RoomID            string
	RequestedBy       string
	ProjectID         *string
	Title             string
	Description       string
	PeopleCount       int
	Status            string
	Date              string
	StartTime         string
	EndTime           string
	StartISO          string
	EndISO            string
	IsRecurring       bool
	RecurrenceType    string
	RecurrenceEndDate *string
	DecidedBy         *string
	DecidedAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Session represents an authentication session persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}
