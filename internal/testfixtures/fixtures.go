// Package testfixtures provides deterministic clocks, identifier generators
// and record builders shared by tests across the repository.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/calendar"
	"github.com/example/room-reservation/internal/persistence"
)

var (
	userCounter        uint64
	roomCounter        uint64
	projectCounter     uint64
	reservationCounter uint64
	sessionCounter     uint64
)

var referenceTime = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
// In the product timezone it falls on the civil date 2024-06-01.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceCalendar returns a calendar pinned to ReferenceTime.
func ReferenceCalendar() calendar.Calendar {
	return calendar.New(nil, "", ReferenceTime)
}

// ----------------------------- User fixtures -----------------------------

// UserFixture is a deterministic account record.
type UserFixture struct {
	ID           string
	Email        string
	DisplayName  string
	Role         persistence.Role
	PasswordHash string
}

// NewUserFixture produces a user fixture with generated identifiers. Override
// functions may mutate the fixture before it is returned.
func NewUserFixture(overrides ...func(*UserFixture)) UserFixture {
	n := atomic.AddUint64(&userCounter, 1)
	fixture := UserFixture{
		ID:           fmt.Sprintf("user-%d", n),
		Email:        fmt.Sprintf("user%d@example.edu", n),
		DisplayName:  fmt.Sprintf("Usuário %d", n),
		Role:         persistence.RoleProfessor,
		PasswordHash: "fixture-hash",
	}
	for _, override := range overrides {
		override(&fixture)
	}
	return fixture
}

// Persistence materialises the fixture as a stored row.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:           f.ID,
		Email:        f.Email,
		DisplayName:  f.DisplayName,
		Role:         f.Role,
		PasswordHash: f.PasswordHash,
		CreatedAt:    ReferenceTime(),
		UpdatedAt:    ReferenceTime(),
	}
}

// ----------------------------- Room fixtures -----------------------------

// RoomFixture is a deterministic room catalog record.
type RoomFixture struct {
	ID                 string
	Name               string
	Capacity           int
	IsActive           bool
	IsFixedReservation bool
	HasProjector       bool
	HasInternet        bool
	HasAirConditioning bool
}

// NewRoomFixture produces an active room with a projector and internet.
func NewRoomFixture(overrides ...func(*RoomFixture)) RoomFixture {
	n := atomic.AddUint64(&roomCounter, 1)
	fixture := RoomFixture{
		ID:           fmt.Sprintf("room-%d", n),
		Name:         fmt.Sprintf("Sala %d", n),
		Capacity:     20,
		IsActive:     true,
		HasProjector: true,
		HasInternet:  true,
	}
	for _, override := range overrides {
		override(&fixture)
	}
	return fixture
}

// Booking materialises the fixture as an engine snapshot.
func (f RoomFixture) Booking() booking.Room {
	return booking.Room{
		ID:                 f.ID,
		Name:               f.Name,
		Capacity:           f.Capacity,
		IsActive:           f.IsActive,
		IsFixedReservation: f.IsFixedReservation,
		Resources: booking.ResourceFlags{
			Projector:       booking.Flag(f.HasProjector),
			Internet:        booking.Flag(f.HasInternet),
			AirConditioning: booking.Flag(f.HasAirConditioning),
		},
	}
}

// Persistence materialises the fixture as a stored row.
func (f RoomFixture) Persistence() persistence.Room {
	return persistence.Room{
		ID:                 f.ID,
		Name:               f.Name,
		Capacity:           f.Capacity,
		IsActive:           f.IsActive,
		IsFixedReservation: f.IsFixedReservation,
		HasProjector:       f.HasProjector,
		HasInternet:        f.HasInternet,
		HasAirConditioning: f.HasAirConditioning,
		CreatedAt:          ReferenceTime(),
		UpdatedAt:          ReferenceTime(),
	}
}

// ---------------------------- Project fixtures ----------------------------

// ProjectFixture is a deterministic project record.
type ProjectFixture struct {
	ID       string
	Name     string
	OwnerID  string
	IsActive bool
}

// NewProjectFixture produces an active project.
func NewProjectFixture(overrides ...func(*ProjectFixture)) ProjectFixture {
	n := atomic.AddUint64(&projectCounter, 1)
	fixture := ProjectFixture{
		ID:       fmt.Sprintf("project-%d", n),
		Name:     fmt.Sprintf("Projeto %d", n),
		OwnerID:  "user-1",
		IsActive: true,
	}
	for _, override := range overrides {
		override(&fixture)
	}
	return fixture
}

// Persistence materialises the fixture as a stored row.
func (f ProjectFixture) Persistence() persistence.Project {
	return persistence.Project{
		ID:        f.ID,
		Name:      f.Name,
		OwnerID:   f.OwnerID,
		IsActive:  f.IsActive,
		CreatedAt: ReferenceTime(),
		UpdatedAt: ReferenceTime(),
	}
}

// -------------------------- Reservation fixtures --------------------------

// ReservationFixture is a deterministic reservation record. Dates and clocks
// use their civil wire forms so overrides stay readable.
type ReservationFixture struct {
	ID                string
	RoomID            string
	RequestedBy       string
	ProjectID         string
	Title             string
	Description       string
	PeopleCount       int
	Status            booking.Status
	Date              string
	StartTime         string
	EndTime           string
	IsRecurring       bool
	RecurrenceType    booking.Frequency
	RecurrenceEndDate string
}

// NewReservationFixture produces an approved single reservation one week
// after the reference date.
func NewReservationFixture(overrides ...func(*ReservationFixture)) ReservationFixture {
	n := atomic.AddUint64(&reservationCounter, 1)
	fixture := ReservationFixture{
		ID:             fmt.Sprintf("reservation-%d", n),
		RoomID:         "room-1",
		RequestedBy:    "user-1",
		Title:          fmt.Sprintf("Reserva %d", n),
		Description:    "Reserva de teste",
		PeopleCount:    10,
		Status:         booking.StatusApproved,
		Date:           "2024-06-08",
		StartTime:      "10:00",
		EndTime:        "11:00",
		RecurrenceType: booking.FrequencyNone,
	}
	for _, override := range overrides {
		override(&fixture)
	}
	return fixture
}

// Booking materialises the fixture as an engine snapshot.
func (f ReservationFixture) Booking() booking.Reservation {
	reservation := booking.Reservation{
		ID:             f.ID,
		RoomID:         f.RoomID,
		Status:         f.Status,
		Date:           calendar.MustDate(f.Date),
		StartTime:      calendar.MustClock(f.StartTime),
		EndTime:        calendar.MustClock(f.EndTime),
		IsRecurring:    f.IsRecurring,
		RecurrenceType: f.RecurrenceType,
		Title:          f.Title,
		Description:    f.Description,
		PeopleCount:    f.PeopleCount,
		ProjectID:      f.ProjectID,
		RequestedBy:    f.RequestedBy,
	}
	if f.RecurrenceEndDate != "" {
		end := calendar.MustDate(f.RecurrenceEndDate)
		reservation.RecurrenceEndDate = &end
	}
	return reservation
}

// Persistence materialises the fixture as a stored row with composed ISO
// timestamps in the product offset.
func (f ReservationFixture) Persistence() persistence.Reservation {
	reservation := persistence.Reservation{
		ID:             f.ID,
		RoomID:         f.RoomID,
		RequestedBy:    f.RequestedBy,
		Title:          f.Title,
		Description:    f.Description,
		PeopleCount:    f.PeopleCount,
		Status:         string(f.Status),
		Date:           f.Date,
		StartTime:      f.StartTime,
		EndTime:        f.EndTime,
		StartISO:       fmt.Sprintf("%sT%s:00%s", f.Date, f.StartTime, calendar.DefaultUTCOffset),
		EndISO:         fmt.Sprintf("%sT%s:00%s", f.Date, f.EndTime, calendar.DefaultUTCOffset),
		IsRecurring:    f.IsRecurring,
		RecurrenceType: string(f.RecurrenceType),
		CreatedAt:      ReferenceTime(),
		UpdatedAt:      ReferenceTime(),
	}
	if f.ProjectID != "" {
		projectID := f.ProjectID
		reservation.ProjectID = &projectID
	}
	if f.RecurrenceEndDate != "" {
		end := f.RecurrenceEndDate
		reservation.RecurrenceEndDate = &end
	}
	return reservation
}

// ---------------------------- Session fixtures ----------------------------

// SessionFixture is a deterministic session record.
type SessionFixture struct {
	ID     string
	UserID string
	Token  string
	TTL    time.Duration
}

// NewSessionFixture produces a session valid for 24 hours from the
// reference time.
func NewSessionFixture(overrides ...func(*SessionFixture)) SessionFixture {
	n := atomic.AddUint64(&sessionCounter, 1)
	fixture := SessionFixture{
		ID:     fmt.Sprintf("session-%d", n),
		UserID: "user-1",
		Token:  fmt.Sprintf("token-%d", n),
		TTL:    24 * time.Hour,
	}
	for _, override := range overrides {
		override(&fixture)
	}
	return fixture
}

// Persistence materialises the fixture as a stored row.
func (f SessionFixture) Persistence() persistence.Session {
	return persistence.Session{
		ID:        f.ID,
		UserID:    f.UserID,
		Token:     f.Token,
		ExpiresAt: ReferenceTime().Add(f.TTL),
		CreatedAt: ReferenceTime(),
		UpdatedAt: ReferenceTime(),
	}
}
