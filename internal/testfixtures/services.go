package testfixtures

import (
	"io"
	"log/slog"
	"time"

	"github.com/example/room-reservation/internal/application"
	"github.com/example/room-reservation/internal/calendar"
)

// ServiceFactory wires application services with a shared deterministic clock
// and identifier generator so test scenarios stay reproducible.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Logger      *slog.Logger
	SessionTTL  time.Duration
}

// FactoryOption customises a ServiceFactory.
type FactoryOption func(*ServiceFactory)

// WithClock replaces the factory clock.
func WithClock(clock *Clock) FactoryOption {
	return func(f *ServiceFactory) {
		f.Clock = clock
	}
}

// WithIDGenerator replaces the factory identifier generator.
func WithIDGenerator(generator *IDGenerator) FactoryOption {
	return func(f *ServiceFactory) {
		f.IDGenerator = generator
	}
}

// WithSessionTTL overrides the session lifetime used by auth services.
func WithSessionTTL(ttl time.Duration) FactoryOption {
	return func(f *ServiceFactory) {
		f.SessionTTL = ttl
	}
}

// NewServiceFactory builds a factory with a clock pinned to ReferenceTime, a
// "test" prefixed identifier generator and a discarded logger.
func NewServiceFactory(opts ...FactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("test"),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		SessionTTL:  application.DefaultSessionTTL,
	}
	for _, opt := range opts {
		opt(factory)
	}
	return factory
}

// Calendar returns a calendar driven by the factory clock in the product
// timezone.
func (f *ServiceFactory) Calendar() calendar.Calendar {
	return calendar.New(nil, "", f.Clock.NowFunc())
}

// UserService constructs a user service over the given repository.
func (f *ServiceFactory) UserService(users application.UserRepository) *application.UserService {
	return application.NewUserService(users, f.Logger, f.Clock.NowFunc(), f.IDGenerator.NextFunc())
}

// AuthService constructs an auth service over the given repositories.
func (f *ServiceFactory) AuthService(users application.UserRepository, sessions application.SessionRepository) *application.AuthService {
	return application.NewAuthService(users, sessions, f.Logger, f.Clock.NowFunc(), f.IDGenerator.NextFunc(), f.SessionTTL)
}

// RoomService constructs a room service over the given repository.
func (f *ServiceFactory) RoomService(rooms application.RoomRepository) *application.RoomService {
	return application.NewRoomService(rooms, f.Logger, f.IDGenerator.NextFunc())
}

// ProjectService constructs a project service over the given repositories.
func (f *ServiceFactory) ProjectService(projects application.ProjectRepository, users application.UserRepository) *application.ProjectService {
	return application.NewProjectService(projects, users, f.Logger, f.Clock.NowFunc(), f.IDGenerator.NextFunc())
}

// ReservationService constructs a reservation service over the given
// repositories.
func (f *ServiceFactory) ReservationService(reservations application.ReservationRepository, rooms application.RoomRepository, projects application.ProjectRepository) *application.ReservationService {
	return application.NewReservationService(reservations, rooms, projects, f.Logger, f.Calendar(), f.IDGenerator.NextFunc())
}

// AvailabilityService constructs an availability service over the given
// repositories.
func (f *ServiceFactory) AvailabilityService(rooms application.RoomRepository, reservations application.ReservationRepository) *application.AvailabilityService {
	return application.NewAvailabilityService(rooms, reservations, f.Logger)
}
