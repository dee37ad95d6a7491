package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/example/room-reservation/internal/booking"
)

// RoomService manages the room catalog. Writes are an admin concern; reads
// are open to every authenticated principal.
type RoomService struct {
	rooms       RoomRepository
	logger      *slog.Logger
	idGenerator func() string
}

// NewRoomService wires a RoomService.
func NewRoomService(rooms RoomRepository, logger *slog.Logger, idGenerator func() string) *RoomService {
	return &RoomService{
		rooms:       rooms,
		logger:      defaultLogger(logger),
		idGenerator: idGenerator,
	}
}

// CreateRoom registers a room.
func (s *RoomService) CreateRoom(ctx context.Context, principal Principal, params CreateRoomParams) (room booking.Room, err error) {
	logger := serviceLogger(ctx, s.logger, "room", "CreateRoom", "actor_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.Warn("create room failed", "error_kind", ErrorKind(err))
			return
		}
		logger.Info("room created", "room_id", room.ID, "name", room.Name)
	}()

	if !principal.Role.CanManageCatalog() {
		return booking.Room{}, ErrUnauthorized
	}
	if vErr := validateRoomFields(params.Name, params.Capacity); vErr != nil {
		return booking.Room{}, vErr
	}

	room = booking.Room{
		ID:                 s.idGenerator(),
		Name:               strings.TrimSpace(params.Name),
		Capacity:           params.Capacity,
		IsActive:           params.IsActive,
		IsFixedReservation: params.IsFixedReservation,
		Resources:          params.Resources,
	}
	if err = s.rooms.CreateRoom(ctx, room); err != nil {
		return booking.Room{}, err
	}
	return room, nil
}

// GetRoom returns a room by id.
func (s *RoomService) GetRoom(ctx context.Context, id string) (booking.Room, error) {
	return s.rooms.GetRoom(ctx, id)
}

// ListRooms returns the full catalog, inactive rooms included. Availability
// queries filter on the active flag separately.
func (s *RoomService) ListRooms(ctx context.Context) ([]booking.Room, error) {
	return s.rooms.ListRooms(ctx)
}

// UpdateRoom applies the provided changes to a room.
func (s *RoomService) UpdateRoom(ctx context.Context, principal Principal, id string, params UpdateRoomParams) (room booking.Room, err error) {
	logger := serviceLogger(ctx, s.logger, "room", "UpdateRoom", "actor_id", principal.UserID, "room_id", id)
	defer func() {
		if err != nil {
			logger.Warn("update room failed", "error_kind", ErrorKind(err))
			return
		}
		logger.Info("room updated")
	}()

	if !principal.Role.CanManageCatalog() {
		return booking.Room{}, ErrUnauthorized
	}

	room, err = s.rooms.GetRoom(ctx, id)
	if err != nil {
		return booking.Room{}, err
	}

	if params.Name != nil {
		room.Name = strings.TrimSpace(*params.Name)
	}
	if params.Capacity != nil {
		room.Capacity = *params.Capacity
	}
	if params.IsActive != nil {
		room.IsActive = *params.IsActive
	}
	if params.IsFixedReservation != nil {
		room.IsFixedReservation = *params.IsFixedReservation
	}
	if params.Resources != nil {
		room.Resources = *params.Resources
	}
	if vErr := validateRoomFields(room.Name, room.Capacity); vErr != nil {
		return booking.Room{}, vErr
	}

	if err = s.rooms.UpdateRoom(ctx, room); err != nil {
		return booking.Room{}, err
	}
	return room, nil
}

// DeleteRoom removes a room and its reservations.
func (s *RoomService) DeleteRoom(ctx context.Context, principal Principal, id string) (err error) {
	logger := serviceLogger(ctx, s.logger, "room", "DeleteRoom", "actor_id", principal.UserID, "room_id", id)
	defer func() {
		if err != nil {
			logger.Warn("delete room failed", "error_kind", ErrorKind(err))
			return
		}
		logger.Info("room deleted")
	}()

	if !principal.Role.CanManageCatalog() {
		return ErrUnauthorized
	}
	return s.rooms.DeleteRoom(ctx, id)
}

func validateRoomFields(name string, capacity int) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(name) == "" {
		vErr.add("name", "must not be empty")
	}
	if capacity <= 0 {
		vErr.add("capacity", "must be greater than zero")
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}
