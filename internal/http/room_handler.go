package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/room-reservation/internal/application"
	"github.com/example/room-reservation/internal/booking"
)

type roomService interface {
	CreateRoom(ctx context.Context, principal application.Principal, params application.CreateRoomParams) (booking.Room, error)
	GetRoom(ctx context.Context, id string) (booking.Room, error)
	ListRooms(ctx context.Context) ([]booking.Room, error)
	UpdateRoom(ctx context.Context, principal application.Principal, id string, params application.UpdateRoomParams) (booking.Room, error)
	DeleteRoom(ctx context.Context, principal application.Principal, id string) error
}

type RoomHandler struct {
	service   roomService
	responder responder
	logger    *slog.Logger
}

func NewRoomHandler(service roomService, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	return &RoomHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomHandler", operation, attrs...)
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	room, err := h.service.CreateRoom(r.Context(), principal, req.toCreateParams())
	if err != nil {
		logger.ErrorContext(r.Context(), "room creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("room_id", room.ID).InfoContext(r.Context(), "room created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	room, err := h.service.GetRoom(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "room_id", id).ErrorContext(r.Context(), "room fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok || strings.TrimSpace(principal.UserID) == "" {
		h.log(r.Context(), "List", "error_kind", "unauthorized").ErrorContext(r.Context(), "missing authenticated principal")
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "room list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rooms)).InfoContext(r.Context(), "rooms listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: toRoomDTOs(rooms)})
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	var req updateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "room_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "room_id", id)

	room, err := h.service.UpdateRoom(r.Context(), principal, id, req.toUpdateParams())
	if err != nil {
		logger.ErrorContext(r.Context(), "room update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "room_id", id)

	if err := h.service.DeleteRoom(r.Context(), principal, id); err != nil {
		logger.ErrorContext(r.Context(), "room delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// roomRequest uses booking.Flag so resource markers accept both booleans and
// the 0/1 integers the legacy data source emits.
type roomRequest struct {
	Name               string       `json:"name"`
	Capacity           int          `json:"capacity"`
	IsActive           *bool        `json:"is_active"`
	IsFixedReservation booking.Flag `json:"is_fixed_reservation"`
	HasProjector       booking.Flag `json:"has_projector"`
	HasInternet        booking.Flag `json:"has_internet"`
	HasAirConditioning booking.Flag `json:"has_air_conditioning"`
}

func (r roomRequest) toCreateParams() application.CreateRoomParams {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return application.CreateRoomParams{
		Name:               strings.TrimSpace(r.Name),
		Capacity:           r.Capacity,
		IsActive:           active,
		IsFixedReservation: bool(r.IsFixedReservation),
		Resources: booking.ResourceFlags{
			Projector:       r.HasProjector,
			Internet:        r.HasInternet,
			AirConditioning: r.HasAirConditioning,
		},
	}
}

type updateRoomRequest struct {
	Name               *string       `json:"name"`
	Capacity           *int          `json:"capacity"`
	IsActive           *bool         `json:"is_active"`
	IsFixedReservation *booking.Flag `json:"is_fixed_reservation"`
	HasProjector       *booking.Flag `json:"has_projector"`
	HasInternet        *booking.Flag `json:"has_internet"`
	HasAirConditioning *booking.Flag `json:"has_air_conditioning"`
}

func (r updateRoomRequest) toUpdateParams() application.UpdateRoomParams {
	params := application.UpdateRoomParams{
		Name:     r.Name,
		Capacity: r.Capacity,
		IsActive: r.IsActive,
	}
	if r.IsFixedReservation != nil {
		fixed := bool(*r.IsFixedReservation)
		params.IsFixedReservation = &fixed
	}
	if r.HasProjector != nil || r.HasInternet != nil || r.HasAirConditioning != nil {
		resources := booking.ResourceFlags{}
		if r.HasProjector != nil {
			resources.Projector = *r.HasProjector
		}
		if r.HasInternet != nil {
			resources.Internet = *r.HasInternet
		}
		if r.HasAirConditioning != nil {
			resources.AirConditioning = *r.HasAirConditioning
		}
		params.Resources = &resources
	}
	return params
}

type roomResponse struct {
	Room roomDTO `json:"room"`
}

type listRoomsResponse struct {
	Rooms []roomDTO `json:"rooms"`
}

type roomDTO struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Capacity           int    `json:"capacity"`
	IsActive           bool   `json:"is_active"`
	IsFixedReservation bool   `json:"is_fixed_reservation"`
	HasProjector       bool   `json:"has_projector"`
	HasInternet        bool   `json:"has_internet"`
	HasAirConditioning bool   `json:"has_air_conditioning"`
}

func toRoomDTO(room booking.Room) roomDTO {
	return roomDTO{
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

func toRoomDTOs(rooms []booking.Room) []roomDTO {
	if len(rooms) == 0 {
		return nil
	}
	out := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomDTO(room))
	}
	return out
}
