package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/example/room-reservation/internal/application"
	"github.com/example/room-reservation/internal/booking"
)

type availabilityService interface {
	AvailableRooms(ctx context.Context, principal application.Principal, query application.AvailabilityQuery) ([]booking.Room, error)
}

type AvailabilityHandler struct {
	service   availabilityService
	responder responder
	logger    *slog.Logger
}

func NewAvailabilityHandler(service availabilityService, logger *slog.Logger) *AvailabilityHandler {
	base := defaultLogger(logger)
	return &AvailabilityHandler{service: service, responder: newResponder(base), logger: base}
}

// Query answers GET /availability. Every parameter is optional: an
// incomplete query legitimately returns an empty room list, so interactive
// forms can probe while the user is still typing.
func (h *AvailabilityHandler) Query(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := handlerLogger(r.Context(), h.logger, "AvailabilityHandler", "Query", "principal_id", principal.UserID)

	values := r.URL.Query()
	peopleCount, _ := strconv.Atoi(values.Get("people_count"))
	query := application.AvailabilityQuery{
		Date:              values.Get("date"),
		StartTime:         values.Get("start_time"),
		EndTime:           values.Get("end_time"),
		PeopleCount:       peopleCount,
		Description:       values.Get("description"),
		ProjectID:         values.Get("project_id"),
		IsRecurring:       queryFlag(values.Get("is_recurring")),
		RecurrenceType:    values.Get("recurrence_type"),
		RecurrenceEndDate: values.Get("recurrence_end_date"),
		Resources: booking.ResourceFlags{
			Projector:       booking.Flag(queryFlag(values.Get("projector"))),
			Internet:        booking.Flag(queryFlag(values.Get("internet"))),
			AirConditioning: booking.Flag(queryFlag(values.Get("air_conditioning"))),
		},
	}

	rooms, err := h.service.AvailableRooms(r.Context(), principal, query)
	if err != nil {
		logger.ErrorContext(r.Context(), "availability query failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rooms)).InfoContext(r.Context(), "availability query served")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: toRoomDTOs(rooms)})
}

// queryFlag accepts the same truthy spellings the JSON flags accept.
func queryFlag(value string) bool {
	switch value {
	case "1", "true", "True", "TRUE":
		return true
	}
	return false
}
