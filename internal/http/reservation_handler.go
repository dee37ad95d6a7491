package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/room-reservation/internal/application"
	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/calendar"
)

type reservationService interface {
	CreateReservation(ctx context.Context, principal application.Principal, params application.CreateReservationParams) (application.Reservation, error)
	GetReservation(ctx context.Context, id string) (application.Reservation, error)
	ListReservations(ctx context.Context, query application.ReservationQuery) ([]application.Reservation, error)
	ApproveReservation(ctx context.Context, principal application.Principal, id string) (application.Reservation, error)
	RejectReservation(ctx context.Context, principal application.Principal, id string) (application.Reservation, error)
	CancelReservation(ctx context.Context, principal application.Principal, id string) (application.Reservation, error)
	ListOccurrences(ctx context.Context, id string) ([]booking.Occurrence, error)
}

type ReservationHandler struct {
	service   reservationService
	responder responder
	logger    *slog.Logger
}

func NewReservationHandler(service reservationService, logger *slog.Logger) *ReservationHandler {
	base := defaultLogger(logger)
	return &ReservationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReservationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReservationHandler", operation, attrs...)
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode reservation request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validate.Struct(req); err != nil {
		h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
			Message: "Há erros nos dados informados.",
			Errors:  validationDetails(err),
		})
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID, "room_id", req.RoomID)

	reservation, err := h.service.CreateReservation(r.Context(), principal, application.CreateReservationParams{
		RoomID:            req.RoomID,
		Title:             req.Title,
		Description:       req.Description,
		PeopleCount:       req.PeopleCount,
		ProjectID:         req.ProjectID,
		Date:              req.Date,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		IsRecurring:       bool(req.IsRecurring),
		RecurrenceType:    req.RecurrenceType,
		RecurrenceEndDate: req.RecurrenceEndDate,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "reservation creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("reservation_id", reservation.ID).InfoContext(r.Context(), "reservation created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, reservationResponse{Reservation: toReservationDTO(reservation)})
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	reservation, err := h.service.GetReservation(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "reservation_id", id).ErrorContext(r.Context(), "reservation fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, reservationResponse{Reservation: toReservationDTO(reservation)})
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	query, err := parseReservationQuery(r)
	if err != nil {
		logger.ErrorContext(r.Context(), "bad reservation query", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	reservations, err := h.service.ListReservations(r.Context(), query)
	if err != nil {
		logger.ErrorContext(r.Context(), "reservation list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(reservations)).InfoContext(r.Context(), "reservations listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listReservationsResponse{Reservations: toReservationDTOs(reservations)})
}

// Decide handles the moderation and cancellation subactions routed as
// POST /reservations/{id}/{action}.
func (h *ReservationHandler) Decide(w http.ResponseWriter, r *http.Request, action string) {
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
	logger := h.log(r.Context(), "Decide", "principal_id", principal.UserID, "reservation_id", id, "action", action)

	var (
		reservation application.Reservation
		err         error
	)
	switch action {
	case "approve":
		reservation, err = h.service.ApproveReservation(r.Context(), principal, id)
	case "reject":
		reservation, err = h.service.RejectReservation(r.Context(), principal, id)
	case "cancel":
		reservation, err = h.service.CancelReservation(r.Context(), principal, id)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "reservation decision failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "reservation decision applied", "status", string(reservation.Status))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, reservationResponse{Reservation: toReservationDTO(reservation)})
}

func (h *ReservationHandler) Occurrences(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	occurrences, err := h.service.ListOccurrences(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Occurrences", "reservation_id", id).ErrorContext(r.Context(), "occurrence expansion failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listOccurrencesResponse{Occurrences: toOccurrenceDTOs(occurrences)})
}

func parseReservationQuery(r *http.Request) (application.ReservationQuery, error) {
	values := r.URL.Query()
	query := application.ReservationQuery{
		RoomID:      values.Get("room_id"),
		RequestedBy: values.Get("requested_by"),
		Status:      booking.Status(values.Get("status")),
	}

	vErr := &application.ValidationError{FieldErrors: map[string]string{}}
	if raw := values.Get("date_from"); raw != "" {
		date, err := calendar.ParseDate(raw)
		if err != nil {
			vErr.FieldErrors["date_from"] = "must be a date in YYYY-MM-DD form"
		}
		query.DateFrom = date
	}
	if raw := values.Get("date_to"); raw != "" {
		date, err := calendar.ParseDate(raw)
		if err != nil {
			vErr.FieldErrors["date_to"] = "must be a date in YYYY-MM-DD form"
		}
		query.DateTo = date
	}
	if len(vErr.FieldErrors) > 0 {
		return application.ReservationQuery{}, vErr
	}
	return query, nil
}

// createReservationRequest tolerates the legacy 0/1 integer encoding on the
// recurrence marker, mirroring the room resource flags.
type createReservationRequest struct {
	RoomID            string       `json:"room_id" validate:"required"`
	Title             string       `json:"title" validate:"required"`
	Description       string       `json:"description" validate:"required"`
	PeopleCount       int          `json:"people_count" validate:"required,gt=0"`
	ProjectID         string       `json:"project_id"`
	Date              string       `json:"date" validate:"required"`
	StartTime         string       `json:"start_time" validate:"required"`
	EndTime           string       `json:"end_time" validate:"required"`
	IsRecurring       booking.Flag `json:"is_recurring"`
	RecurrenceType    string       `json:"recurrence_type"`
	RecurrenceEndDate string       `json:"recurrence_end_date"`
}

type reservationResponse struct {
	Reservation reservationDTO `json:"reservation"`
}

type listReservationsResponse struct {
	Reservations []reservationDTO `json:"reservations"`
}

type listOccurrencesResponse struct {
	Occurrences []occurrenceDTO `json:"occurrences"`
}

type reservationDTO struct {
	ID                string `json:"id"`
	RoomID            string `json:"room_id"`
	RequestedBy       string `json:"requested_by"`
	ProjectID         string `json:"project_id,omitempty"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	PeopleCount       int    `json:"people_count"`
	Status            string `json:"status"`
	Date              string `json:"date"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	StartISO          string `json:"start_iso"`
	EndISO            string `json:"end_iso"`
	IsRecurring       bool   `json:"is_recurring"`
	RecurrenceType    string `json:"recurrence_type"`
	RecurrenceEndDate string `json:"recurrence_end_date,omitempty"`
	DecidedBy         string `json:"decided_by,omitempty"`
	DecidedAt         string `json:"decided_at,omitempty"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

type occurrenceDTO struct {
	ID                    string `json:"id"`
	RoomID                string `json:"room_id"`
	Status                string `json:"status"`
	Date                  string `json:"date"`
	StartTime             string `json:"start_time"`
	EndTime               string `json:"end_time"`
	IsRecurrenceInstance  bool   `json:"is_recurrence_instance"`
	OriginalReservationID string `json:"original_reservation_id"`
}

func toReservationDTO(reservation application.Reservation) reservationDTO {
	dto := reservationDTO{
		ID:             reservation.ID,
		RoomID:         reservation.RoomID,
		RequestedBy:    reservation.RequestedBy,
		ProjectID:      reservation.ProjectID,
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
		DecidedBy:      reservation.DecidedBy,
		CreatedAt:      reservation.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:      reservation.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if reservation.RecurrenceEndDate != nil {
		dto.RecurrenceEndDate = reservation.RecurrenceEndDate.String()
	}
	if reservation.DecidedAt != nil {
		dto.DecidedAt = reservation.DecidedAt.UTC().Format(time.RFC3339Nano)
	}
	return dto
}

func toReservationDTOs(reservations []application.Reservation) []reservationDTO {
	if len(reservations) == 0 {
		return nil
	}
	out := make([]reservationDTO, 0, len(reservations))
	for _, reservation := range reservations {
		out = append(out, toReservationDTO(reservation))
	}
	return out
}

func toOccurrenceDTOs(occurrences []booking.Occurrence) []occurrenceDTO {
	if len(occurrences) == 0 {
		return nil
	}
	out := make([]occurrenceDTO, 0, len(occurrences))
	for _, occurrence := range occurrences {
		out = append(out, occurrenceDTO{
			ID:                    occurrence.ID,
			RoomID:                occurrence.RoomID,
			Status:                string(occurrence.Status),
			Date:                  occurrence.Date.String(),
			StartTime:             occurrence.StartTime.String(),
			EndTime:               occurrence.EndTime.String(),
			IsRecurrenceInstance:  occurrence.IsRecurrenceInstance,
			OriginalReservationID: occurrence.OriginalReservationID,
		})
	}
	return out
}
