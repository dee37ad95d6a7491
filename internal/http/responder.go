package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/room-reservation/internal/application"
)

var (
	errBadRequestBody      = errors.New("Formato de requisição inválido.")
	errInvalidResourceID   = errors.New("Identificador inválido.")
	errMissingSessionToken = errors.New("Informe o token de autenticação.")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "AUTH_FORBIDDEN",
			Message:   "Você não tem permissão para executar esta operação.",
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "O recurso solicitado não foi encontrado."})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: "Já existe um recurso com esses dados."})
	case errors.Is(err, application.ErrRoomConflict):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "RESERVATION_CONFLICT",
			Message:   "A sala já possui uma reserva aprovada neste horário.",
		})
	case errors.Is(err, application.ErrInvalidTransition):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: "A reserva não permite esta transição de status."})
	case errors.Is(err, application.ErrSessionExpired), errors.Is(err, application.ErrSessionRevoked):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_SESSION_EXPIRED",
			Message:   "Sessão expirada. Faça login novamente.",
		})
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_INVALID_CREDENTIALS",
			Message:   "E-mail ou senha incorretos.",
		})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "Há erros nos dados informados.",
				Errors:  localizeValidationErrors(vErr),
			})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "Ocorreu um erro interno no servidor."})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "A requisição não está correta."
	case http.StatusUnauthorized:
		return "Autenticação necessária."
	case http.StatusForbidden:
		return "Você não tem permissão para executar esta operação."
	case http.StatusNotFound:
		return "O recurso solicitado não foi encontrado."
	case http.StatusConflict:
		return "A requisição conflita com o estado atual do recurso."
	case http.StatusUnprocessableEntity:
		return "Há erros nos dados informados."
	default:
		return "Ocorreu um erro interno no servidor."
	}
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(msg)
	}
	return translated
}

func translateValidationMessage(message string) string {
	switch message {
	case "must not be empty":
		return "Campo obrigatório."
	case "must be a valid email address":
		return "Informe um e-mail válido."
	case "must be at least 8 characters":
		return "A senha deve ter ao menos 8 caracteres."
	case "must be one of student, professor, coordinator, admin":
		return "Perfil inválido."
	case "must be greater than zero":
		return "Informe um valor maior que zero."
	case "exceeds room capacity":
		return "A quantidade de pessoas excede a capacidade da sala."
	case "must be a date in YYYY-MM-DD form":
		return "Informe a data no formato AAAA-MM-DD."
	case "must be a time in HH:MM form":
		return "Informe o horário no formato HH:MM."
	case "must be after start time":
		return "O horário de término deve ser depois do início."
	case "must not be in the past":
		return "A data não pode estar no passado."
	case "required for recurring reservations":
		return "Informe a data final da recorrência."
	case "must not be before the start date":
		return "A data final da recorrência deve ser igual ou posterior à data inicial."
	case "must be one of daily, weekly, biweekly, monthly":
		return "Tipo de recorrência inválido."
	case "unknown room":
		return "A sala informada não existe."
	case "room is not active":
		return "A sala informada está desativada."
	case "fixed reservation rooms do not accept recurring reservations":
		return "Salas de reserva fixa não aceitam reservas recorrentes."
	case "required for student reservations":
		return "Alunos devem vincular a reserva a um projeto."
	case "unknown project":
		return "O projeto informado não existe."
	case "project is not active":
		return "O projeto informado está inativo."
	case "cannot delete the acting account":
		return "Não é possível excluir a própria conta."
	default:
		return message
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
