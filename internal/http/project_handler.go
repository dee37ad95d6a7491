package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/room-reservation/internal/application"
)

type projectService interface {
	CreateProject(ctx context.Context, principal application.Principal, params application.CreateProjectParams) (application.Project, error)
	GetProject(ctx context.Context, id string) (application.Project, error)
	ListProjects(ctx context.Context) ([]application.Project, error)
	SetProjectActive(ctx context.Context, principal application.Principal, id string, active bool) (application.Project, error)
	DeleteProject(ctx context.Context, principal application.Principal, id string) error
}

type ProjectHandler struct {
	service   projectService
	responder responder
	logger    *slog.Logger
}

func NewProjectHandler(service projectService, logger *slog.Logger) *ProjectHandler {
	base := defaultLogger(logger)
	return &ProjectHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ProjectHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ProjectHandler", operation, attrs...)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode project request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	project, err := h.service.CreateProject(r.Context(), principal, application.CreateProjectParams{
		Name:    req.Name,
		OwnerID: req.OwnerID,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "project creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("project_id", project.ID).InfoContext(r.Context(), "project created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, projectResponse{Project: toProjectDTO(project)})
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	project, err := h.service.GetProject(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "project_id", id).ErrorContext(r.Context(), "project fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, projectResponse{Project: toProjectDTO(project)})
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	projects, err := h.service.ListProjects(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "project list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listProjectsResponse{Projects: toProjectDTOs(projects)})
}

func (h *ProjectHandler) Patch(w http.ResponseWriter, r *http.Request) {
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

	var req patchProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Patch", "project_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode project patch", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if req.IsActive == nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Patch", "principal_id", principal.UserID, "project_id", id)

	project, err := h.service.SetProjectActive(r.Context(), principal, id, *req.IsActive)
	if err != nil {
		logger.ErrorContext(r.Context(), "project patch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "project patched", "active", *req.IsActive)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, projectResponse{Project: toProjectDTO(project)})
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "project_id", id)

	if err := h.service.DeleteProject(r.Context(), principal, id); err != nil {
		logger.ErrorContext(r.Context(), "project delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "project deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type projectRequest struct {
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

type patchProjectRequest struct {
	IsActive *bool `json:"is_active"`
}

type projectResponse struct {
	Project projectDTO `json:"project"`
}

type listProjectsResponse struct {
	Projects []projectDTO `json:"projects"`
}

type projectDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"owner_id"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toProjectDTO(project application.Project) projectDTO {
	return projectDTO{
		ID:        project.ID,
		Name:      project.Name,
		OwnerID:   project.OwnerID,
		IsActive:  project.IsActive,
		CreatedAt: project.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: project.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toProjectDTOs(projects []application.Project) []projectDTO {
	if len(projects) == 0 {
		return nil
	}
	out := make([]projectDTO, 0, len(projects))
	for _, project := range projects {
		out = append(out, toProjectDTO(project))
	}
	return out
}
