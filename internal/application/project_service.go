package application

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// ProjectService manages the project catalog students book reservations
// under. Coordinators and admins manage projects.
type ProjectService struct {
	projects    ProjectRepository
	users       UserRepository
	logger      *slog.Logger
	now         func() time.Time
	idGenerator func() string
}

// NewProjectService wires a ProjectService.
func NewProjectService(projects ProjectRepository, users UserRepository, logger *slog.Logger, now func() time.Time, idGenerator func() string) *ProjectService {
	if now == nil {
		now = time.Now
	}
	return &ProjectService{
		projects:    projects,
		users:       users,
		logger:      defaultLogger(logger),
		now:         now,
		idGenerator: idGenerator,
	}
}

// CreateProject registers a project. The owner defaults to the acting
// principal when none is given.
func (s *ProjectService) CreateProject(ctx context.Context, principal Principal, params CreateProjectParams) (project Project, err error) {
	logger := serviceLogger(ctx, s.logger, "project", "CreateProject", "actor_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.Warn("create project failed", "error_kind", ErrorKind(err))
			return
		}
		logger.Info("project created", "project_id", project.ID, "name", project.Name)
	}()

	if !principal.Role.CanModerate() {
		return Project{}, ErrUnauthorized
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "must not be empty")
		return Project{}, vErr
	}

	ownerID := params.OwnerID
	if ownerID == "" {
		ownerID = principal.UserID
	}
	if _, err = s.users.GetUser(ctx, ownerID); err != nil {
		return Project{}, err
	}

	now := s.now().UTC()
	project = Project{
		ID:        s.idGenerator(),
		Name:      name,
		OwnerID:   ownerID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = s.projects.CreateProject(ctx, project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// GetProject returns a project by id.
func (s *ProjectService) GetProject(ctx context.Context, id string) (Project, error) {
	return s.projects.GetProject(ctx, id)
}

// ListProjects returns all projects.
func (s *ProjectService) ListProjects(ctx context.Context) ([]Project, error) {
	return s.projects.ListProjects(ctx)
}

// SetProjectActive activates or deactivates a project. Reservations already
// approved under a deactivated project are left alone.
func (s *ProjectService) SetProjectActive(ctx context.Context, principal Principal, id string, active bool) (project Project, err error) {
	logger := serviceLogger(ctx, s.logger, "project", "SetProjectActive", "actor_id", principal.UserID, "project_id", id)
	defer func() {
		if err != nil {
			logger.Warn("set project active failed", "error_kind", ErrorKind(err))
			return
		}
		logger.Info("project active flag changed", "active", active)
	}()

	if !principal.Role.CanModerate() {
		return Project{}, ErrUnauthorized
	}

	project, err = s.projects.GetProject(ctx, id)
	if err != nil {
		return Project{}, err
	}
	project.IsActive = active
	project.UpdatedAt = s.now().UTC()
	if err = s.projects.UpdateProject(ctx, project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// DeleteProject removes a project.
func (s *ProjectService) DeleteProject(ctx context.Context, principal Principal, id string) (err error) {
	logger := serviceLogger(ctx, s.logger, "project", "DeleteProject", "actor_id", principal.UserID, "project_id", id)
	defer func() {
		if err != nil {
			logger.Warn("delete project failed", "error_kind", ErrorKind(err))
			return
		}
		logger.Info("project deleted")
	}()

	if !principal.Role.CanModerate() {
		return ErrUnauthorized
	}
	return s.projects.DeleteProject(ctx, id)
}
