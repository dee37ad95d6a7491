package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/room-reservation/internal/persistence"
)

// ProjectRepository implements persistence.ProjectRepository on SQLite.
type ProjectRepository struct {
	db *sql.DB
}

const projectColumns = "id, name, owner_id, is_active, created_at, updated_at"

// CreateProject inserts a new project.
func (r *ProjectRepository) CreateProject(ctx context.Context, project persistence.Project) error {
	if project.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		project.ID,
		project.Name,
		project.OwnerID,
		boolToInt(project.IsActive),
		formatTime(project.CreatedAt),
		formatTime(project.UpdatedAt),
	)
	return mapError(err)
}

// UpdateProject overwrites an existing project.
func (r *ProjectRepository) UpdateProject(ctx context.Context, project persistence.Project) error {
	if project.ID == "" {
		return persistence.ErrNotFound
	}

	query := `
		UPDATE projects
		SET name = ?, owner_id = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		project.Name,
		project.OwnerID,
		boolToInt(project.IsActive),
		formatTime(project.UpdatedAt),
		project.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// GetProject retrieves a project by id.
func (r *ProjectRepository) GetProject(ctx context.Context, id string) (persistence.Project, error) {
	if id == "" {
		return persistence.Project{}, persistence.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	return scanProject(row)
}

// ListProjects returns all projects ordered by name then id.
func (r *ProjectRepository) ListProjects(ctx context.Context) ([]persistence.Project, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var projects []persistence.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return projects, nil
}

// DeleteProject removes a project by id.
func (r *ProjectRepository) DeleteProject(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	result, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

func scanProject(row rowScanner) (persistence.Project, error) {
	var (
		project              persistence.Project
		active               int
		createdAt, updatedAt string
	)
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.OwnerID,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Project{}, mapError(err)
	}

	project.IsActive = active != 0
	if project.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Project{}, err
	}
	if project.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Project{}, err
	}
	return project, nil
}
