package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/example/room-reservation/internal/persistence"
)

// mapError translates driver errors into the persistence sentinels services
// branch on. modernc/sqlite surfaces constraint failures as plain error
// strings, so classification is textual.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return persistence.ErrDuplicate
	case strings.Contains(msg, "CHECK constraint failed"):
		return persistence.ErrConstraintViolation
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return persistence.ErrForeignKeyViolation
	}
	return err
}
