package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/example/room-reservation/internal/persistence"
)

// ReservationRepository implements persistence.ReservationRepository on SQLite.
type ReservationRepository struct {
	db *sql.DB
}

const reservationColumns = `id, room_id, requested_by, project_id, title, description, people_count,
	status, date, start_time, end_time, start_iso, end_iso,
	is_recurring, recurrence_type, recurrence_end_date,
	decided_by, decided_at, created_at, updated_at`

// CreateReservation inserts a new reservation row.
func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if reservation.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		reservation.ID,
		reservation.RoomID,
		reservation.RequestedBy,
		reservation.ProjectID,
		reservation.Title,
		reservation.Description,
		reservation.PeopleCount,
		reservation.Status,
		reservation.Date,
		reservation.StartTime,
		reservation.EndTime,
		reservation.StartISO,
		reservation.EndISO,
		boolToInt(reservation.IsRecurring),
		reservation.RecurrenceType,
		reservation.RecurrenceEndDate,
		reservation.DecidedBy,
		nullableTime(reservation.DecidedAt),
		formatTime(reservation.CreatedAt),
		formatTime(reservation.UpdatedAt),
	)
	return mapError(err)
}

// UpdateReservation updates an existing reservation row.
func (r *ReservationRepository) UpdateReservation(ctx context.Context, reservation persistence.Reservation) error {
	query := `
		UPDATE reservations
		SET room_id = ?, project_id = ?, title = ?, description = ?, people_count = ?,
		    status = ?, date = ?, start_time = ?, end_time = ?, start_iso = ?, end_iso = ?,
		    is_recurring = ?, recurrence_type = ?, recurrence_end_date = ?,
		    decided_by = ?, decided_at = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		reservation.RoomID,
		reservation.ProjectID,
		reservation.Title,
		reservation.Description,
		reservation.PeopleCount,
		reservation.Status,
		reservation.Date,
		reservation.StartTime,
		reservation.EndTime,
		reservation.StartISO,
		reservation.EndISO,
		boolToInt(reservation.IsRecurring),
		reservation.RecurrenceType,
		reservation.RecurrenceEndDate,
		reservation.DecidedBy,
		nullableTime(reservation.DecidedAt),
		formatTime(reservation.UpdatedAt),
		reservation.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// GetReservation retrieves a reservation by id.
func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	if id == "" {
		return persistence.Reservation{}, persistence.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, "SELECT "+reservationColumns+" FROM reservations WHERE id = ?", id)
	return scanReservation(row)
}

// ListReservations returns reservation rows matching the filter, ordered by
// date then start time then id.
func (r *ReservationRepository) ListReservations(ctx context.Context, filter persistence.ReservationFilter) ([]persistence.Reservation, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.RoomID != "" {
		conditions = append(conditions, "room_id = ?")
		args = append(args, filter.RoomID)
	}
	if filter.RequestedBy != "" {
		conditions = append(conditions, "requested_by = ?")
		args = append(args, filter.RequestedBy)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.DateFrom != "" {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.DateTo)
	}

	query := "SELECT " + reservationColumns + " FROM reservations"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date ASC, start_time ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var reservations []persistence.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return reservations, nil
}

// DeleteReservation removes a reservation by id.
func (r *ReservationRepository) DeleteReservation(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	result, err := r.db.ExecContext(ctx, "DELETE FROM reservations WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

func scanReservation(row rowScanner) (persistence.Reservation, error) {
	var (
		reservation          persistence.Reservation
		projectID            sql.NullString
		recurring            int
		recurrenceEnd        sql.NullString
		decidedBy, decidedAt sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(
		&reservation.ID,
		&reservation.RoomID,
		&reservation.RequestedBy,
		&projectID,
		&reservation.Title,
		&reservation.Description,
		&reservation.PeopleCount,
		&reservation.Status,
		&reservation.Date,
		&reservation.StartTime,
		&reservation.EndTime,
		&reservation.StartISO,
		&reservation.EndISO,
		&recurring,
		&reservation.RecurrenceType,
		&recurrenceEnd,
		&decidedBy,
		&decidedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Reservation{}, mapError(err)
	}

	reservation.IsRecurring = recurring != 0
	if projectID.Valid {
		reservation.ProjectID = &projectID.String
	}
	if recurrenceEnd.Valid {
		reservation.RecurrenceEndDate = &recurrenceEnd.String
	}
	if decidedBy.Valid {
		reservation.DecidedBy = &decidedBy.String
	}
	if decidedAt.Valid {
		t, err := parseTime(decidedAt.String)
		if err != nil {
			return persistence.Reservation{}, err
		}
		reservation.DecidedAt = &t
	}
	if reservation.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Reservation{}, err
	}
	if reservation.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Reservation{}, err
	}
	return reservation, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}
