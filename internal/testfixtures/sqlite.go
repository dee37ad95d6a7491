package testfixtures

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/room-reservation/internal/persistence"
	"github.com/example/room-reservation/internal/persistence/sqlite"
)

// SQLiteHarness owns a migrated throwaway database for repository tests. The
// file lives in the test's temporary directory and the handle is closed on
// cleanup.
type SQLiteHarness struct {
	Storage *sqlite.Storage
}

// NewSQLiteHarness opens a fresh SQLite database and applies every migration.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	// The pragma rides on the DSN so every pooled connection enforces
	// foreign keys, not just the one Open configures.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", filepath.Join(tb.TempDir(), "reservations_test.db"))
	storage, err := sqlite.Open(dsn)
	if err != nil {
		tb.Fatalf("open sqlite storage: %v", err)
	}
	tb.Cleanup(func() {
		if err := storage.Close(); err != nil {
			tb.Errorf("close sqlite storage: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := storage.Migrate(ctx); err != nil {
		tb.Fatalf("apply migrations: %v", err)
	}

	return &SQLiteHarness{Storage: storage}
}

// SeedUser inserts the fixture and returns the stored row.
func (h *SQLiteHarness) SeedUser(tb testing.TB, fixture UserFixture) persistence.User {
	tb.Helper()
	row := fixture.Persistence()
	if err := h.Storage.Users.CreateUser(context.Background(), row); err != nil {
		tb.Fatalf("seed user %s: %v", row.ID, err)
	}
	return row
}

// SeedRoom inserts the fixture and returns the stored row.
func (h *SQLiteHarness) SeedRoom(tb testing.TB, fixture RoomFixture) persistence.Room {
	tb.Helper()
	row := fixture.Persistence()
	if err := h.Storage.Rooms.CreateRoom(context.Background(), row); err != nil {
		tb.Fatalf("seed room %s: %v", row.ID, err)
	}
	return row
}

// SeedProject inserts the fixture and returns the stored row.
func (h *SQLiteHarness) SeedProject(tb testing.TB, fixture ProjectFixture) persistence.Project {
	tb.Helper()
	row := fixture.Persistence()
	if err := h.Storage.Projects.CreateProject(context.Background(), row); err != nil {
		tb.Fatalf("seed project %s: %v", row.ID, err)
	}
	return row
}

// SeedReservation inserts the fixture and returns the stored row.
func (h *SQLiteHarness) SeedReservation(tb testing.TB, fixture ReservationFixture) persistence.Reservation {
	tb.Helper()
	row := fixture.Persistence()
	if err := h.Storage.Reservations.CreateReservation(context.Background(), row); err != nil {
		tb.Fatalf("seed reservation %s: %v", row.ID, err)
	}
	return row
}

// SeedSession inserts the fixture and returns the stored row.
func (h *SQLiteHarness) SeedSession(tb testing.TB, fixture SessionFixture) persistence.Session {
	tb.Helper()
	row := fixture.Persistence()
	stored, err := h.Storage.Sessions.CreateSession(context.Background(), row)
	if err != nil {
		tb.Fatalf("seed session %s: %v", row.ID, err)
	}
	return stored
}
