// Command reservations runs the room reservation HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/example/room-reservation/internal/application"
	"github.com/example/room-reservation/internal/calendar"
	"github.com/example/room-reservation/internal/config"
	httptransport "github.com/example/room-reservation/internal/http"
	"github.com/example/room-reservation/internal/persistence"
	"github.com/example/room-reservation/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configPath := flag.String("config", "", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using product default", "timezone", cfg.Timezone, "error", err)
		loc = calendar.DefaultLocation()
	}
	cal := calendar.New(loc, cfg.UTCOffset, time.Now)

	idGenerator := uuid.NewString
	now := time.Now

	userRepo := newUserRepositoryAdapter(storage.Users)
	roomRepo := newRoomRepositoryAdapter(storage.Rooms, now)
	projectRepo := newProjectRepositoryAdapter(storage.Projects)
	reservationRepo := newReservationRepositoryAdapter(storage.Reservations)
	sessionRepo := newSessionRepositoryAdapter(storage.Sessions)

	userService := application.NewUserService(userRepo, logger, now, idGenerator)
	authService := application.NewAuthService(userRepo, sessionRepo, logger, now, idGenerator, cfg.SessionTTL)
	roomService := application.NewRoomService(roomRepo, logger, idGenerator)
	projectService := application.NewProjectService(projectRepo, userRepo, logger, now, idGenerator)
	reservationService := application.NewReservationService(reservationRepo, roomRepo, projectRepo, logger, cal, idGenerator)
	availabilityService := application.NewAvailabilityService(roomRepo, reservationRepo, logger)

	if err := bootstrapAdmin(ctx, storage.Users, cfg, now, idGenerator, logger); err != nil {
		logger.Error("failed to bootstrap admin account", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:         httptransport.NewAuthHandler(authService, logger),
		Users:        httptransport.NewUserHandler(userService, logger),
		Rooms:        httptransport.NewRoomHandler(roomService, logger),
		Projects:     httptransport.NewProjectHandler(projectService, logger),
		Reservations: httptransport.NewReservationHandler(reservationService, logger),
		Availability: httptransport.NewAvailabilityHandler(availabilityService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.RequireSession(authService, logger),
		},
	})

	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.SweepSchedule, func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := authService.SweepExpiredSessions(sweepCtx); err != nil {
			logger.Error("session sweep failed", "error", err)
		}
		if err := reservationService.SweepStalePending(sweepCtx); err != nil {
			logger.Error("stale pending sweep failed", "error", err)
		}
	}); err != nil {
		logger.Error("invalid sweep schedule", "schedule", cfg.SweepSchedule, "error", err)
		os.Exit(1)
	}
	sweeper.Start()
	defer sweeper.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("reservation API listening", "addr", server.Addr, "timezone", cfg.Timezone)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// bootstrapAdmin seeds the first admin account on an empty user table so a
// fresh deployment can be logged into. A populated table leaves the
// configured credentials untouched.
func bootstrapAdmin(ctx context.Context, users persistence.UserRepository, cfg config.Config, now func() time.Time, idGenerator func() string, logger *slog.Logger) error {
	if cfg.BootstrapAdminEmail == "" || cfg.BootstrapAdminPassword == "" {
		return nil
	}

	existing, err := users.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	hash, err := application.HashPassword(cfg.BootstrapAdminPassword, application.DefaultArgon2idParams)
	if err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(cfg.BootstrapAdminEmail))
	created := now().UTC()
	admin := persistence.User{
		ID:           idGenerator(),
		Email:        email,
		DisplayName:  "Administrador",
		Role:         persistence.RoleAdmin,
		PasswordHash: hash,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	if err := users.CreateUser(ctx, admin); err != nil {
		return err
	}
	logger.Info("bootstrap admin created", "email", email, "user_id", admin.ID)
	return nil
}
