// Package config loads service configuration from an optional YAML file with
// environment variable overrides. Environment always wins over the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/room-reservation/internal/calendar"
)

// Config captures the runtime configuration of the reservation service.
type Config struct {
	HTTPPort   int
	SQLiteDSN  string
	SessionTTL time.Duration

	// Timezone is the civil timezone reservations are evaluated in and
	// UTCOffset the literal attached to composed timestamps.
	Timezone  string
	UTCOffset string

	// SweepSchedule is the cron spec for the periodic session and
	// stale-reservation sweeps.
	SweepSchedule string

	// BootstrapAdminEmail and BootstrapAdminPassword seed the first admin
	// account when the user table is empty. Both optional.
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

// fileConfig is the YAML schema. Durations are written in time.Duration
// string form ("24h", "90m").
type fileConfig struct {
	HTTPPort               *int    `yaml:"http_port"`
	SQLiteDSN              *string `yaml:"sqlite_dsn"`
	SessionTTL             *string `yaml:"session_ttl"`
	Timezone               *string `yaml:"timezone"`
	UTCOffset              *string `yaml:"utc_offset"`
	SweepSchedule          *string `yaml:"sweep_schedule"`
	BootstrapAdminEmail    *string `yaml:"bootstrap_admin_email"`
	BootstrapAdminPassword *string `yaml:"bootstrap_admin_password"`
}

func defaults() Config {
	return Config{
		HTTPPort:      8080,
		SQLiteDSN:     "file:reservations.db",
		SessionTTL:    24 * time.Hour,
		Timezone:      calendar.DefaultTimezoneName,
		UTCOffset:     calendar.DefaultUTCOffset,
		SweepSchedule: "@hourly",
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// process environment, in that order of precedence.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("não foi possível ler o arquivo de configuração %s: %w", path, err)
		}
		var file fileConfig
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return Config{}, fmt.Errorf("arquivo de configuração inválido %s: %w", path, err)
		}
		if file.HTTPPort != nil {
			cfg.HTTPPort = *file.HTTPPort
		}
		if file.SQLiteDSN != nil {
			cfg.SQLiteDSN = *file.SQLiteDSN
		}
		if file.SessionTTL != nil {
			ttl, err := time.ParseDuration(*file.SessionTTL)
			if err != nil {
				return Config{}, fmt.Errorf("arquivo de configuração inválido %s: session_ttl: %w", path, err)
			}
			cfg.SessionTTL = ttl
		}
		if file.Timezone != nil {
			cfg.Timezone = *file.Timezone
		}
		if file.UTCOffset != nil {
			cfg.UTCOffset = *file.UTCOffset
		}
		if file.SweepSchedule != nil {
			cfg.SweepSchedule = *file.SweepSchedule
		}
		if file.BootstrapAdminEmail != nil {
			cfg.BootstrapAdminEmail = *file.BootstrapAdminEmail
		}
		if file.BootstrapAdminPassword != nil {
			cfg.BootstrapAdminPassword = *file.BootstrapAdminPassword
		}
	}

	var invalid []string

	if portValue := strings.TrimSpace(os.Getenv("RESERVATIONS_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "RESERVATIONS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("RESERVATIONS_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("RESERVATIONS_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "RESERVATIONS_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if tz := strings.TrimSpace(os.Getenv("RESERVATIONS_TIMEZONE")); tz != "" {
		cfg.Timezone = tz
	}
	if offset := strings.TrimSpace(os.Getenv("RESERVATIONS_UTC_OFFSET")); offset != "" {
		cfg.UTCOffset = offset
	}
	if schedule := strings.TrimSpace(os.Getenv("RESERVATIONS_SWEEP_SCHEDULE")); schedule != "" {
		cfg.SweepSchedule = schedule
	}
	if email := strings.TrimSpace(os.Getenv("RESERVATIONS_BOOTSTRAP_ADMIN_EMAIL")); email != "" {
		cfg.BootstrapAdminEmail = email
	}
	if password := os.Getenv("RESERVATIONS_BOOTSTRAP_ADMIN_PASSWORD"); password != "" {
		cfg.BootstrapAdminPassword = password
	}

	if cfg.HTTPPort <= 0 {
		invalid = append(invalid, "http_port")
	}
	if cfg.SessionTTL <= 0 {
		invalid = append(invalid, "session_ttl")
	}
	if strings.TrimSpace(cfg.SQLiteDSN) == "" {
		invalid = append(invalid, "sqlite_dsn")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("valores de configuração inválidos: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
