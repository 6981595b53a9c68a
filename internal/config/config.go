// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a .env file, an optional YAML file and LEADBOARD_* variables.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"runtime"
	"time"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Write modes.
const (
	WriteModeLog   = "log"
	WriteModeApply = "apply"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// SeedFile points to a YAML or JSON seed. Empty means built-in fixtures.
	SeedFile string `koanf:"seed_file"`

	// Store selects the lead repository: memory or postgres.
	Store string `koanf:"store"`

	// DatabaseURL is the Postgres DSN, required when Store is postgres.
	DatabaseURL string `koanf:"database_url"`

	// WriteMode selects log (actions are only logged) or apply.
	WriteMode string `koanf:"write_mode"`

	// QueueSize bounds the in-memory action queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of action workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many action ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxTopLimit caps GET /leads/top?limit.
	MaxTopLimit int `koanf:"max_top_limit"`

	// OverdueNewHours and OverdueFollowUpHours are the overdue thresholds.
	OverdueNewHours      int `koanf:"overdue_new_hours"`
	OverdueFollowUpHours int `koanf:"overdue_follow_up_hours"`

	// CORSOrigins lists browser origins allowed to call the API.
	CORSOrigins []string `koanf:"cors_origins"`

	// AMQPURL enables the RabbitMQ publisher when set.
	AMQPURL string `koanf:"amqp_url"`

	// SMTP* configure the campaign mailer; it is enabled when SMTPHost is set.
	SMTPHost     string `koanf:"smtp_host"`
	SMTPPort     int    `koanf:"smtp_port"`
	SMTPUser     string `koanf:"smtp_user"`
	SMTPPassword string `koanf:"smtp_password"`
	SMTPFrom     string `koanf:"smtp_from"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		Store:                StoreMemory,
		WriteMode:            WriteModeLog,
		QueueSize:            1024,
		WorkerCount:          runtime.NumCPU(),
		DedupeSize:           10_000,
		MaxTopLimit:          100,
		OverdueNewHours:      24,
		OverdueFollowUpHours: 48,
		CORSOrigins:          []string{"*"},
		SMTPPort:             587,
		SMTPFrom:             "sales@leadboard.local",
		ShutdownTimeout:      10 * time.Second,
	}
}

// OverdueNewAfter returns the New-lead threshold as a duration.
func (c *Config) OverdueNewAfter() time.Duration {
	return time.Duration(c.OverdueNewHours) * time.Hour
}

// OverdueFollowUpAfter returns the Follow Up threshold as a duration.
func (c *Config) OverdueFollowUpAfter() time.Duration {
	return time.Duration(c.OverdueFollowUpHours) * time.Hour
}
