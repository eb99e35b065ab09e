package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Workflow WorkflowConfig `mapstructure:"workflow"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Workflow.ApplicationTTL <= 0 || c.Workflow.NotificationTTL <= 0 {
		return errors.New("workflow ttls must be positive")
	}
	if c.Workflow.SweepSchedule == "" || c.Workflow.DispatchSchedule == "" {
		return errors.New("workflow schedules are required")
	}
	switch c.Storage.Backend {
	case "memory":
		return nil
	case "postgres":
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}
	if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DBName == "" {
		return errors.New("postgres credentials are required")
	}
	if c.Postgres.Host == "" {
		return errors.New("postgres.host is required")
	}
	return nil
}

// ServerAddr returns host:port for HTTP server binding.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ServerConfig contains HTTP server options.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// HTTPConfig contains transport settings.
type HTTPConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	// SeedFile optionally loads projects and students into the memory backend.
	SeedFile string `mapstructure:"seed_file"`
}

// AuthConfig configures bearer token verification.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// WorkflowConfig holds retention and background job settings.
type WorkflowConfig struct {
	ApplicationTTL   time.Duration `mapstructure:"application_ttl"`
	NotificationTTL  time.Duration `mapstructure:"notification_ttl"`
	SweepSchedule    string        `mapstructure:"sweep_schedule"`
	DispatchSchedule string        `mapstructure:"dispatch_schedule"`
	DispatchBatch    int           `mapstructure:"dispatch_batch"`
	JobTimeout       time.Duration `mapstructure:"job_timeout"`
}

// RedisConfig describes the notification fan-out target. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// PostgresConfig describes database connection parameters.
type PostgresConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"db_name"`
	SSLMode        string        `mapstructure:"ssl_mode"`
	MigrationsDir  string        `mapstructure:"migrations_dir"`
	MigrateTimeout time.Duration `mapstructure:"migrate_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	MaxConns       int32         `mapstructure:"max_conns"`
	MinConns       int32         `mapstructure:"min_conns"`
}

// DSN returns a Postgres connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
	)
}
