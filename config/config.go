// Package config loads application configuration.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envFile = "config/.env"

// defaults lists every key read from the environment. Keys are bound as
// upper-case with "." replaced by "_", e.g. WORKFLOW_APPLICATION_TTL.
var defaults = map[string]interface{}{
	"logging.level": "info",

	"server.host":             "0.0.0.0",
	"server.port":             8080,
	"server.shutdown_timeout": 5 * time.Second,
	"http.request_timeout":    3 * time.Second,

	"storage.backend":   "postgres",
	"storage.seed_file": "",

	"auth.jwt_secret": "",
	"auth.issuer":     "",

	"workflow.application_ttl":   48 * time.Hour,
	"workflow.notification_ttl":  15 * 24 * time.Hour,
	"workflow.sweep_schedule":    "@every 10m",
	"workflow.dispatch_schedule": "@every 5s",
	"workflow.dispatch_batch":    100,
	"workflow.job_timeout":       time.Minute,

	"redis.addr":     "",
	"redis.password": "",
	"redis.db":       0,
	"redis.channel":  "project-connect.notifications",

	"postgres.host":            "localhost",
	"postgres.port":            5432,
	"postgres.user":            "postgres",
	"postgres.password":        "postgres",
	"postgres.db_name":         "project_connect_db",
	"postgres.ssl_mode":        "disable",
	"postgres.migrations_dir":  "db/migrations",
	"postgres.migrate_timeout": 10 * time.Second,
	"postgres.query_timeout":   2 * time.Second,
	"postgres.max_conns":       10,
	"postgres.min_conns":       2,
}

// NewConfig loads configuration from the environment, with config/.env as a
// fallback for variables the process does not set.
func NewConfig() (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := register(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile(path string) error {
	envMap, err := godotenv.Read(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	for k, val := range envMap {
		if _, exists := os.LookupEnv(k); !exists {
			_ = os.Setenv(k, val)
		}
	}
	return nil
}

func register(v *viper.Viper) error {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v.SetDefault(k, defaults[k])
		if err := v.BindEnv(k); err != nil {
			return fmt.Errorf("bind %s: %w", k, err)
		}
	}
	return nil
}
