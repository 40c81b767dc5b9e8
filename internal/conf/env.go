// env.go - environment variable overrides
package conf

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, RPS_DATABASE_TYPE etc.
const EnvPrefix = "RPS"

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns the validated environment variable bindings
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "RPS_DEBUG", validateEnvBool},
		{"project.id", "RPS_PROJECT_ID", validateEnvPositiveInt},

		{"database.type", "RPS_DATABASE_TYPE", validateEnvDatabaseType},
		{"database.sqlite.path", "RPS_DATABASE_SQLITE_PATH", nil},
		{"database.mysql.host", "RPS_DATABASE_MYSQL_HOST", nil},
		{"database.mysql.port", "RPS_DATABASE_MYSQL_PORT", validateEnvPort},
		{"database.mysql.username", "RPS_DATABASE_MYSQL_USERNAME", nil},
		{"database.mysql.password", "RPS_DATABASE_MYSQL_PASSWORD", nil},
		{"database.mysql.database", "RPS_DATABASE_MYSQL_DATABASE", nil},
		{"database.slowquery", "RPS_DATABASE_SLOWQUERY", validateEnvDuration},

		{"cache.comparison.ttl", "RPS_CACHE_COMPARISON_TTL", validateEnvDuration},
		{"rebuild.concurrency", "RPS_REBUILD_CONCURRENCY", validateEnvPositiveInt},

		{"logging.default_level", "RPS_LOGGING_DEFAULT_LEVEL", validateEnvLogLevel},
		{"metrics.enabled", "RPS_METRICS_ENABLED", validateEnvBool},
		{"telemetry.enabled", "RPS_TELEMETRY_ENABLED", validateEnvBool},
		{"telemetry.dsn", "RPS_TELEMETRY_DSN", nil},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal)
func bindEnvVars(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var problems []string
	for _, binding := range getEnvBindings() {
		if err := v.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			problems = append(problems, fmt.Sprintf("failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate == nil {
			continue
		}
		if envValue := os.Getenv(binding.EnvVar); envValue != "" {
			if err := binding.Validate(envValue); err != nil {
				problems = append(problems, fmt.Sprintf("invalid %s value %q: %v", binding.EnvVar, envValue, err))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("must be true or false")
	}
	return nil
}

func validateEnvPositiveInt(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}

func validateEnvPort(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("must be a port between 1 and 65535")
	}
	return nil
}

func validateEnvDuration(value string) error {
	if _, err := time.ParseDuration(value); err != nil {
		return fmt.Errorf("must be a duration such as 200ms or 10m")
	}
	return nil
}

func validateEnvDatabaseType(value string) error {
	switch strings.ToLower(value) {
	case DatabaseSQLite, DatabaseMySQL:
		return nil
	default:
		return fmt.Errorf("must be %s or %s", DatabaseSQLite, DatabaseMySQL)
	}
}

func validateEnvLogLevel(value string) error {
	if !isValidLogLevel(value) {
		return fmt.Errorf("must be one of trace, debug, info, warn, error")
	}
	return nil
}
