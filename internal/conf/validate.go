// conf/validate.go

package conf

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %s", strings.Join(ve.Errors, "; "))
}

// Validate checks the whole settings tree and reports every problem at once
func (s *Settings) Validate() error {
	ve := ValidationError{}

	if s.Project.ID == 0 {
		ve.Errors = append(ve.Errors, "project.id must be set")
	}

	if err := validateDatabaseSettings(&s.Database); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateCacheSettings(&s.Cache); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if s.Rebuild.Concurrency < 1 {
		ve.Errors = append(ve.Errors, "rebuild.concurrency must be at least 1")
	}

	if s.Logging.DefaultLevel != "" && !isValidLogLevel(s.Logging.DefaultLevel) {
		ve.Errors = append(ve.Errors, fmt.Sprintf("logging.default_level %q is not a log level", s.Logging.DefaultLevel))
	}
	for module, level := range s.Logging.ModuleLevels {
		if !isValidLogLevel(level) {
			ve.Errors = append(ve.Errors, fmt.Sprintf("logging.module_levels.%s %q is not a log level", module, level))
		}
	}

	if s.Telemetry.Enabled && s.Telemetry.DSN == "" {
		ve.Errors = append(ve.Errors, "telemetry.dsn is required when telemetry is enabled")
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateDatabaseSettings validates the storage backend selection
func validateDatabaseSettings(settings *DatabaseSettings) error {
	var errs []string

	settings.Type = strings.ToLower(settings.Type)
	switch settings.Type {
	case DatabaseSQLite:
		if settings.SQLite.Path == "" {
			errs = append(errs, "database.sqlite.path must be set")
		}
	case DatabaseMySQL:
		if settings.MySQL.Host == "" {
			errs = append(errs, "database.mysql.host must be set")
		}
		if settings.MySQL.Port < 1 || settings.MySQL.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.mysql.port %d is out of range", settings.MySQL.Port))
		}
		if settings.MySQL.Database == "" {
			errs = append(errs, "database.mysql.database must be set")
		}
	default:
		errs = append(errs, fmt.Sprintf("database.type %q must be %s or %s", settings.Type, DatabaseSQLite, DatabaseMySQL))
	}

	if settings.SlowQuery < 0 {
		errs = append(errs, "database.slowquery cannot be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("database settings: %s", strings.Join(errs, ", "))
	}
	return nil
}

// validateCacheSettings validates the memo bounds
func validateCacheSettings(settings *CacheSettings) error {
	var errs []string

	sizes := []struct {
		key  string
		size int
	}{
		{"cache.standard.size", settings.Standard.Size},
		{"cache.element.size", settings.Element.Size},
		{"cache.joint.size", settings.Joint.Size},
		{"cache.maxmin.size", settings.MaxMin.Size},
	}
	for _, s := range sizes {
		if s.size < 1 {
			errs = append(errs, fmt.Sprintf("%s must be at least 1", s.key))
		}
	}

	if settings.Comparison.TTL < time.Second {
		errs = append(errs, "cache.comparison.ttl must be at least 1s")
	}

	if len(errs) > 0 {
		return fmt.Errorf("cache settings: %s", strings.Join(errs, ", "))
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "trace", "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}
