// conf/config.go settings for the results engine
package conf

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/rps-results/internal/errors"
	"github.com/tphakala/rps-results/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

// Database backends
const (
	DatabaseSQLite = "sqlite"
	DatabaseMySQL  = "mysql"
)

// ProjectSettings identifies the project a process works on
type ProjectSettings struct {
	ID uint `yaml:"id" mapstructure:"id"`
}

// SQLiteSettings contains settings for the SQLite project database
type SQLiteSettings struct {
	Path string `yaml:"path" mapstructure:"path"` // database file, ":memory:" for a transient store
}

// MySQLSettings contains settings for a shared MySQL project database
type MySQLSettings struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	Database string `yaml:"database" mapstructure:"database"`
}

// DatabaseSettings selects and configures the storage backend
type DatabaseSettings struct {
	Type      string         `yaml:"type" mapstructure:"type"` // sqlite or mysql
	SQLite    SQLiteSettings `yaml:"sqlite" mapstructure:"sqlite"`
	MySQL     MySQLSettings  `yaml:"mysql" mapstructure:"mysql"`
	SlowQuery time.Duration  `yaml:"slowquery" mapstructure:"slowquery"` // 0 disables slow query warnings
}

// MySQLDSN returns the go-sql-driver DSN for the configured MySQL database
func (d *DatabaseSettings) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.MySQL.Username, d.MySQL.Password, d.MySQL.Host, d.MySQL.Port, d.MySQL.Database)
}

// LRUSettings bounds a dataset memo
type LRUSettings struct {
	Size int `yaml:"size" mapstructure:"size"`
}

// ComparisonCacheSettings controls the comparison memo
type ComparisonCacheSettings struct {
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// CacheSettings sizes the in-memory dataset memos
type CacheSettings struct {
	Standard   LRUSettings             `yaml:"standard" mapstructure:"standard"`
	Element    LRUSettings             `yaml:"element" mapstructure:"element"`
	Joint      LRUSettings             `yaml:"joint" mapstructure:"joint"`
	MaxMin     LRUSettings             `yaml:"maxmin" mapstructure:"maxmin"`
	Comparison ComparisonCacheSettings `yaml:"comparison" mapstructure:"comparison"`
}

// RebuildSettings controls background cache rebuilds
type RebuildSettings struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"` // parallel category rebuilds per job
}

// MetricsSettings controls Prometheus metrics
type MetricsSettings struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// TelemetrySettings controls error reporting to Sentry
type TelemetrySettings struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	DSN     string `yaml:"dsn" mapstructure:"dsn"`
}

// Settings is the complete configuration. It is constructed by Load and
// passed explicitly to the components that need it.
type Settings struct {
	Debug     bool                 `yaml:"debug" mapstructure:"debug"`
	Project   ProjectSettings      `yaml:"project" mapstructure:"project"`
	Database  DatabaseSettings     `yaml:"database" mapstructure:"database"`
	Cache     CacheSettings        `yaml:"cache" mapstructure:"cache"`
	Rebuild   RebuildSettings      `yaml:"rebuild" mapstructure:"rebuild"`
	Logging   logger.LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Metrics   MetricsSettings      `yaml:"metrics" mapstructure:"metrics"`
	Telemetry TelemetrySettings    `yaml:"telemetry" mapstructure:"telemetry"`
}

// Load reads settings from path, or from the default config locations when
// path is empty. Missing config files fall back to the embedded defaults.
// Environment variables prefixed with RPS_ override file values.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := bindEnvVars(v); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "bind-env").
			Build()
	}

	if err := readConfig(v, path); err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal").
			Build()
	}

	if err := settings.Validate(); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryValidation).
			Context("operation", "validate").
			Build()
	}

	return settings, nil
}

// readConfig loads the explicit file, the first config.yaml found in the
// default paths, or the embedded default config in that order.
func readConfig(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errors.New(err).
				Category(errors.CategoryFileIO).
				Context("config_path", path).
				Build()
		}
		return nil
	}

	if found, err := FindConfigFile(); err == nil {
		v.SetConfigFile(found)
		if err := v.ReadInConfig(); err != nil {
			return errors.New(err).
				Category(errors.CategoryFileIO).
				Context("config_path", found).
				Build()
		}
		return nil
	}

	if err := v.ReadConfig(bytes.NewReader(defaultConfig())); err != nil {
		return errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "read-embedded-config").
			Build()
	}
	return nil
}

// defaultConfig returns the embedded default config.yaml
func defaultConfig() []byte {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		// embedded at build time; a missing file is a build defect
		panic(fmt.Sprintf("embedded config.yaml missing: %v", err))
	}
	return data
}

// WriteDefaultConfig writes the embedded default config to path unless a
// file already exists there.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file already exists: %s", path).
			Category(errors.CategoryFileIO).
			Build()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}
	if err := os.WriteFile(path, defaultConfig(), 0o600); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}
	return nil
}

// Save writes settings to path as YAML. The write goes through a temporary
// file in the same directory so a crash never leaves a truncated config.
func (s *Settings) Save(path string) error {
	yamlData, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempFileName := tempFile.Name()
	defer func() { _ = os.Remove(tempFileName) }()

	if _, err := tempFile.Write(yamlData); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	if err := moveFile(tempFileName, path); err != nil {
		return fmt.Errorf("error replacing config file: %w", err)
	}
	return nil
}
