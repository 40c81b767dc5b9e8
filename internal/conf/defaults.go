// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for the cache and rebuild settings.
const (
	DefaultStandardCacheSize = 64
	DefaultElementCacheSize  = 256
	DefaultJointCacheSize    = 32
	DefaultMaxMinCacheSize   = 32
	DefaultComparisonTTL     = 10 * time.Minute
	DefaultRebuildWorkers    = 4
	DefaultSlowQuery         = 200 * time.Millisecond
)

// setDefaults sets default values for every configuration key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("project.id", 1)

	v.SetDefault("database.type", DatabaseSQLite)
	v.SetDefault("database.sqlite.path", "rps.db")
	v.SetDefault("database.mysql.host", "localhost")
	v.SetDefault("database.mysql.port", 3306)
	v.SetDefault("database.mysql.username", "rps")
	v.SetDefault("database.mysql.password", "")
	v.SetDefault("database.mysql.database", "rps")
	v.SetDefault("database.slowquery", DefaultSlowQuery)

	v.SetDefault("cache.standard.size", DefaultStandardCacheSize)
	v.SetDefault("cache.element.size", DefaultElementCacheSize)
	v.SetDefault("cache.joint.size", DefaultJointCacheSize)
	v.SetDefault("cache.maxmin.size", DefaultMaxMinCacheSize)
	v.SetDefault("cache.comparison.ttl", DefaultComparisonTTL)

	v.SetDefault("rebuild.concurrency", DefaultRebuildWorkers)

	v.SetDefault("logging.default_level", "info")
	v.SetDefault("logging.timezone", "Local")
	v.SetDefault("logging.console.enabled", true)
	v.SetDefault("logging.console.level", "info")
	v.SetDefault("logging.file_output.enabled", false)
	v.SetDefault("logging.file_output.path", "logs/rps.log")
	v.SetDefault("logging.file_output.level", "info")

	v.SetDefault("metrics.enabled", false)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.dsn", "")
}
