// Package datastore opens and migrates the project database.
package datastore

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tphakala/rps-results/internal/conf"
	"github.com/tphakala/rps-results/internal/datastore/entities"
	"github.com/tphakala/rps-results/internal/errors"
	"github.com/tphakala/rps-results/internal/logger"
)

// Session is a storage handle owned by exactly one task.
type Session interface {
	// DB returns the underlying GORM database.
	DB() *gorm.DB
	// Close releases the handle.
	Close() error
}

// Manager owns the main storage handle of a process.
type Manager interface {
	Session
	// Initialize creates or updates the schema.
	Initialize() error
	// Path returns the database location for display.
	Path() string
	// IsMySQL returns true if this is a MySQL manager.
	IsMySQL() bool
	// OpenSession opens an independent handle for a background task.
	OpenSession() (Session, error)
}

// Option customizes a manager.
type Option func(*options)

type options struct {
	onSlowQuery logger.SlowQueryHook
}

// WithSlowQueryHook reports statements slower than database.slowquery.
func WithSlowQueryHook(hook logger.SlowQueryHook) Option {
	return func(o *options) {
		o.onSlowQuery = hook
	}
}

// Open connects to the database selected by settings.
func Open(settings *conf.Settings, log logger.Logger, opts ...Option) (Manager, error) {
	if settings == nil {
		return nil, errors.Newf("settings cannot be nil").
			Category(errors.CategoryValidation).
			Build()
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if log == nil {
		log = logger.NewSlogLogger(nil, logger.LogLevelInfo, nil)
	}
	log = log.Module("datastore")

	gormLog := logger.NewGormLoggerAdapter(log, settings.Database.SlowQuery)
	if o.onSlowQuery != nil {
		gormLog = gormLog.WithSlowQueryHook(o.onSlowQuery)
	}
	cfg := &gorm.Config{Logger: gormLog}

	switch strings.ToLower(settings.Database.Type) {
	case conf.DatabaseMySQL:
		return newMySQLManager(&settings.Database, cfg, log)
	case conf.DatabaseSQLite, "":
		return newSQLiteManager(settings.Database.SQLite.Path, cfg, log)
	default:
		return nil, errors.Newf("unsupported database type: %s", settings.Database.Type).
			Category(errors.CategoryConfiguration).
			Build()
	}
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(entities.All()...); err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "auto-migrate").
			Build()
	}
	return nil
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}
	return sqlDB.Close()
}

// SQLiteManager handles a SQLite project database.
type SQLiteManager struct {
	db     *gorm.DB
	dbPath string
	config *gorm.Config
	log    logger.Logger
}

// sqliteDSN adds the recommended pragmas to a database file path.
func sqliteDSN(path string) string {
	if isMemoryPath(path) {
		return "file::memory:?cache=shared&_foreign_keys=ON"
	}
	return fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", path)
}

func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:")
}

func newSQLiteManager(path string, cfg *gorm.Config, log logger.Logger) (*SQLiteManager, error) {
	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), cfg)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "open-sqlite").
			Context("path", path).
			Build()
	}

	log.Debug("opened sqlite database", logger.String("path", path))
	return &SQLiteManager{db: db, dbPath: path, config: cfg, log: log}, nil
}

// Initialize creates or updates the schema.
func (m *SQLiteManager) Initialize() error {
	return migrate(m.db)
}

// DB returns the underlying GORM database.
func (m *SQLiteManager) DB() *gorm.DB {
	return m.db
}

// Path returns the database file path.
func (m *SQLiteManager) Path() string {
	return m.dbPath
}

// IsMySQL returns false for SQLite.
func (m *SQLiteManager) IsMySQL() bool {
	return false
}

// Close closes the database connection.
func (m *SQLiteManager) Close() error {
	return closeDB(m.db)
}

// OpenSession opens a second connection to the same file. In-memory
// databases cannot be reopened, so their sessions share the pool and
// closing them is a no-op.
func (m *SQLiteManager) OpenSession() (Session, error) {
	if isMemoryPath(m.dbPath) {
		return &sharedSession{db: m.db.Session(&gorm.Session{NewDB: true})}, nil
	}
	db, err := gorm.Open(sqlite.Open(sqliteDSN(m.dbPath)), m.config)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "open-session").
			Build()
	}
	return &ownedSession{db: db}, nil
}

// MySQLManager handles a MySQL project database.
type MySQLManager struct {
	db       *gorm.DB
	dsn      string
	location string
	config   *gorm.Config
	log      logger.Logger
}

func openMySQL(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

func newMySQLManager(settings *conf.DatabaseSettings, cfg *gorm.Config, log logger.Logger) (*MySQLManager, error) {
	dsn := settings.MySQLDSN()
	location := fmt.Sprintf("%s:%d/%s", settings.MySQL.Host, settings.MySQL.Port, settings.MySQL.Database)

	db, err := openMySQL(dsn, cfg)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "open-mysql").
			Context("location", location).
			Build()
	}

	log.Debug("opened mysql database", logger.String("location", location))
	return &MySQLManager{db: db, dsn: dsn, location: location, config: cfg, log: log}, nil
}

// Initialize creates or updates the schema.
func (m *MySQLManager) Initialize() error {
	return migrate(m.db)
}

// DB returns the underlying GORM database.
func (m *MySQLManager) DB() *gorm.DB {
	return m.db
}

// Path returns host:port/database.
func (m *MySQLManager) Path() string {
	return m.location
}

// IsMySQL returns true for MySQL.
func (m *MySQLManager) IsMySQL() bool {
	return true
}

// Close closes the connection pool.
func (m *MySQLManager) Close() error {
	return closeDB(m.db)
}

// OpenSession opens a separate connection pool.
func (m *MySQLManager) OpenSession() (Session, error) {
	db, err := openMySQL(m.dsn, m.config)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "open-session").
			Build()
	}
	return &ownedSession{db: db}, nil
}

// ownedSession closes its own connection pool.
type ownedSession struct {
	db *gorm.DB
}

func (s *ownedSession) DB() *gorm.DB { return s.db }
func (s *ownedSession) Close() error { return closeDB(s.db) }

// sharedSession borrows the manager's pool.
type sharedSession struct {
	db *gorm.DB
}

func (s *sharedSession) DB() *gorm.DB { return s.db }
func (s *sharedSession) Close() error { return nil }
