// Package db provides database connectivity and operations
package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/celestiaorg/taskman/internal/db/models"
)

// Supported drivers
const (
	// DriverSQLite stores projects in a local sqlite file
	DriverSQLite = "sqlite"
	// DriverPostgres stores projects in a postgres database
	DriverPostgres = "postgres"
)

// Database configuration constants
const (
	// DefaultPath is the default sqlite database file
	DefaultPath = "data/projects.db"
	// DefaultHost is the default database host
	DefaultHost = "localhost"
	// DefaultPort is the default database port
	DefaultPort = 5432
	// DefaultUser is the default database user
	DefaultUser = "postgres"
	// DefaultPassword is the default database password
	DefaultPassword = "postgres"
	// DefaultDBName is the default database name
	DefaultDBName     = "taskman"
	DefaultSSLEnabled = false
	// DefaultBusyTimeoutMS is how long a sqlite connection waits on a locked database
	DefaultBusyTimeoutMS = 5000
)

// MemoryPath opens a private in-memory sqlite database
const MemoryPath = ":memory:"

// Options represents database connection configuration options
type Options struct {
	Driver string

	// sqlite
	Path string

	// postgres; DSN wins over the discrete fields when set
	DSN        string
	Host       string
	User       string
	Password   string
	DBName     string
	Port       int
	SSLEnabled *bool

	LogLevel logger.LogLevel
}

// New creates a new database connection with the given options and migrates
// the schema.
func New(opts Options) (*gorm.DB, error) {
	opts = setDefaults(opts)

	dialector, err := dialectorFor(opts)
	if err != nil {
		return nil, err
	}

	// Configure custom logger to ignore record not found errors
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			LogLevel:                  opts.LogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", opts.Driver, err)
	}

	if opts.Driver == DriverSQLite && opts.Path == MemoryPath {
		// every pooled connection would otherwise see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		_ = Close(db)
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the project database schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate project database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsDuplicateKeyError checks if the given error is a unique constraint violation
func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// SQLiteDSN returns the connection string used for a sqlite database file.
// Writers take the lock at BEGIN so concurrent transactions queue on the busy
// timeout instead of failing on lock upgrade.
func SQLiteDSN(path string) string {
	if path == MemoryPath {
		return fmt.Sprintf("file::memory:?_busy_timeout=%d", DefaultBusyTimeoutMS)
	}
	return fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_txlock=immediate", path, DefaultBusyTimeoutMS)
}

func dialectorFor(opts Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case DriverSQLite:
		if opts.Path != MemoryPath {
			if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		return sqlite.Open(SQLiteDSN(opts.Path)), nil
	case DriverPostgres:
		return postgres.Open(postgresDSN(opts)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

func postgresDSN(opts Options) string {
	if opts.DSN != "" {
		return opts.DSN
	}
	sslMode := "disable"
	if opts.SSLEnabled != nil && *opts.SSLEnabled {
		sslMode = "require"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		opts.Host, opts.User, opts.Password, opts.DBName, opts.Port, sslMode)
}

func setDefaults(opts Options) Options {
	opts.Driver = strings.ToLower(strings.TrimSpace(opts.Driver))
	if opts.Driver == "" {
		opts.Driver = DriverSQLite
	}
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.User == "" {
		opts.User = DefaultUser
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	if opts.DBName == "" {
		opts.DBName = DefaultDBName
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.SSLEnabled == nil {
		sslMode := DefaultSSLEnabled
		opts.SSLEnabled = &sslMode
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}
	return opts
}
