package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookreviews/internal/entities"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

type Database struct {
	DB      *gorm.DB
	dialect Dialect
}

type options struct {
	logLevel logger.LogLevel
	log      logrus.FieldLogger
}

// Option customises NewDatabase.
type Option func(*options)

// WithLogLevel sets the gorm query log level (default: Warn).
func WithLogLevel(level logger.LogLevel) Option {
	return func(o *options) { o.logLevel = level }
}

// WithLogger routes gorm's query log through the application logger
// (default: the logrus standard logger).
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

// ParseDSN returns the dialect for a connection string and the DSN the driver expects.
func ParseDSN(dsn string) (Dialect, string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DialectPostgres, dsn
	case strings.Contains(dsn, "host=") && strings.Contains(dsn, "dbname="):
		return DialectPostgres, dsn
	case strings.HasPrefix(dsn, "sqlite://"):
		return DialectSQLite, strings.TrimPrefix(dsn, "sqlite://")
	default:
		return DialectSQLite, dsn
	}
}

func NewDatabase(dsn string, opts ...Option) (*Database, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database connection string is empty")
	}

	o := options{logLevel: logger.Warn, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	dialect, driverDSN := ParseDSN(dsn)

	var dialector gorm.Dialector
	switch dialect {
	case DialectPostgres:
		dialector = postgres.Open(driverDSN)
	default:
		dialector = sqlite.Open(driverDSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(o.log.WithField("component", "gorm"), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  o.logLevel,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Review{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db, dialect: dialect}, nil
}

// Dialect reports which driver the connection uses.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// SQL returns the underlying connection pool.
func (d *Database) SQL() (*sql.DB, error) {
	return d.DB.DB()
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
