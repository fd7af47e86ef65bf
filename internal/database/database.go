// Package database provides database connectivity and the prediction
// history repository.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver for local and test use
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections
	DefaultMaxIdleConns = 5
	// DefaultConnMaxLifetime is the default maximum connection lifetime
	DefaultConnMaxLifetime = 5 * time.Minute
	// DefaultPingTimeout is the default timeout for ping operations
	DefaultPingTimeout = 5 * time.Second
)

// Config holds database configuration. Driver selects postgres or sqlite3;
// for sqlite3 only Path is used.
type Config struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string //nolint:gosec // DB connection config
	DBName   string
	SSLMode  string
	Path     string
}

// Connect opens the configured database and verifies the connection.
func Connect(cfg Config) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error

	switch cfg.Driver {
	case "sqlite3":
		db, err = sqlx.Open("sqlite3", cfg.Path)
	case "postgres", "":
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
		)
		db, err = sqlx.Open("postgres", dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), DefaultPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	return db, nil
}

// History table DDL per driver; the id column syntax differs.
const (
	historySchemaPostgres = `
CREATE TABLE IF NOT EXISTS prediction_history (
	id SERIAL PRIMARY KEY,
	disease TEXT NOT NULL,
	probability DOUBLE PRECISION NOT NULL,
	risk_tier TEXT NOT NULL,
	advice_source TEXT NOT NULL,
	processing_time_ms BIGINT NOT NULL,
	predicted_at TIMESTAMPTZ NOT NULL
)`

	historySchemaSQLite = `
CREATE TABLE IF NOT EXISTS prediction_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	disease TEXT NOT NULL,
	probability REAL NOT NULL,
	risk_tier TEXT NOT NULL,
	advice_source TEXT NOT NULL,
	processing_time_ms INTEGER NOT NULL,
	predicted_at TIMESTAMP NOT NULL
)`
)

// Migrate ensures the prediction history table exists.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	schema := historySchemaPostgres
	if db.DriverName() == "sqlite3" {
		schema = historySchemaSQLite
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create prediction_history table: %w", err)
	}
	return nil
}
