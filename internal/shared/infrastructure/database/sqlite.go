package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteConnection wraps *sql.DB to implement Connection for SQLite.
type SQLiteConnection struct {
	db *sql.DB
}

// NewSQLiteConnection opens a SQLite database at the given path.
// Pass ":memory:" for an in-memory database.
func NewSQLiteConnection(ctx context.Context, path string) (*SQLiteConnection, error) {
	if path == "" {
		path = "cadence.db"
	}

	// WAL for concurrency, busy_timeout so writers wait instead of failing.
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?"
	} else {
		dsn += "&"
	}
	dsn += "_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite doesn't support multiple writers, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteConnection{db: db}, nil
}

// DB returns the underlying sql.DB. Useful for migrations and testing.
func (c *SQLiteConnection) DB() *sql.DB {
	return c.db
}

// Driver returns the driver type.
func (c *SQLiteConnection) Driver() Driver {
	return DriverSQLite
}

// Close closes the database connection.
func (c *SQLiteConnection) Close() error {
	return c.db.Close()
}

// Ping verifies the connection is still alive.
func (c *SQLiteConnection) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// BeginTx starts a new transaction.
func (c *SQLiteConnection) BeginTx(ctx context.Context) (Transaction, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTransaction{tx: tx}, nil
}

// Exec executes a query that doesn't return rows.
func (c *SQLiteConnection) Exec(ctx context.Context, query string, args ...any) error {
	_, err := c.db.ExecContext(ctx, query, args...)
	return err
}

// QueryRow executes a query that returns at most one row.
func (c *SQLiteConnection) QueryRow(ctx context.Context, query string, args ...any) Row {
	return c.db.QueryRowContext(ctx, query, args...)
}

// Query executes a query that returns multiple rows.
func (c *SQLiteConnection) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return WrapSQLRows(rows), nil
}

type sqliteTransaction struct {
	tx *sql.Tx
}

func (t *sqliteTransaction) Commit(ctx context.Context) error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback(ctx context.Context) error {
	return t.tx.Rollback()
}

func (t *sqliteTransaction) Exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}

func (t *sqliteTransaction) QueryRow(ctx context.Context, query string, args ...any) Row {
	return t.tx.QueryRowContext(ctx, query, args...)
}

func (t *sqliteTransaction) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return WrapSQLRows(rows), nil
}
