package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps sql.DB for Postgres using pgx. Connection retry state lives on the
// struct rather than in package globals so callers own the lifecycle.
type DB struct {
	Client   *sql.DB
	attempts int
}

// NewDB opens a Postgres connection, pinging with bounded retries before
// giving up.
func NewDB(connString string, maxAttempts int) (*DB, error) {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	d := &DB{Client: db}
	for d.attempts = 1; d.attempts <= maxAttempts; d.attempts++ {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err = db.PingContext(ctx)
		cancel()
		if err == nil {
			return d, nil
		}
		log.Printf("db ping attempt %d/%d failed: %v", d.attempts, maxAttempts, err)
		time.Sleep(time.Duration(d.attempts) * 500 * time.Millisecond)
	}
	return d, fmt.Errorf("db unreachable after %d attempts: %w", maxAttempts, err)
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
