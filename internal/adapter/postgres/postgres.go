// Package postgres implements the durable state store on PostgreSQL.
// It is used for shared-terminal deployments where several storefront
// terminals keep their state on one database server; each terminal's
// records are isolated by terminal ID.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront/internal/domain"

	_ "github.com/lib/pq"
)

// DB wraps a *sql.DB holding storefront state.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS storefront_state (terminal_id TEXT NOT NULL, key TEXT NOT NULL, value TEXT NOT NULL, updated_at TIMESTAMPTZ NOT NULL, PRIMARY KEY (terminal_id, key));",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// StateStore implements the state store port for one terminal.
type StateStore struct {
	db         *DB
	terminalID string
}

var _ domain.StateStore = (*StateStore)(nil)

// NewStateStore binds a DB to the given terminal ID.
func NewStateStore(db *DB, terminalID string) *StateStore {
	return &StateStore{db: db, terminalID: terminalID}
}

// Get reads the value for key. A missing row is reported as absent.
func (s *StateStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.sql.QueryRowContext(ctx,
		"SELECT value FROM storefront_state WHERE terminal_id = $1 AND key = $2",
		s.terminalID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set upserts the value for key.
func (s *StateStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.sql.ExecContext(ctx,
		"INSERT INTO storefront_state (terminal_id, key, value, updated_at) VALUES ($1, $2, $3, $4) ON CONFLICT (terminal_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at",
		s.terminalID, key, value, time.Now(),
	)
	return err
}

// Remove deletes the value for key. Removing an absent key is a no-op.
func (s *StateStore) Remove(ctx context.Context, key string) error {
	_, err := s.db.sql.ExecContext(ctx,
		"DELETE FROM storefront_state WHERE terminal_id = $1 AND key = $2",
		s.terminalID, key,
	)
	return err
}
