package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists the session in a single-table SQLite file.
type SQLiteStore struct {
	DB *sql.DB
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{DB: db}
	if err := s.InitSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS session_entries (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create session schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO session_entries (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	_, err := s.DB.ExecContext(ctx, query, key, value)
	return err
}

func (s *SQLiteStore) Read(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM session_entries WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM session_entries`)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.DB.Close()
}
