package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DefaultRevisionLimit is how many past values are kept per key.
const DefaultRevisionLimit = 20

// SQLiteKV implements KV on a SQLite database and keeps a short revision
// history of every key.
type SQLiteKV struct {
	db            *sql.DB
	dbPath        string
	revisionLimit int
}

// Revision is a past value of a key.
type Revision struct {
	WrittenAt time.Time
	Key       string
	Value     []byte
	ID        int64
	Size      int
}

// NewSQLiteKV opens (and creates) the database at dbPath and migrates it.
func NewSQLiteKV(ctx context.Context, dbPath string) (*SQLiteKV, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath: %w", ErrEmptyKey)
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	kv := &SQLiteKV{
		db:            db,
		dbPath:        dbPath,
		revisionLimit: DefaultRevisionLimit,
	}
	if err := kv.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return kv, nil
}

// SetRevisionLimit changes how many revisions are kept per key.
func (s *SQLiteKV) SetRevisionLimit(limit int) {
	if limit > 0 {
		s.revisionLimit = limit
	}
}

// Close closes the database connection.
func (s *SQLiteKV) Close() error {
	return s.db.Close()
}

// Get returns the current value of key.
func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query key: %w", err)
	}
	return value, nil
}

// Set upserts key and records the write as a revision, pruning old ones.
func (s *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now); err != nil {
		return fmt.Errorf("failed to store key: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO kv_revisions (key, value, written_at) VALUES (?, ?, ?)`,
		key, value, now); err != nil {
		return fmt.Errorf("failed to record revision: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM kv_revisions
		WHERE key = ? AND id NOT IN (
			SELECT id FROM kv_revisions WHERE key = ? ORDER BY id DESC LIMIT ?
		)`, key, key, s.revisionLimit); err != nil {
		return fmt.Errorf("failed to prune revisions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit write: %w", err)
	}

	slog.Debug("stored key", "key", key, "bytes", len(value))
	return nil
}

// Revisions lists the newest revisions of key without their values.
func (s *SQLiteKV) Revisions(ctx context.Context, key string, limit int) ([]Revision, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.revisionLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, key, length(value), written_at
		FROM kv_revisions
		WHERE key = ?
		ORDER BY id DESC
		LIMIT ?`, key, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query revisions: %w", err)
	}
	defer rows.Close()

	var revisions []Revision
	for rows.Next() {
		var rev Revision
		if err := rows.Scan(&rev.ID, &rev.Key, &rev.Size, &rev.WrittenAt); err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		revisions = append(revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revisions: %w", err)
	}
	return revisions, nil
}

// Revision returns one revision including its value.
func (s *SQLiteKV) Revision(ctx context.Context, id int64) (*Revision, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var rev Revision
	err := s.db.QueryRowContext(ctx, `
		SELECT id, key, value, written_at FROM kv_revisions WHERE id = ?`, id).
		Scan(&rev.ID, &rev.Key, &rev.Value, &rev.WrittenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(fmt.Sprintf("revision %d", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query revision: %w", err)
	}
	rev.Size = len(rev.Value)
	return &rev, nil
}
