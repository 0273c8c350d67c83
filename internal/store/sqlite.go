package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/edventure/tutorbot/internal/model/user"
)

// SQLiteStore implements user.Store on a local SQLite file. Subjects are
// held as a JSON array column; union/difference semantics are applied in a
// read-modify-write transaction.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at dbPath and bootstraps the
// schema.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL keeps concurrent readers cheap while events are serialized per user.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		username TEXT NOT NULL,
		subjects TEXT NOT NULL DEFAULT '[]',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_email ON profiles(email);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetByID retrieves a profile by user identifier. A miss returns (nil, nil).
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (*user.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, username, subjects, created_at, updated_at FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

// FindByEmail retrieves the profile holding the given lower-cased email.
func (s *SQLiteStore) FindByEmail(ctx context.Context, email string) (*user.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, username, subjects, created_at, updated_at FROM profiles WHERE email = ?`, email)
	return scanProfile(row)
}

// Create stores the profile keyed by its identifier, replacing any existing
// record while keeping its original created_at.
func (s *SQLiteStore) Create(ctx context.Context, profile *user.Profile) error {
	subjects := profile.Subjects
	if subjects == nil {
		subjects = []string{}
	}
	encoded, err := json.Marshal(subjects)
	if err != nil {
		return fmt.Errorf("encode subjects: %w", err)
	}

	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, email, username, subjects, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			username = excluded.username,
			subjects = excluded.subjects,
			updated_at = excluded.updated_at`,
		profile.ID, profile.Email, profile.Username, string(encoded), now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// AddSubject appends a subject with union semantics.
func (s *SQLiteStore) AddSubject(ctx context.Context, id, subject string) error {
	return s.updateSubjects(ctx, id, func(subjects []string) []string {
		for _, name := range subjects {
			if name == subject {
				return subjects
			}
		}
		return append(subjects, subject)
	})
}

// RemoveSubject removes a subject with set-difference semantics.
func (s *SQLiteStore) RemoveSubject(ctx context.Context, id, subject string) error {
	return s.updateSubjects(ctx, id, func(subjects []string) []string {
		kept := make([]string, 0, len(subjects))
		for _, name := range subjects {
			if name != subject {
				kept = append(kept, name)
			}
		}
		return kept
	})
}

func (s *SQLiteStore) updateSubjects(ctx context.Context, id string, apply func([]string) []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin subjects update: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT subjects FROM profiles WHERE id = ?`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read subjects: %w", err)
	}

	var subjects []string
	if err := json.Unmarshal([]byte(raw), &subjects); err != nil {
		return fmt.Errorf("decode subjects: %w", err)
	}

	updated := apply(subjects)
	encoded, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("encode subjects: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE profiles SET subjects = ?, updated_at = ? WHERE id = ?`,
		string(encoded), time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("write subjects: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit subjects update: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func scanProfile(row *sql.Row) (*user.Profile, error) {
	var p user.Profile
	var raw string
	var createdAt, updatedAt int64

	err := row.Scan(&p.ID, &p.Email, &p.Username, &raw, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile row: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), &p.Subjects); err != nil {
		return nil, fmt.Errorf("decode subjects: %w", err)
	}
	p.CreatedAt = time.Unix(createdAt, 0)
	p.UpdatedAt = time.Unix(updatedAt, 0)
	return &p, nil
}
