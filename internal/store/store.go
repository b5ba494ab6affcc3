package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrNotFound is returned when a submission id matches no row.
var ErrNotFound = errors.New("login submission not found")

const schema = `
CREATE TABLE IF NOT EXISTS login_submissions (
	id           TEXT PRIMARY KEY,
	email        TEXT NOT NULL,
	submitted_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS login_submissions_email_idx ON login_submissions (email, submitted_at DESC);`

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Migrate creates the audit table if missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate login_submissions: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RecordLoginSubmission inserts an accepted submission. Only the email is
// kept; passwords never reach the store.
func (s *Store) RecordLoginSubmission(ctx context.Context, submission *models.LoginSubmission) error {
	ctx, span := util.StartSpan(ctx, "Store.RecordLoginSubmission")
	defer span.End()

	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO login_submissions (id, email, submitted_at) VALUES (:id, :email, :submitted_at)`,
		submission)
	if err != nil {
		return fmt.Errorf("failed to insert login submission: %w", err)
	}
	return nil
}

// GetLoginSubmission retrieves a submission by ID
func (s *Store) GetLoginSubmission(ctx context.Context, id string) (*models.LoginSubmission, error) {
	var submission models.LoginSubmission
	err := s.db.GetContext(ctx, &submission,
		"SELECT id, email, submitted_at FROM login_submissions WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListLoginSubmissions returns the newest submissions for email, up to limit.
func (s *Store) ListLoginSubmissions(ctx context.Context, email string, limit int) ([]models.LoginSubmission, error) {
	var submissions []models.LoginSubmission
	err := s.db.SelectContext(ctx, &submissions,
		"SELECT id, email, submitted_at FROM login_submissions WHERE email = $1 ORDER BY submitted_at DESC LIMIT $2",
		email, limit)
	return submissions, err
}
