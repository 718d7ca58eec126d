package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/vetstock/vetstock-backend/pkg/database"
	"github.com/vetstock/vetstock-backend/pkg/errors"
)

// Session represents a server-side login session
type Session struct {
	ID         string     `db:"id"`
	Username   string     `db:"username"`
	ExpiresAt  time.Time  `db:"expires_at"`
	CreatedAt  time.Time  `db:"created_at"`
	LastUsedAt time.Time  `db:"last_used_at"`
	RevokedAt  *time.Time `db:"revoked_at"`
}

// Active reports whether the session is usable at the given instant
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && s.ExpiresAt.After(now)
}

// SessionRepository handles session persistence
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session for a username
func (r *SessionRepository) Create(ctx context.Context, username string, expiresAt time.Time) (*Session, error) {
	session := &Session{
		ID:         uuid.New().String(),
		Username:   username,
		ExpiresAt:  expiresAt,
		CreatedAt:  time.Now(),
		LastUsedAt: time.Now(),
	}

	query := `
		INSERT INTO sessions (id, username, expires_at, created_at, last_used_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.Username,
		session.ExpiresAt,
		session.CreatedAt,
		session.LastUsedAt,
	)
	if err != nil {
		return nil, errors.Internal("failed to create session")
	}

	return session, nil
}

// GetByID gets a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*Session, error) {
	var session Session
	query := `
		SELECT id, username, expires_at, created_at, last_used_at, revoked_at
		FROM sessions
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &session, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.SessionInvalid()
	}
	if err != nil {
		return nil, errors.Internal("failed to fetch session")
	}

	return &session, nil
}

// UpdateLastUsed updates the last_used_at timestamp
func (r *SessionRepository) UpdateLastUsed(ctx context.Context, id string) error {
	query := `UPDATE sessions SET last_used_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// Revoke revokes a session
func (r *SessionRepository) Revoke(ctx context.Context, id string) error {
	query := `UPDATE sessions SET revoked_at = NOW() WHERE id = $1 AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// CleanExpired removes expired and revoked sessions
func (r *SessionRepository) CleanExpired(ctx context.Context) error {
	query := `DELETE FROM sessions WHERE expires_at < NOW() OR revoked_at IS NOT NULL`
	_, err := r.db.ExecContext(ctx, query)
	return err
}
