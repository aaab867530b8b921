package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionRepository defines the interface for refresh session persistence.
// A user has at most one session; Put replaces any existing one.
type SessionRepository interface {
	Put(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	GetByUserID(ctx context.Context, userID string) (*Session, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

// SQLiteSessionRepository implements SessionRepository using SQLite.
type SQLiteSessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SQLite-backed session repository.
func NewSessionRepository(db *sql.DB) *SQLiteSessionRepository {
	return &SQLiteSessionRepository{db: db}
}

// NewSessionID generates a session identifier. Exposed so the service
// can mint the id before signing the refresh token that embeds it.
func NewSessionID() string {
	return "ses-" + uuid.NewString()[:16]
}

// Put stores a session, replacing any existing session for the same
// user. The UNIQUE constraint on user_id drives the upsert; the session
// id is replaced too, which is what invalidates rotated-out refresh
// tokens (their embedded id no longer matches any row).
func (r *SQLiteSessionRepository) Put(ctx context.Context, session *Session) error {
	if session.ID == "" {
		session.ID = NewSessionID()
	}

	now := time.Now().UTC().Format(time.RFC3339)
	session.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled
	session.UpdatedAt = session.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, refresh_token, expires_at, revoked, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			id = excluded.id,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			revoked = excluded.revoked,
			updated_at = excluded.updated_at`,
		session.ID, session.UserID, session.RefreshToken,
		session.ExpiresAt.UTC().Format(time.RFC3339),
		boolToInt(session.Revoked), now, now,
	)
	if err != nil {
		return fmt.Errorf("storing session: %w", err)
	}

	return nil
}

// GetByID retrieves a session by its id. Returns ErrSessionNotFound when
// absent — the normal outcome for a rotated-out refresh token.
func (r *SQLiteSessionRepository) GetByID(ctx context.Context, id string) (*Session, error) {
	return r.getSession(ctx, "WHERE id = ?", id)
}

// GetByUserID retrieves a user's current session.
func (r *SQLiteSessionRepository) GetByUserID(ctx context.Context, userID string) (*Session, error) {
	return r.getSession(ctx, "WHERE user_id = ?", userID)
}

// DeleteByUserID removes a user's session. Deleting a non-existent
// session is not an error (logout is idempotent).
func (r *SQLiteSessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepository) getSession(ctx context.Context, where string, arg any) (*Session, error) {
	var s Session
	var revoked int
	var expiresAt, createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, refresh_token, expires_at, revoked, created_at, updated_at FROM sessions "+where, arg,
	).Scan(&s.ID, &s.UserID, &s.RefreshToken, &expiresAt, &revoked, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	s.Revoked = revoked != 0
	s.ExpiresAt, _ = time.Parse(time.RFC3339, expiresAt) //nolint:errcheck // format is controlled
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	s.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &s, nil
}
