package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/anttituomola/tampereensaunalautat-sub000/internal/model"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	ByRefreshToken(ctx context.Context, refreshToken string) (*model.Session, error)
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
	Revoke(ctx context.Context, refreshToken string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO sessions (id, user_id, refresh_token, expires_at, active, client_ip, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.RefreshToken,
		session.ExpiresAt,
		session.Active,
		session.ClientIP,
		session.UserAgent,
		session.CreatedAt,
	)
	return err
}

// ByRefreshToken returns only usable sessions: active and not yet expired.
func (r *sessionRepository) ByRefreshToken(ctx context.Context, refreshToken string) (*model.Session, error) {
	var s model.Session
	query := `
		SELECT * FROM sessions
		WHERE refresh_token = $1
		AND active = TRUE
		AND expires_at > $2
	`

	err := r.db.GetContext(ctx, &s, query, refreshToken, time.Now())
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *sessionRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE sessions SET last_used_at = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, at, id)
	return err
}

// Revoke deactivates the session holding refreshToken. Revoking an unknown or
// already-inactive token is not an error; logout is idempotent.
func (r *sessionRepository) Revoke(ctx context.Context, refreshToken string) error {
	query := `UPDATE sessions SET active = FALSE WHERE refresh_token = $1`
	_, err := r.db.ExecContext(ctx, query, refreshToken)
	return err
}

func (r *sessionRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	query := `UPDATE sessions SET active = FALSE WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
