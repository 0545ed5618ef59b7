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
	ErrTokenNotFound = errors.New("token not found")
)

type TokenRepository interface {
	Create(ctx context.Context, token *model.LoginToken) error
	Consume(ctx context.Context, token string) (*model.LoginToken, error)
	ByToken(ctx context.Context, token string) (*model.LoginToken, error)
	CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *model.LoginToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO login_tokens (id, email, token, expires_at, client_ip, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		token.ID,
		token.Email,
		token.Token,
		token.ExpiresAt,
		token.ClientIP,
		token.UserAgent,
		token.CreatedAt,
	)
	return err
}

// Consume atomically marks the token as used and returns it. The conditional
// UPDATE is a single statement, so under concurrent redemption attempts only
// one request succeeds; the rest get ErrTokenNotFound.
func (r *tokenRepository) Consume(ctx context.Context, token string) (*model.LoginToken, error) {
	var t model.LoginToken
	now := time.Now()

	query := `
		UPDATE login_tokens
		SET consumed_at = $1
		WHERE token = $2
		AND consumed_at IS NULL
		AND expires_at > $3
		RETURNING *
	`

	err := r.db.GetContext(ctx, &t, query, now, token, now)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *tokenRepository) ByToken(ctx context.Context, token string) (*model.LoginToken, error) {
	var t model.LoginToken
	query := `SELECT * FROM login_tokens WHERE token = $1`

	err := r.db.GetContext(ctx, &t, query, token)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CleanupExpired removes consumed and expired tokens older than the given
// duration. Redeemed tokens are normally kept as an audit trail; this is an
// optional storage-hygiene operation for a cron job.
func (r *tokenRepository) CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	query := `
		DELETE FROM login_tokens
		WHERE (consumed_at IS NOT NULL AND consumed_at < $1)
		   OR (expires_at < $1)
	`
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
