package model

import (
	"time"
)

// Session is a refresh-token backed login session. Logout flips Active to
// false instead of deleting the row, keeping the audit trail intact.
type Session struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	RefreshToken string     `db:"refresh_token"`
	ExpiresAt    time.Time  `db:"expires_at"`
	Active       bool       `db:"active"`
	LastUsedAt   *time.Time `db:"last_used_at"`
	ClientIP     string     `db:"client_ip"`
	UserAgent    string     `db:"user_agent"`
	CreatedAt    time.Time  `db:"created_at"`
}

func (s *Session) IsUsable() bool {
	return s.Active && time.Now().Before(s.ExpiresAt)
}
