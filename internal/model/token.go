package model

import (
	"time"
)

// LoginToken is a single-use magic-link token. Rows are never deleted on
// redemption, only marked consumed, so the table doubles as a login audit log.
type LoginToken struct {
	ID         string     `db:"id"`
	Email      string     `db:"email"`
	Token      string     `db:"token"`
	ExpiresAt  time.Time  `db:"expires_at"`
	ConsumedAt *time.Time `db:"consumed_at"`
	ClientIP   string     `db:"client_ip"`
	UserAgent  string     `db:"user_agent"`
	CreatedAt  time.Time  `db:"created_at"`
}

func (t *LoginToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

func (t *LoginToken) IsConsumed() bool {
	return t.ConsumedAt != nil
}

func (t *LoginToken) IsValid() bool {
	return !t.IsExpired() && !t.IsConsumed()
}
