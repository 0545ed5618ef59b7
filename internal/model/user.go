package model

import (
	"time"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

type User struct {
	ID          string     `db:"id" json:"id"`
	Email       string     `db:"email" json:"email"`
	Name        string     `db:"name" json:"name"`
	IsAdmin     bool       `db:"is_admin" json:"isAdmin"`
	Status      string     `db:"status" json:"-"`
	CreatedAt   time.Time  `db:"created_at" json:"-"`
	LastLoginAt *time.Time `db:"last_login_at" json:"-"`
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
