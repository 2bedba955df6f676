package models

import "time"

// Session is one authenticated admin login, keyed by an opaque token that is
// also the cookie value. Rows survive process restarts; expired rows are
// ignored on lookup and reaped periodically.
type Session struct {
	Token     string    `gorm:"primaryKey;size:64" json:"-"`
	Username  string    `gorm:"not null" json:"username"`
	Role      string    `gorm:"not null" json:"role"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}
