// Package session persists authenticated admin logins behind a small keyed
// store interface so the backend can be relational or Redis.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// TTL is the fixed session lifetime. There is no sliding refresh; a login is
// good for this long and then expires.
const TTL = 8 * time.Hour

// Record is the server-side state referenced by the session cookie.
type Record struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Store is a durable keyed session store.
//
// Get returns (nil, nil) for unknown or expired tokens; an error means the
// backend itself failed. Destroy is idempotent.
type Store interface {
	Get(ctx context.Context, token string) (*Record, error)
	Set(ctx context.Context, token string, rec Record, ttl time.Duration) error
	Destroy(ctx context.Context, token string) error
}

// NewToken generates an opaque session token (32 random bytes, hex encoded).
func NewToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
