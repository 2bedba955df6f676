package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/veithiller-droid/dimonte-mini-cms/internal/middleware"
	"github.com/veithiller-droid/dimonte-mini-cms/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps sessions in the relational sessions table so logins survive
// process restarts.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a session store backed by the given database.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, token string) (*Record, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Record{Username: sess.Username, Role: sess.Role}, nil
}

func (s *GormStore) Set(ctx context.Context, token string, rec Record, ttl time.Duration) error {
	sess := models.Session{
		Token:     token,
		Username:  rec.Username,
		Role:      rec.Role,
		ExpiresAt: time.Now().Add(ttl),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&sess).Error
}

func (s *GormStore) Destroy(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&models.Session{}).Error
}

// Cleanup deletes expired session rows.
func (s *GormStore) Cleanup(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.Session{}).Error
}

// StartCleanup reaps expired sessions on the given interval until ctx is done.
func (s *GormStore) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Cleanup(ctx); err != nil {
					middleware.Logger.Warn("session cleanup failed", slog.String("error", err.Error()))
				}
			}
		}
	}()
}
