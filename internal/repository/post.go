// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"github.com/veithiller-droid/dimonte-mini-cms/internal/models"

	"gorm.io/gorm"
)

// listOrder sorts newest first; equal dates are broken by the higher id.
const listOrder = "post_date DESC, id DESC"

// PostRepository defines the interface for post data operations.
//
// Lookup methods return (nil, nil) when no row matched so callers can map the
// outcome to a not-found response without inspecting driver errors. Update and
// Delete report zero affected rows the same way.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Update(ctx context.Context, id uint, fields *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id uint) (bool, error)
	ListPublished(ctx context.Context) ([]*models.Post, error)
	GetPublishedByID(ctx context.Context, id uint) (*models.Post, error)
}

// postRepository implements PostRepository.
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.WithContext(ctx).
		Order(listOrder).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update rewrites all mutable fields in one statement. There is no
// read-modify-write cycle, so concurrent updates are last-writer-wins.
func (r *postRepository) Update(ctx context.Context, id uint, fields *models.Post) (*models.Post, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":     fields.Title,
			"category":  fields.Category,
			"post_date": fields.PostDate,
			"body":      fields.Body,
			"status":    fields.Status,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r *postRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *postRepository) ListPublished(ctx context.Context) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.WithContext(ctx).
		Where("status = ?", models.StatusPublished).
		Order(listOrder).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPublishedByID returns (nil, nil) for drafts as well as for missing rows:
// the public surface must not reveal that a draft exists.
func (r *postRepository) GetPublishedByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.StatusPublished).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}
