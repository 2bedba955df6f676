// Package models contains data structures for the application's domain models.
package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Post status values. Anything else coming in over the wire is coerced to
// StatusDraft by the validation layer before it reaches storage.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Date is a calendar day carried in its YYYY-MM-DD wire form. The column is a
// real date, so the database still rejects malformed values. Scanning
// normalizes drivers that decode date columns to time.Time (postgres does)
// back to the wire form, so reads always match what was written.
type Date string

// Value hands the wire form to the driver; the date column casts it.
func (d Date) Value() (driver.Value, error) {
	return string(d), nil
}

// Scan accepts the driver representations a date column can produce.
func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = Date(v.Format("2006-01-02"))
	case string:
		*d = Date(v)
	case []byte:
		*d = Date(v)
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
	return nil
}

// Post represents one content item managed through the admin API.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Category  string    `gorm:"not null;default:''" json:"category"`
	PostDate  Date      `gorm:"column:post_date;type:date;not null;index:idx_posts_post_date,sort:desc" json:"post_date"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Status    string    `gorm:"type:varchar(16);not null;default:'draft';index:idx_posts_status;check:chk_posts_status,status IN ('draft','published')" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicPost is the read-only view served on the public feed. It deliberately
// has no status field: everything on the feed is published by definition.
type PublicPost struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	PostDate  Date      `json:"post_date"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public returns the public view of the post.
func (p *Post) Public() *PublicPost {
	return &PublicPost{
		ID:        p.ID,
		Title:     p.Title,
		Category:  p.Category,
		PostDate:  p.PostDate,
		Body:      p.Body,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
