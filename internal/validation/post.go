// Package validation normalizes and validates incoming payloads before they
// reach storage.
package validation

import (
	"strings"

	"github.com/veithiller-droid/dimonte-mini-cms/internal/models"
)

// PostInput is the untrusted payload accepted by create and update.
type PostInput struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	PostDate string `json:"post_date"`
	Body     string `json:"body"`
	Status   string `json:"status"`
}

// ValidatePost trims and normalizes the input and returns the fields ready for
// persistence. Required fields are checked in a fixed order (title, post_date,
// body); the first missing one is reported. An unknown status is coerced to
// draft rather than rejected. The date string is passed through untouched;
// the database validates its format.
func ValidatePost(in PostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewMissingFieldError("title")
	}

	postDate := strings.TrimSpace(in.PostDate)
	if postDate == "" {
		return nil, models.NewMissingFieldError("post_date")
	}

	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, models.NewMissingFieldError("body")
	}

	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status != models.StatusDraft && status != models.StatusPublished {
		status = models.StatusDraft
	}

	return &models.Post{
		Title:    title,
		Category: strings.TrimSpace(in.Category),
		PostDate: models.Date(postDate),
		Body:     body,
		Status:   status,
	}, nil
}
