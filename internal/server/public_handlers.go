package server

import (
	"github.com/veithiller-droid/dimonte-mini-cms/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPublicPosts handles GET /api/public/posts. Published posts only, served
// without the status field.
func (s *Server) GetPublicPosts(c *fiber.Ctx) error {
	posts, err := s.postRepo.ListPublished(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewStorageError(err))
	}

	items := make([]*models.PublicPost, 0, len(posts))
	for _, p := range posts {
		items = append(items, p.Public())
	}

	return c.JSON(fiber.Map{"ok": true, "items": items})
}

// GetPublicPost handles GET /api/public/posts/:id. Drafts answer 404 exactly
// like missing rows; the public surface never confirms that a draft exists.
func (s *Server) GetPublicPost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetPublishedByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewStorageError(err))
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError())
	}

	return c.JSON(fiber.Map{"ok": true, "item": post.Public()})
}
