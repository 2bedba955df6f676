package server

import (
	"github.com/veithiller-droid/dimonte-mini-cms/internal/models"
	"github.com/veithiller-droid/dimonte-mini-cms/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts. Posts of every status, newest first.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postRepo.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewStorageError(err))
	}

	return c.JSON(fiber.Map{"ok": true, "items": posts})
}

// GetPost handles GET /api/posts/:id.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewStorageError(err))
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError())
	}

	return c.JSON(fiber.Map{"ok": true, "item": post})
}

// CreatePost handles POST /api/posts.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req validation.PostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Ungültiger Request-Body"))
	}

	post, err := validation.ValidatePost(req)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.postRepo.Create(c.Context(), post); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewStorageError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "item": post})
}

// UpdatePost handles PUT /api/posts/:id. Full-replace semantics: every mutable
// field must be supplied; there is no partial patch.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req validation.PostInput
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Ungültiger Request-Body"))
	}

	fields, valErr := validation.ValidatePost(req)
	if valErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, valErr)
	}

	post, err := s.postRepo.Update(c.Context(), id, fields)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewStorageError(err))
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError())
	}

	return c.JSON(fiber.Map{"ok": true, "item": post})
}

// DeletePost handles DELETE /api/posts/:id.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	deleted, err := s.postRepo.Delete(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewStorageError(err))
	}
	if !deleted {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError())
	}

	return c.JSON(fiber.Map{"ok": true, "deletedId": id})
}
