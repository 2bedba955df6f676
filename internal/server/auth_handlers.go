package server

import (
	"crypto/subtle"
	"log/slog"
	"time"

	"github.com/veithiller-droid/dimonte-mini-cms/internal/config"
	"github.com/veithiller-droid/dimonte-mini-cms/internal/middleware"
	"github.com/veithiller-droid/dimonte-mini-cms/internal/models"
	"github.com/veithiller-droid/dimonte-mini-cms/internal/session"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const adminRole = "admin"

// Login handles POST /api/login.
//
// On success a fresh session token is issued; any session referenced by an
// incoming cookie is destroyed first so a pre-login token never becomes an
// authenticated one.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Ungültiger Request-Body"))
	}

	if !s.checkCredentials(req.Username, req.Password) {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewInvalidCredentialsError())
	}

	ctx := c.Context()

	if old := c.Cookies(SessionCookieName); old != "" {
		if err := s.sessions.Destroy(ctx, old); err != nil {
			middleware.Logger.Warn("failed to destroy pre-login session",
				slog.String("error", err.Error()))
		}
	}

	token, err := session.NewToken()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewSessionError(err))
	}

	rec := session.Record{Username: s.config.AdminUser, Role: adminRole}
	if err := s.sessions.Set(ctx, token, rec, session.TTL); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewSessionError(err))
	}

	s.setSessionCookie(c, token)

	return c.JSON(fiber.Map{
		"ok":   true,
		"user": fiber.Map{"username": rec.Username, "role": rec.Role},
	})
}

// Logout handles POST /api/logout. It destroys the session if one exists and
// always reports success.
func (s *Server) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(SessionCookieName); token != "" {
		if err := s.sessions.Destroy(c.Context(), token); err != nil {
			middleware.Logger.Warn("failed to destroy session on logout",
				slog.String("error", err.Error()))
		}
	}

	s.clearSessionCookie(c)

	return c.JSON(fiber.Map{"ok": true})
}

// Me handles GET /api/me for the authenticated admin.
func (s *Server) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok": true,
		"user": fiber.Map{
			"username": c.Locals("username"),
			"role":     c.Locals("role"),
		},
	})
}

// checkCredentials verifies the configured admin credential pair. Both the
// username and the plaintext-mode password use constant-time comparison.
func (s *Server) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.config.AdminUser)) == 1

	var passOK bool
	switch s.config.AdminSecretMode {
	case config.SecretBcrypt:
		passOK = bcrypt.CompareHashAndPassword(
			[]byte(s.config.AdminPassword), []byte(password)) == nil
	default:
		passOK = subtle.ConstantTimeCompare(
			[]byte(password), []byte(s.config.AdminPassword)) == 1
	}

	return userOK && passOK
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(session.TTL.Seconds()),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
