package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/veithiller-droid/dimonte-mini-cms/internal/config"
	"github.com/veithiller-droid/dimonte-mini-cms/internal/models"
	"github.com/veithiller-droid/dimonte-mini-cms/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Post{}, &models.Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Port:            "8090",
		Env:             "test",
		AdminUser:       "admin",
		AdminPassword:   "geheim",
		AdminSecretMode: config.SecretPlain,
		SessionBackend:  "db",
		AllowedOrigins:  "http://localhost:5173",
	}
}

// newAuthTestApp wires a server with a real sqlite-backed session store and
// registers the full route set, so auth flows run end to end.
func newAuthTestApp(t *testing.T, cfg *config.Config) (*Server, *fiber.App) {
	t.Helper()
	db := setupServerTestDB(t)
	s := NewServerWithDeps(cfg, db, nil, session.NewGormStore(db))
	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

func loginRequest(t *testing.T, username, password string) *http.Request {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, ck := range resp.Cookies() {
		if ck.Name == SessionCookieName {
			return ck
		}
	}
	return nil
}

func TestLogin_Success(t *testing.T) {
	_, app := newAuthTestApp(t, testConfig())

	resp, err := app.Test(loginRequest(t, "admin", "geheim"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		OK   bool `json:"ok"`
		User struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.OK)
	assert.Equal(t, "admin", body.User.Username)
	assert.Equal(t, "admin", body.User.Role)

	ck := sessionCookie(t, resp)
	require.NotNil(t, ck, "login must set the session cookie")
	assert.NotEmpty(t, ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.False(t, ck.Secure, "cookie is not Secure outside production")
	assert.Equal(t, int(session.TTL.Seconds()), ck.MaxAge)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "falsch"},
		{"wrong username", "root", "geheim"},
		{"both wrong", "root", "falsch"},
		{"empty credentials", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, app := newAuthTestApp(t, testConfig())

			resp, err := app.Test(loginRequest(t, tt.username, tt.password))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			errBody := decodeErrorBody(t, resp)
			assert.False(t, errBody.OK)
			assert.Equal(t, "Ungültige Zugangsdaten", errBody.Error)
			assert.Nil(t, sessionCookie(t, resp), "failed login must not set a cookie")
		})
	}
}

func TestLogin_MalformedBody(t *testing.T) {
	_, app := newAuthTestApp(t, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader([]byte("{nope")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decodeErrorBody(t, resp)
	assert.Equal(t, "Ungültiger Request-Body", errBody.Error)
}

func TestLogin_BcryptMode(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("geheim"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.AdminPassword = string(hash)
	cfg.AdminSecretMode = config.DetectSecretMode(cfg.AdminPassword)
	require.Equal(t, config.SecretBcrypt, cfg.AdminSecretMode)

	_, app := newAuthTestApp(t, cfg)

	resp, err := app.Test(loginRequest(t, "admin", "geheim"))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The raw hash itself is not a valid password.
	resp, err = app.Test(loginRequest(t, "admin", string(hash)))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_RotatesPreLoginSession(t *testing.T) {
	s, app := newAuthTestApp(t, testConfig())

	// Plant a session under a token the client already holds.
	oldToken := "vorher-bekanntes-token"
	require.NoError(t, s.sessions.Set(context.Background(), oldToken,
		session.Record{Username: "admin", Role: "admin"}, session.TTL))

	req := loginRequest(t, "admin", "geheim")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: oldToken})

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	ck := sessionCookie(t, resp)
	require.NotNil(t, ck)
	assert.NotEqual(t, oldToken, ck.Value, "login must issue a fresh token")

	rec, err := s.sessions.Get(context.Background(), oldToken)
	require.NoError(t, err)
	assert.Nil(t, rec, "pre-login session must be destroyed")
}

func TestMe(t *testing.T) {
	s, app := newAuthTestApp(t, testConfig())

	t.Run("without cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		errBody := decodeErrorBody(t, resp)
		assert.Equal(t, "Nicht angemeldet", errBody.Error)
	})

	t.Run("with unknown token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "unbekannt"})
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("with valid session", func(t *testing.T) {
		token := "gueltiges-token"
		require.NoError(t, s.sessions.Set(context.Background(), token,
			session.Record{Username: "admin", Role: "admin"}, session.TTL))

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			OK   bool `json:"ok"`
			User struct {
				Username string `json:"username"`
				Role     string `json:"role"`
			} `json:"user"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body.OK)
		assert.Equal(t, "admin", body.User.Username)
		assert.Equal(t, "admin", body.User.Role)
	})
}

func TestLogout(t *testing.T) {
	s, app := newAuthTestApp(t, testConfig())

	t.Run("destroys the session", func(t *testing.T) {
		token := "logout-token"
		require.NoError(t, s.sessions.Set(context.Background(), token,
			session.Record{Username: "admin", Role: "admin"}, session.TTL))

		req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		ck := sessionCookie(t, resp)
		require.NotNil(t, ck)
		assert.Empty(t, ck.Value)
		assert.True(t, ck.Expires.Before(time.Now()), "cookie must be expired")

		rec, err := s.sessions.Get(context.Background(), token)
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("idempotent without session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			OK bool `json:"ok"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body.OK)
	})
}

func TestAuthRequired_GuardsAdminRoutes(t *testing.T) {
	_, app := newAuthTestApp(t, testConfig())

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/posts"},
		{http.MethodPost, "/api/posts"},
		{http.MethodGet, "/api/posts/1"},
		{http.MethodPut, "/api/posts/1"},
		{http.MethodDelete, "/api/posts/1"},
	} {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req := httptest.NewRequest(route.method, route.path, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			errBody := decodeErrorBody(t, resp)
			assert.Equal(t, "Nicht angemeldet", errBody.Error)
		})
	}
}

func TestLoginThenDeleteMissingPost(t *testing.T) {
	_, app := newAuthTestApp(t, testConfig())

	resp, err := app.Test(loginRequest(t, "admin", "geheim"))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ck := sessionCookie(t, resp)
	require.NotNil(t, ck)

	req := httptest.NewRequest(http.MethodDelete, "/api/posts/999999", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: ck.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	errBody := decodeErrorBody(t, resp)
	assert.False(t, errBody.OK)
	assert.Equal(t, "Nicht gefunden", errBody.Error)
}
