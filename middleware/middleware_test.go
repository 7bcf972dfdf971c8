package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_TokenRoundTrip(t *testing.T) {
	s := NewSessions("secret", time.Hour, false)

	token, err := s.GenerateToken("user-1")
	require.NoError(t, err)

	id, err := s.UserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	_, err = NewSessions("other", time.Hour, false).UserIDFromToken(token)
	assert.Error(t, err)

	expired, err := NewSessions("secret", -time.Minute, false).GenerateToken("user-1")
	require.NoError(t, err)
	_, err = s.UserIDFromToken(expired)
	assert.Error(t, err)
}

func TestSessions_Require(t *testing.T) {
	s := NewSessions("secret", time.Hour, false)
	app := fiber.New()
	app.Get("/me", s.Require(), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})
	app.Post("/login", func(c *fiber.Ctx) error {
		return s.Issue(c, "user-1", true)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: session.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

type onboardedSet map[string]bool

func (o onboardedSet) IsOnboarded(ctx context.Context, userID string) (bool, error) {
	return o[userID], nil
}

func TestRequireOnboarding(t *testing.T) {
	app := fiber.New()
	app.Get("/profile",
		func(c *fiber.Ctx) error {
			c.Locals("user_id", c.Get("X-Test-User"))
			return c.Next()
		},
		RequireOnboarding(onboardedSet{"done": true}),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("X-Test-User", "new")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("X-Test-User", "done")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestBotTokenMiddleware(t *testing.T) {
	newApp := func(token string) *fiber.App {
		app := fiber.New()
		app.Get("/api/users", BotTokenMiddleware(token), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
		return app
	}

	cases := []struct {
		name     string
		expected string
		header   string
		status   int
	}{
		{"disabled", "", "Bearer anything", fiber.StatusServiceUnavailable},
		{"missing header", "s3cret", "", fiber.StatusUnauthorized},
		{"wrong token", "s3cret", "Bearer nope", fiber.StatusUnauthorized},
		{"bearer token", "s3cret", "Bearer s3cret", fiber.StatusOK},
		{"raw token", "s3cret", "s3cret", fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := newApp(tc.expected).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
