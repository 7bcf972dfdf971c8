// middleware/session.go
package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie holds the signed session token.
const SessionCookie = "__session"

var ErrInvalidSession = errors.New("invalid session token")

// Claims carries the signed-in user id next to the standard JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// Sessions issues and checks cookie sessions.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewSessions(secret string, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl, secure: secure}
}

// GenerateToken signs a session token for userID valid for the configured TTL.
func (s *Sessions) GenerateToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
	})
	return token.SignedString(s.secret)
}

func (s *Sessions) UserIDFromToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.UserID == "" {
		return "", ErrInvalidSession
	}
	return claims.UserID, nil
}

// Issue sets the session cookie. Without remember the cookie ends with the
// browser session; the token itself still expires after the TTL.
func (s *Sessions) Issue(c *fiber.Ctx, userID string, remember bool) error {
	token, err := s.GenerateToken(userID)
	if err != nil {
		return err
	}
	cookie := &fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if remember {
		cookie.Expires = time.Now().Add(s.ttl)
	}
	c.Cookie(cookie)
	return nil
}

func (s *Sessions) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Unix(0, 0),
	})
}

// Require rejects requests without a valid session cookie and stores the
// user id under c.Locals("user_id").
func (s *Sessions) Require() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(SessionCookie)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":    "not signed in",
				"redirect": "/login",
			})
		}
		userID, err := s.UserIDFromToken(raw)
		if err != nil {
			slog.Debug("session: Rejected token", "error", err, "path", c.Path())
			s.Clear(c)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":    "session expired",
				"redirect": "/login",
			})
		}
		c.Locals("user_id", userID)
		return c.Next()
	}
}

// UserID returns the id stored by Require, or "" outside a session.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
