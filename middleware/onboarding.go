package middleware

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// OnboardingChecker reports whether a user finished onboarding.
type OnboardingChecker interface {
	IsOnboarded(ctx context.Context, userID string) (bool, error)
}

// RequireOnboarding must run after Sessions.Require. Users without an
// extended profile get 409 with a redirect to the onboarding form.
func RequireOnboarding(checker OnboardingChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := checker.IsOnboarded(c.UserContext(), UserID(c))
		if err != nil {
			slog.Error("session: Failed to check onboarding", "error", err, "user_id", UserID(c))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		}
		if !ok {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":    "onboarding incomplete",
				"redirect": "/profile/onboarding",
			})
		}
		return c.Next()
	}
}
