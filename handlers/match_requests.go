package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"matchboard/middleware"
	"matchboard/services"
)

func SetupMatchRequestRoutes(app *fiber.App, sessions *middleware.Sessions, matches *services.MatchService) {
	secured := app.Group("/matchrequests", sessions.Require())

	secured.Get("/", func(c *fiber.Ctx) error {
		list, err := matches.ListMatchRequestsForUser(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(list)
	})

	secured.Post("/:id/accept", func(c *fiber.Ctx) error {
		mr, err := matches.AcceptMatchRequest(c.UserContext(), c.Params("id"), middleware.UserID(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(mr)
	})

	secured.Post("/:id/decline", func(c *fiber.Ctx) error {
		mr, err := matches.DeclineMatchRequest(c.UserContext(), c.Params("id"), middleware.UserID(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(mr)
	})
}

// SetupNotificationRoutes registers the inbox. Opening the list marks
// everything read; the response still shows what was unread.
func SetupNotificationRoutes(app *fiber.App, sessions *middleware.Sessions, inbox *services.NotificationService) {
	secured := app.Group("/notifications", sessions.Require())

	secured.Get("/", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)
		list, err := inbox.ListNotifications(c.UserContext(), userID)
		if err != nil {
			return writeError(c, err)
		}
		if _, err := inbox.MarkAllRead(c.UserContext(), userID, time.Now()); err != nil {
			return writeError(c, err)
		}

		type item struct {
			ID        string     `json:"id"`
			Type      string     `json:"type"`
			Message   string     `json:"message"`
			CreatedAt time.Time  `json:"created_at"`
			ReadAt    *time.Time `json:"read_at"`
		}
		out := make([]item, len(list))
		for i, n := range list {
			out[i] = item{
				ID:        n.ID,
				Type:      string(n.Type),
				Message:   n.Type.Message(),
				CreatedAt: n.CreatedAt,
				ReadAt:    n.ReadAt,
			}
		}
		return c.JSON(out)
	})

	secured.Get("/unread", func(c *fiber.Ctx) error {
		hasUnread, err := inbox.HasUnread(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"has_unread": hasUnread})
	})

	secured.Post("/read", func(c *fiber.Ctx) error {
		n, err := inbox.MarkAllRead(c.UserContext(), middleware.UserID(c), time.Now())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"updated": n})
	})
}
