// handlers/app.go
package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"matchboard/middleware"
	"matchboard/services"
)

// Pinger is satisfied by repository.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps is everything the HTTP layer needs.
type Deps struct {
	DB             Pinger
	Sessions       *middleware.Sessions
	Board          *services.BoardService
	Matches        *services.MatchService
	Notifications  *services.NotificationService
	Users          *services.UserService
	AllowedOrigins string
	BotAPIToken    string
	// Discord is nil when Discord sign-in is not configured.
	Discord *DiscordOAuth
	// RequestLog toggles the access log; tests turn it off.
	RequestLog bool
}

// NewApp builds the fiber app with middleware and every route registered.
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 4 * 1024 * 1024,
	})

	app.Use(recover.New())
	if d.RequestLog {
		app.Use(logger.New())
	}

	origins := strings.Split(d.AllowedOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}
	app.Use(cors.New(cors.Config{
		Next:             isMachinePath,
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Get("/healthcheck", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := d.DB.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupBotRoutes(app, d.BotAPIToken, d.Board, d.Users)
	SetupAuthRoutes(app, d.Sessions, d.Users, d.Discord)
	SetupBoardRoutes(app, d.Sessions, d.Board, d.Matches, d.Notifications)
	SetupMatchRequestRoutes(app, d.Sessions, d.Matches)
	SetupNotificationRoutes(app, d.Sessions, d.Notifications)
	SetupAccountRoutes(app, d.Sessions, d.Users)

	return app
}
