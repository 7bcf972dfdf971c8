package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"matchboard/middleware"
	"matchboard/services"
)

// machinePaths are called by the chat bot integration from any origin.
var machinePaths = map[string]bool{
	"/api/users":          true,
	"/api/boardentry/new": true,
}

func isMachinePath(c *fiber.Ctx) bool {
	return machinePaths[c.Path()]
}

// SetupBotRoutes registers the bearer-token protected machine API.
func SetupBotRoutes(app *fiber.App, botToken string, board *services.BoardService, users *services.UserService) {
	permissive := cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	})
	auth := middleware.BotTokenMiddleware(botToken)

	app.Options("/api/users", permissive)
	app.Options("/api/boardentry/new", permissive)

	app.Get("/api/users", permissive, auth, func(c *fiber.Ctx) error {
		players, err := users.ListPlayers(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(players)
	})

	app.Post("/api/boardentry/new", permissive, auth, func(c *fiber.Ctx) error {
		var in services.ExternalEntryInput
		if err := c.BodyParser(&in); err != nil {
			return badJSON(c, err)
		}
		entry, err := board.CreateEntryForExternalUser(c.UserContext(), in)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	})
}
