// handlers/board.go
package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"matchboard/middleware"
	"matchboard/services"
)

// Accepted date layouts, most specific first. The second one is what an
// HTML datetime-local input submits.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type entryRequest struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	GameSystem string `json:"game_system"`
	Location   string `json:"location"`
	Date       string `json:"date"`
}

func (r entryRequest) input() (services.EntryInput, error) {
	in := services.EntryInput{
		Title:      r.Title,
		Body:       r.Body,
		GameSystem: r.GameSystem,
		Location:   r.Location,
	}
	if r.Date != "" {
		d, ok := parseDate(r.Date)
		if !ok {
			return in, fieldError("date", "Date is invalid")
		}
		in.Date = d
	}
	return in, nil
}

type entryPatchRequest struct {
	Title      *string `json:"title"`
	Body       *string `json:"body"`
	GameSystem *string `json:"game_system"`
	Location   *string `json:"location"`
	Date       *string `json:"date"`
}

func (r entryPatchRequest) patch() (services.EntryPatch, error) {
	p := services.EntryPatch{
		Title:      r.Title,
		Body:       r.Body,
		GameSystem: r.GameSystem,
		Location:   r.Location,
	}
	if r.Date != nil {
		var d time.Time
		if *r.Date != "" {
			var ok bool
			if d, ok = parseDate(*r.Date); !ok {
				return p, fieldError("date", "Date is invalid")
			}
		}
		p.Date = &d
	}
	return p, nil
}

// SetupBoardRoutes registers the dashboard. All routes need a session.
func SetupBoardRoutes(app *fiber.App, sessions *middleware.Sessions, board *services.BoardService, matches *services.MatchService, inbox *services.NotificationService) {
	secured := app.Group("/dashboard", sessions.Require())

	secured.Get("/", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)

		filter := services.EntryFilter{
			OwnerID:    c.Query("owner"),
			GameSystem: c.Query("game_system"),
			Location:   c.Query("location"),
		}
		if filter.OwnerID == "me" {
			filter.OwnerID = userID
		}
		if raw := strings.TrimSpace(c.Query("date")); raw != "" {
			day, ok := parseDate(raw)
			if !ok {
				return writeError(c, fieldError("date", "Date is invalid"))
			}
			filter.Day = &day
		}

		entries, err := board.ListEntries(c.UserContext(), filter)
		if err != nil {
			return writeError(c, err)
		}
		hasUnread, err := inbox.HasUnread(c.UserContext(), userID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{
			"entries":    entries,
			"has_unread": hasUnread,
		})
	})

	secured.Post("/", func(c *fiber.Ctx) error {
		var req entryRequest
		if err := c.BodyParser(&req); err != nil {
			return badJSON(c, err)
		}
		in, err := req.input()
		if err != nil {
			return writeError(c, err)
		}
		entry, err := board.CreateEntry(c.UserContext(), middleware.UserID(c), in)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	})

	secured.Get("/:id", func(c *fiber.Ctx) error {
		entry, err := board.GetEntry(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(entry)
	})

	secured.Patch("/:id", func(c *fiber.Ctx) error {
		var req entryPatchRequest
		if err := c.BodyParser(&req); err != nil {
			return badJSON(c, err)
		}
		patch, err := req.patch()
		if err != nil {
			return writeError(c, err)
		}
		entry, err := board.UpdateEntry(c.UserContext(), c.Params("id"), middleware.UserID(c), patch)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(entry)
	})

	// Deleting someone else's entry is not an error, it just deletes nothing.
	secured.Delete("/:id", func(c *fiber.Ctx) error {
		n, err := board.DeleteEntry(c.UserContext(), c.Params("id"), middleware.UserID(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"deleted": n})
	})

	secured.Post("/:id/match-requests", func(c *fiber.Ctx) error {
		mr, err := matches.SendMatchRequest(c.UserContext(), middleware.UserID(c), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(mr)
	})
}
