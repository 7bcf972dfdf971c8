// handlers/account.go
package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"matchboard/middleware"
	"matchboard/services"
	"matchboard/utils"
)

type credentialsRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Remember  bool   `json:"remember"`
}

type discordCallbackRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Remember     bool   `json:"remember"`
}

// DiscordOAuth is the client side of the Discord authorize redirect.
type DiscordOAuth struct {
	ClientID    string
	RedirectURL string
}

func (o DiscordOAuth) authorizeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", o.ClientID)
	q.Set("redirect_uri", o.RedirectURL)
	q.Set("response_type", "token")
	q.Set("scope", "identify email")
	if state != "" {
		q.Set("state", state)
	}
	return "https://discord.com/oauth2/authorize?" + q.Encode()
}

// SetupAuthRoutes registers the public sign-up, sign-in and sign-out routes.
func SetupAuthRoutes(app *fiber.App, sessions *middleware.Sessions, users *services.UserService, discord *DiscordOAuth) {
	app.Post("/join", func(c *fiber.Ctx) error {
		var req credentialsRequest
		if err := c.BodyParser(&req); err != nil {
			return badJSON(c, err)
		}
		user, err := users.Register(c.UserContext(), services.RegisterInput{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			return writeError(c, err)
		}
		if err := sessions.Issue(c, user.ID, req.Remember); err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"user":     user,
			"redirect": "/profile/onboarding",
		})
	})

	app.Post("/login", func(c *fiber.Ctx) error {
		var req credentialsRequest
		if err := c.BodyParser(&req); err != nil {
			return badJSON(c, err)
		}
		user, err := users.VerifyLogin(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeError(c, err)
		}
		if err := sessions.Issue(c, user.ID, req.Remember); err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"user": user, "redirect": "/dashboard"})
	})

	app.Post("/logout", func(c *fiber.Ctx) error {
		sessions.Clear(c)
		return c.JSON(fiber.Map{"redirect": "/login"})
	})

	if discord == nil {
		return
	}

	app.Get("/api/discord", func(c *fiber.Ctx) error {
		return c.Redirect(discord.authorizeURL(c.Query("state")), fiber.StatusFound)
	})

	app.Post("/api/discord/callback", func(c *fiber.Ctx) error {
		var req discordCallbackRequest
		if err := c.BodyParser(&req); err != nil {
			return badJSON(c, err)
		}
		if req.AccessToken == "" {
			return writeError(c, fieldError("access_token", "AccessToken is required"))
		}
		user, err := users.SignInWithDiscord(c.UserContext(), req.AccessToken, req.RefreshToken)
		if err != nil {
			return writeError(c, err)
		}
		if err := sessions.Issue(c, user.ID, req.Remember); err != nil {
			return writeError(c, err)
		}
		redirect := "/dashboard"
		if onboarded, err := users.IsOnboarded(c.UserContext(), user.ID); err == nil && !onboarded {
			redirect = "/profile/onboarding"
		}
		return c.JSON(fiber.Map{"user": user, "redirect": redirect})
	})
}

// SetupAccountRoutes registers settings, onboarding, profile and player pages.
func SetupAccountRoutes(app *fiber.App, sessions *middleware.Sessions, users *services.UserService) {
	// Per-route so public routes and unknown paths never hit the session check.
	auth := sessions.Require()

	app.Get("/settings", auth, func(c *fiber.Ctx) error {
		user, err := users.GetUser(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(user)
	})

	app.Put("/settings", auth, func(c *fiber.Ctx) error {
		var patch services.UserPatch
		if err := c.BodyParser(&patch); err != nil {
			return badJSON(c, err)
		}
		user, err := users.UpdateUser(c.UserContext(), middleware.UserID(c), patch)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(user)
	})

	app.Delete("/settings", auth, func(c *fiber.Ctx) error {
		if err := users.DeleteUser(c.UserContext(), middleware.UserID(c)); err != nil {
			return writeError(c, err)
		}
		sessions.Clear(c)
		return c.JSON(fiber.Map{"redirect": "/"})
	})

	app.Post("/settings/avatar", auth, func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("avatar")
		if err != nil {
			return writeError(c, fieldError("avatar", "Avatar file is required"))
		}
		body, contentType, err := utils.ReadUpload(fileHeader)
		if err != nil {
			return writeError(c, fieldError("avatar", err.Error()))
		}
		avatarURL, err := users.SetAvatar(c.UserContext(), middleware.UserID(c), fileHeader.Filename, contentType, body)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"avatar": avatarURL})
	})

	app.Put("/settings/contact", auth, func(c *fiber.Ctx) error {
		var in services.ContactInput
		if err := c.BodyParser(&in); err != nil {
			return badJSON(c, err)
		}
		contact, err := users.UpdateContact(c.UserContext(), middleware.UserID(c), in)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(contact)
	})

	app.Post("/profile/onboarding", auth, func(c *fiber.Ctx) error {
		var in services.OnboardingInput
		if err := c.BodyParser(&in); err != nil {
			return badJSON(c, err)
		}
		profile, err := users.CompleteOnboarding(c.UserContext(), middleware.UserID(c), in)
		if err != nil {
			var ise *services.InvalidStateError
			if errors.As(err, &ise) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error":    ise.Error(),
					"redirect": "/profile",
				})
			}
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(profile)
	})

	// Everything below needs a finished onboarding.
	onboarded := middleware.RequireOnboarding(users)

	app.Get("/profile", auth, onboarded, func(c *fiber.Ctx) error {
		profile, err := users.GetProfile(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(profile)
	})

	app.Get("/players", auth, onboarded, func(c *fiber.Ctx) error {
		players, err := users.ListPlayers(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(players)
	})

	app.Get("/players/:id", auth, onboarded, func(c *fiber.Ctx) error {
		user, err := users.GetUser(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{
			"player":  services.Summarize(user),
			"profile": user.Profile,
			"contact": user.Contact,
		})
	})
}
