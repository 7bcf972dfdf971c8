package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchboard/middleware"
	"matchboard/models"
	"matchboard/repository"
	"matchboard/services"
	"matchboard/testutil"
)

const testBotToken = "bot-secret"

type testEnv struct {
	t        *testing.T
	app      *fiber.App
	store    *repository.GormStore
	sessions *middleware.Sessions
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := testutil.NewStore(t)
	sessions := middleware.NewSessions("test-secret", time.Hour, false)
	app := NewApp(Deps{
		DB:             store,
		Sessions:       sessions,
		Board:          services.NewBoardService(store),
		Matches:        services.NewMatchService(store),
		Notifications:  services.NewNotificationService(store),
		Users:          services.NewUserService(store, nil, nil),
		AllowedOrigins: "http://localhost:3000",
		BotAPIToken:    testBotToken,
	})
	return &testEnv{t: t, app: app, store: store, sessions: sessions}
}

// do sends a JSON request as userID (anonymous when empty) and decodes the
// response body into out when out is non-nil.
func (e *testEnv) do(method, path string, body any, userID string, out any) *http.Response {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := e.sessions.GenerateToken(userID)
		require.NoError(e.t, err)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(e.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (e *testEnv) onboard(userID string) {
	e.t.Helper()
	resp := e.do(http.MethodPost, "/profile/onboarding", services.OnboardingInput{Faction: "ORKS"}, userID, nil)
	require.Equal(e.t, fiber.StatusCreated, resp.StatusCode)
}

func entryBody() fiber.Map {
	return fiber.Map{
		"title":       "Looking for a 2k game",
		"body":        "Bring any list, casual pace",
		"game_system": "WARHAMMER_40K",
		"location":    "Vienna",
		"date":        "2026-11-07T18:00",
	}
}

func TestHealthcheck(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(http.MethodGet, "/healthcheck", nil, "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestBoardFlow(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.store, "Alice")
	bob := testutil.CreateUser(t, env.store, "Bob")

	var entry models.BoardEntry
	resp := env.do(http.MethodPost, "/dashboard", entryBody(), alice.ID, &entry)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, models.BoardEntryOpen, entry.Status)
	assert.Equal(t, alice.ID, entry.UserID)

	var mr models.MatchRequest
	resp = env.do(http.MethodPost, "/dashboard/"+entry.ID+"/match-requests", nil, bob.ID, &mr)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, models.MatchRequestPending, mr.Status)

	var dashboard struct {
		Entries   []models.BoardEntry `json:"entries"`
		HasUnread bool                `json:"has_unread"`
	}
	resp = env.do(http.MethodGet, "/dashboard", nil, alice.ID, &dashboard)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, dashboard.Entries, 1)
	assert.True(t, dashboard.HasUnread)

	var inbox []struct {
		Type    string     `json:"type"`
		Message string     `json:"message"`
		ReadAt  *time.Time `json:"read_at"`
	}
	resp = env.do(http.MethodGet, "/notifications", nil, alice.ID, &inbox)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, inbox, 1)
	assert.Equal(t, "MATCH_REQUEST_NEW", inbox[0].Type)
	assert.Equal(t, "You have a new match-request.", inbox[0].Message)
	assert.Nil(t, inbox[0].ReadAt)

	var unread struct {
		HasUnread bool `json:"has_unread"`
	}
	env.do(http.MethodGet, "/notifications/unread", nil, alice.ID, &unread)
	assert.False(t, unread.HasUnread, "opening the inbox marks it read")

	var requests []models.MatchRequest
	resp = env.do(http.MethodGet, "/matchrequests", nil, alice.ID, &requests)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, requests, 1)
	require.NotNil(t, requests[0].FromUser)
	assert.Equal(t, bob.ID, requests[0].FromUser.ID)

	resp = env.do(http.MethodPost, "/matchrequests/"+mr.ID+"/accept", nil, bob.ID, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.do(http.MethodPost, "/matchrequests/"+mr.ID+"/accept", nil, alice.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.do(http.MethodPost, "/matchrequests/"+mr.ID+"/accept", nil, alice.ID, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = env.do(http.MethodGet, "/dashboard/"+entry.ID, nil, bob.ID, &entry)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, models.BoardEntryFilled, entry.Status)
	require.NotNil(t, entry.ChallengerID)
	assert.Equal(t, bob.ID, *entry.ChallengerID)
}

func TestBoard_ValidationAndLookupErrors(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.store, "Alice")
	bob := testutil.CreateUser(t, env.store, "Bob")

	body := entryBody()
	body["title"] = "short"
	body["date"] = ""
	var errs struct {
		Errors map[string]string `json:"errors"`
	}
	resp := env.do(http.MethodPost, "/dashboard", body, alice.ID, &errs)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]string{
		"title": "Title is too short. It should at least be 8 letters long",
		"date":  "Date is required",
	}, errs.Errors)

	body = entryBody()
	body["date"] = "next saturday"
	resp = env.do(http.MethodPost, "/dashboard", body, alice.ID, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.do(http.MethodGet, "/dashboard/missing", nil, alice.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = env.do(http.MethodPost, "/dashboard/missing/match-requests", nil, alice.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = env.do(http.MethodGet, "/dashboard", nil, "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	entry := testutil.CreateEntry(t, env.store, alice.ID, "Friday night 2000pts")
	resp = env.do(http.MethodPatch, "/dashboard/"+entry.ID, fiber.Map{"location": "Graz"}, bob.ID, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var deleted struct {
		Deleted int64 `json:"deleted"`
	}
	resp = env.do(http.MethodDelete, "/dashboard/"+entry.ID, nil, bob.ID, &deleted)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Zero(t, deleted.Deleted)

	resp = env.do(http.MethodDelete, "/dashboard/"+entry.ID, nil, alice.ID, &deleted)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), deleted.Deleted)
}

func TestJoinAndLogin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(http.MethodPost, "/join", fiber.Map{
		"email":      "carol@example.com",
		"password":   "hunter22",
		"first_name": "Carol",
		"remember":   true,
	}, "", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Cookies())

	resp = env.do(http.MethodPost, "/login", fiber.Map{"email": "carol@example.com", "password": "wrong-one"}, "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = env.do(http.MethodPost, "/login", fiber.Map{"email": "carol@example.com", "password": "hunter22"}, "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestOnboardingGate(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.store, "Alice")

	resp := env.do(http.MethodGet, "/players", nil, alice.ID, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	env.onboard(alice.ID)

	resp = env.do(http.MethodPost, "/profile/onboarding", services.OnboardingInput{}, alice.ID, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var players []services.PlayerSummary
	resp = env.do(http.MethodGet, "/players", nil, alice.ID, &players)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, players, 1)
	assert.Equal(t, "ORKS", players[0].Faction)

	resp = env.do(http.MethodGet, "/players/missing", nil, alice.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	bob := testutil.CreateUser(t, env.store, "Bob")
	require.NoError(t, env.store.Users().Update(context.Background(), bob.ID, map[string]any{"discord_id": "4242"}))
	var card map[string]any
	resp = env.do(http.MethodGet, "/players/"+bob.ID, nil, alice.ID, &card)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	player, ok := card["player"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Bob", player["first_name"])
	assert.NotContains(t, player, "email")
	assert.NotContains(t, player, "discord_id")
	assert.NotContains(t, card, "email")
	assert.NotContains(t, card, "discord_id")

	resp = env.do(http.MethodPost, "/settings/avatar", nil, alice.ID, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestBotAPI(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.store, "Alice")
	require.NoError(t, env.store.Users().Update(context.Background(), alice.ID, map[string]any{"discord_id": "42"}))

	post := func(token string, body any) *http.Response {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/boardentry/new", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Origin", "https://discord-bot.example.com")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	body := fiber.Map{"discord_id": "42", "title": "Anyone for a game?", "body": "Posted from discord"}

	resp := post("", body)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = post(testBotToken, body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	body["discord_id"] = "nobody"
	resp = post(testBotToken, body)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	entries, err := env.store.BoardEntries().List(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Bot Town", entries[0].Location)
}
