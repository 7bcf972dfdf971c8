package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"matchboard/repository"
	"matchboard/testutil"
)

type fakeIdentities struct {
	identity *DiscordIdentity
	err      error
}

func (f *fakeIdentities) FetchIdentity(ctx context.Context, accessToken string) (*DiscordIdentity, error) {
	return f.identity, f.err
}

type fakeAvatars struct {
	keys []string
}

func (f *fakeAvatars) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	f.keys = append(f.keys, key)
	return "https://cdn.example.com/" + key, nil
}

func newUserService(t *testing.T, store repository.Store, avatars AvatarStore, ids IdentityFetcher) *UserService {
	t.Helper()
	s := NewUserService(store, avatars, ids)
	s.hashCost = bcrypt.MinCost
	return s
}

func TestRegisterAndVerifyLogin(t *testing.T) {
	ctx := context.Background()
	users := newUserService(t, testutil.NewStore(t), nil, nil)

	u, err := users.Register(ctx, RegisterInput{
		Email:     "  Alice@Example.com ",
		Password:  "correct horse",
		FirstName: "Alice",
	})
	require.NoError(t, err)
	require.NotNil(t, u.Email)
	assert.Equal(t, "alice@example.com", *u.Email)

	got, err := users.VerifyLogin(ctx, "ALICE@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.VerifyLogin(ctx, "alice@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.VerifyLogin(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = users.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "another one", FirstName: "A"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "email")
}

func TestRegister_Validation(t *testing.T) {
	users := newUserService(t, testutil.NewStore(t), nil, nil)

	_, err := users.Register(context.Background(), RegisterInput{Email: "not-an-email", Password: "short"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 3)
}

func TestSignInWithDiscord(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	ids := &fakeIdentities{identity: &DiscordIdentity{
		ID:        "9001",
		Username:  "warboss",
		Email:     "boss@example.com",
		Verified:  true,
		AvatarURL: "https://cdn.discordapp.com/avatars/9001/abc.png",
	}}
	users := newUserService(t, store, nil, ids)

	created, err := users.SignInWithDiscord(ctx, "token", "refresh")
	require.NoError(t, err)
	require.NotNil(t, created.DiscordID)
	require.NotNil(t, created.Email)
	assert.Equal(t, "boss@example.com", *created.Email)
	assert.Equal(t, "9001", *created.DiscordID)
	assert.Equal(t, "warboss", created.FirstName)

	again, err := users.SignInWithDiscord(ctx, "token", "")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	ids.err = errors.New("401 unauthorized")
	_, err = users.SignInWithDiscord(ctx, "bad", "")
	var fe *ForbiddenError
	require.ErrorAs(t, err, &fe)
}

func TestSignInWithDiscord_LinksExistingEmail(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	alice := testutil.CreateUser(t, store, "Alice")
	users := newUserService(t, store, nil, &fakeIdentities{identity: &DiscordIdentity{
		ID:       "77",
		Email:    "alice@example.com",
		Verified: true,
	}})

	linked, err := users.SignInWithDiscord(ctx, "token", "")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, linked.ID)
	require.NotNil(t, linked.DiscordID)
	assert.Equal(t, "77", *linked.DiscordID)
}

func TestSignInWithDiscord_RejectsEmailLinkedToAnotherAccount(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	alice := testutil.CreateUser(t, store, "Alice")
	require.NoError(t, store.Users().Update(ctx, alice.ID, map[string]any{"discord_id": "11"}))

	users := newUserService(t, store, nil, &fakeIdentities{identity: &DiscordIdentity{
		ID:       "99",
		Email:    "alice@example.com",
		Verified: true,
	}})

	_, err := users.SignInWithDiscord(ctx, "token", "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "A user already exists with this email", ve.Fields["email"])

	got, err := store.Users().Get(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DiscordID)
	assert.Equal(t, "11", *got.DiscordID)

	_, err = store.Users().GetByDiscordID(ctx, "99")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSignInWithDiscord_UnverifiedEmailDoesNotLink(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	alice := testutil.CreateUser(t, store, "Alice")

	users := newUserService(t, store, nil, &fakeIdentities{identity: &DiscordIdentity{
		ID:    "42",
		Email: "alice@example.com",
	}})

	_, err := users.SignInWithDiscord(ctx, "token", "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	got, err := store.Users().Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DiscordID)
}

func TestSignInWithDiscord_UnverifiedEmailNotStoredOnNewUser(t *testing.T) {
	ctx := context.Background()
	users := newUserService(t, testutil.NewStore(t), nil, &fakeIdentities{identity: &DiscordIdentity{
		ID:       "5",
		Username: "grot",
		Email:    "grot@example.com",
	}})

	u, err := users.SignInWithDiscord(ctx, "token", "")
	require.NoError(t, err)
	assert.Nil(t, u.Email)
}

func TestSetAvatar(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	alice := testutil.CreateUser(t, store, "Alice")

	_, err := newUserService(t, store, nil, nil).SetAvatar(ctx, alice.ID, "me.png", "image/png", []byte("x"))
	assert.ErrorIs(t, err, ErrUploadsDisabled)

	avatars := &fakeAvatars{}
	users := newUserService(t, store, avatars, nil)
	url, err := users.SetAvatar(ctx, alice.ID, "me.png", "image/png", []byte("x"))
	require.NoError(t, err)
	require.Len(t, avatars.keys, 1)
	assert.Contains(t, avatars.keys[0], "avatars/alice-tester-")

	got, err := users.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Avatar)
	assert.Equal(t, url, *got.Avatar)
}

func TestOnboarding(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	alice := testutil.CreateUser(t, store, "Alice")
	users := newUserService(t, store, nil, nil)

	ok, err := users.IsOnboarded(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = users.GetProfile(ctx, alice.ID)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	_, err = users.CompleteOnboarding(ctx, alice.ID, OnboardingInput{Faction: "SQUATS"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "faction")

	p, err := users.CompleteOnboarding(ctx, alice.ID, OnboardingInput{
		Biography: "Painting more than playing",
		Faction:   "NECRONS",
		Contact:   ContactInput{Discord: "alice#0001"},
	})
	require.NoError(t, err)
	assert.Equal(t, "NECRONS", p.Profile.Faction)

	ok, err = users.IsOnboarded(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = users.CompleteOnboarding(ctx, alice.ID, OnboardingInput{Faction: "ORKS"})
	var ise *InvalidStateError
	require.ErrorAs(t, err, &ise)

	c, err := users.UpdateContact(ctx, alice.ID, ContactInput{Twitter: "@alice"})
	require.NoError(t, err)
	assert.Equal(t, "@alice", c.Twitter)
	assert.Empty(t, c.Discord)

	profile, err := users.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Painting more than playing", profile.Profile.Biography)
	require.NotNil(t, profile.Contact)
	assert.Equal(t, "@alice", profile.Contact.Twitter)
	assert.Empty(t, profile.Entries)

	entry := testutil.CreateEntry(t, store, alice.ID, "Sunday league game")
	bob := testutil.CreateUser(t, store, "Bob")
	testutil.CreateEntry(t, store, bob.ID, "Bob wants a game")

	profile, err = users.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, profile.Entries, 1)
	assert.Equal(t, entry.ID, profile.Entries[0].ID)
}

func TestListPlayersAndDeleteUser(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	alice := testutil.CreateUser(t, store, "Alice")
	testutil.CreateUser(t, store, "Bob")
	users := newUserService(t, store, nil, nil)

	players, err := users.ListPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Alice", players[0].FirstName)

	require.NoError(t, users.DeleteUser(ctx, alice.ID))
	err = users.DeleteUser(ctx, alice.ID)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	name := "Robert"
	_, err = users.UpdateUser(ctx, alice.ID, UserPatch{FirstName: &name})
	require.ErrorAs(t, err, &nf)

	players, err = users.ListPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Bob", players[0].FirstName)
}
