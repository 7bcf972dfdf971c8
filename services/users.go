// services/users.go
package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"matchboard/models"
	"matchboard/repository"
	"matchboard/utils"
)

// AvatarStore persists avatar images and returns their public URL.
type AvatarStore interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// DiscordIdentity is the subset of a Discord account we keep.
type DiscordIdentity struct {
	ID        string
	Username  string
	Email     string
	Verified  bool
	AvatarURL string
}

// IdentityFetcher resolves an OAuth access token to the Discord account behind it.
type IdentityFetcher interface {
	FetchIdentity(ctx context.Context, accessToken string) (*DiscordIdentity, error)
}

type UserService struct {
	store      repository.Store
	avatars    AvatarStore
	identities IdentityFetcher
	hashCost   int
}

// NewUserService wires the user service. avatars and identities may be nil,
// which disables uploads and Discord sign-in respectively.
func NewUserService(store repository.Store, avatars AvatarStore, identities IdentityFetcher) *UserService {
	return &UserService{
		store:      store,
		avatars:    avatars,
		identities: identities,
		hashCost:   bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserPatch carries the editable account fields.
type UserPatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// PlayerSummary is the public card shown on player lists and match requests.
type PlayerSummary struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Avatar    *string `json:"avatar,omitempty"`
	Faction   string  `json:"faction,omitempty"`
}

func Summarize(u *models.User) PlayerSummary {
	ps := PlayerSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Avatar: u.Avatar}
	if u.Profile != nil {
		ps.Faction = u.Profile.Faction
	}
	return ps
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an email/password account.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)

	v := &ValidationError{}
	checkEmail(v, email)
	checkPassword(v, in.Password)
	if strings.TrimSpace(in.FirstName) == "" {
		v.add("first_name", "First name is required")
	}
	if err := v.orNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, &StorageError{Op: "hash password", Err: err}
	}

	var user *models.User
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		_, err := tx.Users().GetByEmail(ctx, email)
		switch {
		case err == nil:
			return &ValidationError{Fields: map[string]string{"email": "Email is already registered"}}
		case !errors.Is(err, repository.ErrNotFound):
			return storageErr("get user by email", err)
		}

		user = &models.User{
			Email:     &email,
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return storageErr("create user", err)
		}
		return storageErr("set password", tx.Users().SetPassword(ctx, user.ID, string(hash)))
	})
	if err != nil {
		return nil, passThrough("register", err)
	}
	return user, nil
}

// VerifyLogin returns the user if the password matches. Unknown email and
// wrong password both yield ErrInvalidCredentials.
func (s *UserService) VerifyLogin(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.Users().GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storageErr("get user by email", err)
	}

	hash, err := s.store.Users().PasswordHash(ctx, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		// Discord-only account.
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storageErr("get password", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.store.Users().Get(ctx, id)
	if err != nil {
		return nil, lookupErr("user", id, err)
	}
	return u, nil
}

// ListPlayers returns every user as a public summary.
func (s *UserService) ListPlayers(ctx context.Context) ([]PlayerSummary, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, storageErr("list users", err)
	}
	out := make([]PlayerSummary, len(users))
	for i := range users {
		out[i] = Summarize(&users[i])
	}
	return out, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id string, patch UserPatch) (*models.User, error) {
	fields := map[string]any{}
	v := &ValidationError{}
	if patch.FirstName != nil {
		if strings.TrimSpace(*patch.FirstName) == "" {
			v.add("first_name", "First name is required")
		}
		fields["first_name"] = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*patch.LastName)
	}
	if err := v.orNil(); err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := s.store.Users().Update(ctx, id, fields); err != nil {
			return nil, lookupErr("user", id, err)
		}
	}
	return s.GetUser(ctx, id)
}

// DeleteUser removes the account and everything it owns.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.store.Users().Delete(ctx, id); err != nil {
		return lookupErr("user", id, err)
	}
	return nil
}

// SignInWithDiscord finds or creates the user behind a Discord access token.
// A user is matched by Discord id first, then by a verified email, and created
// otherwise. An email already linked to another Discord account is rejected.
func (s *UserService) SignInWithDiscord(ctx context.Context, accessToken, refreshToken string) (*models.User, error) {
	if s.identities == nil {
		return nil, &InvalidStateError{Entity: "discord sign-in", ID: "", State: "disabled"}
	}
	id, err := s.identities.FetchIdentity(ctx, accessToken)
	if err != nil {
		return nil, &ForbiddenError{Reason: "discord identity could not be verified"}
	}

	var user *models.User
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		fields := map[string]any{"discord_id": id.ID}
		if refreshToken != "" {
			fields["discord_refresh_token"] = refreshToken
		}

		existing, err := tx.Users().GetByDiscordID(ctx, id.ID)
		if errors.Is(err, repository.ErrNotFound) && id.Email != "" {
			existing, err = tx.Users().GetByEmail(ctx, normalizeEmail(id.Email))
			if err == nil && (!id.Verified || (existing.DiscordID != nil && *existing.DiscordID != id.ID)) {
				return &ValidationError{Fields: map[string]string{"email": msgEmailTaken}}
			}
		}
		switch {
		case err == nil:
			if existing.Avatar == nil && id.AvatarURL != "" {
				fields["avatar"] = id.AvatarURL
			}
			if err := tx.Users().Update(ctx, existing.ID, fields); err != nil {
				return storageErr("link discord account", err)
			}
			user, err = tx.Users().Get(ctx, existing.ID)
			return lookupErr("user", existing.ID, err)
		case !errors.Is(err, repository.ErrNotFound):
			return storageErr("get user by discord id", err)
		}

		discordID := id.ID
		user = &models.User{FirstName: id.Username, DiscordID: &discordID}
		if id.Email != "" && id.Verified {
			email := normalizeEmail(id.Email)
			user.Email = &email
		}
		if id.AvatarURL != "" {
			avatar := id.AvatarURL
			user.Avatar = &avatar
		}
		if refreshToken != "" {
			user.DiscordRefreshToken = &refreshToken
		}
		return storageErr("create user", tx.Users().Create(ctx, user))
	})
	if err != nil {
		return nil, passThrough("discord sign-in", err)
	}
	return user, nil
}

// SetAvatar uploads the image and stores its URL on the user.
func (s *UserService) SetAvatar(ctx context.Context, userID, filename, contentType string, body []byte) (string, error) {
	if s.avatars == nil {
		return "", ErrUploadsDisabled
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}

	url, err := s.avatars.Upload(ctx, utils.AvatarKey(user.DisplayName(), filename), contentType, body)
	if err != nil {
		return "", &StorageError{Op: "upload avatar", Err: err}
	}
	if err := s.store.Users().Update(ctx, userID, map[string]any{"avatar": url}); err != nil {
		return "", lookupErr("user", userID, err)
	}
	return url, nil
}
