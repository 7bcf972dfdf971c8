// Package repository holds the persistence contracts and their GORM implementation.
package repository

import (
	"context"
	"errors"
	"time"

	"matchboard/models"
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("record not found")

type Users interface {
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByDiscordID(ctx context.Context, discordID string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, id string, fields map[string]any) error
	// Delete removes the user together with everything they own.
	Delete(ctx context.Context, id string) error
	SetPassword(ctx context.Context, userID, hash string) error
	PasswordHash(ctx context.Context, userID string) (string, error)
}

type Profiles interface {
	GetProfile(ctx context.Context, userID string) (*models.ExtendedProfile, error)
	CreateProfile(ctx context.Context, p *models.ExtendedProfile) error
	GetContact(ctx context.Context, userID string) (*models.Contact, error)
	UpsertContact(ctx context.Context, c *models.Contact) error
}

type BoardEntries interface {
	// Get preloads owner, challenger and match requests.
	Get(ctx context.Context, id string) (*models.BoardEntry, error)
	// List returns entries newest-updated first. An empty ownerID lists all.
	List(ctx context.Context, ownerID string) ([]models.BoardEntry, error)
	Create(ctx context.Context, e *models.BoardEntry) error
	Update(ctx context.Context, id string, fields map[string]any) error
	// DeleteOwned removes the entry and its match requests only if ownerID owns it.
	DeleteOwned(ctx context.Context, id, ownerID string) (int64, error)
	MarkFilled(ctx context.Context, id, challengerID string) error
}

type MatchRequests interface {
	Get(ctx context.Context, id string) (*models.MatchRequest, error)
	Create(ctx context.Context, mr *models.MatchRequest) error
	// ListForRecipient preloads the requesting user and the board entry.
	ListForRecipient(ctx context.Context, userID string) ([]models.MatchRequest, error)
	// TransitionStatus moves the request from one status to another and
	// reports false if it was no longer in the expected status.
	TransitionStatus(ctx context.Context, id string, from, to models.MatchRequestStatus) (bool, error)
}

type Notifications interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	// ListUndelivered returns notifications whose owner has a linked Discord
	// account and that have not yet been sent as a DM, oldest first.
	ListUndelivered(ctx context.Context, limit int) ([]models.Notification, error)
	MarkDelivered(ctx context.Context, id string, at time.Time) error
}

// Store groups the repositories. Transaction hands fn a Store bound to a
// single database transaction; returning an error rolls it back.
type Store interface {
	Users() Users
	Profiles() Profiles
	BoardEntries() BoardEntries
	MatchRequests() MatchRequests
	Notifications() Notifications
	Transaction(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}
