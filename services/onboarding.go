// services/onboarding.go
package services

import (
	"context"
	"errors"
	"strings"

	"matchboard/models"
	"matchboard/repository"
)

type ContactInput struct {
	Phone   string `json:"phone"`
	Discord string `json:"discord"`
	Email   string `json:"email"`
	Twitter string `json:"twitter"`
}

type OnboardingInput struct {
	Biography string       `json:"biography"`
	Faction   string       `json:"faction"`
	Contact   ContactInput `json:"contact"`
}

// Profile is the signed-in user's own view of their account.
type Profile struct {
	User    *models.User            `json:"user"`
	Profile *models.ExtendedProfile `json:"profile"`
	Contact *models.Contact         `json:"contact,omitempty"`
	Entries []models.BoardEntry     `json:"entries"`
}

func checkFaction(v *ValidationError, faction string) {
	if faction == "" {
		return
	}
	if _, ok := models.Factions[faction]; !ok {
		v.add("faction", "Faction is not a known faction")
	}
}

func checkContact(v *ValidationError, c ContactInput) {
	if c.Email != "" {
		cv := &ValidationError{}
		checkEmail(cv, c.Email)
		if msg, bad := cv.Fields["email"]; bad {
			v.add("contact.email", msg)
		}
	}
}

// CompleteOnboarding creates the extended profile and contact card in one go.
// It can only succeed once per user.
func (s *UserService) CompleteOnboarding(ctx context.Context, userID string, in OnboardingInput) (*Profile, error) {
	v := &ValidationError{}
	checkFaction(v, in.Faction)
	checkContact(v, in.Contact)
	if err := v.orNil(); err != nil {
		return nil, err
	}

	out := &Profile{}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := tx.Users().Get(ctx, userID)
		if err != nil {
			return lookupErr("user", userID, err)
		}
		if user.Profile != nil {
			return &InvalidStateError{Entity: "user", ID: userID, State: "already onboarded"}
		}

		out.Profile = &models.ExtendedProfile{
			UserID:    userID,
			Biography: strings.TrimSpace(in.Biography),
			Faction:   in.Faction,
		}
		if err := tx.Profiles().CreateProfile(ctx, out.Profile); err != nil {
			return storageErr("create profile", err)
		}

		out.Contact = contactModel(userID, in.Contact)
		if err := tx.Profiles().UpsertContact(ctx, out.Contact); err != nil {
			return storageErr("upsert contact", err)
		}
		out.User = user
		return nil
	})
	if err != nil {
		return nil, passThrough("complete onboarding", err)
	}
	return out, nil
}

// IsOnboarded reports whether the user already has an extended profile.
func (s *UserService) IsOnboarded(ctx context.Context, userID string) (bool, error) {
	_, err := s.store.Profiles().GetProfile(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storageErr("get profile", err)
	}
	return true, nil
}

// UpdateContact replaces the user's contact card.
func (s *UserService) UpdateContact(ctx context.Context, userID string, in ContactInput) (*models.Contact, error) {
	v := &ValidationError{}
	checkContact(v, in)
	if err := v.orNil(); err != nil {
		return nil, err
	}
	if err := s.store.Profiles().UpsertContact(ctx, contactModel(userID, in)); err != nil {
		return nil, storageErr("upsert contact", err)
	}
	c, err := s.store.Profiles().GetContact(ctx, userID)
	if err != nil {
		return nil, lookupErr("contact", userID, err)
	}
	return c, nil
}

// GetProfile returns the user with their extended profile and contact card.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Profile == nil {
		return nil, &NotFoundError{Entity: "profile", ID: userID}
	}
	entries, err := s.store.BoardEntries().List(ctx, userID)
	if err != nil {
		return nil, storageErr("list board entries", err)
	}
	return &Profile{User: user, Profile: user.Profile, Contact: user.Contact, Entries: entries}, nil
}

func contactModel(userID string, in ContactInput) *models.Contact {
	return &models.Contact{
		UserID:  userID,
		Phone:   strings.TrimSpace(in.Phone),
		Discord: strings.TrimSpace(in.Discord),
		Email:   strings.TrimSpace(in.Email),
		Twitter: strings.TrimSpace(in.Twitter),
	}
}
