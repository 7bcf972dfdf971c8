// services/board_service.go
package services

import (
	"context"
	"strings"
	"time"

	"matchboard/models"
	"matchboard/repository"
	"matchboard/utils"
)

// BoardService manages board entries.
type BoardService struct {
	store repository.Store
	now   func() time.Time
}

func NewBoardService(store repository.Store) *BoardService {
	return &BoardService{store: store, now: time.Now}
}

// EntryFilter narrows ListEntries. Zero values mean "no filter".
type EntryFilter struct {
	OwnerID    string
	GameSystem string
	Location   string
	Day        *time.Time
}

// CreateEntry validates every field and stores a new OPEN entry owned by ownerID.
func (s *BoardService) CreateEntry(ctx context.Context, ownerID string, in EntryInput) (*models.BoardEntry, error) {
	if err := validateEntryInput(in); err != nil {
		return nil, err
	}
	return s.insert(ctx, ownerID, in)
}

func (s *BoardService) insert(ctx context.Context, ownerID string, in EntryInput) (*models.BoardEntry, error) {
	e := &models.BoardEntry{
		Title:      in.Title,
		Body:       in.Body,
		GameSystem: in.GameSystem,
		Location:   in.Location,
		Date:       in.Date,
		Status:     models.BoardEntryOpen,
		UserID:     ownerID,
	}
	if err := s.store.BoardEntries().Create(ctx, e); err != nil {
		return nil, storageErr("create board entry", err)
	}
	return e, nil
}

// GetEntry returns the entry with its owner, challenger and match requests.
func (s *BoardService) GetEntry(ctx context.Context, id string) (*models.BoardEntry, error) {
	e, err := s.store.BoardEntries().Get(ctx, id)
	if err != nil {
		return nil, lookupErr("board entry", id, err)
	}
	return e, nil
}

// UpdateEntry merges the provided fields. Only the owner may edit.
func (s *BoardService) UpdateEntry(ctx context.Context, id, requesterID string, patch EntryPatch) (*models.BoardEntry, error) {
	if err := validateEntryPatch(patch); err != nil {
		return nil, err
	}

	var updated *models.BoardEntry
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		e, err := tx.BoardEntries().Get(ctx, id)
		if err != nil {
			return lookupErr("board entry", id, err)
		}
		if e.UserID != requesterID {
			return &ForbiddenError{Reason: "only the owner can edit a board entry"}
		}
		if patch.empty() {
			updated = e
			return nil
		}

		fields := map[string]any{}
		if patch.Title != nil {
			fields["title"] = *patch.Title
		}
		if patch.Body != nil {
			fields["body"] = *patch.Body
		}
		if patch.GameSystem != nil {
			fields["game_system"] = *patch.GameSystem
		}
		if patch.Location != nil {
			fields["location"] = *patch.Location
		}
		if patch.Date != nil {
			fields["date"] = *patch.Date
		}
		if err := tx.BoardEntries().Update(ctx, id, fields); err != nil {
			return lookupErr("board entry", id, err)
		}

		updated, err = tx.BoardEntries().Get(ctx, id)
		if err != nil {
			return lookupErr("board entry", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, passThrough("update board entry", err)
	}
	return updated, nil
}

// DeleteEntry removes the entry and its match requests if requesterID owns it.
// Any other combination affects zero rows and is not an error.
func (s *BoardService) DeleteEntry(ctx context.Context, id, requesterID string) (int64, error) {
	n, err := s.store.BoardEntries().DeleteOwned(ctx, id, requesterID)
	if err != nil {
		return 0, storageErr("delete board entry", err)
	}
	return n, nil
}

// ListEntries returns entries most recently updated first. Owner filtering
// happens in the query; the text and day filters are applied here.
func (s *BoardService) ListEntries(ctx context.Context, f EntryFilter) ([]models.BoardEntry, error) {
	entries, err := s.store.BoardEntries().List(ctx, f.OwnerID)
	if err != nil {
		return nil, storageErr("list board entries", err)
	}

	out := entries[:0]
	for _, e := range entries {
		if f.GameSystem != "" && !utils.ContainsFold(e.GameSystem, f.GameSystem) {
			continue
		}
		if f.Location != "" && !utils.ContainsFold(e.Location, f.Location) {
			continue
		}
		if f.Day != nil && !sameDay(e.Date, *f.Day) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// sameDay compares calendar days in the filter's time zone.
func sameDay(a, day time.Time) bool {
	a = a.In(day.Location())
	y1, m1, d1 := a.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ExternalEntryInput is what the chat bot integration sends.
type ExternalEntryInput struct {
	DiscordID  string `json:"discord_id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	GameSystem string `json:"game_system,omitempty"`
	Location   string `json:"location,omitempty"`
}

const defaultExternalLocation = "Bot Town"

// CreateEntryForExternalUser resolves a Discord id to a local user and posts
// an entry on their behalf. Missing game system, location and date fall back
// to defaults.
func (s *BoardService) CreateEntryForExternalUser(ctx context.Context, in ExternalEntryInput) (*models.BoardEntry, error) {
	if strings.TrimSpace(in.DiscordID) == "" {
		return nil, &ValidationError{Fields: map[string]string{"discord_id": "DiscordID is required"}}
	}

	entry := EntryInput{
		Title:      in.Title,
		Body:       in.Body,
		GameSystem: in.GameSystem,
		Location:   in.Location,
		Date:       s.now(),
	}
	if entry.GameSystem == "" {
		entry.GameSystem = models.GameSystemWarhammer40k
	}
	if entry.Location == "" {
		entry.Location = defaultExternalLocation
	}
	if err := validateEntryInput(entry); err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByDiscordID(ctx, in.DiscordID)
	if err != nil {
		return nil, lookupErr("user", in.DiscordID, err)
	}
	return s.insert(ctx, user.ID, entry)
}
