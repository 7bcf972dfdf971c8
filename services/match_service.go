// services/match_service.go
package services

import (
	"context"

	"matchboard/models"
	"matchboard/repository"
)

// MatchService drives the match request state machine:
// PENDING -> ACCEPTED or PENDING -> DECLINED, both terminal.
type MatchService struct {
	store repository.Store
}

func NewMatchService(store repository.Store) *MatchService {
	return &MatchService{store: store}
}

// SendMatchRequest records a PENDING request from fromUserID against the entry
// and notifies the entry owner. Calling it twice creates two requests.
func (s *MatchService) SendMatchRequest(ctx context.Context, fromUserID, entryID string) (*models.MatchRequest, error) {
	var mr *models.MatchRequest
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		entry, err := tx.BoardEntries().Get(ctx, entryID)
		if err != nil {
			return lookupErr("board entry", entryID, err)
		}
		if entry.Status == models.BoardEntryFilled {
			return &InvalidStateError{Entity: "board entry", ID: entry.ID, State: entry.Status.String()}
		}

		mr = &models.MatchRequest{
			FromUserID:   fromUserID,
			ToUserID:     entry.UserID,
			BoardEntryID: entry.ID,
			Status:       models.MatchRequestPending,
		}
		if err := tx.MatchRequests().Create(ctx, mr); err != nil {
			return storageErr("create match request", err)
		}

		_, err = notify(ctx, tx, entry.UserID, models.NotificationMatchRequestNew)
		return err
	})
	if err != nil {
		return nil, passThrough("send match request", err)
	}
	return mr, nil
}

// AcceptMatchRequest accepts a pending request, fills the board entry with the
// requester as challenger and notifies the requester, all in one transaction.
func (s *MatchService) AcceptMatchRequest(ctx context.Context, id, requesterID string) (*models.MatchRequest, error) {
	var mr *models.MatchRequest
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var entry *models.BoardEntry
		var err error
		mr, entry, err = s.loadForOwner(ctx, tx, id, requesterID)
		if err != nil {
			return err
		}
		if entry.Status == models.BoardEntryFilled {
			return &InvalidStateError{Entity: "board entry", ID: entry.ID, State: entry.Status.String()}
		}

		if err := s.transition(ctx, tx, mr, models.MatchRequestAccepted); err != nil {
			return err
		}
		if err := tx.BoardEntries().MarkFilled(ctx, entry.ID, mr.FromUserID); err != nil {
			return lookupErr("board entry", entry.ID, err)
		}

		_, err = notify(ctx, tx, mr.FromUserID, models.NotificationMatchRequestAccepted)
		return err
	})
	if err != nil {
		return nil, passThrough("accept match request", err)
	}
	return mr, nil
}

// DeclineMatchRequest declines a pending request. The board entry is left
// alone and nobody is notified.
func (s *MatchService) DeclineMatchRequest(ctx context.Context, id, requesterID string) (*models.MatchRequest, error) {
	var mr *models.MatchRequest
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		mr, _, err = s.loadForOwner(ctx, tx, id, requesterID)
		if err != nil {
			return err
		}
		return s.transition(ctx, tx, mr, models.MatchRequestDeclined)
	})
	if err != nil {
		return nil, passThrough("decline match request", err)
	}
	return mr, nil
}

// ListMatchRequestsForUser returns requests addressed to userID with the
// requesting user and board entry attached.
func (s *MatchService) ListMatchRequestsForUser(ctx context.Context, userID string) ([]models.MatchRequest, error) {
	out, err := s.store.MatchRequests().ListForRecipient(ctx, userID)
	if err != nil {
		return nil, storageErr("list match requests", err)
	}
	return out, nil
}

func (s *MatchService) loadForOwner(ctx context.Context, tx repository.Store, id, requesterID string) (*models.MatchRequest, *models.BoardEntry, error) {
	mr, err := tx.MatchRequests().Get(ctx, id)
	if err != nil {
		return nil, nil, lookupErr("match request", id, err)
	}
	entry, err := tx.BoardEntries().Get(ctx, mr.BoardEntryID)
	if err != nil {
		return nil, nil, lookupErr("board entry", mr.BoardEntryID, err)
	}
	if entry.UserID != requesterID {
		return nil, nil, &ForbiddenError{Reason: "only the board entry owner can answer a match request"}
	}
	if mr.Status.Terminal() {
		return nil, nil, &InvalidStateError{Entity: "match request", ID: mr.ID, State: mr.Status.String()}
	}
	return mr, entry, nil
}

// transition only succeeds if the row is still PENDING, so two concurrent
// answers cannot both win.
func (s *MatchService) transition(ctx context.Context, tx repository.Store, mr *models.MatchRequest, to models.MatchRequestStatus) error {
	ok, err := tx.MatchRequests().TransitionStatus(ctx, mr.ID, models.MatchRequestPending, to)
	if err != nil {
		return storageErr("update match request status", err)
	}
	if !ok {
		current, err := tx.MatchRequests().Get(ctx, mr.ID)
		if err != nil {
			return lookupErr("match request", mr.ID, err)
		}
		return &InvalidStateError{Entity: "match request", ID: mr.ID, State: current.Status.String()}
	}
	mr.Status = to
	return nil
}
