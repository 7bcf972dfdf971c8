// services/notification_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"matchboard/models"
	"matchboard/repository"
)

// NotificationService owns the inbox. Every triggering event produces exactly
// one row; nothing is deduplicated.
type NotificationService struct {
	store repository.Store
}

func NewNotificationService(store repository.Store) *NotificationService {
	return &NotificationService{store: store}
}

// Notify creates one unread notification for userID.
func (s *NotificationService) Notify(ctx context.Context, userID string, typ models.NotificationType) (*models.Notification, error) {
	return notify(ctx, s.store, userID, typ)
}

// notify is shared with the match flow so it can run on a transaction's store.
func notify(ctx context.Context, store repository.Store, userID string, typ models.NotificationType) (*models.Notification, error) {
	if !typ.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"type": fmt.Sprintf("unknown notification type %q", typ)}}
	}
	n := &models.Notification{UserID: userID, Type: typ}
	if err := store.Notifications().Create(ctx, n); err != nil {
		return nil, storageErr("create notification", err)
	}
	return n, nil
}

// ListNotifications returns the user's inbox, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	out, err := s.store.Notifications().ListForUser(ctx, userID)
	if err != nil {
		return nil, storageErr("list notifications", err)
	}
	return out, nil
}

// MarkAllRead stamps every unread notification of userID with at and returns
// how many rows changed. A second call is a no-op.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	n, err := s.store.Notifications().MarkAllRead(ctx, userID, at)
	if err != nil {
		return 0, storageErr("mark notifications read", err)
	}
	return n, nil
}

// HasUnread is recomputed from storage on every call.
func (s *NotificationService) HasUnread(ctx context.Context, userID string) (bool, error) {
	n, err := s.store.Notifications().CountUnread(ctx, userID)
	if err != nil {
		return false, storageErr("count unread notifications", err)
	}
	return n > 0, nil
}
