package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"matchboard/models"
)

type boardEntryRepo struct {
	db *gorm.DB
}

func (r *boardEntryRepo) Get(ctx context.Context, id string) (*models.BoardEntry, error) {
	var e models.BoardEntry
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Challenger").
		Preload("MatchRequests", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, wrap("get board entry", err)
	}
	return &e, nil
}

func (r *boardEntryRepo) List(ctx context.Context, ownerID string) ([]models.BoardEntry, error) {
	q := r.db.WithContext(ctx).
		Preload("User").
		Preload("Challenger").
		Order("updated_at DESC")
	if ownerID != "" {
		q = q.Where("user_id = ?", ownerID)
	}
	var entries []models.BoardEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, wrap("list board entries", err)
	}
	return entries, nil
}

func (r *boardEntryRepo) Create(ctx context.Context, e *models.BoardEntry) error {
	if err := r.db.WithContext(ctx).Omit("User", "Challenger", "MatchRequests").Create(e).Error; err != nil {
		return wrap("create board entry", err)
	}
	return nil
}

func (r *boardEntryRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.BoardEntry{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return wrap("update board entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *boardEntryRepo) DeleteOwned(ctx context.Context, id, ownerID string) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.BoardEntry{}).
			Where("id = ? AND user_id = ?", id, ownerID).
			Count(&count).Error; err != nil {
			return wrap("check board entry owner", err)
		}
		if count == 0 {
			return nil
		}
		if err := tx.Where("board_entry_id = ?", id).Delete(&models.MatchRequest{}).Error; err != nil {
			return wrap("delete entry match requests", err)
		}
		res := tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.BoardEntry{})
		if res.Error != nil {
			return wrap("delete board entry", res.Error)
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}

func (r *boardEntryRepo) MarkFilled(ctx context.Context, id, challengerID string) error {
	res := r.db.WithContext(ctx).Model(&models.BoardEntry{}).Where("id = ?", id).Updates(map[string]any{
		"status":        int(models.BoardEntryFilled),
		"challenger_id": challengerID,
	})
	if res.Error != nil {
		return wrap("mark board entry filled", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type matchRequestRepo struct {
	db *gorm.DB
}

func (r *matchRequestRepo) Get(ctx context.Context, id string) (*models.MatchRequest, error) {
	var mr models.MatchRequest
	if err := r.db.WithContext(ctx).First(&mr, "id = ?", id).Error; err != nil {
		return nil, wrap("get match request", err)
	}
	return &mr, nil
}

func (r *matchRequestRepo) Create(ctx context.Context, mr *models.MatchRequest) error {
	if err := r.db.WithContext(ctx).Omit("FromUser", "ToUser", "BoardEntry").Create(mr).Error; err != nil {
		return wrap("create match request", err)
	}
	return nil
}

func (r *matchRequestRepo) ListForRecipient(ctx context.Context, userID string) ([]models.MatchRequest, error) {
	var out []models.MatchRequest
	err := r.db.WithContext(ctx).
		Preload("FromUser").
		Preload("BoardEntry").
		Where("to_user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, wrap("list match requests", err)
	}
	return out, nil
}

func (r *matchRequestRepo) TransitionStatus(ctx context.Context, id string, from, to models.MatchRequestStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.MatchRequest{}).
		Where("id = ? AND status = ?", id, int(from)).
		Update("status", int(to))
	if res.Error != nil {
		return false, wrap("update match request status", res.Error)
	}
	return res.RowsAffected == 1, nil
}

type notificationRepo struct {
	db *gorm.DB
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(n).Error; err != nil {
		return wrap("create notification", err)
	}
	return nil
}

func (r *notificationRepo) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var out []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, wrap("list notifications", err)
	}
	return out, nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", at)
	if res.Error != nil {
		return 0, wrap("mark notifications read", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&n).Error
	if err != nil {
		return 0, wrap("count unread notifications", err)
	}
	return n, nil
}

func (r *notificationRepo) ListUndelivered(ctx context.Context, limit int) ([]models.Notification, error) {
	var out []models.Notification
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = notifications.user_id").
		Where("notifications.delivered_at IS NULL AND users.discord_id IS NOT NULL").
		Order("notifications.created_at ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, wrap("list undelivered notifications", err)
	}
	return out, nil
}

func (r *notificationRepo) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Update("delivered_at", at)
	if res.Error != nil {
		return wrap("mark notification delivered", res.Error)
	}
	return nil
}
