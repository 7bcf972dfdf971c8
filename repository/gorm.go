package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// GormStore implements Store on top of a *gorm.DB. The same type is used for
// the root connection and for transactions.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB exposes the underlying handle for migrations and seeding.
func (s *GormStore) DB() *gorm.DB { return s.db }

func (s *GormStore) Users() Users                 { return &userRepo{db: s.db} }
func (s *GormStore) Profiles() Profiles           { return &profileRepo{db: s.db} }
func (s *GormStore) BoardEntries() BoardEntries   { return &boardEntryRepo{db: s.db} }
func (s *GormStore) MatchRequests() MatchRequests { return &matchRequestRepo{db: s.db} }
func (s *GormStore) Notifications() Notifications { return &notificationRepo{db: s.db} }

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return wrap("get sql.DB", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return wrap("ping database", err)
	}
	return nil
}

// wrap maps gorm's not-found onto ErrNotFound and logs everything else.
func wrap(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	slog.Error("storage: Failed to "+op, "error", err)
	return fmt.Errorf("failed to %s: %w", op, err)
}
