// Package testutil provides database fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"matchboard/models"
	"matchboard/repository"
)

// NewStore returns a migrated store backed by a private in-memory sqlite database.
func NewStore(t *testing.T) *repository.GormStore {
	t.Helper()

	dsn := fmt.Sprintf("sqlite:file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repository.Open(dsn, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repository.NewGormStore(db)
}

// CreateUser inserts a user named first with email <first>@example.com.
func CreateUser(t *testing.T, store repository.Store, first string) *models.User {
	t.Helper()

	email := strings.ToLower(first) + "@example.com"
	u := &models.User{FirstName: first, LastName: "Tester", Email: &email}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

// CreateEntry inserts an open board entry owned by ownerID.
func CreateEntry(t *testing.T, store repository.Store, ownerID, title string) *models.BoardEntry {
	t.Helper()

	e := &models.BoardEntry{
		Title:      title,
		Body:       "Looking for a friendly game",
		GameSystem: models.GameSystemWarhammer40k,
		Location:   "Berlin",
		Date:       time.Date(2026, 11, 7, 18, 0, 0, 0, time.UTC),
		UserID:     ownerID,
	}
	require.NoError(t, store.BoardEntries().Create(context.Background(), e))
	return e
}
