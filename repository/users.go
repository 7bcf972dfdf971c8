package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"matchboard/models"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Contact").
		First(&u, "id = ?", id).Error
	if err != nil {
		return nil, wrap("get user", err)
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, wrap("get user by email", err)
	}
	return &u, nil
}

func (r *userRepo) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("discord_id = ?", discordID).First(&u).Error; err != nil {
		return nil, wrap("get user by discord id", err)
	}
	return &u, nil
}

func (r *userRepo) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Order("first_name ASC, last_name ASC").
		Find(&users).Error
	if err != nil {
		return nil, wrap("list users", err)
	}
	return users, nil
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return wrap("create user", err)
	}
	return nil
}

func (r *userRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return wrap("update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&models.BoardEntry{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("from_user_id = ? OR to_user_id = ? OR board_entry_id IN (?)", id, id, owned).
			Delete(&models.MatchRequest{}).Error; err != nil {
			return wrap("delete user match requests", err)
		}
		if err := tx.Model(&models.BoardEntry{}).Where("challenger_id = ?", id).
			Update("challenger_id", nil).Error; err != nil {
			return wrap("detach challenger", err)
		}
		for _, m := range []any{&models.BoardEntry{}, &models.Notification{}, &models.ExtendedProfile{}, &models.Contact{}, &models.Password{}} {
			if err := tx.Where("user_id = ?", id).Delete(m).Error; err != nil {
				return wrap("delete user data", err)
			}
		}
		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return wrap("delete user", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *userRepo) SetPassword(ctx context.Context, userID, hash string) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"hash"}),
	}).Create(&models.Password{UserID: userID, Hash: hash}).Error
	if err != nil {
		return wrap("set password", err)
	}
	return nil
}

func (r *userRepo) PasswordHash(ctx context.Context, userID string) (string, error) {
	var p models.Password
	if err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		return "", wrap("get password", err)
	}
	return p.Hash, nil
}

type profileRepo struct {
	db *gorm.DB
}

func (r *profileRepo) GetProfile(ctx context.Context, userID string) (*models.ExtendedProfile, error) {
	var p models.ExtendedProfile
	if err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, wrap("get profile", err)
	}
	return &p, nil
}

func (r *profileRepo) CreateProfile(ctx context.Context, p *models.ExtendedProfile) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return wrap("create profile", err)
	}
	return nil
}

func (r *profileRepo) GetContact(ctx context.Context, userID string) (*models.Contact, error) {
	var c models.Contact
	if err := r.db.WithContext(ctx).First(&c, "user_id = ?", userID).Error; err != nil {
		return nil, wrap("get contact", err)
	}
	return &c, nil
}

func (r *profileRepo) UpsertContact(ctx context.Context, c *models.Contact) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"phone", "discord", "email", "twitter", "updated_at"}),
	}).Create(c).Error
	if err != nil {
		return wrap("upsert contact", err)
	}
	return nil
}
