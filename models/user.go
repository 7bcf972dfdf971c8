// models/user.go
package models

import (
	"strings"

	"gorm.io/gorm"
)

// User is the identity record. Email is optional for Discord-only accounts.
type User struct {
	ID                  string  `gorm:"primaryKey;size:36" json:"id"`
	Email               *string `gorm:"uniqueIndex" json:"email,omitempty"`
	FirstName           string  `gorm:"not null" json:"first_name"`
	LastName            string  `json:"last_name"`
	Avatar              *string `gorm:"type:text" json:"avatar,omitempty"`
	DiscordID           *string `gorm:"uniqueIndex" json:"discord_id,omitempty"`
	DiscordRefreshToken *string `json:"-"`

	Password *Password        `gorm:"foreignKey:UserID" json:"-"`
	Profile  *ExtendedProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Contact  *Contact         `gorm:"foreignKey:UserID" json:"contact,omitempty"`

	Timestamps
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// DisplayName joins first and last name the way the player cards show it.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Password holds the bcrypt hash, 1:1 with User.
type Password struct {
	UserID string `gorm:"primaryKey;size:36"`
	Hash   string `gorm:"not null"`
}

// ExtendedProfile is created once during onboarding. Its absence means
// onboarding is incomplete.
type ExtendedProfile struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	UserID    string `gorm:"uniqueIndex;size:36;not null" json:"user_id"`
	Biography string `gorm:"type:text" json:"biography"`
	Faction   string `json:"faction"`

	Timestamps
}

func (p *ExtendedProfile) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// Contact is purely informational; every field is optional.
type Contact struct {
	ID      string `gorm:"primaryKey;size:36" json:"id"`
	UserID  string `gorm:"uniqueIndex;size:36;not null" json:"user_id"`
	Phone   string `json:"phone,omitempty"`
	Discord string `json:"discord,omitempty"`
	Email   string `json:"email,omitempty"`
	Twitter string `json:"twitter,omitempty"`

	Timestamps
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
