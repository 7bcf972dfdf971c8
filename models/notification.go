// models/notification.go
package models

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationMatchRequestNew      NotificationType = "MATCH_REQUEST_NEW"
	NotificationMatchRequestAccepted NotificationType = "MATCH_REQUEST_ACCEPTED"
)

var notificationMessages = map[NotificationType]string{
	NotificationMatchRequestNew:      "You have a new match-request.",
	NotificationMatchRequestAccepted: "Your match-request has been accepted.",
}

func (t NotificationType) Valid() bool {
	_, ok := notificationMessages[t]
	return ok
}

// Message is the human readable inbox text.
func (t NotificationType) Message() string {
	return notificationMessages[t]
}

// Notification is an inbox entry. ReadAt stays nil until the owner opens the list.
// DeliveredAt tracks the Discord DM and is independent of ReadAt.
type Notification struct {
	ID          string           `gorm:"primaryKey;size:36" json:"id"`
	UserID      string           `gorm:"index;size:36;not null" json:"user_id"`
	User        *User            `gorm:"foreignKey:UserID" json:"-"`
	Type        NotificationType `gorm:"type:varchar(32);not null" json:"type"`
	CreatedAt   time.Time        `gorm:"index" json:"created_at"`
	ReadAt      *time.Time       `gorm:"index" json:"read_at"`
	DeliveredAt *time.Time       `gorm:"index" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	ensureID(&n.ID)
	return nil
}
