// models/match_request.go
package models

import (
	"fmt"

	"gorm.io/gorm"
)

// MatchRequestStatus moves PENDING -> ACCEPTED or PENDING -> DECLINED, never back.
type MatchRequestStatus int

const (
	MatchRequestPending  MatchRequestStatus = 0
	MatchRequestAccepted MatchRequestStatus = 1
	MatchRequestDeclined MatchRequestStatus = 2
)

func (s MatchRequestStatus) String() string {
	switch s {
	case MatchRequestPending:
		return "PENDING"
	case MatchRequestAccepted:
		return "ACCEPTED"
	case MatchRequestDeclined:
		return "DECLINED"
	default:
		return fmt.Sprintf("MatchRequestStatus(%d)", int(s))
	}
}

// Terminal reports whether no further transition is allowed.
func (s MatchRequestStatus) Terminal() bool {
	return s == MatchRequestAccepted || s == MatchRequestDeclined
}

func (s MatchRequestStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *MatchRequestStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "PENDING":
		*s = MatchRequestPending
	case "ACCEPTED":
		*s = MatchRequestAccepted
	case "DECLINED":
		*s = MatchRequestDeclined
	default:
		return fmt.Errorf("unknown match request status %q", string(b))
	}
	return nil
}

// MatchRequest is a user's bid to fill someone else's board entry.
// ToUserID is the entry owner at the time of the request.
type MatchRequest struct {
	ID           string             `gorm:"primaryKey;size:36" json:"id"`
	FromUserID   string             `gorm:"index;size:36;not null" json:"from_user_id"`
	FromUser     *User              `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	ToUserID     string             `gorm:"index;size:36;not null" json:"to_user_id"`
	ToUser       *User              `gorm:"foreignKey:ToUserID" json:"-"`
	BoardEntryID string             `gorm:"index;size:36;not null" json:"board_entry_id"`
	BoardEntry   *BoardEntry        `gorm:"foreignKey:BoardEntryID" json:"board_entry,omitempty"`
	Status       MatchRequestStatus `gorm:"not null;default:0" json:"status"`

	Timestamps
}

func (m *MatchRequest) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
