// models/board_entry.go
package models

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// BoardEntryStatus is stored as a small integer (OPEN=0, FILLED=1).
type BoardEntryStatus int

const (
	BoardEntryOpen   BoardEntryStatus = 0
	BoardEntryFilled BoardEntryStatus = 1
)

func (s BoardEntryStatus) String() string {
	switch s {
	case BoardEntryOpen:
		return "OPEN"
	case BoardEntryFilled:
		return "FILLED"
	default:
		return fmt.Sprintf("BoardEntryStatus(%d)", int(s))
	}
}

func (s BoardEntryStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *BoardEntryStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "OPEN":
		*s = BoardEntryOpen
	case "FILLED":
		*s = BoardEntryFilled
	default:
		return fmt.Errorf("unknown board entry status %q", string(b))
	}
	return nil
}

// BoardEntry is an open game request posted by its owner.
type BoardEntry struct {
	ID         string           `gorm:"primaryKey;size:36" json:"id"`
	Title      string           `gorm:"not null" json:"title"`
	Body       string           `gorm:"type:text;not null" json:"body"`
	GameSystem string           `gorm:"index;not null" json:"game_system"`
	Location   string           `gorm:"not null" json:"location"`
	Date       time.Time        `gorm:"index;not null" json:"date"`
	Status     BoardEntryStatus `gorm:"not null;default:0" json:"status"`

	UserID       string  `gorm:"index;size:36;not null" json:"user_id"`
	User         *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ChallengerID *string `gorm:"index;size:36" json:"challenger_id,omitempty"`
	Challenger   *User   `gorm:"foreignKey:ChallengerID" json:"challenger,omitempty"`

	MatchRequests []MatchRequest `gorm:"foreignKey:BoardEntryID" json:"match_requests,omitempty"`

	Slug string `gorm:"-" json:"slug"`

	Timestamps
}

func (e *BoardEntry) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	e.Slug = slug.Make(e.Title)
	return nil
}

func (e *BoardEntry) AfterFind(tx *gorm.DB) error {
	e.Slug = slug.Make(e.Title)
	return nil
}

// OpenRequests counts match requests that are still pending.
func (e *BoardEntry) OpenRequests() int {
	n := 0
	for _, mr := range e.MatchRequests {
		if mr.Status == MatchRequestPending {
			n++
		}
	}
	return n
}
