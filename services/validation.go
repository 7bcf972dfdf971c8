package services

import (
	"net/mail"
	"time"
	"unicode/utf8"
)

const (
	minTitleLength = 8
	minBodyLength  = 10
	minPassword    = 8
)

const (
	msgTitleTooShort      = "Title is too short. It should at least be 8 letters long"
	msgBodyTooShort       = "Body is too short. It should at least be 10 letters long"
	msgGameSystemRequired = "GameSystem is required"
	msgLocationRequired   = "Location is required"
	msgDateRequired       = "Date is required"
	msgEmailTaken         = "A user already exists with this email"
)

// EntryInput is the full set of fields needed to post a board entry.
type EntryInput struct {
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	GameSystem string    `json:"game_system"`
	Location   string    `json:"location"`
	Date       time.Time `json:"date"`
}

// EntryPatch carries only the fields the caller wants to change.
type EntryPatch struct {
	Title      *string    `json:"title,omitempty"`
	Body       *string    `json:"body,omitempty"`
	GameSystem *string    `json:"game_system,omitempty"`
	Location   *string    `json:"location,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
}

func (p EntryPatch) empty() bool {
	return p.Title == nil && p.Body == nil && p.GameSystem == nil && p.Location == nil && p.Date == nil
}

// Lengths count characters, not bytes, and input is not trimmed.
func checkTitle(v *ValidationError, title string) {
	if utf8.RuneCountInString(title) < minTitleLength {
		v.add("title", msgTitleTooShort)
	}
}

func checkBody(v *ValidationError, body string) {
	if utf8.RuneCountInString(body) < minBodyLength {
		v.add("body", msgBodyTooShort)
	}
}

func checkGameSystem(v *ValidationError, gs string) {
	if gs == "" {
		v.add("game_system", msgGameSystemRequired)
	}
}

func checkLocation(v *ValidationError, loc string) {
	if loc == "" {
		v.add("location", msgLocationRequired)
	}
}

func checkDate(v *ValidationError, d time.Time) {
	if d.IsZero() {
		v.add("date", msgDateRequired)
	}
}

func validateEntryInput(in EntryInput) error {
	v := &ValidationError{}
	checkTitle(v, in.Title)
	checkBody(v, in.Body)
	checkGameSystem(v, in.GameSystem)
	checkLocation(v, in.Location)
	checkDate(v, in.Date)
	return v.orNil()
}

func validateEntryPatch(p EntryPatch) error {
	v := &ValidationError{}
	if p.Title != nil {
		checkTitle(v, *p.Title)
	}
	if p.Body != nil {
		checkBody(v, *p.Body)
	}
	if p.GameSystem != nil {
		checkGameSystem(v, *p.GameSystem)
	}
	if p.Location != nil {
		checkLocation(v, *p.Location)
	}
	if p.Date != nil {
		checkDate(v, *p.Date)
	}
	return v.orNil()
}

func checkEmail(v *ValidationError, email string) {
	if email == "" {
		v.add("email", "Email is required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		v.add("email", "Email is invalid")
	}
}

func checkPassword(v *ValidationError, password string) {
	if utf8.RuneCountInString(password) < minPassword {
		v.add("password", "Password is too short. It should at least be 8 characters long")
	}
}
