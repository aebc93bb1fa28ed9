package entity

import (
	"slices"
	"time"
)

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in Password field
//
// VotedEvents holds the titles of events the user already liked.
type User struct {
	ID          string
	Username    string
	Password    string
	Email       string
	FirstName   string
	LastName    string
	Age         *int
	Avatar      string
	VotedEvents []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasVoted reports whether the user already liked the event with the given title.
func (u *User) HasVoted(title string) bool {
	return slices.Contains(u.VotedEvents, title)
}

// FullName joins first and last name, skipping empty parts.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
