package application

import (
	"time"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
)

// Profile is the public view of a user. It is also the request identity
// once a session has been resolved.
type Profile struct {
	ID          string
	Username    string
	Email       string
	FirstName   string
	LastName    string
	Age         *int
	Avatar      string
	VotedEvents []string
	CreatedAt   time.Time
}

func NewProfile(u *entity.User) *Profile {
	return &Profile{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Age:         u.Age,
		Avatar:      u.Avatar,
		VotedEvents: append([]string(nil), u.VotedEvents...),
		CreatedAt:   u.CreatedAt,
	}
}

func (p *Profile) FullName() string {
	u := entity.User{FirstName: p.FirstName, LastName: p.LastName}
	return u.FullName()
}

// Is reports whether the identity belongs to username. Nil identities never match.
func (p *Profile) Is(username string) bool {
	return p != nil && p.Username == username
}
