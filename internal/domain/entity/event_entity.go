package entity

import "time"

// Event is the canonical event record. Category buckets and the owner's
// event list hold snapshots of it that must be kept identical.
type Event struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Date       string        `json:"date"`
	Time       string        `json:"time"`
	Place      string        `json:"place"`
	Details    string        `json:"details"`
	Photo      string        `json:"photo"`
	Likes      int           `json:"likes"`
	Categories CategoryNames `json:"categories"`
	User       string        `json:"user"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// IsOwnedBy reports whether username created the event.
func (e *Event) IsOwnedBy(username string) bool {
	return username != "" && e.User == username
}

// Clone returns a copy that shares no slices with e.
func (e Event) Clone() Event {
	e.Categories = append(CategoryNames(nil), e.Categories...)
	return e
}
