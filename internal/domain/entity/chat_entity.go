package entity

import "time"

// ChatMessage is one line of an event's chat transcript, keyed by event title.
type ChatMessage struct {
	ID         string
	EventTitle string
	Username   string
	Text       string
	CreatedAt  time.Time
}
