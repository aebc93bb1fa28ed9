package templates

import (
	"time"
)

type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		d.Time = t.UTC().Format("02 January 2006, 15:04")
	}
}

func WithChanges(ch map[string]string) Option {
	return func(d *EmailData) { d.Changes = ch }
}

// Site describes the application in outgoing mail.
type Site struct {
	AppName string
	BaseURL string
}

func NewBaseEmailData(site Site, typ, name, username, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Username:       username,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,
		AppName:        site.AppName,
		AppBaseURL:     site.BaseURL,
		ProfileURL:     site.BaseURL + "/users/" + username,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(site Site, name, username, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(site, Welcome, name, username, email, opts...))
}

func NewProfileUpdatedData(site Site, name, username, email string, changes map[string]string, opts ...Option) map[string]any {
	opts = append([]Option{WithChanges(changes)}, opts...)
	return ToMap(NewBaseEmailData(site, ProfileUpdated, name, username, email, opts...))
}
