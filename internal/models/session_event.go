package models

import "time"

const (
	SessionEventRegistered = "registered"
	SessionEventLoggedIn   = "logged_in"
	SessionEventLoggedOut  = "logged_out"
)

type SessionEvent struct {
	ID         uint64
	EventID    string
	Type       string
	Username   string
	SessionID  string
	OccurredAt time.Time
	CreatedAt  time.Time
}
