package messages

import "time"

type SessionEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	Username   string    `json:"username"`
	SessionID  string    `json:"session_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
