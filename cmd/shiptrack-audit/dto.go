package main

import (
	"time"

	"github.com/BearBump/ShipTrack/internal/models"
)

type eventDTO struct {
	ID         uint64    `json:"id"`
	EventID    string    `json:"eventId"`
	Type       string    `json:"type"`
	Username   string    `json:"username"`
	SessionID  string    `json:"sessionId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toEventDTOs(evs []*models.SessionEvent) []eventDTO {
	out := make([]eventDTO, 0, len(evs))
	for _, e := range evs {
		out = append(out, eventDTO{
			ID:         e.ID,
			EventID:    e.EventID,
			Type:       e.Type,
			Username:   e.Username,
			SessionID:  e.SessionID,
			OccurredAt: e.OccurredAt,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}
