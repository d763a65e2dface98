package timeline

import (
	"time"

	"github.com/BearBump/ShipTrack/internal/models"
)

type Entry struct {
	ID          string                  `json:"id"`
	Date        string                  `json:"date"`
	Location    string                  `json:"location"`
	Description string                  `json:"description"`
	Status      models.CheckpointStatus `json:"status"`
	Style       Style                   `json:"style"`
	// Last is true for the final checkpoint (no connector drawn below it).
	Last bool `json:"last"`
}

// Timeline lists checkpoints in sequence order with their display style.
func Timeline(s models.Shipment) []Entry {
	out := make([]Entry, 0, len(s.Checkpoints))
	for i, cp := range s.Checkpoints {
		out = append(out, Entry{
			ID:          cp.ID,
			Date:        cp.Date.Format(models.DateLayout),
			Location:    cp.Location,
			Description: cp.Description,
			Status:      cp.Status,
			Style:       CheckpointStyle(cp.Status),
			Last:        i == len(s.Checkpoints)-1,
		})
	}
	return out
}

// Summary is the derived header of a shipment detail view.
type Summary struct {
	Progress          int    `json:"progress"`
	DaysUntilDelivery int    `json:"daysUntilDelivery"`
	Status            Style  `json:"status"`
	EstimatedDelivery string `json:"estimatedDelivery"`
	Delivered         bool   `json:"delivered"`
}

func Summarize(s models.Shipment, now time.Time) Summary {
	return Summary{
		Progress:          Progress(s),
		DaysUntilDelivery: DaysUntilDelivery(s, now),
		Status:            ShipmentStyle(s.Status),
		EstimatedDelivery: s.EstimatedDelivery.Format(models.DateLayout),
		Delivered:         s.Status == models.ShipmentStatusDelivered,
	}
}
