package timeline

import (
	"math"
	"time"

	"github.com/BearBump/ShipTrack/internal/models"
)

// Progress returns delivery completion in percent (0..100).
// Delivered shipments are always 100; a shipment without checkpoints is 0.
func Progress(s models.Shipment) int {
	if s.Status == models.ShipmentStatusDelivered {
		return 100
	}
	total := len(s.Checkpoints)
	if total == 0 {
		return 0
	}
	completed := 0
	for _, cp := range s.Checkpoints {
		if cp.Status == models.CheckpointStatusCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// DaysUntilDelivery is the ceiling of whole days from now to the estimated delivery date.
// Negative once the date has passed.
func DaysUntilDelivery(s models.Shipment, now time.Time) int {
	diff := s.EstimatedDelivery.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}
