package catalog

import (
	"math"

	"github.com/BearBump/ShipTrack/internal/models"
	"github.com/pkg/errors"
)

const pricingTolerance = 0.01

// Validate checks the load-time invariants of a catalog.
func Validate(items []models.Shipment) error {
	seen := make(map[string]struct{}, len(items))
	for _, s := range items {
		if s.TrackingCode == "" {
			return errors.New("trackingCode is required")
		}
		if _, ok := seen[s.TrackingCode]; ok {
			return errors.Errorf("duplicate tracking code %q", s.TrackingCode)
		}
		seen[s.TrackingCode] = struct{}{}

		if err := validateShipment(s); err != nil {
			return errors.Wrapf(err, "shipment %s", s.TrackingCode)
		}
	}
	return nil
}

func validateShipment(s models.Shipment) error {
	if len(s.Images) == 0 {
		return errors.New("at least one image is required")
	}
	if !s.Status.Valid() {
		return errors.Errorf("unknown status %q", s.Status)
	}
	if !s.ServicePriority.Valid() {
		return errors.Errorf("unknown service priority %q", s.ServicePriority)
	}
	if math.Abs(s.Pricing.Sum()-s.Pricing.Total) > pricingTolerance {
		return errors.Errorf("pricing total %.2f does not match line items %.2f", s.Pricing.Total, s.Pricing.Sum())
	}
	return ValidateCheckpoints(s.Checkpoints)
}

// ValidateCheckpoints enforces unique ids and the completed -> current -> pending order.
// At most one checkpoint may be current.
func ValidateCheckpoints(cps []models.Checkpoint) error {
	ids := make(map[string]struct{}, len(cps))
	rank := 0
	for _, cp := range cps {
		if cp.ID == "" {
			return errors.New("checkpoint id is required")
		}
		if _, ok := ids[cp.ID]; ok {
			return errors.Errorf("duplicate checkpoint id %q", cp.ID)
		}
		ids[cp.ID] = struct{}{}

		r, ok := checkpointRank(cp.Status)
		if !ok {
			return errors.Errorf("checkpoint %s: unknown status %q", cp.ID, cp.Status)
		}
		if r < rank || (r == rank && cp.Status == models.CheckpointStatusCurrent) {
			return errors.Errorf("checkpoint %s: %s out of order", cp.ID, cp.Status)
		}
		rank = r
	}
	return nil
}

func checkpointRank(s models.CheckpointStatus) (int, bool) {
	switch s {
	case models.CheckpointStatusCompleted:
		return 0, true
	case models.CheckpointStatusCurrent:
		return 1, true
	case models.CheckpointStatusPending:
		return 2, true
	}
	return 0, false
}
