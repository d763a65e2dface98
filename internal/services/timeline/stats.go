package timeline

import "github.com/BearBump/ShipTrack/internal/models"

type Stats struct {
	Total      int `json:"totalShipments"`
	Delivered  int `json:"delivered"`
	InTransit  int `json:"inTransit"`
	Processing int `json:"processing"`
}

func CountStats(items []models.Shipment) Stats {
	st := Stats{Total: len(items)}
	for _, s := range items {
		switch s.Status {
		case models.ShipmentStatusDelivered:
			st.Delivered++
		case models.ShipmentStatusInTransit:
			st.InTransit++
		case models.ShipmentStatusProcessing:
			st.Processing++
		}
	}
	return st
}
