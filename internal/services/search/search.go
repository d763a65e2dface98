package search

import (
	"strings"

	"github.com/BearBump/ShipTrack/internal/models"
)

// Search returns shipments whose tracking code, product name or recipient name
// contains query, ignoring case. A blank query matches nothing. Catalog order is kept.
// Whitespace inside query is significant.
func Search(catalog []models.Shipment, query string) []models.Shipment {
	if strings.TrimSpace(query) == "" {
		return []models.Shipment{}
	}
	q := strings.ToLower(query)

	out := make([]models.Shipment, 0)
	for _, s := range catalog {
		if matches(s, q) {
			out = append(out, s)
		}
	}
	return out
}

func matches(s models.Shipment, q string) bool {
	return strings.Contains(strings.ToLower(s.TrackingCode), q) ||
		strings.Contains(strings.ToLower(s.ProductName), q) ||
		strings.Contains(strings.ToLower(s.Recipient.Name), q)
}
