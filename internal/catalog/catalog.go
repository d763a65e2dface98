package catalog

import (
	"strings"

	"github.com/BearBump/ShipTrack/internal/models"
	"github.com/pkg/errors"
)

// Catalog is a read-only, ordered set of shipments indexed by tracking code.
type Catalog struct {
	items  []models.Shipment
	byCode map[string]int
}

func New(items []models.Shipment, validate bool) (*Catalog, error) {
	if validate {
		if err := Validate(items); err != nil {
			return nil, err
		}
	}

	c := &Catalog{
		items:  make([]models.Shipment, len(items)),
		byCode: make(map[string]int, len(items)),
	}
	copy(c.items, items)
	for i, s := range c.items {
		k := strings.ToUpper(s.TrackingCode)
		if _, ok := c.byCode[k]; ok {
			return nil, errors.Errorf("duplicate tracking code %q", s.TrackingCode)
		}
		c.byCode[k] = i
	}
	return c, nil
}

// Sample returns the built-in demo catalog.
func Sample() *Catalog {
	c, err := New(SampleShipments(), true)
	if err != nil {
		panic(err)
	}
	return c
}

// All returns shipments in catalog order. The slice is a copy.
func (c *Catalog) All() []models.Shipment {
	out := make([]models.Shipment, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Len() int { return len(c.items) }

// Get looks a shipment up by tracking code, ignoring case.
func (c *Catalog) Get(code string) (models.Shipment, bool) {
	i, ok := c.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return models.Shipment{}, false
	}
	return c.items[i], true
}
