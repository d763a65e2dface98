package catalog

import (
	"os"
	"time"

	"github.com/BearBump/ShipTrack/internal/models"
	"github.com/pkg/errors"
	"go.yaml.in/yaml/v4"
)

type fileCatalog struct {
	Shipments []fileShipment `yaml:"shipments"`
}

type fileShipment struct {
	TrackingCode      string           `yaml:"tracking_code"`
	ProductName       string           `yaml:"product_name"`
	Images            []string         `yaml:"images"`
	Status            string           `yaml:"status"`
	Sender            fileParty        `yaml:"sender"`
	Recipient         fileParty        `yaml:"recipient"`
	Weight            string           `yaml:"weight"`
	Dimensions        string           `yaml:"dimensions"`
	CurrentLocation   fileLocation     `yaml:"current_location"`
	EstimatedDelivery string           `yaml:"estimated_delivery"`
	Checkpoints       []fileCheckpoint `yaml:"checkpoints"`
	Pricing           filePricing      `yaml:"pricing"`
	InsuranceValue    float64          `yaml:"insurance_value"`
	ServicePriority   string           `yaml:"service_priority"`
}

type fileParty struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	City    string `yaml:"city"`
	Country string `yaml:"country"`
}

type fileLocation struct {
	City    string  `yaml:"city"`
	Country string  `yaml:"country"`
	Lat     float64 `yaml:"lat"`
	Lng     float64 `yaml:"lng"`
}

type fileCheckpoint struct {
	ID          string  `yaml:"id"`
	Date        string  `yaml:"date"`
	Location    string  `yaml:"location"`
	Status      string  `yaml:"status"`
	Description string  `yaml:"description"`
	Lat         float64 `yaml:"lat"`
	Lng         float64 `yaml:"lng"`
}

type filePricing struct {
	Subtotal     float64 `yaml:"subtotal"`
	Shipping     float64 `yaml:"shipping"`
	Insurance    float64 `yaml:"insurance"`
	CustomDuties float64 `yaml:"custom_duties"`
	Taxes        float64 `yaml:"taxes"`
	Total        float64 `yaml:"total"`
	Currency     string  `yaml:"currency"`
}

// LoadFile reads a YAML catalog. Dates use the YYYY-MM-DD layout.
func LoadFile(path string, validate bool) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog")
	}
	return Parse(data, validate)
}

func Parse(data []byte, validate bool) (*Catalog, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrap(err, "unmarshal catalog")
	}

	items := make([]models.Shipment, 0, len(fc.Shipments))
	for _, fs := range fc.Shipments {
		s, err := fs.toModel()
		if err != nil {
			return nil, errors.Wrapf(err, "shipment %s", fs.TrackingCode)
		}
		items = append(items, s)
	}
	return New(items, validate)
}

func (fs fileShipment) toModel() (models.Shipment, error) {
	eta, err := parseDate(fs.EstimatedDelivery)
	if err != nil {
		return models.Shipment{}, errors.Wrap(err, "estimated_delivery")
	}

	cps := make([]models.Checkpoint, 0, len(fs.Checkpoints))
	for _, fc := range fs.Checkpoints {
		d, err := parseDate(fc.Date)
		if err != nil {
			return models.Shipment{}, errors.Wrapf(err, "checkpoint %s date", fc.ID)
		}
		cps = append(cps, models.Checkpoint{
			ID:          fc.ID,
			Date:        d,
			Location:    fc.Location,
			Status:      models.CheckpointStatus(fc.Status),
			Description: fc.Description,
			Lat:         fc.Lat,
			Lng:         fc.Lng,
		})
	}

	return models.Shipment{
		TrackingCode:      fs.TrackingCode,
		ProductName:       fs.ProductName,
		Images:            fs.Images,
		Status:            models.ShipmentStatus(fs.Status),
		Sender:            models.Party(fs.Sender),
		Recipient:         models.Party(fs.Recipient),
		Weight:            fs.Weight,
		Dimensions:        fs.Dimensions,
		CurrentLocation:   models.Location(fs.CurrentLocation),
		EstimatedDelivery: eta,
		Checkpoints:       cps,
		Pricing: models.Pricing{
			Subtotal:     fs.Pricing.Subtotal,
			Shipping:     fs.Pricing.Shipping,
			Insurance:    fs.Pricing.Insurance,
			CustomDuties: fs.Pricing.CustomDuties,
			Taxes:        fs.Pricing.Taxes,
			Total:        fs.Pricing.Total,
			Currency:     fs.Pricing.Currency,
		},
		InsuranceValue:  fs.InsuranceValue,
		ServicePriority: models.ServicePriority(fs.ServicePriority),
	}, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parse date")
	}
	return t, nil
}
