package catalog

import (
	"time"

	"github.com/BearBump/ShipTrack/internal/models"
)

// SampleShipments returns the demo shipments shown on the tracking page.
func SampleShipments() []models.Shipment {
	return []models.Shipment{
		{
			TrackingCode: "CAR23BM76",
			ProductName:  "Mercedes-Benz GLE 63 Coupe",
			Images:       []string{"/static/img/mercedes-gle-63-coupe.svg"},
			Status:       models.ShipmentStatusInTransit,
			Sender: models.Party{
				Name:    "Mercedes-Benz USA",
				Address: "1 Mercedes-Benz Drive",
				City:    "Sandy Springs",
				Country: "USA",
			},
			Recipient: models.Party{
				Name:    "Carethia Williams",
				Address: "1583 Elizabeth Ln",
				City:    "Hampton",
				Country: "USA",
			},
			Weight:     "1,865 kg",
			Dimensions: "4.53m × 1.84m × 1.69m",
			CurrentLocation: models.Location{
				City: "Birmingham", Country: "USA", Lat: 33.5186, Lng: -86.8104,
			},
			EstimatedDelivery: date("2025-09-07"),
			Pricing: models.Pricing{
				Subtotal:     145000.00,
				Shipping:     1500.00,
				Insurance:    50.00,
				CustomDuties: 200.00,
				Taxes:        35.00,
				Total:        146785.00,
				Currency:     "USD",
			},
			InsuranceValue:  145000.00,
			ServicePriority: models.ServicePriorityExpress,
			Checkpoints: []models.Checkpoint{
				{ID: "1", Date: date("2025-08-15"), Location: "Stuttgart, Germany", Status: models.CheckpointStatusCompleted,
					Description: "Vehicle manufactured and quality checked at Mercedes-Benz facility", Lat: 48.7758, Lng: 9.1829},
				{ID: "2", Date: date("2025-08-20"), Location: "Bremerhaven, Germany", Status: models.CheckpointStatusCompleted,
					Description: "Loaded onto cargo ship for overseas transport", Lat: 53.5396, Lng: 8.5810},
				{ID: "3", Date: date("2025-08-25"), Location: "Birmingham, AL, USA", Status: models.CheckpointStatusCurrent,
					Description: "Arrived at Mercedes-Benz US facility for final preparations", Lat: 33.5186, Lng: -86.8104},
				{ID: "4", Date: date("2025-09-05"), Location: "Hampton, GA, USA", Status: models.CheckpointStatusPending,
					Description: "Final inspection and delivery preparation", Lat: 33.3890, Lng: -84.2877},
				{ID: "5", Date: date("2025-09-07"), Location: "Hampton, GA, USA", Status: models.CheckpointStatusPending,
					Description: "Scheduled for delivery to customer", Lat: 33.3890, Lng: -84.2877},
			},
		},
		{
			TrackingCode: "B787FCHEV",
			ProductName:  "2025 Chevrolet Impala",
			Images: []string{
				"/static/img/chevrolet-impala-1.svg",
				"/static/img/chevrolet-impala-2.svg",
				"/static/img/chevrolet-impala-3.svg",
			},
			Status: models.ShipmentStatusInTransit,
			Sender: models.Party{
				Name:    "General Motors LLC",
				Address: "300 Renaissance Center",
				City:    "Detroit",
				Country: "USA",
			},
			Recipient: models.Party{
				Name:    "Joan J Cater",
				Address: "44758 Leslie Ct",
				City:    "Lancaster",
				Country: "USA",
			},
			Weight:     "1,635 kg",
			Dimensions: "5.08m × 1.86m × 1.50m",
			CurrentLocation: models.Location{
				City: "Bakersfield", Country: "USA", Lat: 35.3733, Lng: -119.0187,
			},
			EstimatedDelivery: date("2025-09-22"),
			Pricing: models.Pricing{
				Subtotal:     42000.00,
				Shipping:     800.00,
				Insurance:    25.00,
				CustomDuties: 286.96,
				Taxes:        120.00,
				Total:        43231.96,
				Currency:     "USD",
			},
			InsuranceValue:  42000.00,
			ServicePriority: models.ServicePriorityStandard,
			Checkpoints: []models.Checkpoint{
				{ID: "1", Date: date("2025-08-20"), Location: "Detroit, MI, USA", Status: models.CheckpointStatusCompleted,
					Description: "Vehicle manufactured and quality inspected at GM facility", Lat: 42.3314, Lng: -83.0458},
				{ID: "2", Date: date("2025-08-25"), Location: "Toledo, OH, USA", Status: models.CheckpointStatusCompleted,
					Description: "In transit to distribution center", Lat: 41.6528, Lng: -83.5379},
				{ID: "3", Date: date("2025-09-01"), Location: "Indianapolis, IN, USA", Status: models.CheckpointStatusCompleted,
					Description: "Processed at regional distribution center", Lat: 39.7684, Lng: -86.1581},
				{ID: "4", Date: date("2025-09-15"), Location: "Bakersfield, CA, USA", Status: models.CheckpointStatusPending,
					Description: "Pending until custom duties and taxes are paid", Lat: 35.3733, Lng: -119.0187},
				{ID: "5", Date: date("2025-09-22"), Location: "Lancaster, CA, USA", Status: models.CheckpointStatusPending,
					Description: "Scheduled for delivery to customer", Lat: 34.6868, Lng: -118.1542},
			},
		},
	}
}

func date(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
