package models

import "time"

type ShipmentStatus string

const (
	ShipmentStatusProcessing ShipmentStatus = "processing"
	ShipmentStatusInTransit  ShipmentStatus = "in-transit"
	ShipmentStatusDelivered  ShipmentStatus = "delivered"
)

// ShipmentStatuses lists every shipment status in display order.
func ShipmentStatuses() []ShipmentStatus {
	return []ShipmentStatus{ShipmentStatusProcessing, ShipmentStatusInTransit, ShipmentStatusDelivered}
}

func (s ShipmentStatus) Valid() bool {
	switch s {
	case ShipmentStatusProcessing, ShipmentStatusInTransit, ShipmentStatusDelivered:
		return true
	}
	return false
}

type CheckpointStatus string

const (
	CheckpointStatusCompleted CheckpointStatus = "completed"
	CheckpointStatusCurrent   CheckpointStatus = "current"
	CheckpointStatusPending   CheckpointStatus = "pending"
)

func CheckpointStatuses() []CheckpointStatus {
	return []CheckpointStatus{CheckpointStatusCompleted, CheckpointStatusCurrent, CheckpointStatusPending}
}

func (s CheckpointStatus) Valid() bool {
	switch s {
	case CheckpointStatusCompleted, CheckpointStatusCurrent, CheckpointStatusPending:
		return true
	}
	return false
}

type ServicePriority string

const (
	ServicePriorityStandard  ServicePriority = "standard"
	ServicePriorityExpress   ServicePriority = "express"
	ServicePriorityOvernight ServicePriority = "overnight"
)

func (p ServicePriority) Valid() bool {
	switch p {
	case ServicePriorityStandard, ServicePriorityExpress, ServicePriorityOvernight:
		return true
	}
	return false
}

type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type Location struct {
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type Checkpoint struct {
	ID          string           `json:"id"`
	Date        time.Time        `json:"date"`
	Location    string           `json:"location"`
	Status      CheckpointStatus `json:"status"`
	Description string           `json:"description"`
	Lat         float64          `json:"lat"`
	Lng         float64          `json:"lng"`
}

type Pricing struct {
	Subtotal     float64 `json:"subtotal"`
	Shipping     float64 `json:"shipping"`
	Insurance    float64 `json:"insurance"`
	CustomDuties float64 `json:"customDuties"`
	Taxes        float64 `json:"taxes"`
	Total        float64 `json:"total"`
	Currency     string  `json:"currency"`
}

// Sum is the total implied by the line items.
func (p Pricing) Sum() float64 {
	return p.Subtotal + p.Shipping + p.Insurance + p.CustomDuties + p.Taxes
}

type Shipment struct {
	TrackingCode      string          `json:"trackingCode"`
	ProductName       string          `json:"productName"`
	Images            []string        `json:"images"`
	Status            ShipmentStatus  `json:"status"`
	Sender            Party           `json:"sender"`
	Recipient         Party           `json:"recipient"`
	Weight            string          `json:"weight"`
	Dimensions        string          `json:"dimensions"`
	CurrentLocation   Location        `json:"currentLocation"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
	Checkpoints       []Checkpoint    `json:"checkpoints"`
	Pricing           Pricing         `json:"pricing"`
	InsuranceValue    float64         `json:"insuranceValue"`
	ServicePriority   ServicePriority `json:"servicePriority"`
}

// DateLayout is the calendar-date format used for delivery and checkpoint dates.
const DateLayout = "2006-01-02"
