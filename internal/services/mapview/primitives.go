package mapview

import "github.com/BearBump/ShipTrack/internal/models"

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MarkerStyle mirrors the div icons drawn by the browser map.
type MarkerStyle struct {
	ClassName string `json:"className"`
	Size      int    `json:"size"`
	Color     string `json:"color"`
	Border    int    `json:"border"`
	Shadow    string `json:"shadow"`
	Dot       bool   `json:"dot"`
}

type Marker struct {
	Position    LatLng                  `json:"position"`
	Status      models.CheckpointStatus `json:"status"`
	Style       MarkerStyle             `json:"style"`
	Title       string                  `json:"title"`
	Date        string                  `json:"date"`
	Description string                  `json:"description"`
}

type Polyline struct {
	Points    []LatLng `json:"points"`
	Color     string   `json:"color"`
	Weight    int      `json:"weight"`
	Opacity   float64  `json:"opacity"`
	DashArray string   `json:"dashArray"`
}

type Bounds struct {
	SouthWest LatLng `json:"southWest"`
	NorthEast LatLng `json:"northEast"`
}

// Pad grows the box on every side by ratio of its height/width.
func (b Bounds) Pad(ratio float64) Bounds {
	dh := (b.NorthEast.Lat - b.SouthWest.Lat) * ratio
	dw := (b.NorthEast.Lng - b.SouthWest.Lng) * ratio
	if dh < 0 {
		dh = -dh
	}
	if dw < 0 {
		dw = -dw
	}
	return Bounds{
		SouthWest: LatLng{Lat: b.SouthWest.Lat - dh, Lng: b.SouthWest.Lng - dw},
		NorthEast: LatLng{Lat: b.NorthEast.Lat + dh, Lng: b.NorthEast.Lng + dw},
	}
}

// BoundsOf returns the bounding box of points. ok is false for no points.
func BoundsOf(points []LatLng) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b := Bounds{SouthWest: points[0], NorthEast: points[0]}
	for _, p := range points[1:] {
		b.SouthWest.Lat = min(b.SouthWest.Lat, p.Lat)
		b.SouthWest.Lng = min(b.SouthWest.Lng, p.Lng)
		b.NorthEast.Lat = max(b.NorthEast.Lat, p.Lat)
		b.NorthEast.Lng = max(b.NorthEast.Lng, p.Lng)
	}
	return b, true
}

var markerStyles = map[models.CheckpointStatus]MarkerStyle{
	models.CheckpointStatusCompleted: {ClassName: "marker-completed", Size: 20, Color: "var(--success)", Border: 2, Shadow: "0 2px 6px rgba(0,0,0,0.2)"},
	models.CheckpointStatusCurrent:   {ClassName: "marker-current", Size: 24, Color: "var(--primary)", Border: 3, Shadow: "0 2px 8px rgba(0,0,0,0.3)", Dot: true},
	models.CheckpointStatusPending:   {ClassName: "marker-pending", Size: 16, Color: "var(--muted)", Border: 2, Shadow: "0 2px 4px rgba(0,0,0,0.1)"},
}

func StyleFor(s models.CheckpointStatus) MarkerStyle {
	if st, ok := markerStyles[s]; ok {
		return st
	}
	return markerStyles[models.CheckpointStatusPending]
}
