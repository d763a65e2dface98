package mapview

import (
	"sync"

	"github.com/BearBump/ShipTrack/internal/models"
)

const (
	DefaultPadding = 0.1
	DefaultZoom    = 6
)

// Layer is a rendered primitive that must be released.
type Layer interface {
	Remove()
}

// Renderer is the map backend the presenter draws on.
type Renderer interface {
	SetView(center LatLng, zoom int)
	AddMarker(m Marker) Layer
	AddPolyline(p Polyline) Layer
	FitBounds(b Bounds)
}

// Presenter maps a shipment onto renderer primitives and owns every layer it adds.
type Presenter struct {
	r       Renderer
	padding float64

	mu     sync.Mutex
	layers []Layer
	closed bool
}

func NewPresenter(r Renderer, padding float64) *Presenter {
	if padding <= 0 {
		padding = DefaultPadding
	}
	return &Presenter{r: r, padding: padding}
}

// Show replaces whatever is drawn with shipment s.
func (p *Presenter) Show(s models.Shipment) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.releaseLocked()

	p.r.SetView(LatLng{Lat: s.CurrentLocation.Lat, Lng: s.CurrentLocation.Lng}, DefaultZoom)

	positions := make([]LatLng, 0, len(s.Checkpoints))
	var route []LatLng
	for _, cp := range s.Checkpoints {
		pos := LatLng{Lat: cp.Lat, Lng: cp.Lng}
		positions = append(positions, pos)

		p.layers = append(p.layers, p.r.AddMarker(Marker{
			Position:    pos,
			Status:      cp.Status,
			Style:       StyleFor(cp.Status),
			Title:       cp.Location,
			Date:        cp.Date.Format(models.DateLayout),
			Description: cp.Description,
		}))

		if cp.Status == models.CheckpointStatusCompleted || cp.Status == models.CheckpointStatusCurrent {
			route = append(route, pos)
		}
	}

	if len(route) > 1 {
		p.layers = append(p.layers, p.r.AddPolyline(Polyline{
			Points:    route,
			Color:     "var(--primary)",
			Weight:    3,
			Opacity:   0.7,
			DashArray: "10, 5",
		}))
	}

	if b, ok := BoundsOf(positions); ok {
		p.r.FitBounds(b.Pad(p.padding))
	}
}

// Close releases all layers; later Show calls are ignored.
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
	p.closed = true
}

// Layers reports how many rendered layers are currently held.
func (p *Presenter) Layers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.layers)
}

func (p *Presenter) releaseLocked() {
	for _, l := range p.layers {
		l.Remove()
	}
	p.layers = nil
}
