package mapview

import (
	"sync"

	"github.com/BearBump/ShipTrack/internal/models"
)

// Scene is a serializable snapshot of what a Renderer holds, drawn by the browser with Leaflet.
type Scene struct {
	Center    LatLng     `json:"center"`
	Zoom      int        `json:"zoom"`
	Markers   []Marker   `json:"markers"`
	Polylines []Polyline `json:"polylines"`
	Bounds    *Bounds    `json:"bounds,omitempty"`
}

// SceneRenderer records primitives in memory.
type SceneRenderer struct {
	mu        sync.Mutex
	seq       int
	center    LatLng
	zoom      int
	markers   map[int]Marker
	polylines map[int]Polyline
	order     []int
	bounds    *Bounds
}

func NewSceneRenderer() *SceneRenderer {
	return &SceneRenderer{
		markers:   map[int]Marker{},
		polylines: map[int]Polyline{},
	}
}

func (r *SceneRenderer) SetView(center LatLng, zoom int) {
	r.mu.Lock()
	r.center, r.zoom = center, zoom
	r.mu.Unlock()
}

func (r *SceneRenderer) AddMarker(m Marker) Layer {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.markers[r.seq] = m
	r.order = append(r.order, r.seq)
	return &sceneLayer{r: r, id: r.seq}
}

func (r *SceneRenderer) AddPolyline(p Polyline) Layer {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.polylines[r.seq] = p
	r.order = append(r.order, r.seq)
	return &sceneLayer{r: r, id: r.seq}
}

func (r *SceneRenderer) FitBounds(b Bounds) {
	r.mu.Lock()
	r.bounds = &b
	r.mu.Unlock()
}

// Snapshot returns the current scene in insertion order.
func (r *SceneRenderer) Snapshot() Scene {
	r.mu.Lock()
	defer r.mu.Unlock()

	sc := Scene{Center: r.center, Zoom: r.zoom, Markers: []Marker{}, Polylines: []Polyline{}}
	for _, id := range r.order {
		if m, ok := r.markers[id]; ok {
			sc.Markers = append(sc.Markers, m)
		}
		if p, ok := r.polylines[id]; ok {
			sc.Polylines = append(sc.Polylines, p)
		}
	}
	if r.bounds != nil {
		b := *r.bounds
		sc.Bounds = &b
	}
	return sc
}

func (r *SceneRenderer) remove(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.markers, id)
	delete(r.polylines, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if len(r.order) == 0 {
		r.bounds = nil
	}
}

type sceneLayer struct {
	r    *SceneRenderer
	id   int
	once sync.Once
}

func (l *sceneLayer) Remove() {
	l.once.Do(func() { l.r.remove(l.id) })
}

// Render draws s on a fresh scene and releases the presenter before returning.
func Render(s models.Shipment, padding float64) Scene {
	r := NewSceneRenderer()
	p := NewPresenter(r, padding)
	defer p.Close()

	p.Show(s)
	return r.Snapshot()
}
