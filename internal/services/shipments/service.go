package shipments

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/BearBump/ShipTrack/internal/cache"
	"github.com/BearBump/ShipTrack/internal/catalog"
	"github.com/BearBump/ShipTrack/internal/models"
	"github.com/BearBump/ShipTrack/internal/services/mapview"
	"github.com/BearBump/ShipTrack/internal/services/search"
	"github.com/BearBump/ShipTrack/internal/services/timeline"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("shipment not found")

type Service struct {
	catalog    *catalog.Catalog
	cache      cache.Store
	sceneTTL   time.Duration
	mapPadding float64
	now        func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMapPadding(p float64) Option {
	return func(s *Service) { s.mapPadding = p }
}

// WithSceneCache keeps rendered map scenes in c for ttl.
func WithSceneCache(c cache.Store, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.sceneTTL = ttl
	}
}

func New(c *catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		catalog:    c,
		mapPadding: mapview.DefaultPadding,
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) All() []models.Shipment {
	return s.catalog.All()
}

func (s *Service) Search(query string) []models.Shipment {
	return search.Search(s.catalog.All(), query)
}

func (s *Service) Stats() timeline.Stats {
	return timeline.CountStats(s.catalog.All())
}

// Card is one row of the search result list.
type Card struct {
	Shipment models.Shipment `json:"shipment"`
	Status   timeline.Style  `json:"statusStyle"`
	Progress int             `json:"progress"`
}

func (s *Service) Cards(items []models.Shipment) []Card {
	out := make([]Card, 0, len(items))
	for _, it := range items {
		out = append(out, Card{
			Shipment: it,
			Status:   timeline.ShipmentStyle(it.Status),
			Progress: timeline.Progress(it),
		})
	}
	return out
}

type Details struct {
	Shipment models.Shipment  `json:"shipment"`
	Summary  timeline.Summary `json:"summary"`
	Timeline []timeline.Entry `json:"timeline"`
	Pricing  []PriceLine      `json:"pricing"`
	Carousel CarouselView     `json:"carousel"`
}

type CarouselView struct {
	Image    string `json:"image"`
	Index    int    `json:"index"`
	Count    int    `json:"count"`
	Prev     int    `json:"prev"`
	Next     int    `json:"next"`
	Controls bool   `json:"controls"`
}

// Details builds the detail view; img selects the carousel image and wraps around.
func (s *Service) Details(code string, img int) (Details, error) {
	sh, ok := s.catalog.Get(code)
	if !ok {
		return Details{}, errors.Wrapf(ErrNotFound, "code %q", strings.TrimSpace(code))
	}

	c := timeline.NewCarousel(len(sh.Images), img)
	cv := CarouselView{
		Index:    c.Index,
		Count:    c.Count,
		Prev:     c.Prev(),
		Next:     c.Next(),
		Controls: c.HasControls(),
	}
	if c.Count > 0 {
		cv.Image = sh.Images[c.Index]
	}

	return Details{
		Shipment: sh,
		Summary:  timeline.Summarize(sh, s.now()),
		Timeline: timeline.Timeline(sh),
		Pricing:  PriceLines(sh),
		Carousel: cv,
	}, nil
}

// Scene returns the map scene for a shipment, cached when a cache is configured.
func (s *Service) Scene(ctx context.Context, code string) (mapview.Scene, error) {
	sh, ok := s.catalog.Get(code)
	if !ok {
		return mapview.Scene{}, errors.Wrapf(ErrNotFound, "code %q", strings.TrimSpace(code))
	}

	key := sceneKey(sh.TrackingCode)
	if s.cache != nil && s.sceneTTL > 0 {
		b, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("scene cache get failed", "code", sh.TrackingCode, "error", err.Error())
		} else if ok {
			var sc mapview.Scene
			if json.Unmarshal(b, &sc) == nil {
				return sc, nil
			}
		}
	}

	sc := mapview.Render(sh, s.mapPadding)

	if s.cache != nil && s.sceneTTL > 0 {
		b, _ := json.Marshal(sc)
		if err := s.cache.Set(ctx, key, b, s.sceneTTL); err != nil {
			slog.Warn("scene cache set failed", "code", sh.TrackingCode, "error", err.Error())
		}
	}
	return sc, nil
}

func sceneKey(code string) string {
	return "scene:" + strings.ToUpper(code)
}
