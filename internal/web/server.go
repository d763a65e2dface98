package web

import (
	"fmt"
	"html/template"
	"net/http"
	"os"
	"time"

	"github.com/BearBump/ShipTrack/internal/api/middleware"
	"github.com/BearBump/ShipTrack/internal/api/shiptrack_api"
	"github.com/BearBump/ShipTrack/internal/services/notify"
	"github.com/BearBump/ShipTrack/internal/services/session"
	"github.com/BearBump/ShipTrack/internal/services/shipments"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Deps struct {
	Sessions  *session.Manager
	Shipments *shipments.Service
	Flash     *notify.Flash

	CookieName string
	SessionTTL time.Duration

	// Limiter may be nil, then the API is not rate limited.
	Limiter            middleware.Limiter
	RateLimitPerMinute int

	// SwaggerPath enables /swagger.json and /docs/* when set.
	SwaggerPath string
}

// Server renders the page shell and mounts the JSON API.
type Server struct {
	shipments *shipments.Service
	flash     *notify.Flash
	tmpl      map[string]*template.Template
}

func NewRouter(d Deps) (http.Handler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	s := &Server{shipments: d.Shipments, flash: d.Flash, tmpl: tmpl}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if d.SwaggerPath != "" {
		if _, err := os.Stat(d.SwaggerPath); err != nil {
			return nil, fmt.Errorf("swagger file not found: %s", d.SwaggerPath)
		}
		r.Get("/swagger.json", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-store")
			http.ServeFile(w, r, d.SwaggerPath)
		})
		swaggerURL := "/swagger.json"
		if fi, err := os.Stat(d.SwaggerPath); err == nil {
			swaggerURL = fmt.Sprintf("/swagger.json?v=%d", fi.ModTime().Unix())
		}
		r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL(swaggerURL)))
	}

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(staticFiles())))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Sessions(d.Sessions, d.CookieName, d.SessionTTL))

		r.Get("/", s.home)
		r.Get("/login", s.loginPage)
		r.Post("/login", s.login)
		r.Get("/register", s.registerPage)
		r.Post("/register", s.register)
		r.Post("/logout", s.logout)
		r.Get("/profile", s.profile)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/tracking", s.tracking)
		})

		r.Route("/api/v1", func(r chi.Router) {
			r.Use(middleware.RateLimit(d.Limiter, int64(d.RateLimitPerMinute), time.Minute))
			r.Mount("/", shiptrack_api.New(d.Shipments).Routes())
		})
	})

	return r, nil
}

// requireUser sends anonymous browsers to the login page.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.CurrentStore(r).CurrentUser(); !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
