package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/BearBump/ShipTrack/internal/api/middleware"
	"github.com/BearBump/ShipTrack/internal/services/notify"
	"github.com/BearBump/ShipTrack/internal/services/shipments"
	"github.com/BearBump/ShipTrack/internal/services/timeline"
)

type formData struct {
	Username string
	Email    string
}

type trackingData struct {
	Query        string
	Searched     bool
	Results      []shipments.Card
	SelectedCode string
	Selected     *shipments.Details
}

type profileData struct {
	Stats timeline.Stats
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home", "Home", nil)
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", "Login", formData{})
}

func (s *Server) registerPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register", "Sign Up", formData{})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	username, password := r.PostFormValue("username"), r.PostFormValue("password")

	u, err := middleware.CurrentStore(r).Login(r.Context(), username, password)
	if err != nil {
		s.toast(r, notify.LoginFailed(err))
		s.render(w, r, middleware.SessionStatus(err), "login", "Login", formData{Username: username})
		return
	}
	s.toast(r, notify.LoginSucceeded(u.Username))
	http.Redirect(w, r, "/tracking", http.StatusSeeOther)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	username, password, email := r.PostFormValue("username"), r.PostFormValue("password"), r.PostFormValue("email")

	u, err := middleware.CurrentStore(r).Register(r.Context(), username, password, email)
	if err != nil {
		s.toast(r, notify.RegisterFailed(err))
		s.render(w, r, middleware.SessionStatus(err), "register", "Sign Up", formData{Username: username, Email: email})
		return
	}
	s.toast(r, notify.RegisterSucceeded(u.Username))
	http.Redirect(w, r, "/tracking", http.StatusSeeOther)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	middleware.CurrentStore(r).Logout(r.Context())
	s.toast(r, notify.LoggedOut())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) tracking(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	d := trackingData{
		Query:    q.Get("q"),
		Searched: strings.TrimSpace(q.Get("q")) != "",
	}
	d.Results = s.shipments.Cards(s.shipments.Search(d.Query))

	if code := strings.TrimSpace(q.Get("code")); code != "" {
		img, _ := strconv.Atoi(q.Get("img"))
		if det, err := s.shipments.Details(code, img); err == nil {
			d.Selected = &det
			d.SelectedCode = det.Shipment.TrackingCode
		}
	}
	s.render(w, r, http.StatusOK, "tracking", "Track Shipments", d)
}

// profile renders a login hint instead of redirecting anonymous browsers.
func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "profile", "Profile", profileData{Stats: s.shipments.Stats()})
}
