package shiptrack_api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/BearBump/ShipTrack/internal/api/middleware"
	"github.com/BearBump/ShipTrack/internal/services/session"
	"github.com/BearBump/ShipTrack/internal/services/shipments"
	"github.com/go-chi/chi/v5"
)

type API struct {
	svc *shipments.Service
}

func New(svc *shipments.Service) *API {
	return &API{svc: svc}
}

// Routes expects the Sessions middleware to be installed upstream.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/session", a.getSession)
	r.Post("/session/register", a.register)
	r.Post("/session/login", a.login)
	r.Post("/session/logout", a.logout)

	r.Group(func(r chi.Router) {
		r.Use(requireUser)
		r.Get("/shipments", a.searchShipments)
		r.Get("/shipments/{code}", a.getShipment)
		r.Get("/shipments/{code}/map", a.getShipmentMap)
	})
	return r
}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.CurrentStore(r).CurrentUser(); !ok {
			writeError(w, r, http.StatusUnauthorized, "login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, sessionOf(middleware.CurrentStore(r)))
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}
	st := middleware.CurrentStore(r)
	if _, err := st.Register(r.Context(), req.Username, req.Password, req.Email); err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, sessionOf(st))
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}
	st := middleware.CurrentStore(r)
	if _, err := st.Login(r.Context(), req.Username, req.Password); err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sessionOf(st))
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	middleware.CurrentStore(r).Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) searchShipments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	items := a.svc.Cards(a.svc.Search(q))
	writeJSON(w, r, http.StatusOK, searchResponse{Query: q, Count: len(items), Items: items})
}

func (a *API) getShipment(w http.ResponseWriter, r *http.Request) {
	img, _ := strconv.Atoi(r.URL.Query().Get("img"))
	d, err := a.svc.Details(chi.URLParam(r, "code"), img)
	if err != nil {
		writeShipmentError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

func (a *API) getShipmentMap(w http.ResponseWriter, r *http.Request) {
	sc, err := a.svc.Scene(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeShipmentError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sc)
}

func sessionOf(st *session.Store) sessionResponse {
	u, ok := st.CurrentUser()
	if !ok {
		return sessionResponse{}
	}
	return sessionResponse{Authenticated: true, User: &u}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	status := middleware.SessionStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("session operation failed", "path", r.URL.Path, "error", err.Error())
		writeError(w, r, status, "internal error")
		return
	}
	writeError(w, r, status, err.Error())
}

func writeShipmentError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, shipments.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "shipment not found")
		return
	}
	slog.Error("shipment lookup failed", "path", r.URL.Path, "error", err.Error())
	writeError(w, r, http.StatusInternalServerError, "internal error")
}
