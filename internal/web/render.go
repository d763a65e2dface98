package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/BearBump/ShipTrack/internal/api/middleware"
	"github.com/BearBump/ShipTrack/internal/models"
	"github.com/BearBump/ShipTrack/internal/services/notify"
	"github.com/BearBump/ShipTrack/internal/services/shipments"
	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pages = []string{"home", "login", "register", "tracking", "profile"}

var funcs = template.FuncMap{
	"date":  func(t time.Time) string { return t.Format("Jan 2, 2006") },
	"inc":   func(i int) int { return i + 1 },
	"money": shipments.FormatMoney,
}

func parseTemplates() (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		t, err := template.New(p).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+p+".html")
		if err != nil {
			return nil, errors.Wrapf(err, "parse template %s", p)
		}
		out[p] = t
	}
	return out, nil
}

func staticFiles() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// view is what every page template receives.
type view struct {
	Title  string
	Active string
	User   *models.User
	Toasts []notify.Toast
	Data   any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	st := middleware.CurrentStore(r)

	v := view{Title: title, Active: page, Data: data}
	if u, ok := st.CurrentUser(); ok {
		v.User = &u
	}
	toasts, err := s.flash.Pop(r.Context(), st.SessionID())
	if err != nil {
		slog.Warn("pop flash", "sid", st.SessionID(), "error", err.Error())
	}
	v.Toasts = toasts

	t, ok := s.tmpl[page]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", v); err != nil {
		slog.Error("render page", "page", page, "error", err.Error())
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// toast queues t for the next page of this browser.
func (s *Server) toast(r *http.Request, t notify.Toast) {
	st := middleware.CurrentStore(r)
	if err := s.flash.Push(r.Context(), st.SessionID(), t); err != nil {
		slog.Warn("push flash", "sid", st.SessionID(), "error", err.Error())
	}
}
