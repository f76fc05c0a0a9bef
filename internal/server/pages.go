package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/raysh454/phishguard/internal/dashboard"
	"github.com/raysh454/phishguard/internal/logging"
	"github.com/raysh454/phishguard/internal/model"
	"github.com/raysh454/phishguard/internal/navigation"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageTemplate struct {
	title string
	tmpl  *template.Template
}

// pageFiles maps each route to its title and body template.
var pageFiles = map[string]struct{ title, file string }{
	"/":          {"Dashboard", "dashboard.html"},
	"/scanner":   {"URL Scanner", "scanner.html"},
	"/history":   {"Detection History", "history.html"},
	"/analytics": {"Analytics", "analytics.html"},
}

var templateFuncs = template.FuncMap{
	"percent": model.Percent,
	"lower":   func(v any) string { return strings.ToLower(toString(v)) },
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case model.RiskLevel:
		return string(t)
	case model.RiskFilter:
		return string(t)
	}
	return ""
}

func loadPages() (map[string]*pageTemplate, error) {
	pages := make(map[string]*pageTemplate, len(pageFiles))
	for path, p := range pageFiles {
		t, err := template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+p.file)
		if err != nil {
			return nil, err
		}
		pages[path] = &pageTemplate{title: p.title, tmpl: t}
	}
	return pages, nil
}

// pageData is handed to layout.html.
type pageData struct {
	Title      string
	Nav        []navigation.Entry
	Menu       navigation.MenuState
	MenuToggle string
	Body       any
}

// menuToggleHref links to the same page with the mobile menu flipped.
func menuToggleHref(r *http.Request, menu navigation.MenuState) string {
	q := r.URL.Query()
	if menu.Toggle() {
		q.Set("menu", "open")
	} else {
		q.Del("menu")
	}
	u := url.URL{Path: r.URL.Path, RawQuery: q.Encode()}
	return u.String()
}

func (s *Server) handlePage(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := s.pages[path]
		if !ok {
			http.NotFound(w, r)
			return
		}

		body, err := s.pageBody(r, path)
		if err != nil {
			status := statusFor(err)
			s.logger.Warn("building page", logging.Field{Key: "path", Value: path}, logging.Field{Key: "error", Value: err})
			http.Error(w, err.Error(), status)
			return
		}

		menu := navigation.MenuState{Open: r.URL.Query().Get("menu") == "open"}
		data := pageData{
			Title:      page.title,
			Nav:        navigation.Mark(s.routes, path),
			Menu:       menu,
			MenuToggle: menuToggleHref(r, menu),
			Body:       body,
		}

		var buf bytes.Buffer
		if err := page.tmpl.Execute(&buf, data); err != nil {
			s.logger.Error("rendering page", logging.Field{Key: "path", Value: path}, logging.Field{Key: "error", Value: err})
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}

func (s *Server) pageBody(r *http.Request, path string) (any, error) {
	switch path {
	case "/":
		return dashboard.DashboardOverview(), nil
	case "/history":
		q, err := parseQuery(r)
		if err != nil {
			return nil, err
		}
		return s.orchestrator.ListHistory(r.Context(), q)
	case "/analytics":
		return s.analytics(r)
	}
	return nil, nil
}
