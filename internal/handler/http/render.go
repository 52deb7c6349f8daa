package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutTemplate = "layout.html"

// Theme is the branding every page is rendered with.
type Theme struct {
	BrandName   string
	LogoURL     string
	AccentColor string
}

type navLink struct {
	Index  int
	Label  string
	Path   string
	Active bool
}

type pendingView struct {
	Username string
	Lines    []string
}

// page is what the layout template receives. Data is the page specific part.
type page struct {
	Title          string
	Theme          Theme
	Nav            []navLink
	Pending        []pendingView
	RefreshSeconds int
	RefreshURL     string
	Notification   string
	Data           any
}

type view struct {
	tmpl  *template.Template
	entry string
}

type renderer struct {
	views map[string]view
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
		"capitalize": capitalize,
		"pathEscape": url.PathEscape,
	}
}

var layoutPages = []string{
	"products.html",
	"product_delete.html",
	"orders.html",
	"users.html",
	"settings.html",
}

func newRenderer() (*renderer, error) {
	layout, err := template.New(layoutTemplate).Funcs(templateFuncs()).ParseFS(templateFS, "templates/"+layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	r := &renderer{views: make(map[string]view, len(layoutPages)+1)}
	for _, name := range layoutPages {
		clone, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		r.views[name] = view{tmpl: clone, entry: layoutTemplate}
	}

	login, err := template.New("login.html").Funcs(templateFuncs()).ParseFS(templateFS, "templates/login.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse login: %w", err)
	}
	r.views["login.html"] = view{tmpl: login, entry: "login.html"}

	return r, nil
}

// render executes into a buffer first so a template error never leaves a
// half written page behind.
func (r *renderer) render(w http.ResponseWriter, status int, name string, data any) {
	v, ok := r.views[name]
	if !ok {
		log.Error().Str("template", name).Msg("unknown template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&buf, v.entry, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("failed to render template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Str("template", name).Msg("failed to write page")
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
