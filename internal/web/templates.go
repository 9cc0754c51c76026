package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/server"
)

var (
	//go:embed templates/*.html
	templatesFS embed.FS
	pages       = mustParsePages(templatesFS)

	//go:embed static/*
	staticFS embed.FS
)

const layoutTemplate = "layout.html"

// songForm holds submitted values so an invalid form can be re-rendered as typed.
type songForm struct {
	Title  string
	Lyrics string
}

// pageData is the template context shared by every page.
type pageData struct {
	Title     string
	Songs     []*models.Song
	Song      *models.Song
	Form      songForm
	Error     string
	Status    int
	Message   string
	RequestID string
}

// mustParsePages parses each page together with the layout, keyed by page file name.
func mustParsePages(fsys fs.FS) map[string]*template.Template {
	names, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		panic(err)
	}

	pages := make(map[string]*template.Template, len(names))
	for _, path := range names {
		name := path[len("templates/"):]
		if name == layoutTemplate {
			continue
		}
		pages[name] = template.Must(template.New(name).ParseFS(fsys, "templates/"+layoutTemplate, path))
	}
	return pages
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}

// render executes page into a buffer first so a template failure can still produce a 500.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, code int, page string, data pageData) {
	tmpl, ok := pages[page]
	if !ok {
		h.renderError(w, r, fmt.Errorf("unknown page %q", page))
		return
	}

	data.RequestID = server.RequestIDFromContext(r.Context())

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutTemplate, data); err != nil {
		h.logger.Error("failed to render page", "page", page, "error", err, "request_id", data.RequestID)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write page", "page", page, "error", err)
	}
}

func (h *Handlers) renderNotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "not_found.html", pageData{
		Title:  "Song not found",
		Status: http.StatusNotFound,
	})
}

func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := server.RequestIDFromContext(r.Context())
	h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err, "request_id", requestID)

	code := http.StatusInternalServerError
	h.render(w, r, code, "error.html", pageData{
		Title:   fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Status:  code,
		Message: "Something went wrong while talking to the database.",
	})
}
