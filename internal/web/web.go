// Package web implements the server-rendered songbook pages and the admin workflow around them.
//
// # Architecture
//
// Each route is a thin handler: it extracts path and form parameters, calls [models.SongStore],
// and either renders a page or redirects with 303 See Other (post/redirect/get). Handlers hold no
// state beyond the injected store, health check, and logger.
//
// # Routes
//
//	GET       /                        → landing page listing every song
//	GET       /admin/songs             → admin song list
//	GET       /admin/add-song          → empty add form
//	POST      /admin/add-song          → create, then 303 to /admin/songs
//	GET       /admin/songs/{id}        → song detail or 404 page
//	GET       /admin/songs/{id}/edit   → edit form or 404 page
//	POST      /admin/songs/{id}/edit   → update, then 303 to /admin/songs/{id}
//	GET, POST /admin/songs/{id}/delete → delete, then 303 to /admin/songs
//	GET       /health                  → JSON database health
//	GET       /static/...              → embedded stylesheet
//
// # Templates
//
// Pages are html/template sets embedded from templates/. Every page is parsed together with
// layout.html, which defines the document shell and calls the page's "title" and "content" blocks.
//
//   - index.html: landing page
//   - list_songs.html: admin table with view/edit/delete links
//   - add_song.html, edit_song.html: song form, re-rendered with 422 and a message on invalid input
//   - view_song.html: lyrics with edit and delete actions
//   - not_found.html, error.html: 404 and 500 pages
//
// # Errors
//
// [shared.ErrSongNotFound] and unparseable ids render the 404 page. [shared.ErrValidation] re-renders
// the submitted form with 422. Anything else is logged with the request id and renders the 500 page.
package web

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/server"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers serves the songbook pages.
type Handlers struct {
	songs  models.SongStore
	health Pinger
	logger *log.Logger
}

var _ server.Handler = (*Handlers)(nil)

// NewHandlers creates [Handlers] backed by songs. health may be nil, in which case /health always reports ok.
func NewHandlers(songs models.SongStore, health Pinger, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.Default()
	}
	return &Handlers{songs: songs, health: health, logger: logger}
}

// Routes implements [server.Handler].
func (h *Handlers) Routes() []server.Route {
	return []server.Route{
		{Method: http.MethodGet, Path: "/{$}", Handler: http.HandlerFunc(h.index)},
		{Method: http.MethodGet, Path: "/admin/songs", Handler: http.HandlerFunc(h.listSongs)},
		{Method: http.MethodGet, Path: "/admin/add-song", Handler: http.HandlerFunc(h.addSongForm)},
		{Method: http.MethodPost, Path: "/admin/add-song", Handler: http.HandlerFunc(h.addSong)},
		{Method: http.MethodGet, Path: "/admin/songs/{id}", Handler: http.HandlerFunc(h.viewSong)},
		{Method: http.MethodGet, Path: "/admin/songs/{id}/edit", Handler: http.HandlerFunc(h.editSongForm)},
		{Method: http.MethodPost, Path: "/admin/songs/{id}/edit", Handler: http.HandlerFunc(h.editSong)},
		{Method: http.MethodGet, Path: "/admin/songs/{id}/delete", Handler: http.HandlerFunc(h.deleteSong)},
		{Method: http.MethodPost, Path: "/admin/songs/{id}/delete", Handler: http.HandlerFunc(h.deleteSong)},
		{Method: http.MethodGet, Path: "/health", Handler: http.HandlerFunc(h.healthCheck)},
		{Method: http.MethodGet, Path: "/static/", Handler: staticHandler()},
	}
}

// NotFoundHandler renders the 404 page for requests no route matches.
func (h *Handlers) NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.renderNotFound(w, r)
	})
}
