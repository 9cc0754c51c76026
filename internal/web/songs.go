package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
)

// parseID extracts the {id} path value. Only positive base-10 integers can name a song.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songs.List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "index.html", pageData{Title: "Songbook", Songs: songs})
}

func (h *Handlers) listSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songs.List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "list_songs.html", pageData{Title: "Songs", Songs: songs})
}

func (h *Handlers) addSongForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "add_song.html", pageData{Title: "Add song"})
}

func (h *Handlers) addSong(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "add_song.html", pageData{Title: "Add song", Error: "The form could not be read."})
		return
	}

	form := songForm{Title: r.PostForm.Get("title"), Lyrics: r.PostForm.Get("lyrics")}

	song, err := h.songs.Create(r.Context(), form.Title, form.Lyrics)
	switch {
	case errors.Is(err, shared.ErrValidation):
		h.render(w, r, http.StatusUnprocessableEntity, "add_song.html", pageData{
			Title: "Add song",
			Form:  form,
			Error: err.Error(),
		})
		return
	case err != nil:
		h.renderError(w, r, err)
		return
	}

	h.logger.Info("song created", "id", song.ID, "title", song.Title)
	http.Redirect(w, r, "/admin/songs", http.StatusSeeOther)
}

func (h *Handlers) viewSong(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.renderNotFound(w, r)
		return
	}

	song, err := h.songs.Get(r.Context(), id)
	switch {
	case errors.Is(err, shared.ErrSongNotFound):
		h.renderNotFound(w, r)
		return
	case err != nil:
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "view_song.html", pageData{Title: song.Title, Song: song})
}

func (h *Handlers) editSongForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.renderNotFound(w, r)
		return
	}

	song, err := h.songs.Get(r.Context(), id)
	switch {
	case errors.Is(err, shared.ErrSongNotFound):
		h.renderNotFound(w, r)
		return
	case err != nil:
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "edit_song.html", pageData{
		Title: "Edit " + song.Title,
		Song:  song,
		Form:  songForm{Title: song.Title, Lyrics: song.Lyrics},
	})
}

func (h *Handlers) editSong(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.renderNotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "edit_song.html", pageData{
			Title: "Edit song",
			Song:  &models.Song{ID: id},
			Error: "The form could not be read.",
		})
		return
	}

	form := songForm{Title: r.PostForm.Get("title"), Lyrics: r.PostForm.Get("lyrics")}

	song, err := h.songs.Update(r.Context(), id, form.Title, form.Lyrics)
	switch {
	case errors.Is(err, shared.ErrSongNotFound):
		h.renderNotFound(w, r)
		return
	case errors.Is(err, shared.ErrValidation):
		h.render(w, r, http.StatusUnprocessableEntity, "edit_song.html", pageData{
			Title: "Edit song",
			Song:  &models.Song{ID: id},
			Form:  form,
			Error: err.Error(),
		})
		return
	case err != nil:
		h.renderError(w, r, err)
		return
	}

	h.logger.Info("song updated", "id", song.ID, "title", song.Title)
	http.Redirect(w, r, "/admin/songs/"+strconv.FormatInt(song.ID, 10), http.StatusSeeOther)
}

// deleteSong redirects to the list whether or not the song existed.
func (h *Handlers) deleteSong(w http.ResponseWriter, r *http.Request) {
	if id, ok := parseID(r); ok {
		err := h.songs.Delete(r.Context(), id)
		switch {
		case err == nil:
			h.logger.Info("song deleted", "id", id)
		case errors.Is(err, shared.ErrSongNotFound):
			h.logger.Debug("delete of missing song", "id", id)
		default:
			h.renderError(w, r, err)
			return
		}
	}

	http.Redirect(w, r, "/admin/songs", http.StatusSeeOther)
}
