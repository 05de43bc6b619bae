package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"concertline/internal/logging"
	"concertline/internal/models"
	"concertline/internal/validate"
)

type inlineSong struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type inlineSongResponse struct {
	Success bool                 `json:"success"`
	Song    *inlineSong          `json:"song,omitempty"`
	Errors  validate.FieldErrors `json:"errors,omitempty"`
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.songs.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	var song models.Song
	if !decodeJSON(w, r, &song) {
		return
	}

	created, err := s.songs.Create(r.Context(), &song)
	if err != nil {
		writeError(w, r, err, song)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	song, err := s.songs.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

// handleInlineSongAdd creates a song from the setlist editor's quick-add
// form and answers with a compact JSON body.
func (s *Server) handleInlineSongAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, inlineSongResponse{
			Success: false,
			Errors:  validate.FieldErrors{validate.NonFieldKey: "method not allowed"},
		})
		return
	}

	song := &models.Song{
		Title:              strings.TrimSpace(r.FormValue("title")),
		OriginalArtistName: strings.TrimSpace(r.FormValue("original_artist")),
	}
	if raw := strings.TrimSpace(r.FormValue("release_year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 0 {
			fe := validate.FieldErrors{"release_year": "release year must be a non-negative integer"}
			if song.Title == "" {
				fe.Add("title", "title is required")
			}
			writeJSON(w, http.StatusBadRequest, inlineSongResponse{Success: false, Errors: fe})
			return
		}
		song.ReleaseYear = &year
	}

	created, err := s.songs.Create(r.Context(), song)
	if err != nil {
		if fe, ok := validate.AsFieldErrors(err); ok {
			writeJSON(w, http.StatusBadRequest, inlineSongResponse{Success: false, Errors: fe})
			return
		}
		logging.FromContext(r.Context()).Error().Err(err).Msg("inline song add failed")
		writeJSON(w, http.StatusInternalServerError, inlineSongResponse{
			Success: false,
			Errors:  validate.FieldErrors{validate.NonFieldKey: "could not save the song"},
		})
		return
	}

	writeJSON(w, http.StatusOK, inlineSongResponse{
		Success: true,
		Song:    &inlineSong{ID: created.ID, Title: created.Title},
	})
}
