package httpapi

import (
	"net/http"

	"concertline/internal/models"
)

func (s *Server) handleListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := s.artists.List(r.Context(), models.ArtistFilter{Query: r.URL.Query().Get("q")})
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

func (s *Server) handleCreateArtist(w http.ResponseWriter, r *http.Request) {
	var artist models.Artist
	if !decodeJSON(w, r, &artist) {
		return
	}

	created, err := s.artists.Create(r.Context(), &artist)
	if err != nil {
		writeError(w, r, err, artist)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	artist, err := s.artists.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (s *Server) handleUpdateArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var artist models.Artist
	if !decodeJSON(w, r, &artist) {
		return
	}

	updated, err := s.artists.Update(r.Context(), id, &artist)
	if err != nil {
		writeError(w, r, err, artist)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleArtistRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := s.artists.Ratings(r.Context())
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}
