package httpapi

import (
	"net/http"
	"strconv"

	"concertline/internal/models"
)

// City handlers
func (s *Server) handleCreateCity(w http.ResponseWriter, r *http.Request) {
	var city models.City
	if !decodeJSON(w, r, &city) {
		return
	}

	created, err := s.places.CreateCity(r.Context(), &city)
	if err != nil {
		writeError(w, r, err, city)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := s.places.ListCities(r.Context())
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, cities)
}

func (s *Server) handleGetCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	city, err := s.places.GetCity(r.Context(), id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, city)
}

// Venue handlers
func (s *Server) handleCreateVenue(w http.ResponseWriter, r *http.Request) {
	var venue models.Venue
	if !decodeJSON(w, r, &venue) {
		return
	}

	created, err := s.places.CreateVenue(r.Context(), &venue)
	if err != nil {
		writeError(w, r, err, venue)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListVenues(w http.ResponseWriter, r *http.Request) {
	var cityID *int64
	if raw := r.URL.Query().Get("city_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid city_id parameter"})
			return
		}
		cityID = &id
	}

	venues, err := s.places.ListVenues(r.Context(), cityID)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, venues)
}

func (s *Server) handleGetVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	venue, err := s.places.GetVenue(r.Context(), id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, venue)
}

func (s *Server) handleUpdateVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var venue models.Venue
	if !decodeJSON(w, r, &venue) {
		return
	}

	updated, err := s.places.UpdateVenue(r.Context(), id, &venue)
	if err != nil {
		writeError(w, r, err, venue)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
