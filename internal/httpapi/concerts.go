package httpapi

import (
	"net/http"

	"concertline/internal/models"
)

// Tour handlers
func (s *Server) handleListTours(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	tours, err := s.concerts.ListTours(r.Context(), models.TourFilter{
		Query:  query.Get("q"),
		Status: models.TourStatus(query.Get("status")),
	})
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, tours)
}

func (s *Server) handleCreateTour(w http.ResponseWriter, r *http.Request) {
	var tour models.Tour
	if !decodeJSON(w, r, &tour) {
		return
	}

	created, err := s.concerts.CreateTour(r.Context(), &tour)
	if err != nil {
		writeError(w, r, err, tour)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetTour(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	tour, err := s.concerts.GetTour(r.Context(), id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, tour)
}

func (s *Server) handleUpdateTour(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var tour models.Tour
	if !decodeJSON(w, r, &tour) {
		return
	}

	updated, err := s.concerts.UpdateTour(r.Context(), id, &tour)
	if err != nil {
		writeError(w, r, err, tour)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleTourConcerts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	list, err := s.concerts.TourConcerts(r.Context(), id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Concert handlers
func (s *Server) handleListConcerts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	list, err := s.concerts.List(r.Context(), models.ConcertFilter{
		Query:  query.Get("q"),
		Status: models.ConcertStatus(query.Get("status")),
	})
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateConcert(w http.ResponseWriter, r *http.Request) {
	var concert models.Concert
	if !decodeJSON(w, r, &concert) {
		return
	}

	created, err := s.concerts.Create(r.Context(), &concert)
	if err != nil {
		writeError(w, r, err, concert)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetConcert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	concert, err := s.concerts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, concert)
}

func (s *Server) handleUpdateConcert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var concert models.Concert
	if !decodeJSON(w, r, &concert) {
		return
	}

	updated, err := s.concerts.Update(r.Context(), id, &concert)
	if err != nil {
		writeError(w, r, err, concert)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
