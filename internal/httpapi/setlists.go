package httpapi

import (
	"net/http"

	"concertline/internal/models"
)

type setlistEntryRequest struct {
	SongID   int64  `json:"song_id"`
	Position int    `json:"position"`
	Section  string `json:"section"`
	IsCover  bool   `json:"is_cover"`
}

func (req setlistEntryRequest) entry(concertID int64) *models.SetlistEntry {
	return &models.SetlistEntry{
		ConcertID: concertID,
		SongID:    req.SongID,
		Position:  req.Position,
		Section:   req.Section,
		IsCover:   req.IsCover,
	}
}

func (s *Server) handleGetSetlist(w http.ResponseWriter, r *http.Request) {
	concertID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	setlist, err := s.setlists.Get(r.Context(), concertID)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, setlist)
}

func (s *Server) handleAddSetlistEntry(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	concertID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req setlistEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := s.setlists.Add(r.Context(), req.entry(concertID))
	if err != nil {
		writeError(w, r, err, req)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleEditSetlistEntry(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	concertID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	entryID, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}
	var req setlistEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry := req.entry(concertID)
	entry.ID = entryID
	updated, err := s.setlists.Edit(r.Context(), entry)
	if err != nil {
		writeError(w, r, err, req)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
