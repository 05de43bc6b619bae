package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"concertline/internal/app/fans"
	"concertline/internal/logging"
	"concertline/internal/models"
	"concertline/internal/store"
	"concertline/internal/validate"
)

type statusResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type toggleResponse struct {
	Status string `json:"status"`
	Action string `json:"action"`
	Count  int    `json:"count"`
}

type countResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type rateResponse struct {
	Status  string  `json:"status"`
	Rating  int     `json:"rating"`
	Average float64 `json:"avg"`
	Count   int     `json:"count"`
}

type rateErrorResponse struct {
	Status string               `json:"status"`
	Errors validate.FieldErrors `json:"errors"`
}

func (s *Server) handleListFans(w http.ResponseWriter, r *http.Request) {
	list, err := s.fans.List(r.Context(), models.FanFilter{Query: r.URL.Query().Get("q")})
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetFan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	fan, err := s.fans.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, fan)
}

func (s *Server) handleCreateFan(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	var fan models.Fan
	if !decodeJSON(w, r, &fan) {
		return
	}

	created, err := s.fans.Create(r.Context(), &fan)
	if err != nil {
		writeError(w, r, err, fan)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleUpdateFan lets staff edit any profile and a user edit their own.
func (s *Server) handleUpdateFan(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	current, err := s.fans.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	owner := current.UserID != nil && *current.UserID == claims.UserID
	if !owner && !s.isStaff(r) {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "only staff or the profile owner can edit a fan"})
		return
	}

	var fan models.Fan
	if !decodeJSON(w, r, &fan) {
		return
	}
	updated, err := s.fans.Update(r.Context(), id, &fan)
	if err != nil {
		writeError(w, r, err, fan)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// engagementFilter reads the optional fan_id and concert_id query parameters.
func engagementFilter(w http.ResponseWriter, r *http.Request) (models.EngagementFilter, bool) {
	var filter models.EngagementFilter
	for name, dst := range map[string]**int64{"fan_id": &filter.FanID, "concert_id": &filter.ConcertID} {
		raw := strings.TrimSpace(r.URL.Query().Get(name))
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + name + " parameter"})
			return models.EngagementFilter{}, false
		}
		*dst = &id
	}
	return filter, true
}

func (s *Server) handleListAttendances(w http.ResponseWriter, r *http.Request) {
	filter, ok := engagementFilter(w, r)
	if !ok {
		return
	}
	list, err := s.fans.ListAttendances(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleRecordAttendance(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	var attendance models.Attendance
	if !decodeJSON(w, r, &attendance) {
		return
	}

	created, err := s.fans.RecordAttendance(r.Context(), &attendance)
	if err != nil {
		writeError(w, r, err, attendance)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListInterests(w http.ResponseWriter, r *http.Request) {
	filter, ok := engagementFilter(w, r)
	if !ok {
		return
	}
	list, err := s.fans.Interests(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// writeEngagementError renders failures of the AJAX engagement endpoints as
// {status:"error", ...} bodies.
func writeEngagementError(w http.ResponseWriter, r *http.Request, err error) {
	if fe, ok := validate.AsFieldErrors(err); ok {
		writeJSON(w, http.StatusBadRequest, rateErrorResponse{Status: "error", Errors: fe})
		return
	}
	switch {
	case errors.Is(err, fans.ErrNoFanProfile):
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Detail: "no fan profile for this user"})
	case errors.Is(err, store.ErrConcertNotCompleted):
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Detail: "only completed concerts can be rated"})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, statusResponse{Status: "error", Detail: err.Error()})
	default:
		logging.FromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("engagement request failed")
		writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error", Detail: "internal server error"})
	}
}

// engagementUser enforces POST and an authenticated user for the AJAX
// engagement endpoints.
func engagementUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, statusResponse{Status: "error", Detail: "method not allowed"})
		return 0, false
	}
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, statusResponse{Status: "error", Detail: "authentication required"})
		return 0, false
	}
	return claims.UserID, true
}

func (s *Server) handleToggleInterest(w http.ResponseWriter, r *http.Request) {
	userID, ok := engagementUser(w, r)
	if !ok {
		return
	}
	concertID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	toggle, err := s.fans.ToggleInterest(r.Context(), userID, concertID)
	if err != nil {
		writeEngagementError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Status: "ok", Action: toggle.Action, Count: toggle.Count})
}

func (s *Server) handleInterestCount(w http.ResponseWriter, r *http.Request) {
	concertID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	count, err := s.fans.InterestCount(r.Context(), concertID)
	if err != nil {
		writeEngagementError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Status: "ok", Count: count})
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	userID, ok := engagementUser(w, r)
	if !ok {
		return
	}
	concertID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	rating, err := strconv.Atoi(strings.TrimSpace(r.FormValue("rating")))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, rateErrorResponse{
			Status: "error",
			Errors: validate.FieldErrors{"rating": "enter a whole number"},
		})
		return
	}

	result, err := s.fans.Rate(r.Context(), userID, concertID, rating)
	if err != nil {
		writeEngagementError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rateResponse{
		Status:  "ok",
		Rating:  result.Rating,
		Average: result.Average,
		Count:   result.Count,
	})
}

func (s *Server) handleConcertRating(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	summary, err := s.fans.ConcertRating(r.Context(), id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAttendances(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	list, err := s.fans.Attendances(r.Context(), id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
