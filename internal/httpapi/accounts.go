package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"concertline/internal/models"
	"concertline/internal/validate"
)

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password1   string `json:"password1"`
	Password2   string `json:"password2"`
	FullName    string `json:"full_name"`
	CityID      string `json:"city_id,omitempty"`
	City        string `json:"city,omitempty"`
	CityCountry string `json:"city_country,omitempty"`
	Birthdate   string `json:"birthdate,omitempty"`
}

// echo hides the passwords when the form is sent back with errors.
func (req registerRequest) echo() registerRequest {
	req.Password1, req.Password2 = "", ""
	return req
}

type registerResponse struct {
	User *models.User `json:"user"`
	Fan  *models.Fan  `json:"fan"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	form, err := s.users.Form(r.Context())
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
			return
		}
	} else {
		req = registerRequest{
			Username:    r.FormValue("username"),
			Email:       r.FormValue("email"),
			Password1:   r.FormValue("password1"),
			Password2:   r.FormValue("password2"),
			FullName:    r.FormValue("full_name"),
			CityID:      r.FormValue("city_id"),
			City:        r.FormValue("city"),
			CityCountry: r.FormValue("city_country"),
			Birthdate:   r.FormValue("birthdate"),
		}
	}

	reg := &models.Registration{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password1,
		Password2: req.Password2,
		FullName:  req.FullName,
	}

	switch {
	case strings.TrimSpace(req.CityID) != "":
		id, _ := strconv.ParseInt(strings.TrimSpace(req.CityID), 10, 64)
		reg.City = models.CityRef{ID: id}
	case strings.TrimSpace(req.City) != "":
		reg.City = models.CityName{Name: req.City, Country: req.CityCountry}
	}

	if raw := strings.TrimSpace(req.Birthdate); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			writeError(w, r, validate.FieldErrors{"birthdate": "enter a valid date"}, req.echo())
			return
		}
		reg.Birthdate = &d
	}

	user, fan, err := s.users.Register(r.Context(), reg)
	if err != nil {
		writeError(w, r, err, req.echo())
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{User: user, Fan: fan})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
			return
		}
	} else {
		req = loginRequest{Username: r.FormValue("username"), Password: r.FormValue("password")}
	}

	session, err := s.users.Login(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}
	user, err := s.users.Me(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
