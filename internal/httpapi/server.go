package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"concertline/internal/app/fans"
	"concertline/internal/app/setlists"
	"concertline/internal/app/users"
	"concertline/internal/auth"
	"concertline/internal/http/middleware"
	"concertline/internal/logging"
	"concertline/internal/models"
	"concertline/internal/store"
	"concertline/internal/validate"
)

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	Form(ctx context.Context) (*users.RegistrationForm, error)
	Register(ctx context.Context, reg *models.Registration) (*models.User, *models.Fan, error)
	Login(ctx context.Context, username, password string) (*users.Session, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
}

// ArtistService describes artist catalogue workflows.
type ArtistService interface {
	Create(ctx context.Context, artist *models.Artist) (*models.Artist, error)
	Update(ctx context.Context, id int64, artist *models.Artist) (*models.Artist, error)
	Get(ctx context.Context, id int64) (*models.Artist, error)
	List(ctx context.Context, filter models.ArtistFilter) ([]*models.Artist, error)
	Delete(ctx context.Context, id int64) error
	Ratings(ctx context.Context) ([]models.ArtistRating, error)
}

// PlaceService coordinates place-related operations (cities and venues)
type PlaceService interface {
	CreateCity(ctx context.Context, city *models.City) (*models.City, error)
	GetCity(ctx context.Context, id int64) (*models.City, error)
	ListCities(ctx context.Context) ([]*models.City, error)
	CreateVenue(ctx context.Context, venue *models.Venue) (*models.Venue, error)
	ListVenues(ctx context.Context, cityID *int64) ([]*models.Venue, error)
	GetVenue(ctx context.Context, id int64) (*models.Venue, error)
	UpdateVenue(ctx context.Context, id int64, venue *models.Venue) (*models.Venue, error)
	DeleteVenue(ctx context.Context, id int64) error
}

// SongService coordinates song catalogue operations.
type SongService interface {
	Create(ctx context.Context, song *models.Song) (*models.Song, error)
	Get(ctx context.Context, id int64) (*models.Song, error)
	List(ctx context.Context, query string) ([]*models.Song, error)
}

// ConcertService coordinates tour and concert operations
type ConcertService interface {
	CreateTour(ctx context.Context, tour *models.Tour) (*models.Tour, error)
	UpdateTour(ctx context.Context, id int64, tour *models.Tour) (*models.Tour, error)
	GetTour(ctx context.Context, id int64) (*models.Tour, error)
	ListTours(ctx context.Context, filter models.TourFilter) ([]*models.Tour, error)
	TourConcerts(ctx context.Context, tourID int64) ([]*models.ConcertWithDetails, error)
	DeleteTour(ctx context.Context, id int64) error

	Create(ctx context.Context, concert *models.Concert) (*models.Concert, error)
	Update(ctx context.Context, id int64, concert *models.Concert) (*models.Concert, error)
	Get(ctx context.Context, id int64) (*models.ConcertWithDetails, error)
	List(ctx context.Context, filter models.ConcertFilter) ([]*models.ConcertWithDetails, error)
	Delete(ctx context.Context, id int64) error
}

// SetlistService manages the songs played at a concert.
type SetlistService interface {
	Get(ctx context.Context, concertID int64) (*setlists.Setlist, error)
	Add(ctx context.Context, entry *models.SetlistEntry) (*models.SetlistEntry, error)
	Edit(ctx context.Context, entry *models.SetlistEntry) (*models.SetlistEntry, error)
	Remove(ctx context.Context, concertID, entryID int64) error
}

// FanService coordinates fan listings, interest and ratings.
type FanService interface {
	List(ctx context.Context, filter models.FanFilter) ([]*models.Fan, error)
	Get(ctx context.Context, id int64) (*models.Fan, error)
	ToggleInterest(ctx context.Context, userID, concertID int64) (*fans.Toggle, error)
	InterestCount(ctx context.Context, concertID int64) (int, error)
	Rate(ctx context.Context, userID, concertID int64, rating int) (*fans.RatingResult, error)
	ConcertRating(ctx context.Context, concertID int64) (models.RatingSummary, error)
	Attendances(ctx context.Context, concertID int64) ([]models.Attendance, error)

	Create(ctx context.Context, fan *models.Fan) (*models.Fan, error)
	Update(ctx context.Context, id int64, fan *models.Fan) (*models.Fan, error)
	ListAttendances(ctx context.Context, filter models.EngagementFilter) ([]models.Attendance, error)
	RecordAttendance(ctx context.Context, a *models.Attendance) (*models.Attendance, error)
	Interests(ctx context.Context, filter models.EngagementFilter) ([]models.Interest, error)
}

// AnalyticsService builds the aggregate views.
type AnalyticsService interface {
	Report(ctx context.Context) (*models.AnalyticsReport, error)
	Dashboard(ctx context.Context) (*models.Dashboard, error)
}

// Services groups everything the handlers depend on.
type Services struct {
	Users     UserService
	Artists   ArtistService
	Places    PlaceService
	Songs     SongService
	Concerts  ConcertService
	Setlists  SetlistService
	Fans      FanService
	Analytics AnalyticsService

	// Search serves /search when set.
	Search http.Handler
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Instrument wraps every matched route.
	Instrument mux.MiddlewareFunc
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users      UserService
	artists    ArtistService
	places     PlaceService
	songs      SongService
	concerts   ConcertService
	setlists   SetlistService
	fans       FanService
	analytics  AnalyticsService
	search     http.Handler
	metrics    http.Handler
	instrument mux.MiddlewareFunc
}

// New configures a Server with the given services.
func New(svc Services) *Server {
	return &Server{
		users:      svc.Users,
		artists:    svc.Artists,
		places:     svc.Places,
		songs:      svc.Songs,
		concerts:   svc.Concerts,
		setlists:   svc.Setlists,
		fans:       svc.Fans,
		analytics:  svc.Analytics,
		search:     svc.Search,
		metrics:    svc.Metrics,
		instrument: svc.Instrument,
	}
}

// Routes exposes the HTTP handlers. Authentication, logging and CORS are
// applied by the caller.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	if s.instrument != nil {
		r.Use(s.instrument)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Accounts
	r.HandleFunc("/accounts/register", s.handleRegisterForm).Methods(http.MethodGet)
	r.HandleFunc("/accounts/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/accounts/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/accounts/me", s.handleMe).Methods(http.MethodGet)

	// Aggregates
	r.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/analytics", s.handleAnalytics).Methods(http.MethodGet)
	if s.search != nil {
		r.Handle("/search", s.search)
	}
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics).Methods(http.MethodGet)
	}

	// Artists
	r.HandleFunc("/artists", s.handleListArtists).Methods(http.MethodGet)
	r.HandleFunc("/artists", s.handleCreateArtist).Methods(http.MethodPost)
	r.HandleFunc("/artists/ratings", s.handleArtistRatings).Methods(http.MethodGet)
	r.HandleFunc("/artists/{id:[0-9]+}", s.handleGetArtist).Methods(http.MethodGet)
	r.HandleFunc("/artists/{id:[0-9]+}", s.handleUpdateArtist).Methods(http.MethodPut)
	r.HandleFunc("/artists/{id:[0-9]+}/delete", s.destructive("/artists", func(ctx context.Context, ids pathIDs) error {
		return s.artists.Delete(ctx, ids["id"])
	}))

	// Places
	r.HandleFunc("/cities", s.handleListCities).Methods(http.MethodGet)
	r.HandleFunc("/cities", s.handleCreateCity).Methods(http.MethodPost)
	r.HandleFunc("/cities/{id:[0-9]+}", s.handleGetCity).Methods(http.MethodGet)
	r.HandleFunc("/venues", s.handleListVenues).Methods(http.MethodGet)
	r.HandleFunc("/venues", s.handleCreateVenue).Methods(http.MethodPost)
	r.HandleFunc("/venues/{id:[0-9]+}", s.handleGetVenue).Methods(http.MethodGet)
	r.HandleFunc("/venues/{id:[0-9]+}", s.handleUpdateVenue).Methods(http.MethodPut)
	r.HandleFunc("/venues/{id:[0-9]+}/delete", s.destructive("/venues", func(ctx context.Context, ids pathIDs) error {
		return s.places.DeleteVenue(ctx, ids["id"])
	}))

	// Tours
	r.HandleFunc("/conciertos/tours", s.handleListTours).Methods(http.MethodGet)
	r.HandleFunc("/conciertos/tours", s.handleCreateTour).Methods(http.MethodPost)
	r.HandleFunc("/conciertos/tours/{id:[0-9]+}", s.handleGetTour).Methods(http.MethodGet)
	r.HandleFunc("/conciertos/tours/{id:[0-9]+}", s.handleUpdateTour).Methods(http.MethodPut)
	r.HandleFunc("/conciertos/tours/{id:[0-9]+}/concerts", s.handleTourConcerts).Methods(http.MethodGet)
	r.HandleFunc("/conciertos/tours/{id:[0-9]+}/delete", s.destructive("/conciertos/tours", func(ctx context.Context, ids pathIDs) error {
		return s.concerts.DeleteTour(ctx, ids["id"])
	}))

	// Songs
	r.HandleFunc("/conciertos/songs", s.handleListSongs).Methods(http.MethodGet)
	r.HandleFunc("/conciertos/songs", s.handleCreateSong).Methods(http.MethodPost)
	r.HandleFunc("/conciertos/songs/{id:[0-9]+}", s.handleGetSong).Methods(http.MethodGet)
	r.HandleFunc("/conciertos/setlist/song/add", s.handleInlineSongAdd)

	// Concerts
	r.HandleFunc("/conciertos", s.handleListConcerts).Methods(http.MethodGet)
	r.HandleFunc("/conciertos", s.handleCreateConcert).Methods(http.MethodPost)
	r.HandleFunc("/conciertos/{id:[0-9]+}", s.handleGetConcert).Methods(http.MethodGet)
	r.HandleFunc("/conciertos/{id:[0-9]+}", s.handleUpdateConcert).Methods(http.MethodPut)
	r.HandleFunc("/conciertos/{id:[0-9]+}/delete", s.destructive("/conciertos", func(ctx context.Context, ids pathIDs) error {
		return s.concerts.Delete(ctx, ids["id"])
	}))
	r.HandleFunc("/conciertos/{id:[0-9]+}/rating", s.handleConcertRating).Methods(http.MethodGet)
	r.HandleFunc("/conciertos/{id:[0-9]+}/attendances", s.handleAttendances).Methods(http.MethodGet)

	// Setlists
	r.HandleFunc("/conciertos/{id:[0-9]+}/setlist", s.handleGetSetlist).Methods(http.MethodGet)
	r.HandleFunc("/conciertos/{id:[0-9]+}/setlist", s.handleAddSetlistEntry).Methods(http.MethodPost)
	r.HandleFunc("/conciertos/{id:[0-9]+}/setlist/{entryID:[0-9]+}", s.handleEditSetlistEntry).Methods(http.MethodPut)
	r.HandleFunc("/conciertos/{id:[0-9]+}/setlist/{entryID:[0-9]+}/delete", s.destructive("/conciertos/{id}/setlist", func(ctx context.Context, ids pathIDs) error {
		return s.setlists.Remove(ctx, ids["id"], ids["entryID"])
	}))

	// Fans
	r.HandleFunc("/fans", s.handleListFans).Methods(http.MethodGet)
	r.HandleFunc("/fans", s.handleCreateFan).Methods(http.MethodPost)
	r.HandleFunc("/fans/{id:[0-9]+}", s.handleGetFan).Methods(http.MethodGet)
	r.HandleFunc("/fans/{id:[0-9]+}", s.handleUpdateFan).Methods(http.MethodPut)
	r.HandleFunc("/fans/attendance", s.handleListAttendances).Methods(http.MethodGet)
	r.HandleFunc("/fans/attendance", s.handleRecordAttendance).Methods(http.MethodPost)
	r.HandleFunc("/fans/interest", s.handleListInterests).Methods(http.MethodGet)
	r.HandleFunc("/fans/concert/{id:[0-9]+}/toggle_interest", s.handleToggleInterest)
	r.HandleFunc("/fans/concert/{id:[0-9]+}/interest_count", s.handleInterestCount).Methods(http.MethodGet)
	r.HandleFunc("/fans/concert/{id:[0-9]+}/rate", s.handleRate)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

type fieldErrorResponse struct {
	Errors validate.FieldErrors `json:"errors"`
	Input  any                  `json:"input,omitempty"`
}

// writeError maps service errors onto status codes. input is echoed back with
// field errors so the client can re-render the form.
func writeError(w http.ResponseWriter, r *http.Request, err error, input any) {
	if fe, ok := validate.AsFieldErrors(err); ok {
		writeJSON(w, http.StatusBadRequest, fieldErrorResponse{Errors: fe, Input: input})
		return
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrInUse):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, users.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, context.Canceled):
		// client went away
	default:
		logging.FromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + name + " parameter"})
		return 0, false
	}
	return id, true
}

func currentUser(r *http.Request) (*auth.Claims, bool) {
	return middleware.ClaimsFromContext(r.Context())
}

// requireUser answers 401 when the request carries no valid token.
func requireUser(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
	}
	return claims, ok
}

// isStaff reloads the account behind the token, so a revoked staff flag
// applies before the token expires. Both the token and the account must say
// staff.
func (s *Server) isStaff(r *http.Request) bool {
	claims, ok := currentUser(r)
	if !ok || !claims.IsStaff {
		return false
	}
	user, err := s.users.Me(r.Context(), claims.UserID)
	if err != nil {
		logging.FromContext(r.Context()).Warn().Err(err).Int64("user_id", claims.UserID).Msg("staff check failed")
		return false
	}
	return user.IsStaff
}

// pathIDs holds the parsed route variables of a destructive request.
type pathIDs map[string]int64

// destructive wraps a delete: POST by a staff user only. Anything else is
// redirected to listPath without touching data. Route variables written as
// {name} in listPath are filled from the request.
func (s *Server) destructive(listPath string, del func(ctx context.Context, ids pathIDs) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		target := listPath
		for name, value := range vars {
			target = strings.ReplaceAll(target, "{"+name+"}", value)
		}

		if r.Method != http.MethodPost || !s.isStaff(r) {
			_, authenticated := currentUser(r)
			logging.FromContext(r.Context()).Warn().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Bool("authenticated", authenticated).
				Msg("destructive request refused")
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		ids := make(pathIDs, len(vars))
		for name := range vars {
			id, ok := pathID(w, r, name)
			if !ok {
				return
			}
			ids[name] = id
		}
		if err := del(r.Context(), ids); err != nil {
			writeError(w, r, err, nil)
			return
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}
