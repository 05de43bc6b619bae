package users

import (
	"context"
	"errors"
	"strings"

	"concertline/internal/auth"
	"concertline/internal/models"
	"concertline/internal/store"
	"concertline/internal/validate"
)

// ErrInvalidCredentials indicates a login failure.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Store describes the persistence operations required by the user service.
type Store interface {
	RegisterFan(ctx context.Context, reg *models.Registration, passwordHash string) (*models.User, *models.Fan, error)
	CreateUser(ctx context.Context, username, passwordHash string, isStaff bool) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
	ListCities(ctx context.Context) ([]*models.City, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID int64, isStaff bool) (string, error)
}

// City field modes offered by the registration form.
const (
	CityFieldSelect = "select"
	CityFieldText   = "text"
)

// RegistrationForm describes how the sign-up form asks for the city: a picker
// when cities exist, free text otherwise.
type RegistrationForm struct {
	CityField string         `json:"city_field"`
	Cities    []*models.City `json:"cities"`
}

// Session is the result of a successful login.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Service exposes account workflows.
type Service interface {
	Form(ctx context.Context) (*RegistrationForm, error)
	Register(ctx context.Context, reg *models.Registration) (*models.User, *models.Fan, error)
	CreateStaff(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
}

type service struct {
	store  Store
	tokens TokenIssuer
}

// New wires a Service backed by the provided Store.
func New(store Store, tokens TokenIssuer) Service {
	return &service{store: store, tokens: tokens}
}

func (s *service) Form(ctx context.Context) (*RegistrationForm, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cities, err := s.store.ListCities(ctx)
	if err != nil {
		return nil, err
	}
	form := &RegistrationForm{CityField: CityFieldText, Cities: []*models.City{}}
	if len(cities) > 0 {
		form.CityField = CityFieldSelect
		form.Cities = cities
	}
	return form, nil
}

// Register validates the sign-up form and creates the account together with
// its fan profile.
func (s *service) Register(ctx context.Context, reg *models.Registration) (*models.User, *models.Fan, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := validate.Registration(reg); err != nil {
		return nil, nil, err
	}
	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, nil, err
	}
	return s.store.RegisterFan(ctx, reg, hash)
}

func (s *service) CreateStaff(ctx context.Context, username, password string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, validate.FieldErrors{"username": "username and password are required"}
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.store.CreateUser(ctx, username, hash, true)
}

func (s *service) Login(ctx context.Context, username, password string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	user, err := s.store.UserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrUserNotFound) {
		auth.CheckPassword("", password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.IsStaff)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

// Me loads the signed-in account.
func (s *service) Me(ctx context.Context, userID int64) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.UserByID(ctx, userID)
}
