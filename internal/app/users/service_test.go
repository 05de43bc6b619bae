package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concertline/internal/auth"
	"concertline/internal/models"
	"concertline/internal/store"
	"concertline/internal/validate"
)

type fakeStore struct {
	users      map[string]*models.User
	cities     []*models.City
	registered *models.Registration
}

func (f *fakeStore) RegisterFan(_ context.Context, reg *models.Registration, hash string) (*models.User, *models.Fan, error) {
	f.registered = reg
	user := &models.User{ID: 1, Username: reg.Username, PasswordHash: hash}
	f.users[reg.Username] = user
	return user, &models.Fan{ID: 1, UserID: &user.ID, FullName: reg.FullName, Email: reg.Email}, nil
}

func (f *fakeStore) CreateUser(_ context.Context, username, hash string, isStaff bool) (*models.User, error) {
	user := &models.User{ID: int64(len(f.users) + 1), Username: username, PasswordHash: hash, IsStaff: isStaff}
	f.users[username] = user
	return user, nil
}

func (f *fakeStore) UserByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeStore) UserByID(_ context.Context, id int64) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeStore) ListCities(context.Context) ([]*models.City, error) {
	return f.cities, nil
}

func newService(f *fakeStore) Service {
	return New(f, auth.NewTokenManager("0123456789abcdef", time.Hour))
}

func TestFormOffersPickerOnlyWhenCitiesExist(t *testing.T) {
	f := &fakeStore{users: map[string]*models.User{}}

	form, err := newService(f).Form(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CityFieldText, form.CityField)
	assert.Empty(t, form.Cities)

	f.cities = []*models.City{{ID: 1, Name: "Lima", Country: "Peru"}}
	form, err = newService(f).Form(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CityFieldSelect, form.CityField)
	assert.Len(t, form.Cities, 1)
}

func TestRegisterThenLogin(t *testing.T) {
	f := &fakeStore{users: map[string]*models.User{}}
	svc := newService(f)

	_, fan, err := svc.Register(context.Background(), &models.Registration{
		Username:  "dani",
		Email:     " Dani@Example.com ",
		Password:  "supersecret",
		Password2: "supersecret",
		FullName:  "Dani Ruiz",
		City:      models.CityName{Name: "Quito"},
	})
	require.NoError(t, err)
	assert.Equal(t, "dani@example.com", fan.Email)
	assert.NotEqual(t, "supersecret", f.users["dani"].PasswordHash)

	session, err := svc.Login(context.Background(), "dani", "supersecret")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "dani", session.User.Username)

	_, err = svc.Login(context.Background(), "dani", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody", "supersecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	me, err := svc.Me(context.Background(), session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "dani", me.Username)
}

func TestRegisterValidatesBeforeStoring(t *testing.T) {
	f := &fakeStore{users: map[string]*models.User{}}

	_, _, err := newService(f).Register(context.Background(), &models.Registration{
		Username: "x", Email: "x@example.com", Password: "longenough", Password2: "different",
		FullName: "X", City: models.CityRef{ID: 2},
	})
	fe, ok := validate.AsFieldErrors(err)
	require.True(t, ok)
	assert.True(t, fe.Has("password2"))
	assert.Nil(t, f.registered)
}
