package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	results   Results
	err       error
	lastQuery string
	lastLimit int
}

func (f *fakeStore) Search(_ context.Context, query string, limit int) (Results, error) {
	f.lastQuery, f.lastLimit = query, limit
	return f.results, f.err
}

func TestHandlerBuildsSections(t *testing.T) {
	store := &fakeStore{results: Results{
		Artists: []ArtistResult{{ID: 1, Name: "Soda Stereo", Country: "Argentina", Genre: "Rock", ConcertCount: 2, Href: "/artists/1"}},
		Concerts: []ConcertResult{{
			ID: 4, Artist: "Soda Stereo", Venue: "Estadio Obras", City: "Buenos Aires",
			StartAt: time.Date(2007, 10, 19, 21, 0, 0, 0, time.UTC), Status: "completed", Href: "/conciertos/4",
		}},
		Songs: []SongResult{{ID: 9, Title: "Persiana Americana", Artist: "Soda Stereo", Year: 1986}},
	}}

	rec := httptest.NewRecorder()
	NewHandler(store).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=soda&limit=500", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "soda", store.lastQuery)
	assert.Equal(t, maxLimit, store.lastLimit)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Sections, 3)
	assert.Equal(t, "artists", resp.Sections[0].Name)
	assert.Equal(t, "Argentina • Rock • 2 concerts", resp.Sections[0].Items[0].Subtitle)
	assert.Equal(t, "Soda Stereo @ Estadio Obras", resp.Sections[1].Items[0].Title)
	assert.Equal(t, "Buenos Aires • 2007-10-19 • completed", resp.Sections[1].Items[0].Subtitle)
	assert.Equal(t, "songs", resp.Sections[2].Name)
	assert.Equal(t, "Soda Stereo • 1986", resp.Sections[2].Items[0].Subtitle)
}

func TestHandlerEmptyQuery(t *testing.T) {
	store := &fakeStore{}
	rec := httptest.NewRecorder()
	NewHandler(store).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=%20", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sections":[]}`, rec.Body.String())
	assert.Empty(t, store.lastQuery)
}

func TestHandlerStoreFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(&fakeStore{err: errors.New("db down")}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=x", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	NewHandler(&fakeStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/search?q=x", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPGStoreSearchEscapesWildcards(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	like := `%100\%%`
	mock.ExpectQuery(regexp.QuoteMeta("FROM artists a")).WithArgs(like, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "country", "genre", "concert_count"}).
			AddRow(int64(1), "100% Rock", "Chile", "Rock", 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM concerts c")).WithArgs(like, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "artist", "venue", "city", "start", "status", "img"}))
	mock.ExpectQuery(regexp.QuoteMeta("FROM tours t")).WithArgs(like, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "artist", "status"}))
	mock.ExpectQuery(regexp.QuoteMeta("FROM songs s")).WithArgs(like, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "artist", "year"}))

	results, err := NewPGStore(db).Search(context.Background(), " 100% ", 5)
	require.NoError(t, err)
	require.Len(t, results.Artists, 1)
	assert.Equal(t, "/artists/1", results.Artists[0].Href)
	assert.Empty(t, results.Concerts)
	require.NoError(t, mock.ExpectationsWereMet())
}
