package songs

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concertline/internal/models"
	"concertline/internal/store"
	"concertline/internal/validate"
)

type fakeStore struct {
	artists []*models.Artist
	created []*models.Song
}

func (f *fakeStore) CreateSong(_ context.Context, song *models.Song) (*models.Song, error) {
	song.ID = int64(len(f.created) + 1)
	f.created = append(f.created, song)
	return song, nil
}

func (f *fakeStore) GetSong(context.Context, int64) (*models.Song, error) {
	return nil, store.ErrSongNotFound
}

func (f *fakeStore) ListSongs(context.Context, string) ([]*models.Song, error) {
	return f.created, nil
}

func (f *fakeStore) FindArtistByName(_ context.Context, name string) (*models.Artist, error) {
	for _, a := range f.artists {
		if strings.EqualFold(a.Name, name) {
			return a, nil
		}
	}
	return nil, store.ErrArtistNotFound
}

func TestCreateLinksKnownArtist(t *testing.T) {
	f := &fakeStore{artists: []*models.Artist{{ID: 3, Name: "Charly García"}}}

	song, err := New(f).Create(context.Background(), &models.Song{Title: " Demoliendo hoteles ", OriginalArtistName: "charly garcía"})
	require.NoError(t, err)
	require.NotNil(t, song.OriginalArtistID)
	assert.Equal(t, int64(3), *song.OriginalArtistID)
	assert.Equal(t, "Charly García", song.OriginalArtistName)
	assert.Equal(t, "Demoliendo hoteles", song.Title)
}

func TestCreateKeepsUnknownArtistAsText(t *testing.T) {
	f := &fakeStore{}

	song, err := New(f).Create(context.Background(), &models.Song{Title: "Yesterday", OriginalArtistName: "The Beatles"})
	require.NoError(t, err)
	assert.Nil(t, song.OriginalArtistID)
	assert.Equal(t, "The Beatles", song.OriginalArtistName)
}

func TestCreateValidatesInput(t *testing.T) {
	year := -1
	_, err := New(&fakeStore{}).Create(context.Background(), &models.Song{Title: "  ", ReleaseYear: &year})

	fe, ok := validate.AsFieldErrors(err)
	require.True(t, ok)
	assert.True(t, fe.Has("title"))
	assert.True(t, fe.Has("release_year"))
}
