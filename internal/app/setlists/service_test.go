package setlists

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concertline/internal/models"
	"concertline/internal/store"
	"concertline/internal/validate"
)

type fakeStore struct {
	concerts map[int64]bool
	entries  []models.SetlistEntry
	created  []models.SetlistEntry
	updated  []models.SetlistEntry
}

func (f *fakeStore) GetConcert(_ context.Context, id int64) (*models.ConcertWithDetails, error) {
	if !f.concerts[id] {
		return nil, store.ErrConcertNotFound
	}
	return &models.ConcertWithDetails{Concert: models.Concert{ID: id}}, nil
}

func (f *fakeStore) ListSetlist(_ context.Context, concertID int64) ([]models.SetlistEntry, error) {
	var out []models.SetlistEntry
	for _, e := range f.entries {
		if e.ConcertID == concertID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) GetSetlistEntry(_ context.Context, id int64) (*models.SetlistEntry, error) {
	for _, e := range f.entries {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, store.ErrEntryNotFound
}

func (f *fakeStore) CreateSetlistEntry(_ context.Context, entry *models.SetlistEntry) (*models.SetlistEntry, error) {
	entry.ID = int64(100 + len(f.created))
	f.created = append(f.created, *entry)
	return entry, nil
}

func (f *fakeStore) UpdateSetlistEntry(_ context.Context, entry *models.SetlistEntry) (*models.SetlistEntry, error) {
	f.updated = append(f.updated, *entry)
	return entry, nil
}

func (f *fakeStore) DeleteSetlistEntry(context.Context, int64, int64) error { return nil }

func newFake() *fakeStore {
	return &fakeStore{
		concerts: map[int64]bool{1: true, 2: true},
		entries: []models.SetlistEntry{
			{ID: 10, ConcertID: 1, SongID: 5, Position: 1},
			{ID: 11, ConcertID: 1, SongID: 6, Position: 2},
			{ID: 20, ConcertID: 2, SongID: 7, Position: 1},
		},
	}
}

func TestGetSuggestsNextPosition(t *testing.T) {
	svc := New(newFake())

	setlist, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, setlist.Entries, 2)
	assert.Equal(t, 3, setlist.NextPosition)

	empty := &fakeStore{concerts: map[int64]bool{9: true}}
	setlist, err = New(empty).Get(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 1, setlist.NextPosition)
	assert.NotNil(t, setlist.Entries)
}

func TestAddRejectsDuplicatesBeforeWriting(t *testing.T) {
	f := newFake()
	svc := New(f)

	_, err := svc.Add(context.Background(), &models.SetlistEntry{ConcertID: 1, SongID: 6, Position: 1})
	fe, ok := validate.AsFieldErrors(err)
	require.True(t, ok, "expected field errors, got %v", err)
	assert.True(t, fe.Has("position"))
	assert.True(t, fe.Has("song"))
	assert.Empty(t, f.created)
}

func TestAddAllowsSameSongInAnotherConcert(t *testing.T) {
	f := newFake()
	svc := New(f)

	entry, err := svc.Add(context.Background(), &models.SetlistEntry{ConcertID: 2, SongID: 5, Position: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(100), entry.ID)
}

func TestAddDefaultsToNextPosition(t *testing.T) {
	f := newFake()
	svc := New(f)

	entry, err := svc.Add(context.Background(), &models.SetlistEntry{ConcertID: 1, SongID: 9, Section: " encore "})
	require.NoError(t, err)
	assert.Equal(t, 3, entry.Position)
	assert.Equal(t, "encore", entry.Section)
}

func TestAddUnknownConcert(t *testing.T) {
	_, err := New(newFake()).Add(context.Background(), &models.SetlistEntry{ConcertID: 42, SongID: 1, Position: 1})
	assert.ErrorIs(t, err, store.ErrConcertNotFound)
}

func TestEditStaysWithinItsConcert(t *testing.T) {
	f := newFake()
	svc := New(f)

	// An entry addressed through another concert does not exist there.
	_, err := svc.Edit(context.Background(), &models.SetlistEntry{ID: 11, ConcertID: 2, SongID: 8, Position: 2})
	assert.ErrorIs(t, err, store.ErrEntryNotFound)
	assert.Empty(t, f.updated)

	entry, err := svc.Edit(context.Background(), &models.SetlistEntry{ID: 11, SongID: 8, Position: 2, IsCover: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.ConcertID)
	require.Len(t, f.updated, 1)

	_, err = svc.Edit(context.Background(), &models.SetlistEntry{ID: 11, SongID: 6, Position: 1})
	fe, ok := validate.AsFieldErrors(err)
	require.True(t, ok)
	assert.True(t, fe.Has("position"))
	assert.False(t, fe.Has("song"))
}
