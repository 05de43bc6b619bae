package setlists

import (
	"context"
	"strings"

	"concertline/internal/models"
	"concertline/internal/store"
	"concertline/internal/validate"
)

// Store defines persistence operations for setlists.
type Store interface {
	GetConcert(ctx context.Context, id int64) (*models.ConcertWithDetails, error)
	ListSetlist(ctx context.Context, concertID int64) ([]models.SetlistEntry, error)
	GetSetlistEntry(ctx context.Context, id int64) (*models.SetlistEntry, error)
	CreateSetlistEntry(ctx context.Context, entry *models.SetlistEntry) (*models.SetlistEntry, error)
	UpdateSetlistEntry(ctx context.Context, entry *models.SetlistEntry) (*models.SetlistEntry, error)
	DeleteSetlistEntry(ctx context.Context, concertID, id int64) error
}

// Setlist is a concert's entries plus the suggested slot for the next one.
type Setlist struct {
	ConcertID    int64                 `json:"concert_id"`
	Entries      []models.SetlistEntry `json:"entries"`
	NextPosition int                   `json:"next_position"`
}

// Service manages the songs played at a concert.
type Service interface {
	Get(ctx context.Context, concertID int64) (*Setlist, error)
	Add(ctx context.Context, entry *models.SetlistEntry) (*models.SetlistEntry, error)
	Edit(ctx context.Context, entry *models.SetlistEntry) (*models.SetlistEntry, error)
	Remove(ctx context.Context, concertID, entryID int64) error
}

type service struct {
	store Store
}

// New constructs a setlists Service.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Get(ctx context.Context, concertID int64) (*Setlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := s.store.GetConcert(ctx, concertID); err != nil {
		return nil, err
	}
	entries, err := s.store.ListSetlist(ctx, concertID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.SetlistEntry{}
	}
	return &Setlist{
		ConcertID:    concertID,
		Entries:      entries,
		NextPosition: validate.NextPosition(entries),
	}, nil
}

// Add appends a song to the setlist. A zero position takes the next free slot.
func (s *service) Add(ctx context.Context, entry *models.SetlistEntry) (*models.SetlistEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entry.ID = 0
	entries, err := s.siblings(ctx, entry)
	if err != nil {
		return nil, err
	}
	if entry.Position == 0 {
		entry.Position = validate.NextPosition(entries)
	}
	if err := validate.SetlistEntry(*entry, entries); err != nil {
		return nil, err
	}
	return s.store.CreateSetlistEntry(ctx, entry)
}

// Edit rewrites an existing entry of the same concert.
func (s *service) Edit(ctx context.Context, entry *models.SetlistEntry) (*models.SetlistEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	current, err := s.store.GetSetlistEntry(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	if entry.ConcertID != 0 && entry.ConcertID != current.ConcertID {
		return nil, store.ErrEntryNotFound
	}
	entry.ConcertID = current.ConcertID

	entries, err := s.siblings(ctx, entry)
	if err != nil {
		return nil, err
	}
	if err := validate.SetlistEntry(*entry, entries); err != nil {
		return nil, err
	}
	return s.store.UpdateSetlistEntry(ctx, entry)
}

func (s *service) Remove(ctx context.Context, concertID, entryID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteSetlistEntry(ctx, concertID, entryID)
}

// siblings loads the concert's current entries for the pre-write check. The
// database constraint still decides races the check cannot see.
func (s *service) siblings(ctx context.Context, entry *models.SetlistEntry) ([]models.SetlistEntry, error) {
	entry.Section = strings.TrimSpace(entry.Section)
	if entry.ConcertID <= 0 {
		return nil, nil
	}
	if _, err := s.store.GetConcert(ctx, entry.ConcertID); err != nil {
		return nil, err
	}
	return s.store.ListSetlist(ctx, entry.ConcertID)
}
