package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"concertline/internal/logging"
	"concertline/internal/models"
	"concertline/internal/validate"
)

const msgSetlistChanged = "the setlist changed while saving; reload it and try again"

const setlistSelect = `
	SELECT e.id, e.concert_id, e.song_id, e.position, e.section, e.is_cover, s.title
	FROM setlist_entries e
	INNER JOIN songs s ON s.id = e.song_id
`

func scanSetlistEntry(row interface{ Scan(...any) error }) (*models.SetlistEntry, error) {
	var e models.SetlistEntry
	if err := row.Scan(&e.ID, &e.ConcertID, &e.SongID, &e.Position, &e.Section, &e.IsCover, &e.SongTitle); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListSetlist returns a concert's entries in position order.
func (s *Store) ListSetlist(ctx context.Context, concertID int64) ([]models.SetlistEntry, error) {
	rows, err := s.db.QueryContext(ctx, setlistSelect+` WHERE e.concert_id = $1 ORDER BY e.position, e.id`, concertID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.SetlistEntry
	for rows.Next() {
		e, err := scanSetlistEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// GetSetlistEntry loads one entry.
func (s *Store) GetSetlistEntry(ctx context.Context, id int64) (*models.SetlistEntry, error) {
	e, err := scanSetlistEntry(s.db.QueryRowContext(ctx, setlistSelect+` WHERE e.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// CreateSetlistEntry inserts an entry. When a concurrent write wins the race
// for the position or the song, the rejection is turned back into field errors.
func (s *Store) CreateSetlistEntry(ctx context.Context, entry *models.SetlistEntry) (*models.SetlistEntry, error) {
	query := `
		INSERT INTO setlist_entries (concert_id, song_id, position, section, is_cover)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		entry.ConcertID, entry.SongID, entry.Position, entry.Section, entry.IsCover,
	).Scan(&entry.ID)
	if err != nil {
		return nil, s.setlistWriteError(ctx, entry, err)
	}
	return entry, nil
}

// UpdateSetlistEntry overwrites an entry's editable columns.
func (s *Store) UpdateSetlistEntry(ctx context.Context, entry *models.SetlistEntry) (*models.SetlistEntry, error) {
	query := `
		UPDATE setlist_entries
		SET song_id = $1, position = $2, section = $3, is_cover = $4
		WHERE id = $5 AND concert_id = $6
	`
	result, err := s.db.ExecContext(ctx, query,
		entry.SongID, entry.Position, entry.Section, entry.IsCover, entry.ID, entry.ConcertID,
	)
	if err != nil {
		return nil, s.setlistWriteError(ctx, entry, err)
	}
	if err := affectedOne(result, ErrEntryNotFound); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteSetlistEntry removes an entry from its concert.
func (s *Store) DeleteSetlistEntry(ctx context.Context, concertID, id int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM setlist_entries WHERE id = $1 AND concert_id = $2`, id, concertID)
	if err != nil {
		return fmt.Errorf("delete setlist entry: %w", err)
	}
	return affectedOne(result, ErrEntryNotFound)
}

func (s *Store) setlistWriteError(ctx context.Context, entry *models.SetlistEntry, err error) error {
	switch {
	case isUniqueViolation(err):
		return s.classifySetlistConflict(ctx, entry)
	case isForeignKeyViolation(err):
		if _, serr := s.GetSong(ctx, entry.SongID); errors.Is(serr, ErrSongNotFound) {
			return validate.FieldErrors{"song": "select a valid song"}
		}
		return ErrConcertNotFound
	}
	return fmt.Errorf("write setlist entry: %w", err)
}

// classifySetlistConflict re-reads the rows that could have collided with entry
// and reports which of position and song is taken. The driver's error text is
// never inspected.
func (s *Store) classifySetlistConflict(ctx context.Context, entry *models.SetlistEntry) error {
	logger := logging.FromContext(ctx)

	query := `
		SELECT id, concert_id, song_id, position
		FROM setlist_entries
		WHERE concert_id = $1 AND id <> $2 AND (position = $3 OR song_id = $4)
	`
	rows, err := s.db.QueryContext(ctx, query, entry.ConcertID, entry.ID, entry.Position, entry.SongID)
	if err != nil {
		return fmt.Errorf("reload conflicting setlist entries: %w", err)
	}
	defer rows.Close()

	var existing []models.SetlistEntry
	for rows.Next() {
		var e models.SetlistEntry
		if err := rows.Scan(&e.ID, &e.ConcertID, &e.SongID, &e.Position); err != nil {
			return err
		}
		existing = append(existing, e)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	fe := validate.SetlistConflicts(*entry, existing)
	if len(fe) == 0 {
		fe.Add(validate.NonFieldKey, msgSetlistChanged)
	}
	logger.Warn().
		Int64("concert_id", entry.ConcertID).
		Int("position", entry.Position).
		Int64("song_id", entry.SongID).
		Str("conflict", fe.Error()).
		Msg("setlist write rejected by unique constraint")
	return fe
}
