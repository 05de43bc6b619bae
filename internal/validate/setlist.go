package validate

import (
	"concertline/internal/models"
)

const (
	msgDuplicatePosition = "another song already occupies this position in the setlist"
	msgDuplicateSong     = "this song is already in the concert's setlist"
)

// SetlistEntry checks an entry against the other entries of the same concert.
// siblings may include the entry itself; it is skipped by id.
func SetlistEntry(e models.SetlistEntry, siblings []models.SetlistEntry) error {
	fe := FieldErrors{}
	if e.ConcertID <= 0 {
		fe.Add("concert", "concert is required")
	}
	if e.SongID <= 0 {
		fe.Add("song", "song is required")
	}
	if e.Position < 1 {
		fe.Add("position", "position must be 1 or greater")
	}
	for field, msg := range SetlistConflicts(e, siblings) {
		fe.Add(field, msg)
	}
	return fe.Err()
}

// SetlistConflicts reports which uniqueness rules e would break given the
// concert's existing rows. It is used both before a write and after the
// database rejected one, to name the field that actually collided.
func SetlistConflicts(e models.SetlistEntry, existing []models.SetlistEntry) FieldErrors {
	fe := FieldErrors{}
	for _, other := range existing {
		if other.ID == e.ID && e.ID != 0 {
			continue
		}
		if other.ConcertID != 0 && other.ConcertID != e.ConcertID {
			continue
		}
		if e.Position > 0 && other.Position == e.Position {
			fe.Add("position", msgDuplicatePosition)
		}
		if e.SongID > 0 && other.SongID == e.SongID {
			fe.Add("song", msgDuplicateSong)
		}
	}
	return fe
}

// NextPosition suggests the slot after the highest used position, or 1.
func NextPosition(entries []models.SetlistEntry) int {
	highest := 0
	for _, e := range entries {
		if e.Position > highest {
			highest = e.Position
		}
	}
	return highest + 1
}
