package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"concertline/internal/models"
	"concertline/internal/validate"
)

const conflictQuery = `
		SELECT id, concert_id, song_id, position
		FROM setlist_entries
		WHERE concert_id = $1 AND id <> $2 AND (position = $3 OR song_id = $4)
	`

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: pgUniqueViolation, Message: "duplicate key value violates unique constraint"}
}

func TestCreateSetlistEntryReclassifiesUniqueViolation(t *testing.T) {
	tests := []struct {
		name     string
		existing [][]driver.Value
		want     []string
	}{
		{
			name:     "position taken",
			existing: [][]driver.Value{{int64(5), int64(1), int64(99), 3}},
			want:     []string{"position"},
		},
		{
			name:     "song taken",
			existing: [][]driver.Value{{int64(6), int64(1), int64(7), 8}},
			want:     []string{"song"},
		},
		{
			name: "both taken by different rows",
			existing: [][]driver.Value{
				{int64(5), int64(1), int64(99), 3},
				{int64(6), int64(1), int64(7), 8},
			},
			want: []string{"position", "song"},
		},
		{
			name: "conflicting row already gone",
			want: []string{validate.NonFieldKey},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, mock := newMock(t)

			mock.ExpectQuery("INSERT INTO setlist_entries").
				WithArgs(int64(1), int64(7), 3, "main", false).
				WillReturnError(uniqueViolation())

			rows := sqlmock.NewRows([]string{"id", "concert_id", "song_id", "position"})
			for _, r := range tc.existing {
				rows.AddRow(r...)
			}
			mock.ExpectQuery(regexp.QuoteMeta(conflictQuery)).
				WithArgs(int64(1), int64(0), 3, int64(7)).
				WillReturnRows(rows)

			_, err := s.CreateSetlistEntry(context.Background(), &models.SetlistEntry{
				ConcertID: 1, SongID: 7, Position: 3, Section: "main",
			})

			fe, ok := validate.AsFieldErrors(err)
			if !ok {
				t.Fatalf("expected field errors, got %v", err)
			}
			if len(fe) != len(tc.want) {
				t.Fatalf("expected fields %v, got %v", tc.want, fe)
			}
			for _, field := range tc.want {
				if !fe.Has(field) {
					t.Fatalf("expected %q error, got %v", field, fe)
				}
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestUpdateSetlistEntryIgnoresItselfWhenReclassifying(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec("UPDATE setlist_entries").
		WithArgs(int64(7), 2, "", true, int64(10), int64(1)).
		WillReturnError(uniqueViolation())
	mock.ExpectQuery(regexp.QuoteMeta(conflictQuery)).
		WithArgs(int64(1), int64(10), 2, int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "concert_id", "song_id", "position"}).
			AddRow(int64(11), int64(1), int64(4), 2))

	_, err := s.UpdateSetlistEntry(context.Background(), &models.SetlistEntry{
		ID: 10, ConcertID: 1, SongID: 7, Position: 2, IsCover: true,
	})
	fe, ok := validate.AsFieldErrors(err)
	if !ok || !fe.Has("position") || fe.Has("song") {
		t.Fatalf("expected only a position error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateSetlistEntryUnknownSong(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO setlist_entries").
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})
	mock.ExpectQuery("FROM songs s").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "original_artist_id", "artist", "release_year"}))

	_, err := s.CreateSetlistEntry(context.Background(), &models.SetlistEntry{ConcertID: 1, SongID: 404, Position: 1})
	fe, ok := validate.AsFieldErrors(err)
	if !ok || !fe.Has("song") {
		t.Fatalf("expected song error, got %v", err)
	}
}

func TestDeleteSetlistEntryNotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec("DELETE FROM setlist_entries").
		WithArgs(int64(9), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteSetlistEntry(context.Background(), 1, 9); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}
