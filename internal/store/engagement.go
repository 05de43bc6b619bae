package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"concertline/internal/logging"
	"concertline/internal/models"
	"concertline/internal/validate"
)

// Interest toggle actions.
const (
	InterestAdded   = "added"
	InterestRemoved = "removed"
)

// ToggleInterest removes the fan's interest in the concert when present and
// records it otherwise. It returns the action taken and the concert's
// resulting interest count.
func (s *Store) ToggleInterest(ctx context.Context, fanID, concertID int64) (string, int, error) {
	action := InterestRemoved

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM interests WHERE fan_id = $1 AND concert_id = $2`, fanID, concertID)
	if err != nil {
		return "", 0, fmt.Errorf("delete interest: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return "", 0, err
	}

	if removed == 0 {
		action = InterestAdded
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO interests (fan_id, concert_id) VALUES ($1, $2)`, fanID, concertID)
		switch {
		case isUniqueViolation(err):
			// A parallel request from the same fan inserted first.
			logging.FromContext(ctx).Debug().Int64("concert_id", concertID).Msg("interest already recorded")
		case isForeignKeyViolation(err):
			return "", 0, ErrConcertNotFound
		case err != nil:
			return "", 0, fmt.Errorf("insert interest: %w", err)
		}
	}

	count, err := s.InterestCount(ctx, concertID)
	if err != nil {
		return "", 0, err
	}
	return action, count, nil
}

// InterestCount returns how many fans marked the concert.
func (s *Store) InterestCount(ctx context.Context, concertID int64) (int, error) {
	return s.countRows(ctx, `SELECT COUNT(*) FROM interests WHERE concert_id = $1`, concertID)
}

// UpsertRating records the fan's attendance with the given rating. The write
// only happens while the concert is completed.
func (s *Store) UpsertRating(ctx context.Context, fanID, concertID int64, rating int) error {
	query := `
		INSERT INTO attendances (fan_id, concert_id, rating)
		SELECT $1::bigint, $2::bigint, $3::int
		WHERE EXISTS (SELECT 1 FROM concerts WHERE id = $2::bigint AND status = 'completed')
		ON CONFLICT (fan_id, concert_id) DO UPDATE SET rating = EXCLUDED.rating
	`
	result, err := s.db.ExecContext(ctx, query, fanID, concertID, rating)
	if err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}
	return affectedOne(result, ErrConcertNotCompleted)
}

// ConcertRating averages the non-null ratings of a concert's attendances.
func (s *Store) ConcertRating(ctx context.Context, concertID int64) (models.RatingSummary, error) {
	var summary models.RatingSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(rating), 0)::float8, COUNT(rating)
		FROM attendances
		WHERE concert_id = $1
	`, concertID).Scan(&summary.Average, &summary.Count)
	if err != nil {
		return models.RatingSummary{}, err
	}
	return summary, nil
}

// ArtistRatings averages ratings across each artist's concerts, best first.
// Artists without ratings are omitted.
func (s *Store) ArtistRatings(ctx context.Context) ([]models.ArtistRating, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.name, AVG(at.rating)::float8 AS avg_rating, COUNT(at.rating)
		FROM artists a
		INNER JOIN concerts c ON c.artist_id = a.id
		INNER JOIN attendances at ON at.concert_id = c.id
		WHERE at.rating IS NOT NULL
		GROUP BY a.id, a.name
		ORDER BY avg_rating DESC, a.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []models.ArtistRating
	for rows.Next() {
		var r models.ArtistRating
		if err := rows.Scan(&r.ArtistID, &r.ArtistName, &r.Average, &r.Count); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

const (
	msgAttendanceTaken   = "this fan already has an attendance for that concert"
	msgEngagementRemoved = "the fan or concert was removed; reload and try again"
)

// CreateAttendance records that a fan went to a concert, with an optional rating.
func (s *Store) CreateAttendance(ctx context.Context, a *models.Attendance) (*models.Attendance, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO attendances (fan_id, concert_id, rating) VALUES ($1, $2, $3) RETURNING id`,
		a.FanID, a.ConcertID, a.Rating,
	).Scan(&a.ID)
	switch {
	case isUniqueViolation(err):
		return nil, validate.FieldErrors{validate.NonFieldKey: msgAttendanceTaken}
	case isForeignKeyViolation(err):
		return nil, validate.FieldErrors{validate.NonFieldKey: msgEngagementRemoved}
	case err != nil:
		return nil, fmt.Errorf("insert attendance: %w", err)
	}
	return a, nil
}

func engagementWhere(alias string, filter models.EngagementFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if filter.FanID != nil {
		args = append(args, *filter.FanID)
		clauses = append(clauses, fmt.Sprintf("%s.fan_id = $%d", alias, len(args)))
	}
	if filter.ConcertID != nil {
		args = append(args, *filter.ConcertID)
		clauses = append(clauses, fmt.Sprintf("%s.concert_id = $%d", alias, len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// ListAttendances returns attendance records, latest concert first.
func (s *Store) ListAttendances(ctx context.Context, filter models.EngagementFilter) ([]models.Attendance, error) {
	where, args := engagementWhere("at", filter)
	query := `
		SELECT at.id, at.fan_id, at.concert_id, at.rating, f.full_name, a.name, c.start_datetime
		FROM attendances at
		INNER JOIN fans f ON f.id = at.fan_id
		INNER JOIN concerts c ON c.id = at.concert_id
		INNER JOIN artists a ON a.id = c.artist_id` + where + `
		ORDER BY c.start_datetime DESC, at.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendances []models.Attendance
	for rows.Next() {
		var (
			a      models.Attendance
			rating sql.Null[int]
		)
		if err := rows.Scan(&a.ID, &a.FanID, &a.ConcertID, &rating, &a.FanName, &a.ArtistName, &a.ConcertStart); err != nil {
			return nil, err
		}
		a.Rating = nullPtr(rating)
		attendances = append(attendances, a)
	}
	return attendances, rows.Err()
}

// ListInterests returns interest marks, newest first.
func (s *Store) ListInterests(ctx context.Context, filter models.EngagementFilter) ([]models.Interest, error) {
	where, args := engagementWhere("i", filter)
	query := `
		SELECT i.id, i.fan_id, i.concert_id, i.created_at, f.full_name, a.name, c.start_datetime
		FROM interests i
		INNER JOIN fans f ON f.id = i.fan_id
		INNER JOIN concerts c ON c.id = i.concert_id
		INNER JOIN artists a ON a.id = c.artist_id` + where + `
		ORDER BY i.created_at DESC, i.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interests []models.Interest
	for rows.Next() {
		var in models.Interest
		if err := rows.Scan(&in.ID, &in.FanID, &in.ConcertID, &in.CreatedAt, &in.FanName, &in.ArtistName, &in.ConcertStart); err != nil {
			return nil, err
		}
		interests = append(interests, in)
	}
	return interests, rows.Err()
}
