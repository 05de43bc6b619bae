package store

import (
	"context"
	"fmt"
	"time"

	"concertline/internal/models"
)

const topN = 10

const (
	topSongsQuery = `
		SELECT s.id, s.title, COUNT(*) AS n
		FROM setlist_entries e
		INNER JOIN songs s ON s.id = e.song_id
		GROUP BY s.id, s.title
		ORDER BY n DESC, s.title
		LIMIT $1
	`
	concertsByCityQuery = `
		SELECT ci.name || ', ' || ci.country AS label, COUNT(*) AS n
		FROM concerts c
		INNER JOIN venues v ON v.id = c.venue_id
		INNER JOIN cities ci ON ci.id = v.city_id
		WHERE ci.name IS NOT NULL AND ci.name <> ''
		GROUP BY ci.name, ci.country
		ORDER BY n DESC, label
		LIMIT $1
	`
	artistsByConcertsQuery = `
		SELECT a.id, a.name, COUNT(c.id) AS n
		FROM artists a
		INNER JOIN concerts c ON c.artist_id = a.id
		GROUP BY a.id, a.name
		ORDER BY n DESC, a.name
		LIMIT $1
	`
	mostAnticipatedQuery = `
		SELECT c.id, a.name || ' @ ' || v.name AS label, COUNT(i.id) AS n
		FROM concerts c
		INNER JOIN artists a ON a.id = c.artist_id
		INNER JOIN venues v ON v.id = c.venue_id
		INNER JOIN interests i ON i.concert_id = c.id
		GROUP BY c.id, a.name, v.name
		ORDER BY n DESC, c.start_datetime
		LIMIT $1
	`
	artistsByRatingQuery = `
		SELECT a.id, a.name, AVG(at.rating)::float8 AS value, COUNT(at.rating) AS n
		FROM artists a
		INNER JOIN concerts c ON c.artist_id = a.id
		INNER JOIN attendances at ON at.concert_id = c.id
		WHERE at.rating IS NOT NULL
		GROUP BY a.id, a.name
		ORDER BY value DESC, a.name
		LIMIT $1
	`
	artistsByIncomeQuery = `
		SELECT a.id, a.name, COALESCE(SUM(COALESCE(c.total_income, 0)), 0)::float8 AS value, COUNT(c.id) AS n
		FROM artists a
		INNER JOIN concerts c ON c.artist_id = a.id
		GROUP BY a.id, a.name
		ORDER BY value DESC, a.name
		LIMIT $1
	`
)

// Analytics computes every top-10 list of the analytics page.
func (s *Store) Analytics(ctx context.Context) (*models.AnalyticsReport, error) {
	var (
		report models.AnalyticsReport
		err    error
	)
	if report.TopSongs, err = s.countList(ctx, topSongsQuery, true); err != nil {
		return nil, fmt.Errorf("top songs: %w", err)
	}
	if report.ConcertsByCity, err = s.countList(ctx, concertsByCityQuery, false); err != nil {
		return nil, fmt.Errorf("concerts by city: %w", err)
	}
	if report.ArtistsByConcerts, err = s.countList(ctx, artistsByConcertsQuery, true); err != nil {
		return nil, fmt.Errorf("artists by concerts: %w", err)
	}
	if report.MostAnticipated, err = s.countList(ctx, mostAnticipatedQuery, true); err != nil {
		return nil, fmt.Errorf("most anticipated: %w", err)
	}
	if report.ArtistsByRating, err = s.metricList(ctx, artistsByRatingQuery); err != nil {
		return nil, fmt.Errorf("artists by rating: %w", err)
	}
	if report.ArtistsByIncome, err = s.metricList(ctx, artistsByIncomeQuery); err != nil {
		return nil, fmt.Errorf("artists by income: %w", err)
	}
	return &report, nil
}

func (s *Store) countList(ctx context.Context, query string, withID bool) ([]models.CountRow, error) {
	rows, err := s.db.QueryContext(ctx, query, topN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.CountRow{}
	for rows.Next() {
		var r models.CountRow
		if withID {
			err = rows.Scan(&r.ID, &r.Label, &r.Count)
		} else {
			err = rows.Scan(&r.Label, &r.Count)
		}
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (s *Store) metricList(ctx context.Context, query string) ([]models.MetricRow, error) {
	rows, err := s.db.QueryContext(ctx, query, topN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.MetricRow{}
	for rows.Next() {
		var r models.MetricRow
		if err := rows.Scan(&r.ID, &r.Label, &r.Value, &r.Count); err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

// Dashboard counts the catalogue and lists the next scheduled concerts.
func (s *Store) Dashboard(ctx context.Context, now time.Time, upcoming int) (*models.Dashboard, error) {
	var d models.Dashboard
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM artists),
			(SELECT COUNT(*) FROM concerts),
			(SELECT COUNT(*) FROM tours),
			(SELECT COUNT(*) FROM fans)
	`).Scan(&d.Artists, &d.Concerts, &d.Tours, &d.Fans)
	if err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}

	concerts, err := s.ListUpcomingConcerts(ctx, now, upcoming)
	if err != nil {
		return nil, fmt.Errorf("upcoming concerts: %w", err)
	}
	d.Upcoming = make([]models.ConcertWithDetails, 0, len(concerts))
	for _, c := range concerts {
		d.Upcoming = append(d.Upcoming, *c)
	}
	return &d, nil
}
