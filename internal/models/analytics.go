package models

import "math"

// CountRow is one labelled entry of a top-N list.
type CountRow struct {
	ID    int64  `json:"id,omitempty"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MetricRow is one labelled entry of a top-N list ranked by a numeric metric.
type MetricRow struct {
	ID    int64   `json:"id,omitempty"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Count int     `json:"count,omitempty"`
}

// AnalyticsReport holds the analytics page's top-10 lists.
type AnalyticsReport struct {
	TopSongs          []CountRow  `json:"top_songs"`
	ConcertsByCity    []CountRow  `json:"concerts_by_city"`
	ArtistsByConcerts []CountRow  `json:"artists_by_concerts"`
	MostAnticipated   []CountRow  `json:"most_anticipated"`
	ArtistsByRating   []MetricRow `json:"artists_by_rating"`
	ArtistsByIncome   []MetricRow `json:"artists_by_income"`
}

// Dashboard summarises the catalogue for the landing page.
type Dashboard struct {
	Artists  int                  `json:"artists"`
	Concerts int                  `json:"concerts"`
	Tours    int                  `json:"tours"`
	Fans     int                  `json:"fans"`
	Upcoming []ConcertWithDetails `json:"upcoming"`
}

// RoundAverage rounds an average to two decimals for presentation.
func RoundAverage(v float64) float64 {
	return math.Round(v*100) / 100
}
