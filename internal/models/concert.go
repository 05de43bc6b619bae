package models

import "time"

// TourStatus is the lifecycle state of a tour.
type TourStatus string

const (
	TourPlanned  TourStatus = "planned"
	TourOngoing  TourStatus = "ongoing"
	TourFinished TourStatus = "finished"
)

// Valid reports whether s is a known tour status.
func (s TourStatus) Valid() bool {
	switch s {
	case TourPlanned, TourOngoing, TourFinished:
		return true
	}
	return false
}

// ConcertStatus is the lifecycle state of a concert.
type ConcertStatus string

const (
	ConcertScheduled ConcertStatus = "scheduled"
	ConcertCompleted ConcertStatus = "completed"
	ConcertCanceled  ConcertStatus = "canceled"
)

// Valid reports whether s is a known concert status.
func (s ConcertStatus) Valid() bool {
	switch s {
	case ConcertScheduled, ConcertCompleted, ConcertCanceled:
		return true
	}
	return false
}

// Tour is a named run of concerts by one artist over a date range.
type Tour struct {
	ID          int64      `json:"id"`
	ArtistID    int64      `json:"artist_id"`
	Name        string     `json:"name"`
	StartDate   *Date      `json:"start_date,omitempty"`
	EndDate     *Date      `json:"end_date,omitempty"`
	Status      TourStatus `json:"status"`
	TotalIncome *float64   `json:"total_income,omitempty"`

	// Populated via JOIN queries
	ArtistName string `json:"artist_name,omitempty"`
}

// TourFilter narrows tour listings. Query matches artist or tour name.
type TourFilter struct {
	Query  string
	Status TourStatus
}

// Concert represents a single performance at a venue.
type Concert struct {
	ID            int64         `json:"id"`
	ArtistID      int64         `json:"artist_id"`
	VenueID       int64         `json:"venue_id"`
	TourID        *int64        `json:"tour_id,omitempty"`
	StartDateTime time.Time     `json:"start_datetime"`
	Status        ConcertStatus `json:"status"`
	TotalIncome   *float64      `json:"total_income,omitempty"`
	Img           string        `json:"img,omitempty"`
}

// ConcertWithDetails includes artist, venue, city and tour names.
type ConcertWithDetails struct {
	Concert
	ArtistName  string `json:"artist_name"`
	VenueName   string `json:"venue_name"`
	CityName    string `json:"city_name"`
	CityCountry string `json:"city_country"`
	TourName    string `json:"tour_name,omitempty"`
}

// ConcertFilter narrows concert listings. Query matches artist, venue, city
// or country; Status is an exact match.
type ConcertFilter struct {
	Query  string
	Status ConcertStatus
}

// SetlistEntry is one song's slot in a concert's setlist.
type SetlistEntry struct {
	ID        int64  `json:"id"`
	ConcertID int64  `json:"concert_id"`
	SongID    int64  `json:"song_id"`
	Position  int    `json:"position"`
	Section   string `json:"section,omitempty"`
	IsCover   bool   `json:"is_cover"`

	// Populated via JOIN queries
	SongTitle string `json:"song_title,omitempty"`
}

// RatingSummary aggregates the non-null attendance ratings of a concert.
type RatingSummary struct {
	Average float64 `json:"avg"`
	Count   int     `json:"count"`
}
