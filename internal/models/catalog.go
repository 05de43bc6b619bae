package models

// Artist is a performer that plays concerts and runs tours.
type Artist struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Country   string `json:"country"`
	DebutYear *int   `json:"debut_year,omitempty"`
	Genre     string `json:"genre,omitempty"`
}

// ArtistFilter narrows artist listings. Query matches name, country or genre.
type ArtistFilter struct {
	Query string
}

// City groups venues.
type City struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// Venue is a place concerts happen at. (name, city) is unique.
type Venue struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Capacity *int   `json:"capacity,omitempty"`
	CityID   int64  `json:"city_id"`

	// Populated via JOIN queries
	CityName    string `json:"city_name,omitempty"`
	CityCountry string `json:"city_country,omitempty"`
}

// Song is a piece that can appear in setlists. The original artist is either
// a catalogue artist or free text when no artist matched.
type Song struct {
	ID                 int64  `json:"id"`
	Title              string `json:"title"`
	OriginalArtistID   *int64 `json:"original_artist_id,omitempty"`
	OriginalArtistName string `json:"original_artist_name,omitempty"`
	ReleaseYear        *int   `json:"release_year,omitempty"`
}

// ArtistRating is the average attendance rating across an artist's concerts.
type ArtistRating struct {
	ArtistID   int64   `json:"artist_id"`
	ArtistName string  `json:"artist_name"`
	Average    float64 `json:"avg"`
	Count      int     `json:"count"`
}
