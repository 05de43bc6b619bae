package models

import "time"

// User is an account able to sign in. Staff users may run destructive actions.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsStaff      bool      `json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
}

// Fan is the public profile of a concert-goer, optionally bound to a User.
type Fan struct {
	ID        int64  `json:"id"`
	UserID    *int64 `json:"user_id,omitempty"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	CityID    *int64 `json:"city_id,omitempty"`
	Birthdate *Date  `json:"birthdate,omitempty"`

	// Populated via JOIN queries
	CityName string `json:"city_name,omitempty"`
}

// FanFilter narrows fan listings. Query matches full name or city name.
type FanFilter struct {
	Query string
}

// Attendance records that a fan attended, and optionally rated, a concert.
type Attendance struct {
	ID        int64 `json:"id"`
	FanID     int64 `json:"fan_id"`
	ConcertID int64 `json:"concert_id"`
	Rating    *int  `json:"rating,omitempty"`

	// Populated via JOIN queries
	FanName      string    `json:"fan_name,omitempty"`
	ArtistName   string    `json:"artist_name,omitempty"`
	ConcertStart time.Time `json:"concert_start,omitzero"`
}

// Interest marks a fan's anticipation for a concert. Its presence is the toggle.
type Interest struct {
	ID        int64     `json:"id"`
	FanID     int64     `json:"fan_id"`
	ConcertID int64     `json:"concert_id"`
	CreatedAt time.Time `json:"created_at"`

	// Populated via JOIN queries
	FanName      string    `json:"fan_name,omitempty"`
	ArtistName   string    `json:"artist_name,omitempty"`
	ConcertStart time.Time `json:"concert_start,omitzero"`
}

// EngagementFilter narrows attendance and interest listings. Nil fields
// match everything.
type EngagementFilter struct {
	FanID     *int64
	ConcertID *int64
}

// CityChoice is how a registration names the fan's city: a picked City or
// free text. It is resolved once per request.
type CityChoice interface {
	isCityChoice()
}

// CityRef selects an existing city by id.
type CityRef struct {
	ID int64
}

// CityName names a city as free text; it is matched case-insensitively or created.
type CityName struct {
	Name    string
	Country string
}

func (CityRef) isCityChoice()  {}
func (CityName) isCityChoice() {}

// Registration carries everything needed to create a user with a fan profile.
type Registration struct {
	Username  string
	Email     string
	Password  string
	Password2 string
	FullName  string
	City      CityChoice
	Birthdate *Date
}
