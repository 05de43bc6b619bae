package validate

import (
	"fmt"
	"net/mail"
	"strings"

	"concertline/internal/models"
	"concertline/internal/reference"
)

const (
	MinDebutYear = 1950
	MaxDebutYear = 2025

	MinRating = 1
	MaxRating = 10

	minPasswordLength = 8
)

// Artist checks the artist form rules and canonicalises country and genre.
func Artist(a *models.Artist) error {
	fe := FieldErrors{}

	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		fe.Add("name", "name is required")
	}

	if country, ok := reference.Countries().Lookup(a.Country); ok {
		a.Country = country
	} else if strings.TrimSpace(a.Country) == "" {
		fe.Add("country", "country is required")
	} else {
		fe.Add("country", fmt.Sprintf("unknown country %q", a.Country))
	}

	if a.DebutYear != nil && (*a.DebutYear < MinDebutYear || *a.DebutYear > MaxDebutYear) {
		fe.Add("debut_year", fmt.Sprintf("debut year must be between %d and %d", MinDebutYear, MaxDebutYear))
	}

	if strings.TrimSpace(a.Genre) != "" {
		if genre, ok := reference.Genres().Lookup(a.Genre); ok {
			a.Genre = genre
		} else {
			fe.Add("genre", fmt.Sprintf("unknown genre %q", a.Genre))
		}
	}

	return fe.Err()
}

// Song checks the inline song form.
func Song(s *models.Song) error {
	fe := FieldErrors{}
	s.Title = strings.TrimSpace(s.Title)
	if s.Title == "" {
		fe.Add("title", "title is required")
	}
	if s.ReleaseYear != nil && *s.ReleaseYear < 0 {
		fe.Add("release_year", "release year must be a non-negative integer")
	}
	return fe.Err()
}

// Venue checks required venue fields.
func Venue(v *models.Venue) error {
	fe := FieldErrors{}
	v.Name = strings.TrimSpace(v.Name)
	if v.Name == "" {
		fe.Add("name", "name is required")
	}
	if v.CityID <= 0 {
		fe.Add("city", "city is required")
	}
	if v.Capacity != nil && *v.Capacity < 0 {
		fe.Add("capacity", "capacity cannot be negative")
	}
	return fe.Err()
}

// City checks required city fields.
func City(c *models.City) error {
	fe := FieldErrors{}
	c.Name = strings.TrimSpace(c.Name)
	c.Country = strings.TrimSpace(c.Country)
	if c.Name == "" {
		fe.Add("name", "name is required")
	}
	if c.Country == "" {
		fe.Add("country", "country is required")
	}
	return fe.Err()
}

// Rating checks an attendance rating value.
func Rating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return FieldErrors{"rating": fmt.Sprintf("rating must be an integer between %d and %d", MinRating, MaxRating)}
	}
	return nil
}

// Fan checks a profile entered without an account.
func Fan(f *models.Fan) error {
	fe := FieldErrors{}

	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(strings.ToLower(f.Email))

	if f.FullName == "" {
		fe.Add("full_name", "full name is required")
	}
	if f.Email == "" {
		fe.Add("email", "email is required")
	} else if _, err := mail.ParseAddress(f.Email); err != nil {
		fe.Add("email", "enter a valid email address")
	}
	if f.CityID != nil && *f.CityID <= 0 {
		fe.Add("city", "select a valid city")
	}

	return fe.Err()
}

// Registration checks the sign-up form.
func Registration(r *models.Registration) error {
	fe := FieldErrors{}

	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)

	if r.Username == "" {
		fe.Add("username", "username is required")
	}
	if r.Email == "" {
		fe.Add("email", "email is required")
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		fe.Add("email", "enter a valid email address")
	}
	if len(r.Password) < minPasswordLength {
		fe.Add("password1", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if r.Password != r.Password2 {
		fe.Add("password2", "the two password fields didn't match")
	}
	if r.FullName == "" {
		fe.Add("full_name", "full name is required")
	}

	switch city := r.City.(type) {
	case nil:
		fe.Add("city", "city is required")
	case models.CityRef:
		if city.ID <= 0 {
			fe.Add("city", "select a valid city")
		}
	case models.CityName:
		if strings.TrimSpace(city.Name) == "" {
			fe.Add("city", "city is required")
		}
	}

	return fe.Err()
}
