package validate

import (
	"fmt"
	"net/url"
	"time"

	"concertline/internal/models"
)

// Concert checks status, income and start time coherence relative to now.
func Concert(c models.Concert, now time.Time) error {
	fe := FieldErrors{}

	if c.ArtistID <= 0 {
		fe.Add("artist", "artist is required")
	}
	if c.VenueID <= 0 {
		fe.Add("venue", "venue is required")
	}
	if c.StartDateTime.IsZero() {
		fe.Add("start_datetime", "start date and time is required")
	}
	if !c.Status.Valid() {
		fe.Add("status", fmt.Sprintf("unknown status %q", c.Status))
	}

	if c.TotalIncome != nil {
		switch {
		case c.Status != models.ConcertCompleted:
			fe.Add("total_income", "income can only be recorded for completed concerts")
		case *c.TotalIncome < 0:
			fe.Add("total_income", "total income cannot be negative")
		}
	}

	if c.Status == models.ConcertCompleted && c.StartDateTime.After(now) {
		fe.Add("status", "cannot mark a future concert as completed")
	}

	if c.Img != "" && !isHTTPURL(c.Img) {
		fe.Add("img", "image must be an absolute http(s) URL")
	}

	return fe.Err()
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
