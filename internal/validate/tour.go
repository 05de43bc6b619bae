package validate

import (
	"fmt"
	"strings"

	"concertline/internal/models"
)

// Tour checks that a tour's status agrees with its dates relative to today.
func Tour(t models.Tour, today models.Date) error {
	fe := FieldErrors{}

	if t.ArtistID <= 0 {
		fe.Add("artist", "artist is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		fe.Add("name", "name is required")
	}
	if !t.Status.Valid() {
		fe.Add("status", fmt.Sprintf("unknown status %q", t.Status))
	}
	if t.TotalIncome != nil && *t.TotalIncome < 0 {
		fe.Add("total_income", "total income cannot be negative")
	}

	start, end := t.StartDate, t.EndDate
	switch {
	case start != nil && end != nil && end.Before(*start):
		fe.Add("end_date", "end date cannot be before start date")
	case fe.Has("status"):
	case start != nil && end != nil:
		expected := expectedTourStatus(*start, *end, today)
		if t.Status != expected {
			fe.Add("status", fmt.Sprintf("status must be %q for a tour running %s to %s", expected, start, end))
		}
	case start != nil && start.After(today) && t.Status != models.TourPlanned:
		fe.Add("status", fmt.Sprintf("status must be %q for a tour that starts in the future", models.TourPlanned))
	case end != nil && end.Before(today) && t.Status != models.TourFinished:
		fe.Add("status", fmt.Sprintf("status must be %q for a tour that already ended", models.TourFinished))
	}

	return fe.Err()
}

func expectedTourStatus(start, end, today models.Date) models.TourStatus {
	switch {
	case end.Before(today):
		return models.TourFinished
	case start.After(today):
		return models.TourPlanned
	default:
		return models.TourOngoing
	}
}
