package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"concertline/internal/models"
	"concertline/internal/validate"
)

const (
	demoStaffUser     = "admin"
	demoStaffPassword = "admin12345"
)

// bootstrapDemoData seeds a staff account and a small catalogue into an empty
// database. Everything goes through the services so the usual checks apply.
func bootstrapDemoData(ctx context.Context, svc services) error {
	if err := ensureDemoStaff(ctx, svc); err != nil {
		return err
	}

	existing, err := svc.artists.List(ctx, models.ArtistFilter{})
	if err != nil {
		return fmt.Errorf("check existing artists: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	return seedCatalogue(ctx, svc, time.Now().UTC())
}

func ensureDemoStaff(ctx context.Context, svc services) error {
	_, err := svc.users.CreateStaff(ctx, demoStaffUser, demoStaffPassword)
	if fe, ok := validate.AsFieldErrors(err); ok && fe.Has("username") {
		return nil
	}
	if err != nil {
		return fmt.Errorf("bootstrap staff user: %w", err)
	}
	log.Info().Str("username", demoStaffUser).Msg("created demo staff account")
	return nil
}

func seedCatalogue(ctx context.Context, svc services, now time.Time) error {
	intPtr := func(v int) *int { return &v }
	floatPtr := func(v float64) *float64 { return &v }
	datePtr := func(t time.Time) *models.Date {
		d := models.DateOf(t)
		return &d
	}

	buenosAires, err := svc.places.CreateCity(ctx, &models.City{Name: "Buenos Aires", Country: "Argentina"})
	if err != nil {
		return fmt.Errorf("seed city: %w", err)
	}
	santiago, err := svc.places.CreateCity(ctx, &models.City{Name: "Santiago", Country: "Chile"})
	if err != nil {
		return fmt.Errorf("seed city: %w", err)
	}

	obras, err := svc.places.CreateVenue(ctx, &models.Venue{
		Name: "Estadio Obras", Address: "Av. del Libertador 7395", Capacity: intPtr(4700), CityID: buenosAires.ID,
	})
	if err != nil {
		return fmt.Errorf("seed venue: %w", err)
	}
	caupolican, err := svc.places.CreateVenue(ctx, &models.Venue{
		Name: "Teatro Caupolicán", Address: "San Diego 850", Capacity: intPtr(5000), CityID: santiago.ID,
	})
	if err != nil {
		return fmt.Errorf("seed venue: %w", err)
	}

	soda, err := svc.artists.Create(ctx, &models.Artist{Name: "Soda Stereo", Country: "Argentina", DebutYear: intPtr(1984), Genre: "Rock"})
	if err != nil {
		return fmt.Errorf("seed artist: %w", err)
	}
	mon, err := svc.artists.Create(ctx, &models.Artist{Name: "Mon Laferte", Country: "Chile", DebutYear: intPtr(2003), Genre: "Pop"})
	if err != nil {
		return fmt.Errorf("seed artist: %w", err)
	}

	past := now.AddDate(-1, 0, 0)
	tour, err := svc.concerts.CreateTour(ctx, &models.Tour{
		ArtistID:    soda.ID,
		Name:        "Gira Me Verás Volver",
		StartDate:   datePtr(past.AddDate(0, -1, 0)),
		EndDate:     datePtr(past.AddDate(0, 1, 0)),
		Status:      models.TourFinished,
		TotalIncome: floatPtr(125000),
	})
	if err != nil {
		return fmt.Errorf("seed tour: %w", err)
	}

	played, err := svc.concerts.Create(ctx, &models.Concert{
		ArtistID:      soda.ID,
		VenueID:       obras.ID,
		TourID:        &tour.ID,
		StartDateTime: past,
		Status:        models.ConcertCompleted,
		TotalIncome:   floatPtr(62000),
	})
	if err != nil {
		return fmt.Errorf("seed concert: %w", err)
	}
	if _, err := svc.concerts.Create(ctx, &models.Concert{
		ArtistID:      mon.ID,
		VenueID:       caupolican.ID,
		StartDateTime: now.AddDate(0, 2, 0).Truncate(time.Hour),
		Status:        models.ConcertScheduled,
	}); err != nil {
		return fmt.Errorf("seed concert: %w", err)
	}

	for i, title := range []string{"De Música Ligera", "Persiana Americana", "Cuando Pase el Temblor"} {
		song, err := svc.songs.Create(ctx, &models.Song{Title: title, OriginalArtistName: soda.Name})
		if err != nil {
			return fmt.Errorf("seed song %q: %w", title, err)
		}
		if _, err := svc.setlists.Add(ctx, &models.SetlistEntry{
			ConcertID: played.ID,
			SongID:    song.ID,
			Position:  i + 1,
			Section:   "Main",
		}); err != nil {
			return fmt.Errorf("seed setlist entry %q: %w", title, err)
		}
	}

	log.Info().Int64("concert_id", played.ID).Msg("seeded demo catalogue")
	return nil
}
