// Package search serves the catalogue-wide quick search: one query fanned out
// over artists, concerts, tours and songs, grouped into sections.
package search

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"concertline/internal/logging"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// Handler responds to search requests backed by the Store.
type Handler struct {
	store Store
}

// NewHandler builds a handler using the provided store implementation.
func NewHandler(store Store) http.Handler {
	return &Handler{store: store}
}

// Response models the payload returned by the search handler.
type Response struct {
	Sections []Section `json:"sections"`
}

// Section groups related search results.
type Section struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Item represents a single search result entry.
type Item struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle,omitempty"`
	Href      string `json:"href,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusOK, Response{Sections: []Section{}})
		return
	}

	limit := defaultLimit
	if rawLimit := strings.TrimSpace(r.URL.Query().Get("limit")); rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil && parsed > 0 {
			limit = min(parsed, maxLimit)
		}
	}

	results, err := h.store.Search(r.Context(), query, limit)
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Str("query", query).Msg("search failed")
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, buildResponse(results))
}

func buildResponse(results Results) Response {
	sections := []Section{}

	if len(results.Artists) > 0 {
		items := make([]Item, 0, len(results.Artists))
		for _, artist := range results.Artists {
			subtitle := joinNonEmpty(" • ", artist.Country, artist.Genre, pluralize(artist.ConcertCount, "concert"))
			items = append(items, Item{
				ID:       "artist:" + strconv.FormatInt(artist.ID, 10),
				Title:    artist.Name,
				Subtitle: subtitle,
				Href:     artist.Href,
			})
		}
		sections = append(sections, Section{Name: "artists", Items: items})
	}

	if len(results.Concerts) > 0 {
		items := make([]Item, 0, len(results.Concerts))
		for _, concert := range results.Concerts {
			items = append(items, Item{
				ID:        "concert:" + strconv.FormatInt(concert.ID, 10),
				Title:     concert.Artist + " @ " + concert.Venue,
				Subtitle:  joinNonEmpty(" • ", concert.City, concert.StartAt.Format("2006-01-02"), concert.Status),
				Href:      concert.Href,
				Thumbnail: concert.Img,
			})
		}
		sections = append(sections, Section{Name: "concerts", Items: items})
	}

	if len(results.Tours) > 0 {
		items := make([]Item, 0, len(results.Tours))
		for _, tour := range results.Tours {
			items = append(items, Item{
				ID:       "tour:" + strconv.FormatInt(tour.ID, 10),
				Title:    tour.Name,
				Subtitle: joinNonEmpty(" • ", tour.Artist, tour.Status),
				Href:     tour.Href,
			})
		}
		sections = append(sections, Section{Name: "tours", Items: items})
	}

	if len(results.Songs) > 0 {
		items := make([]Item, 0, len(results.Songs))
		for _, song := range results.Songs {
			year := ""
			if song.Year > 0 {
				year = strconv.Itoa(song.Year)
			}
			items = append(items, Item{
				ID:       "song:" + strconv.FormatInt(song.ID, 10),
				Title:    song.Title,
				Subtitle: joinNonEmpty(" • ", song.Artist, year),
				Href:     song.Href,
			})
		}
		sections = append(sections, Section{Name: "songs", Items: items})
	}

	return Response{Sections: sections}
}

func writeJSON(w http.ResponseWriter, status int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func pluralize(count int, singular string) string {
	switch count {
	case 0:
		return ""
	case 1:
		return "1 " + singular
	default:
		return strconv.Itoa(count) + " " + singular + "s"
	}
}
