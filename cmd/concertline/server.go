package main

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"concertline/internal/app/analytics"
	"concertline/internal/app/artists"
	"concertline/internal/app/concerts"
	"concertline/internal/app/fans"
	"concertline/internal/app/places"
	"concertline/internal/app/setlists"
	"concertline/internal/app/songs"
	"concertline/internal/app/users"
	"concertline/internal/auth"
	"concertline/internal/config"
	"concertline/internal/http/middleware"
	"concertline/internal/httpapi"
	"concertline/internal/search"
	"concertline/internal/store"
)

type services struct {
	users     users.Service
	artists   artists.Service
	places    places.Service
	songs     songs.Service
	concerts  concerts.Service
	setlists  setlists.Service
	fans      fans.Service
	analytics analytics.Service
}

func newServices(cfg *config.Config, dataStore *store.Store, tokens *auth.TokenManager) services {
	return services{
		users:     users.New(dataStore, tokens),
		artists:   artists.New(dataStore),
		places:    places.New(dataStore),
		songs:     songs.New(dataStore),
		concerts:  concerts.New(dataStore, concerts.WithLocation(cfg.App.Location)),
		setlists:  setlists.New(dataStore),
		fans:      fans.New(dataStore),
		analytics: analytics.New(dataStore, nil),
	}
}

func newHTTPHandler(cfg *config.Config, db *sql.DB, svc services, tokens *auth.TokenManager) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	api := httpapi.New(httpapi.Services{
		Users:      svc.users,
		Artists:    svc.artists,
		Places:     svc.places,
		Songs:      svc.songs,
		Concerts:   svc.concerts,
		Setlists:   svc.setlists,
		Fans:       svc.fans,
		Analytics:  svc.analytics,
		Search:     search.NewHandler(search.NewPGStore(db)),
		Metrics:    promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Instrument: metrics.Middleware,
	})

	var handler http.Handler = api.Routes()
	handler = middleware.Authenticate(tokens)(handler)
	handler = middleware.CORS(cfg.CORS.AllowedOrigins)(handler)
	handler = middleware.RequestLogging()(handler)
	handler = middleware.Recovery()(handler)
	return handler
}
