package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsLabelsByRouteTemplate(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	router := mux.NewRouter()
	router.Use(metrics.Middleware)
	router.HandleFunc("/conciertos/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/conciertos/1", "/conciertos/2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	families, err := registry.Gather()
	require.NoError(t, err)

	var counted bool
	for _, family := range families {
		if family.GetName() != "concertline_http_requests_total" {
			continue
		}
		require.Len(t, family.GetMetric(), 1)
		metric := family.GetMetric()[0]
		labels := map[string]string{}
		for _, pair := range metric.GetLabel() {
			labels[pair.GetName()] = pair.GetValue()
		}
		assert.Equal(t, "/conciertos/{id:[0-9]+}", labels["route"])
		assert.Equal(t, "404", labels["code"])
		assert.Equal(t, float64(2), metric.GetCounter().GetValue())
		counted = true
	}
	assert.True(t, counted, "request counter not gathered")
}
