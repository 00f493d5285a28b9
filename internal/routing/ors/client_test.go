package ors

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawroute/pawroute/pkg/polyline"
)

func TestClient_WalkingRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))

		var body map[string][][2]float64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		// lon,lat order on the wire.
		assert.Equal(t, [2]float64{139.76, 35.68}, body["coordinates"][0])

		_, _ = w.Write([]byte(`{
			"features": [{
				"geometry": {"coordinates": [[139.76, 35.68], [139.765, 35.685], [139.77, 35.69]]},
				"properties": {"segments": [{"distance": 1450.7}]}
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
		Logger:     zerolog.Nop(),
	})

	route, err := client.WalkingRoute(context.Background(),
		polyline.Point{Lat: 35.68, Lon: 139.76},
		polyline.Point{Lat: 35.69, Lon: 139.77})
	require.NoError(t, err)

	require.Len(t, route.Geometry, 3)
	assert.InDelta(t, 35.68, route.Geometry[0].Lat, 1e-9)
	assert.InDelta(t, 139.76, route.Geometry[0].Lon, 1e-9)
	assert.Equal(t, 1450, route.DistanceM)
}

func TestClient_WalkingRoute_NoFeatures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"features": []}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
		Logger:     zerolog.Nop(),
	})

	_, err := client.WalkingRoute(context.Background(),
		polyline.Point{Lat: 35.68, Lon: 139.76},
		polyline.Point{Lat: 35.69, Lon: 139.77})
	assert.Error(t, err)
}
