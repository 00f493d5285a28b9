// Package ors provides an openrouteservice walking-directions client.
// It needs an API key, so deployments without one fall back to OSRM.
package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/pawroute/pawroute/internal/provider/resilience"
	"github.com/pawroute/pawroute/internal/routing"
	"github.com/pawroute/pawroute/pkg/polyline"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "openrouteservice"

	// DefaultBaseURL is the foot-walking directions endpoint.
	DefaultBaseURL = "https://api.openrouteservice.org/v2/directions/foot-walking"
)

// ClientConfig holds configuration for the openrouteservice client.
type ClientConfig struct {
	// APIKey is required.
	APIKey string

	// BaseURL overrides the API endpoint (used by tests).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a resilient client
	// with defaults is used.
	HTTPClient resilience.Doer

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an openrouteservice API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient resilience.Doer
	logger     zerolog.Logger
}

// NewClient creates a new openrouteservice client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// WalkingRoute fetches foot-walking geometry between origin and dest.
func (c *Client) WalkingRoute(ctx context.Context, origin, dest polyline.Point) (*routing.Route, error) {
	// ORS expects lon,lat order.
	body := directionsRequest{
		Coordinates: [][2]float64{
			{origin.Lon, origin.Lat},
			{dest.Lon, dest.Lat},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var orsResp directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&orsResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(orsResp.Features) == 0 {
		return nil, routing.ErrNoRoute
	}

	feat := orsResp.Features[0]
	geometry := make([]polyline.Point, 0, len(feat.Geometry.Coordinates))
	for _, coord := range feat.Geometry.Coordinates {
		geometry = append(geometry, polyline.Point{Lat: coord[1], Lon: coord[0]})
	}
	if len(geometry) < 2 {
		return nil, routing.ErrNoRoute
	}

	distance := 0
	if len(feat.Properties.Segments) > 0 {
		distance = int(feat.Properties.Segments[0].Distance)
	}

	return &routing.Route{
		Geometry:  geometry,
		DistanceM: distance,
	}, nil
}

// openrouteservice API structures (GeoJSON, lon-lat coordinate order).

type directionsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Segments []struct {
				Distance float64 `json:"distance"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
}
