// Package osrm provides an OSRM walking-route client. The public demo
// server needs no key, which makes OSRM the default fallback provider.
package osrm

import (
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
	ProviderName = "osrm"

	// DefaultBaseURL is the public OSRM demo server.
	DefaultBaseURL = "https://router.project-osrm.org"
)

// ClientConfig holds configuration for the OSRM client.
type ClientConfig struct {
	// BaseURL overrides the API endpoint (used by tests).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a resilient client
	// with defaults is used.
	HTTPClient resilience.Doer

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OSRM API client.
type Client struct {
	baseURL    string
	httpClient resilience.Doer
	logger     zerolog.Logger
}

// NewClient creates a new OSRM client.
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
	// OSRM takes lon,lat pairs in the path.
	endpoint := fmt.Sprintf("%s/route/v1/foot/%f,%f;%f,%f?overview=full&geometries=polyline",
		c.baseURL, origin.Lon, origin.Lat, dest.Lon, dest.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var osrmResp routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&osrmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(osrmResp.Routes) == 0 {
		return nil, routing.ErrNoRoute
	}

	route := osrmResp.Routes[0]
	geometry := polyline.Decode(route.Geometry)
	if len(geometry) < 2 {
		return nil, routing.ErrNoRoute
	}

	return &routing.Route{
		Geometry:  geometry,
		Polyline:  route.Geometry,
		DistanceM: int(route.Distance),
	}, nil
}

// OSRM API response structures.

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry string  `json:"geometry"`
		Distance float64 `json:"distance"`
	} `json:"routes"`
}
