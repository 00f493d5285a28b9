// Package overpass provides an Overpass API client for OpenStreetMap
// destination queries.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pawroute/pawroute/internal/poi"
	"github.com/pawroute/pawroute/internal/provider/resilience"
)

const (
	// ProviderName identifies this POI provider.
	ProviderName = "overpass"

	// DefaultBaseURL is the public Overpass interpreter endpoint.
	DefaultBaseURL = "https://overpass-api.de/api/interpreter"

	// walkableLimit bounds the parks/paths query output.
	walkableLimit = 20

	// petFriendlyLimit bounds the pet-access query output.
	petFriendlyLimit = 100
)

// ClientConfig holds configuration for the Overpass client.
type ClientConfig struct {
	// BaseURL overrides the API endpoint (used by tests).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a resilient client
	// with defaults is used.
	HTTPClient resilience.Doer

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client queries Overpass for walkable and pet-friendly destinations.
type Client struct {
	baseURL    string
	httpClient resilience.Doer
	logger     zerolog.Logger
}

// NewClient creates a new Overpass client.
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

// FindWalkable returns parks, footways and paths around the origin.
func (c *Client) FindWalkable(ctx context.Context, lat, lon float64, radiusM int) ([]poi.Candidate, error) {
	query := fmt.Sprintf(`[out:json][timeout:25];
(
node["leisure"="park"](around:%d,%f,%f);
way["leisure"="park"](around:%d,%f,%f);
way["highway"="footway"](around:%d,%f,%f);
way["highway"="path"](around:%d,%f,%f);
);
out center %d;`,
		radiusM, lat, lon,
		radiusM, lat, lon,
		radiusM, lat, lon,
		radiusM, lat, lon,
		walkableLimit)

	return c.run(ctx, query, false)
}

// FindPetFriendly returns cafes, restaurants and shops that explicitly
// allow pets via OSM dogs/pets access tags.
func (c *Client) FindPetFriendly(ctx context.Context, lat, lon float64, radiusM int) ([]poi.Candidate, error) {
	around := fmt.Sprintf("(around:%d,%f,%f)", radiusM, lat, lon)
	query := fmt.Sprintf(`[out:json][timeout:25];
(
node%[1]s["amenity"~"cafe|restaurant|pub|bar|fast_food"]["dogs"~"yes|permissive|leashed"];
way%[1]s["amenity"~"cafe|restaurant|pub|bar|fast_food"]["dogs"~"yes|permissive|leashed"];
node%[1]s["amenity"~"cafe|restaurant|pub|bar|fast_food"]["pets"~"yes|permissive"];
way%[1]s["amenity"~"cafe|restaurant|pub|bar|fast_food"]["pets"~"yes|permissive"];
node%[1]s["shop"]["dogs"~"yes|permissive|leashed"];
way%[1]s["shop"]["dogs"~"yes|permissive|leashed"];
);
out center tags %[2]d;`, around, petFriendlyLimit)

	return c.run(ctx, query, true)
}

func (c *Client) run(ctx context.Context, query string, petFriendly bool) ([]poi.Candidate, error) {
	form := url.Values{"data": {query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var overpassResp response
	if err := json.NewDecoder(resp.Body).Decode(&overpassResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return c.toCandidates(&overpassResp, petFriendly), nil
}

// toCandidates converts Overpass elements to candidates. Ways carry their
// location in "center"; nodes carry lat/lon directly. Elements without a
// resolvable location are dropped.
func (c *Client) toCandidates(resp *response, petFriendly bool) []poi.Candidate {
	out := make([]poi.Candidate, 0, len(resp.Elements))

	for _, el := range resp.Elements {
		lat, lon := el.Lat, el.Lon
		if el.Center != nil {
			lat, lon = el.Center.Lat, el.Center.Lon
		}
		if lat == 0 && lon == 0 {
			continue
		}

		tags := el.Tags
		if tags == nil {
			tags = map[string]string{}
		}

		name := tags["name"]
		if name == "" {
			name = tags["ref"]
		}

		var rawKind string
		switch {
		case petFriendly:
			kind := tags["amenity"]
			if kind == "" {
				kind = tags["shop"]
			}
			if kind == "" {
				kind = "pet_friendly"
			}
			rawKind = "pet_" + kind
			if name == "" {
				name = "Pet-friendly spot"
			}
		default:
			rawKind = tags["leisure"]
			if rawKind == "" {
				rawKind = tags["highway"]
			}
			if name == "" {
				name = "POI"
			}
		}

		out = append(out, poi.Candidate{
			Name:        name,
			Lat:         lat,
			Lon:         lon,
			RawKind:     rawKind,
			Tags:        tags,
			PetFriendly: petFriendly,
		})
	}

	return out
}

// Overpass API response structures.

type response struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type   string            `json:"type"`
	Lat    float64           `json:"lat,omitempty"`
	Lon    float64           `json:"lon,omitempty"`
	Center *center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

type center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
