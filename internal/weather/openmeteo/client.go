// Package openmeteo provides an Open-Meteo forecast client. Open-Meteo needs
// no API key, which makes it the default provider for local development.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawroute/pawroute/internal/provider/resilience"
	"github.com/pawroute/pawroute/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "open-meteo"

	// DefaultBaseURL is the Open-Meteo forecast endpoint.
	DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

	// hourLayout is Open-Meteo's local time format (ISO8601 without zone).
	hourLayout = "2006-01-02T15:04"
)

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// BaseURL overrides the API endpoint (used by tests).
	BaseURL string

	// Timezone is the IANA zone forecasts are returned in (default: "auto",
	// which resolves to the location's zone).
	Timezone string

	// HTTPClient is the HTTP client to use. If nil, a resilient client
	// with defaults is used.
	HTTPClient resilience.Doer

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an Open-Meteo API client.
type Client struct {
	baseURL    string
	timezone   string
	httpClient resilience.Doer
	logger     zerolog.Logger
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	tz := cfg.Timezone
	if tz == "" {
		tz = "auto"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		baseURL:    baseURL,
		timezone:   tz,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetHourlyForecast fetches hourly forecast samples for a location.
func (c *Client) GetHourlyForecast(ctx context.Context, lat, lon float64, horizonHours int) (*weather.Forecast, error) {
	days := (horizonHours + 23) / 24
	if days < 1 {
		days = 2
	}

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.6f", lat))
	q.Set("longitude", fmt.Sprintf("%.6f", lon))
	q.Set("hourly", "temperature_2m,relative_humidity_2m,wind_speed_10m,weather_code,is_day")
	q.Set("wind_speed_unit", "ms")
	q.Set("timezone", c.timezone)
	q.Set("forecast_days", fmt.Sprintf("%d", days))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), http.NoBody)
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

	var omResp forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&omResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return c.toForecast(lat, lon, &omResp), nil
}

// toForecast converts the columnar Open-Meteo payload into the domain model.
// Columns are index-aligned with the time column; short or null columns
// simply leave the corresponding field unset.
func (c *Client) toForecast(lat, lon float64, resp *forecastResponse) *weather.Forecast {
	forecast := &weather.Forecast{
		Lat:       lat,
		Lon:       lon,
		Timezone:  resp.Timezone,
		Hourly:    make([]weather.HourlySample, 0, len(resp.Hourly.Time)),
		FetchedAt: time.Now(),
	}

	for i, raw := range resp.Hourly.Time {
		ts, err := time.Parse(hourLayout, raw)
		if err != nil {
			c.logger.Warn().Str("time", raw).Msg("skipping sample with unparseable time")
			continue
		}

		sample := weather.HourlySample{Time: ts}
		sample.TemperatureC = floatAt(resp.Hourly.Temperature, i)
		sample.HumidityPct = floatAt(resp.Hourly.Humidity, i)
		sample.WindMps = floatAt(resp.Hourly.WindSpeed, i)
		sample.SkyCode = intAt(resp.Hourly.WeatherCode, i)
		if day := intAt(resp.Hourly.IsDay, i); day != nil {
			b := *day == 1
			sample.Daytime = &b
		}

		forecast.Hourly = append(forecast.Hourly, sample)
	}

	return forecast
}

func floatAt(col []*float64, i int) *float64 {
	if i >= len(col) {
		return nil
	}
	return col[i]
}

func intAt(col []*int, i int) *int {
	if i >= len(col) {
		return nil
	}
	return col[i]
}

// Open-Meteo API response structures. Hourly data is columnar; entries may
// be null, hence the pointer element types.

type forecastResponse struct {
	Timezone string `json:"timezone"`
	Hourly   struct {
		Time        []string   `json:"time"`
		Temperature []*float64 `json:"temperature_2m"`
		Humidity    []*float64 `json:"relative_humidity_2m"`
		WindSpeed   []*float64 `json:"wind_speed_10m"`
		WeatherCode []*int     `json:"weather_code"`
		IsDay       []*int     `json:"is_day"`
	} `json:"hourly"`
}
