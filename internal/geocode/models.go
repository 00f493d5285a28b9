// Package geocode resolves free-form addresses to coordinates.
package geocode

import "errors"

// Geocode errors.
var (
	ErrNotFound            = errors.New("address not found")
	ErrEmptyAddress        = errors.New("address is empty")
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
)

// Location is a resolved address.
type Location struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"displayName"`
}
