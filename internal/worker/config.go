// Package worker provides background cache warming for PawRoute.
package worker

import (
	"time"
)

// WarmTarget represents a geographic region to pre-warm.
type WarmTarget struct {
	// Name is the human-readable name of the target.
	Name string

	// Points are the lat/lon coordinates to warm. Typically dense
	// residential areas with many dog owners.
	Points []Point

	// Priority determines warm order (lower = higher priority).
	Priority int
}

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// WarmConfig holds configuration for the cache warm job.
type WarmConfig struct {
	// Targets are the geographic regions to warm.
	// If empty, uses DefaultWarmTargets.
	Targets []WarmTarget

	// Concurrency is the number of concurrent warm operations.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each warm operation.
	// Default: 30 seconds
	Timeout time.Duration

	// WarmWeather enables forecast warming.
	// Default: true
	WarmWeather bool

	// WarmDestinations enables destination candidate warming.
	// Default: true
	WarmDestinations bool

	// DestinationRadiusM is the search radius for destination warming.
	// Default: 1000
	DestinationRadiusM int
}

// DefaultWarmConfig returns the default warm configuration.
func DefaultWarmConfig() WarmConfig {
	return WarmConfig{
		Targets:            DefaultWarmTargets(),
		Concurrency:        3,
		Timeout:            30 * time.Second,
		WarmWeather:        true,
		WarmDestinations:   true,
		DestinationRadiusM: 1000,
	}
}

// DefaultWarmTargets returns the default warm targets for the Tokyo
// metropolitan area, where most of the user base walks.
func DefaultWarmTargets() []WarmTarget {
	return []WarmTarget{
		{
			Name:     "Tokyo Central",
			Priority: 1,
			Points: []Point{
				{Lat: 35.6586, Lon: 139.7454}, // Shiba Park / Tokyo Tower
				{Lat: 35.6652, Lon: 139.7127}, // Roppongi
				{Lat: 35.6467, Lon: 139.7100}, // Ebisu
			},
		},
		{
			Name:     "Setagaya",
			Priority: 1,
			Points: []Point{
				{Lat: 35.6465, Lon: 139.6533}, // Sangenjaya
				{Lat: 35.6330, Lon: 139.6477}, // Komazawa Olympic Park
			},
		},
		{
			Name:     "Shibuya-Yoyogi",
			Priority: 1,
			Points: []Point{
				{Lat: 35.6712, Lon: 139.6949}, // Yoyogi Park
				{Lat: 35.6581, Lon: 139.7017}, // Shibuya
			},
		},
		{
			Name:     "Kichijoji",
			Priority: 2,
			Points: []Point{
				{Lat: 35.7022, Lon: 139.5803}, // Inokashira Park
			},
		},
		{
			Name:     "Yokohama",
			Priority: 2,
			Points: []Point{
				{Lat: 35.4437, Lon: 139.6380}, // Yokohama Station
				{Lat: 35.4326, Lon: 139.6504}, // Yamashita Park
			},
		},
		{
			Name:     "Osaka",
			Priority: 3,
			Points: []Point{
				{Lat: 34.6937, Lon: 135.5023}, // Osaka Station
				{Lat: 34.6873, Lon: 135.5259}, // Osaka Castle Park
			},
		},
	}
}

// AllPoints returns all points from all targets, ordered by priority.
func (c WarmConfig) AllPoints() []Point {
	var points []Point
	for _, target := range c.Targets {
		points = append(points, target.Points...)
	}
	return points
}

// TotalPoints returns the total number of points to warm.
func (c WarmConfig) TotalPoints() int {
	total := 0
	for _, target := range c.Targets {
		total += len(target.Points)
	}
	return total
}
