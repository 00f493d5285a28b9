// Package dog holds the dog profile model and the heat-tolerance and pacing
// heuristics derived from it.
package dog

import (
	"errors"
	"math"
)

// Profile errors.
var (
	ErrInvalidSize   = errors.New("unknown dog size class")
	ErrInvalidAge    = errors.New("age must be non-negative")
	ErrInvalidWeight = errors.New("weight must be non-negative")
)

// SizeClass buckets dogs by build for heat-tolerance thresholds.
type SizeClass string

const (
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeLarge  SizeClass = "large"
)

// seniorAge is the age in years from which the threshold is tightened.
const seniorAge = 8.0

// Profile describes the dog a walk is planned for.
type Profile struct {
	Size     SizeClass
	AgeYears float64
	WeightKg float64
}

// Validate checks profile invariants.
func (p Profile) Validate() error {
	switch p.Size {
	case SizeSmall, SizeMedium, SizeLarge:
	default:
		return ErrInvalidSize
	}
	if p.AgeYears < 0 || math.IsNaN(p.AgeYears) {
		return ErrInvalidAge
	}
	if p.WeightKg < 0 || math.IsNaN(p.WeightKg) {
		return ErrInvalidWeight
	}
	return nil
}

// IsSenior reports whether the dog gets the stricter senior threshold.
func (p Profile) IsSenior() bool {
	return p.AgeYears >= seniorAge
}

// sizeThresholds maps size class to the maximum acceptable apparent surface
// temperature in Celsius. Conservative values; an unknown size falls back
// to 26.0.
var sizeThresholds = map[SizeClass]float64{
	SizeSmall:  25.0,
	SizeMedium: 27.0,
	SizeLarge:  28.0,
}

const defaultThresholdC = 26.0

// ThresholdC returns the apparent-surface-temperature safety threshold for
// this profile. Senior dogs get a 1.0 degree stricter threshold.
func (p Profile) ThresholdC() float64 {
	t, ok := sizeThresholds[p.Size]
	if !ok {
		t = defaultThresholdC
	}
	if p.IsSenior() {
		t -= 1.0
	}
	return t
}

// PaceKmh returns the assumed walking speed for the dog's size.
func (p Profile) PaceKmh() float64 {
	switch p.Size {
	case SizeSmall:
		return 3.5
	case SizeLarge:
		return 4.5
	default:
		return 4.0
	}
}

// baseOneWayMinutes is the target one-way walk duration before adjustments.
func (p Profile) baseOneWayMinutes() int {
	switch p.Size {
	case SizeSmall:
		return 12
	case SizeLarge:
		return 22
	default:
		return 18
	}
}

// OneWayMinutes returns the suggested one-way walk duration, adjusted for
// seniority and heat. avgTempC is the expected apparent temperature during
// the walk; pass NaN when unknown. Hot conditions shorten the walk down to
// 50%, cool conditions stretch it up to 25%, and the result never drops
// below 8 minutes.
func (p Profile) OneWayMinutes(avgTempC float64) int {
	base := float64(p.baseOneWayMinutes())
	if p.IsSenior() {
		base = math.Round(base * 0.8)
	}

	factor := 1.0
	if !math.IsNaN(avgTempC) {
		delta := p.ThresholdC() - avgTempC
		if delta < 0 {
			factor = math.Max(0.5, 1.0+delta/6.0)
		} else {
			factor = math.Min(1.25, 1.0+math.Min(delta, 5)/20.0)
		}
	}

	minutes := int(math.Round(base * factor))
	if minutes < 8 {
		minutes = 8
	}
	return minutes
}

// SuggestedRadiusM converts the suggested one-way duration into a search
// radius: one-way distance at walking pace, widened by 10% so destinations
// just past the comfortable range still surface, clamped to [300, 2000].
func (p Profile) SuggestedRadiusM(avgTempC float64) int {
	oneWayM := p.PaceKmh() * 1000 * float64(p.OneWayMinutes(avgTempC)) / 60.0
	radius := int(math.Round(oneWayM * 1.1))
	if radius < 300 {
		return 300
	}
	if radius > 2000 {
		return 2000
	}
	return radius
}
