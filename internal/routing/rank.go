package routing

import (
	"math"
	"sort"

	"github.com/pawroute/pawroute/internal/poi"
)

// Ranking constants for the deterministic scorer.
const (
	parkBaseScore    = 30
	footwayBaseScore = 15

	// distanceBonusMax is awarded to a zero-distance route, decaying
	// linearly to zero at distanceBonusRangeM.
	distanceBonusMax    = 40.0
	distanceBonusRangeM = 1500.0

	// K bounds for the returned candidate count.
	MinRoutes = 1
	MaxRoutes = 5
)

// DefaultScore rates a route candidate without an external scorer:
// category base plus a bonus for shorter walks.
func DefaultScore(c Candidate) int {
	base := 0
	switch c.POI.Kind {
	case poi.KindPark:
		base = parkBaseScore
	case poi.KindFootway:
		base = footwayBaseScore
	}

	d := math.Min(float64(c.DistanceM), distanceBonusRangeM)
	bonus := int(math.Round(distanceBonusMax * (distanceBonusRangeM - d) / distanceBonusRangeM))
	if bonus < 0 {
		bonus = 0
	}

	return base + bonus
}

// Rank orders candidates by descending score, nearest first on ties, and
// truncates to k (clamped to [1,5]). Candidates without geometry must be
// excluded before calling. The input slice is not modified.
func Rank(candidates []Candidate, k int) []Candidate {
	if k < MinRoutes {
		k = MinRoutes
	}
	if k > MaxRoutes {
		k = MaxRoutes
	}

	out := make([]Candidate, len(candidates))
	copy(out, candidates)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].DistanceM < out[j].DistanceM
	})

	if len(out) > k {
		out = out[:k]
	}
	return out
}
