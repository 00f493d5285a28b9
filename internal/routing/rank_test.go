package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawroute/pawroute/internal/poi"
)

func TestDefaultScore(t *testing.T) {
	tests := []struct {
		name      string
		candidate Candidate
		want      int
	}{
		{"park at origin", Candidate{POI: poi.Candidate{Kind: poi.KindPark}, DistanceM: 0}, 70},
		{"other at 1500m", Candidate{POI: poi.Candidate{Kind: poi.KindOther}, DistanceM: 1500}, 0},
		{"other beyond range", Candidate{POI: poi.Candidate{Kind: poi.KindOther}, DistanceM: 3000}, 0},
		{"footway at 750m", Candidate{POI: poi.Candidate{Kind: poi.KindFootway}, DistanceM: 750}, 35},
		{"park at 1500m keeps base", Candidate{POI: poi.Candidate{Kind: poi.KindPark}, DistanceM: 1500}, 30},
		{"pet cafe has no base", Candidate{POI: poi.Candidate{Kind: poi.KindPetFriendly}, DistanceM: 0}, 40},
		// Raw tag values never reach ranking; the classifier folds them
		// into the kind constants first.
		{"unclassified raw tag has no base", Candidate{POI: poi.Candidate{Kind: poi.Kind("path")}, DistanceM: 0}, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultScore(tt.candidate))
		})
	}
}

func TestRank_Order(t *testing.T) {
	park := Candidate{POI: poi.Candidate{Name: "park", Kind: poi.KindPark}, DistanceM: 0, Score: 70}
	far := Candidate{POI: poi.Candidate{Name: "far", Kind: poi.KindOther}, DistanceM: 1500, Score: 0}

	ranked := Rank([]Candidate{far, park}, 5)
	require.Len(t, ranked, 2)
	assert.Equal(t, "park", ranked[0].POI.Name)
	assert.Equal(t, "far", ranked[1].POI.Name)
}

func TestRank_TieBreakByDistance(t *testing.T) {
	near := Candidate{POI: poi.Candidate{Name: "near"}, DistanceM: 100, Score: 50}
	farther := Candidate{POI: poi.Candidate{Name: "farther"}, DistanceM: 900, Score: 50}

	ranked := Rank([]Candidate{farther, near}, 5)
	require.Len(t, ranked, 2)
	assert.Equal(t, "near", ranked[0].POI.Name)
}

func TestRank_ClampsK(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 10; i++ {
		candidates = append(candidates, Candidate{Score: i})
	}

	assert.Len(t, Rank(candidates, 0), 1)
	assert.Len(t, Rank(candidates, -3), 1)
	assert.Len(t, Rank(candidates, 3), 3)
	assert.Len(t, Rank(candidates, 99), 5)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	a := Candidate{POI: poi.Candidate{Name: "a"}, Score: 1}
	b := Candidate{POI: poi.Candidate{Name: "b"}, Score: 2}
	in := []Candidate{a, b}

	Rank(in, 5)
	assert.Equal(t, "a", in[0].POI.Name)
}
