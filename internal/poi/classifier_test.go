package poi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Kinds(t *testing.T) {
	cfg := DefaultClassifierConfig()

	tests := []struct {
		name      string
		candidate Candidate
		wantKind  Kind
		wantPet   bool
	}{
		{"leisure park", Candidate{RawKind: "park"}, KindPark, false},
		{"compound park kind", Candidate{RawKind: "leisure_park"}, KindPark, false},
		{"footway", Candidate{RawKind: "footway"}, KindFootway, false},
		{"path", Candidate{RawKind: "path"}, KindFootway, false},
		{"pet cafe by flag", Candidate{RawKind: "pet_cafe", PetFriendly: true}, KindPetFriendly, true},
		{"pet access by dogs tag", Candidate{
			RawKind: "cafe",
			Tags:    map[string]string{"dogs": "leashed"},
		}, KindPetFriendly, true},
		{"pet access by pets tag", Candidate{
			RawKind: "restaurant",
			Tags:    map[string]string{"pets": "permissive"},
		}, KindPetFriendly, true},
		{"pets=no is not access", Candidate{
			RawKind: "cafe",
			Tags:    map[string]string{"pets": "no"},
		}, KindOther, false},
		{"unknown kind", Candidate{RawKind: "playground"}, KindOther, false},
		{"park beats pet flag", Candidate{RawKind: "park", PetFriendly: true}, KindPark, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.candidate
			cfg.Classify(&c)
			assert.Equal(t, tt.wantKind, c.Kind)
			assert.Equal(t, tt.wantPet, c.PetFriendly)
		})
	}
}

func TestClassify_EnvironmentTags(t *testing.T) {
	cfg := DefaultClassifierConfig()

	park := Candidate{RawKind: "park", Tags: map[string]string{"water": "pond"}}
	cfg.Classify(&park)
	assert.Equal(t, []string{"grass", "shade", "water"}, park.EnvironmentTags)

	cafe := Candidate{RawKind: "cafe", Tags: map[string]string{"dogs": "yes"}}
	cfg.Classify(&cafe)
	assert.Equal(t, []string{"pet_friendly"}, cafe.EnvironmentTags)

	// Tags are additive: reclassifying never removes an inferred tag.
	cfg.Classify(&park)
	assert.Contains(t, park.EnvironmentTags, "water")
	assert.Contains(t, park.EnvironmentTags, "grass")
}
