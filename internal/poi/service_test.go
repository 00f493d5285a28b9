package poi

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	walkable       []Candidate
	petFriendly    []Candidate
	walkableErr    error
	petFriendlyErr error
	walkableCalls  int
}

func (p *stubProvider) FindWalkable(context.Context, float64, float64, int) ([]Candidate, error) {
	p.walkableCalls++
	return p.walkable, p.walkableErr
}

func (p *stubProvider) FindPetFriendly(context.Context, float64, float64, int) ([]Candidate, error) {
	return p.petFriendly, p.petFriendlyErr
}

func (p *stubProvider) Name() string { return "stub" }

func TestService_FindCandidates(t *testing.T) {
	provider := &stubProvider{
		walkable: []Candidate{
			{Name: "Far Park", Lat: 35.70, Lon: 139.76, RawKind: "park"},
			{Name: "Near Path", Lat: 35.681, Lon: 139.76, RawKind: "footway"},
		},
		petFriendly: []Candidate{
			{Name: "Dog Cafe", Lat: 35.682, Lon: 139.761, RawKind: "pet_cafe", PetFriendly: true},
		},
	}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	got, err := svc.FindCandidates(context.Background(), 35.68, 139.76, 800)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Walkable results come nearest-first, classified, with distances.
	assert.Equal(t, "Near Path", got[0].Name)
	assert.Equal(t, KindFootway, got[0].Kind)
	assert.Greater(t, got[0].ApproxDistanceM, 0)
	assert.Equal(t, "Far Park", got[1].Name)
	assert.Equal(t, KindPark, got[1].Kind)
	assert.Equal(t, KindPetFriendly, got[2].Kind)
}

func TestService_FindCandidates_InvalidRadius(t *testing.T) {
	svc := NewService(ServiceConfig{Provider: &stubProvider{}, Logger: zerolog.Nop()})

	_, err := svc.FindCandidates(context.Background(), 35.68, 139.76, 50)
	assert.ErrorIs(t, err, ErrInvalidRadius)

	_, err = svc.FindCandidates(context.Background(), 35.68, 139.76, 5000)
	assert.ErrorIs(t, err, ErrInvalidRadius)
}

func TestService_FindCandidates_WalkableFailureIsFatal(t *testing.T) {
	provider := &stubProvider{walkableErr: errors.New("overpass down")}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	_, err := svc.FindCandidates(context.Background(), 35.68, 139.76, 800)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestService_FindCandidates_PetFriendlyFailureTolerated(t *testing.T) {
	provider := &stubProvider{
		walkable:       []Candidate{{Name: "Park", Lat: 35.681, Lon: 139.76, RawKind: "park"}},
		petFriendlyErr: errors.New("timeout"),
	}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	got, err := svc.FindCandidates(context.Background(), 35.68, 139.76, 800)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_FindCandidates_Caches(t *testing.T) {
	provider := &stubProvider{
		walkable: []Candidate{{Name: "Park", Lat: 35.681, Lon: 139.76, RawKind: "park"}},
	}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	_, err := svc.FindCandidates(context.Background(), 35.68, 139.76, 800)
	require.NoError(t, err)
	_, err = svc.FindCandidates(context.Background(), 35.68, 139.76, 800)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.walkableCalls)

	// A different radius is a different cache key.
	_, err = svc.FindCandidates(context.Background(), 35.68, 139.76, 1200)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.walkableCalls)
}
