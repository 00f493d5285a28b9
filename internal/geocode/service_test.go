package geocode

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	// resolves maps query -> location; anything else is not found.
	resolves map[string]*Location
	err      error
	queries  []string
}

func (p *stubProvider) Search(_ context.Context, query string) (*Location, error) {
	p.queries = append(p.queries, query)
	if p.err != nil {
		return nil, p.err
	}
	if loc, ok := p.resolves[query]; ok {
		return loc, nil
	}
	return nil, ErrNotFound
}

func (p *stubProvider) Name() string { return "stub" }

func newTestService(p *stubProvider) *Service {
	return NewService(ServiceConfig{
		Provider:   p,
		Logger:     zerolog.Nop(),
		QueryDelay: time.Millisecond,
	})
}

func TestService_Resolve_RawFormFirst(t *testing.T) {
	tokyo := &Location{Lat: 35.68, Lon: 139.76, DisplayName: "Tokyo"}
	provider := &stubProvider{resolves: map[string]*Location{"東京都港区芝公園4-2-8": tokyo}}

	loc, err := newTestService(provider).Resolve(context.Background(), "東京都港区芝公園4-2-8")
	require.NoError(t, err)
	assert.Equal(t, tokyo, loc)
	assert.Len(t, provider.queries, 1)
}

func TestService_Resolve_FallsBackToNormalized(t *testing.T) {
	raw := "東京都港区芝公園４丁目２－８（東京タワー前）"
	normalized := NormalizeJP(raw)
	tokyo := &Location{Lat: 35.68, Lon: 139.76}
	provider := &stubProvider{resolves: map[string]*Location{normalized: tokyo}}

	loc, err := newTestService(provider).Resolve(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, tokyo, loc)
	assert.Equal(t, []string{raw, normalized}, provider.queries)
}

func TestService_Resolve_ProgressiveTruncation(t *testing.T) {
	raw := "東京都港区芝公園4丁目2番8号"
	normalized := NormalizeJP(raw)
	require.Contains(t, normalized, "-")

	// Only the form with the last block number stripped resolves.
	truncated := truncations(normalized)[0]
	provider := &stubProvider{resolves: map[string]*Location{truncated: {Lat: 35.68, Lon: 139.76}}}

	loc, err := newTestService(provider).Resolve(context.Background(), raw)
	require.NoError(t, err)
	assert.InDelta(t, 35.68, loc.Lat, 1e-9)
}

func TestService_Resolve_NotFound(t *testing.T) {
	provider := &stubProvider{}
	_, err := newTestService(provider).Resolve(context.Background(), "実在しない住所")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Resolve_EmptyAddress(t *testing.T) {
	_, err := newTestService(&stubProvider{}).Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyAddress)
}

func TestService_Resolve_ProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("rate limited")}
	_, err := newTestService(provider).Resolve(context.Background(), "東京都港区")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestNormalizeJP(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"block markers hyphenated",
			"東京都港区芝公園4丁目2番8号",
			"東京都港区芝公園4-2-8 日本",
		},
		{
			"full-width digits and building name",
			"東京都港区芝公園４－２－８ タワー３０１号室",
			"東京都港区芝公園4-2-8 日本",
		},
		{
			"parenthetical removed",
			"東京都港区芝公園4-2-8（東京タワー前）",
			"東京都港区芝公園4-2-8 日本",
		},
		{
			"existing country hint kept",
			"東京都港区芝公園4-2-8 日本",
			"東京都港区芝公園4-2-8 日本",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeJP(tt.in))
		})
	}
}

func TestTruncations(t *testing.T) {
	assert.Equal(t,
		[]string{"東京都港区芝公園4-2", "東京都港区芝公園4"},
		truncations("東京都港区芝公園4-2-8"))
	assert.Nil(t, truncations("東京都港区"))
}
