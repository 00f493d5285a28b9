package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawroute/pawroute/internal/dog"
	"github.com/pawroute/pawroute/internal/poi"
	"github.com/pawroute/pawroute/internal/weather"
)

type stubChat struct {
	reply      string
	err        error
	lastSystem string
}

func (c *stubChat) CompleteJSON(_ context.Context, system string, _ any) (json.RawMessage, error) {
	c.lastSystem = system
	if c.err != nil {
		return nil, c.err
	}
	return json.RawMessage(c.reply), nil
}

func (c *stubChat) Name() string { return "stub" }

var testProfile = dog.Profile{Size: dog.SizeMedium, AgeYears: 4, WeightKg: 12}

func TestService_SelectWindows_Valid(t *testing.T) {
	chat := &stubChat{reply: `{"windows": [
		{"start": "2026-08-27 06:00", "end": "2026-08-27 08:00", "label": "cool morning", "score": 130, "reason": "low heat"},
		{"start": "2026-08-27 18:00", "end": "2026-08-27 20:00", "label": "evening", "score": 70, "reason": "sun down"}
	]}`}
	svc := NewService(ServiceConfig{Client: chat, Logger: zerolog.Nop()})

	outcome := svc.SelectWindows(context.Background(), testProfile, nil, time.UTC, 3)
	windows, ok := outcome.Windows()
	require.True(t, ok)
	require.Len(t, windows, 2)

	assert.Equal(t, "cool morning", windows[0].Label)
	assert.Equal(t, 100, windows[0].ComfortScore, "scores are clamped")
	assert.Equal(t, 6, windows[0].Start.Hour())
	assert.Equal(t, 8, windows[0].End.Hour())
}

func TestService_SelectWindows_DropsInvalidEntries(t *testing.T) {
	chat := &stubChat{reply: `{"windows": [
		{"start": "garbage", "end": "2026-08-27 08:00", "score": 80},
		{"start": "2026-08-27 08:00", "end": "2026-08-27 08:00", "score": 80},
		{"start": "2026-08-27 10:00", "end": "2026-08-27 09:00", "score": 80},
		{"start": "2026-08-27 06:00", "end": "2026-08-27 07:00", "score": 80}
	]}`}
	svc := NewService(ServiceConfig{Client: chat, Logger: zerolog.Nop()})

	outcome := svc.SelectWindows(context.Background(), testProfile, nil, time.UTC, 5)
	windows, ok := outcome.Windows()
	require.True(t, ok)
	require.Len(t, windows, 1)
	assert.Equal(t, 6, windows[0].Start.Hour())
	assert.Equal(t, "recommended", windows[0].Label)
}

func TestService_SelectWindows_UnavailableOutcomes(t *testing.T) {
	tests := []struct {
		name string
		chat *stubChat
	}{
		{"transport error", &stubChat{err: errors.New("timeout")}},
		{"malformed reply", &stubChat{reply: `{"windows": "nope"}`}},
		{"all entries invalid", &stubChat{reply: `{"windows": [{"start": "x", "end": "y"}]}`}},
		{"empty reply", &stubChat{reply: `{}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(ServiceConfig{Client: tt.chat, Logger: zerolog.Nop()})
			outcome := svc.SelectWindows(context.Background(), testProfile, nil, time.UTC, 3)
			_, ok := outcome.Windows()
			assert.False(t, ok)
			assert.NotEmpty(t, outcome.Reason())
		})
	}
}

func TestService_SelectWindows_TruncatesHourly(t *testing.T) {
	chat := &stubChat{reply: `{}`}
	svc := NewService(ServiceConfig{Client: chat, Logger: zerolog.Nop()})

	long := make([]weather.HourlySample, 100)
	for i := range long {
		long[i].Time = time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour)
	}

	// No panic, and the call proceeds with a bounded payload.
	outcome := svc.SelectWindows(context.Background(), testProfile, long, time.UTC, 3)
	_, ok := outcome.Windows()
	assert.False(t, ok)
}

func TestService_SelectDestinations(t *testing.T) {
	chat := &stubChat{reply: `{"selections": [
		{"poi_index": 1, "label": "shady park", "reason": "grass"},
		{"poi_index": 99, "label": "bogus"},
		{"poi_index": -1, "label": "bogus"},
		{"poi_index": 0}
	]}`}
	svc := NewService(ServiceConfig{Client: chat, Logger: zerolog.Nop()})

	candidates := []poi.Candidate{
		{Name: "Riverside Path", Kind: poi.KindFootway},
		{Name: "Big Park", Kind: poi.KindPark},
	}

	picks := svc.SelectDestinations(context.Background(), testProfile, candidates, true, 3)
	require.Len(t, picks, 2)
	assert.Equal(t, 1, picks[0].Index)
	assert.Equal(t, "shady park", picks[0].Label)
	// Empty label falls back to the candidate name.
	assert.Equal(t, "Riverside Path", picks[1].Label)
}

func TestService_SelectDestinations_FailureReturnsNil(t *testing.T) {
	svc := NewService(ServiceConfig{Client: &stubChat{err: errors.New("down")}, Logger: zerolog.Nop()})
	picks := svc.SelectDestinations(context.Background(), testProfile, []poi.Candidate{{Name: "x"}}, false, 3)
	assert.Nil(t, picks)
}

func TestService_ScoreRoutes(t *testing.T) {
	chat := &stubChat{reply: `{"scores": [
		{"score": 85, "reason": "good shade"},
		{"score": -10, "reason": "too far"}
	]}`}
	svc := NewService(ServiceConfig{Client: chat, Logger: zerolog.Nop()})

	metrics := []RouteMetrics{
		{DistanceM: 400, EstMinutesOneWay: 10, POIKind: "park"},
		{DistanceM: 2400, EstMinutesOneWay: 40, POIKind: "other"},
	}

	scores := svc.ScoreRoutes(context.Background(), testProfile, metrics)
	require.Len(t, scores, 2)
	assert.Equal(t, 85, scores[0].Score)
	assert.Equal(t, 0, scores[1].Score, "clamped to range")
}

func TestService_ScoreRoutes_ShortReplyReturnsNil(t *testing.T) {
	chat := &stubChat{reply: `{"scores": [{"score": 85}]}`}
	svc := NewService(ServiceConfig{Client: chat, Logger: zerolog.Nop()})

	scores := svc.ScoreRoutes(context.Background(), testProfile, []RouteMetrics{{}, {}})
	assert.Nil(t, scores)
}
