package plan

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawroute/pawroute/internal/dog"
	"github.com/pawroute/pawroute/internal/recommend"
	"github.com/pawroute/pawroute/internal/safety"
	"github.com/pawroute/pawroute/pkg/polyline"
)

func newTestService() *Service {
	return NewService(NewInMemoryRepository(), zerolog.Nop())
}

func sampleInput() SaveInput {
	return SaveInput{
		Origin:      polyline.Point{Lat: 35.6586, Lon: 139.7454},
		Destination: polyline.Point{Lat: 35.6544, Lon: 139.7480},
		Polyline:    "_p~iF~ps|U_ulLnnqC",
		Windows: []safety.Window{
			{
				Start:        time.Date(2026, 8, 27, 6, 0, 0, 0, time.UTC),
				End:          time.Date(2026, 8, 27, 8, 0, 0, 0, time.UTC),
				ComfortScore: 75,
				Label:        "morning",
			},
		},
		Score: 70,
	}
}

func TestService_SaveAndGet(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p, err := svc.Save(ctx, "user-1", sampleInput())
	require.NoError(t, err)
	assert.Contains(t, p.ID, "pln_")
	assert.Equal(t, "user-1", p.UserID)

	got, err := svc.Get(ctx, "user-1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Polyline, got.Polyline)
	require.Len(t, got.Windows, 1)
	assert.Equal(t, 75, got.Windows[0].ComfortScore)
}

func TestService_Save_RequiresPolyline(t *testing.T) {
	svc := newTestService()

	input := sampleInput()
	input.Polyline = ""

	_, err := svc.Save(context.Background(), "user-1", input)
	assert.ErrorIs(t, err, ErrEmptyPolyline)
}

func TestService_Get_WrongUser(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p, err := svc.Save(ctx, "user-1", sampleInput())
	require.NoError(t, err)

	_, err = svc.Get(ctx, "user-2", p.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestService_List_NewestFirst(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, zerolog.Nop())
	ctx := context.Background()

	base := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return ts }
		_, err := svc.Save(ctx, "user-1", sampleInput())
		require.NoError(t, err)
	}

	plans, err := svc.List(ctx, "user-1", 2)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.True(t, plans[0].CreatedAt.After(plans[1].CreatedAt))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Plans)
}

func TestService_LogRecommendation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	req := recommend.Request{
		Lat: 35.6586,
		Lon: 139.7454,
		Dog: dog.Profile{Size: dog.SizeSmall, AgeYears: 4, WeightKg: 6},
	}
	result := &recommend.Result{
		Windows:      sampleInput().Windows,
		WindowSource: recommend.WindowSourceExtractor,
	}

	id := svc.LogRecommendation(ctx, "user-1", req, result)
	require.NotEmpty(t, id)

	logs, err := svc.ListRecommendations(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, ModelVersion, logs[0].ModelVersion)
	require.NotNil(t, logs[0].Origin)
	assert.Equal(t, 35.6586, logs[0].Origin.Lat)

	var params map[string]any
	require.NoError(t, json.Unmarshal(logs[0].Params, &params))
	assert.Equal(t, "small", params["dog_size"])

	got, err := svc.GetRecommendation(ctx, "user-1", id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
}

func TestService_CouponLifecycle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p, err := svc.Save(ctx, "user-1", sampleInput())
	require.NoError(t, err)

	c, err := svc.IssueCoupon(ctx, "user-1", p.ID)
	require.NoError(t, err)
	assert.Contains(t, c.ID, "cpn_")
	assert.Contains(t, c.Payload(), "coupon:"+p.ID+":")
	assert.Nil(t, c.RedeemedAt)

	redeemed, err := svc.RedeemCoupon(ctx, c.Code)
	require.NoError(t, err)
	require.NotNil(t, redeemed.RedeemedAt)

	_, err = svc.RedeemCoupon(ctx, c.Code)
	assert.ErrorIs(t, err, ErrCouponRedeemed)
}

func TestService_IssueCoupon_UnknownPlan(t *testing.T) {
	svc := newTestService()

	_, err := svc.IssueCoupon(context.Background(), "user-1", "pln_missing")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}
