package service

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisCache "github.com/aniladanir/campaign-messenger/internal/cache/redis"
	"github.com/aniladanir/campaign-messenger/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendMessages(t *testing.T, e *testEnv, projectID, contactID uuid.UUID, msgs ...domain.Message) {
	t.Helper()

	for _, m := range msgs {
		m.Timestamp = time.Now().UTC()
		_, err := e.conversations.Append(context.Background(), projectID, contactID, m)
		require.NoError(t, err)
	}
}

func sampleConversation() []domain.Message {
	return []domain.Message{
		{Body: "one", Direction: domain.DirectionOutbound, Status: "delivered"},
		{Body: "two", Direction: domain.DirectionOutbound, Status: "delivered"},
		{Body: "three", Direction: domain.DirectionOutbound, Status: "queued"},
		{Body: "reply", Direction: domain.DirectionInbound, Status: "received"},
	}
}

func TestAggregate_WithoutCache(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	p := e.project(t, "u1", "spring")
	appendMessages(t, e, p.ID, uuid.New(), sampleConversation()...)

	stats, err := NewStatisticsAggregator(e.conversations, nil, time.Minute, "delivered", slog.Default()).
		Aggregate(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Statistics{TotalSent: 3, TotalDelivered: 2, TotalReceived: 1}, stats)
}

func TestAggregate_DeliveredStatusIsConfigurable(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	p := e.project(t, "u1", "spring")
	appendMessages(t, e, p.ID, uuid.New(), sampleConversation()...)

	stats, err := NewStatisticsAggregator(e.conversations, nil, time.Minute, "queued", slog.Default()).
		Aggregate(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalDelivered)

	stats, err = NewStatisticsAggregator(e.conversations, nil, time.Minute, "Delivered", slog.Default()).
		Aggregate(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalDelivered)
}

func TestAggregate_CacheInvalidatedOnAppend(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	ctx := context.Background()
	p := e.project(t, "u1", "spring")

	mr := miniredis.RunT(t)
	rc, err := redisCache.NewRedisCache(ctx, mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	agg := NewStatisticsAggregator(e.conversations, rc, time.Minute, "delivered", slog.Default())

	contactID := uuid.New()
	appendMessages(t, e, p.ID, contactID, sampleConversation()...)

	stats, err := agg.Aggregate(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Statistics{TotalSent: 3, TotalDelivered: 2, TotalReceived: 1}, stats)
	assert.True(t, mr.Exists(fmt.Sprintf("stats:%s:v4", p.ID)))

	// served from cache
	stats, err = agg.Aggregate(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalSent)

	appendMessages(t, e, p.ID, contactID, domain.Message{Body: "four", Direction: domain.DirectionOutbound, Status: "delivered"})

	stats, err = agg.Aggregate(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Statistics{TotalSent: 4, TotalDelivered: 3, TotalReceived: 1}, stats)
}

func TestAggregate_FallsBackWhenCacheDown(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	ctx := context.Background()
	p := e.project(t, "u1", "spring")

	mr := miniredis.RunT(t)
	rc, err := redisCache.NewRedisCache(ctx, mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	agg := NewStatisticsAggregator(e.conversations, rc, time.Minute, "delivered", slog.Default())
	mr.Close()

	stats, err := agg.Aggregate(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Statistics{}, stats)
}

func newCachedAggregator(t *testing.T, e *testEnv) (StatisticsAggregator, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rc, err := redisCache.NewRedisCache(context.Background(), mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	return NewStatisticsAggregator(e.conversations, rc, time.Minute, "delivered", slog.Default()), mr
}

func TestAggregate_FreshWhenReplyCallerDisconnects(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	p := e.project(t, "u1", "spring")
	contacts := e.contacts(t, p.ID, domain.Contact{Phone: "+1000"})

	// runs before the statistics hook and cancels the request right after commit
	reqCtx, disconnect := context.WithCancel(context.Background())
	defer disconnect()
	e.conversations.OnAppend(func(context.Context, uuid.UUID) { disconnect() })

	agg, _ := newCachedAggregator(t, e)

	stats, err := agg.Aggregate(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Statistics{}, stats)

	_, err = newTestDispatcher(e).RecordReply(reqCtx, p.ID, contacts[0].ID, "yes", "")
	require.NoError(t, err)

	stats, err = agg.Aggregate(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Statistics{TotalReceived: 1}, stats)
}

func TestAggregate_FreshAfterFailedInvalidation(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	ctx := context.Background()
	p := e.project(t, "u1", "spring")
	contactID := uuid.New()

	agg, mr := newCachedAggregator(t, e)

	appendMessages(t, e, p.ID, contactID, domain.Message{Body: "one", Direction: domain.DirectionOutbound, Status: "delivered"})
	stats, err := agg.Aggregate(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalSent)

	// version bump fails while redis is erroring
	mr.SetError("ERR cache unavailable")
	appendMessages(t, e, p.ID, contactID, domain.Message{Body: "two", Direction: domain.DirectionOutbound, Status: "queued"})

	stats, err = agg.Aggregate(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalSent)

	// redis is back with the old rollup still cached under the old version
	mr.SetError("")
	stats, err = agg.Aggregate(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Statistics{TotalSent: 2, TotalDelivered: 1}, stats)

	appendMessages(t, e, p.ID, contactID, domain.Message{Body: "three", Direction: domain.DirectionInbound, Status: "received"})
	stats, err = agg.Aggregate(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Statistics{TotalSent: 2, TotalDelivered: 1, TotalReceived: 1}, stats)
}
