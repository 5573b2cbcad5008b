package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisRunRecordRoundTrip(t *testing.T) {
	repo := NewRedisRunRecordRepository(newTestRedis(t))
	ctx := context.Background()

	at := time.Date(2026, 2, 10, 15, 30, 0, 0, time.UTC)
	require.NoError(t, repo.SetLastRun(ctx, "north", at))

	got, err := repo.GetLastRun(ctx, "north")
	require.NoError(t, err)
	assert.True(t, got.Equal(at))
}

func TestRedisRunRecordMissingRegion(t *testing.T) {
	repo := NewRedisRunRecordRepository(newTestRedis(t))

	got, err := repo.GetLastRun(context.Background(), "unknown")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestRedisRunRecordAllLastRuns(t *testing.T) {
	repo := NewRedisRunRecordRepository(newTestRedis(t))
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.SetLastRun(ctx, "north", now))
	require.NoError(t, repo.SetLastRun(ctx, "south", now.Add(-time.Hour)))

	all, err := repo.AllLastRuns(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all["north"].Equal(now))
	assert.True(t, all["south"].Equal(now.Add(-time.Hour)))
}

func TestRedisRunRecordNilClient(t *testing.T) {
	repo := NewRedisRunRecordRepository(nil)

	_, err := repo.GetLastRun(context.Background(), "north")
	assert.Error(t, err)
	assert.Error(t, repo.SetLastRun(context.Background(), "north", time.Now()))
}
