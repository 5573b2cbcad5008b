package repository

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepository struct {
	inner *MemoryRunRecordRepository
	fail  bool
}

func (f *failingRepository) GetLastRun(ctx context.Context, region string) (time.Time, error) {
	if f.fail {
		return time.Time{}, assert.AnError
	}
	return f.inner.GetLastRun(ctx, region)
}

func (f *failingRepository) SetLastRun(ctx context.Context, region string, at time.Time) error {
	if f.fail {
		return assert.AnError
	}
	return f.inner.SetLastRun(ctx, region, at)
}

func (f *failingRepository) AllLastRuns(ctx context.Context) (map[string]time.Time, error) {
	if f.fail {
		return nil, assert.AnError
	}
	return f.inner.AllLastRuns(ctx)
}

func TestMemoryRunRecordRepository(t *testing.T) {
	repo := NewMemoryRunRecordRepository()
	ctx := context.Background()

	got, err := repo.GetLastRun(ctx, "north")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	at := time.Now().UTC()
	require.NoError(t, repo.SetLastRun(ctx, "north", at))

	got, err = repo.GetLastRun(ctx, "north")
	require.NoError(t, err)
	assert.True(t, got.Equal(at))

	all, err := repo.AllLastRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFailoverUsesPrimaryWhenHealthy(t *testing.T) {
	primary := &failingRepository{inner: NewMemoryRunRecordRepository()}
	fallback := NewMemoryRunRecordRepository()
	logger := zerolog.Nop()
	repo := NewFailoverRunRecordRepository(primary, fallback, &logger)
	ctx := context.Background()

	at := time.Now().UTC()
	require.NoError(t, repo.SetLastRun(ctx, "north", at))

	got, err := primary.inner.GetLastRun(ctx, "north")
	require.NoError(t, err)
	assert.True(t, got.Equal(at))

	// запасное хранилище обновляется в любом случае
	got, err = fallback.GetLastRun(ctx, "north")
	require.NoError(t, err)
	assert.True(t, got.Equal(at))
}

func TestFailoverFallsBackOnError(t *testing.T) {
	primary := &failingRepository{inner: NewMemoryRunRecordRepository(), fail: true}
	fallback := NewMemoryRunRecordRepository()
	logger := zerolog.Nop()
	repo := NewFailoverRunRecordRepository(primary, fallback, &logger)
	ctx := context.Background()

	at := time.Now().UTC()
	require.NoError(t, repo.SetLastRun(ctx, "north", at))

	got, err := repo.GetLastRun(ctx, "north")
	require.NoError(t, err)
	assert.True(t, got.Equal(at))

	all, err := repo.AllLastRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFailoverRecoversAfterRetryWindow(t *testing.T) {
	primary := &failingRepository{inner: NewMemoryRunRecordRepository(), fail: true}
	fallback := NewMemoryRunRecordRepository()
	logger := zerolog.Nop()
	repo := NewFailoverRunRecordRepository(primary, fallback, &logger)
	ctx := context.Background()

	_, err := repo.GetLastRun(ctx, "north")
	require.NoError(t, err)
	assert.True(t, repo.isDown.Load())

	// до истечения минуты основное хранилище не трогаем
	primary.fail = false
	at := time.Now().UTC()
	require.NoError(t, repo.SetLastRun(ctx, "north", at))
	got, err := primary.inner.GetLastRun(ctx, "north")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	// сдвигаем отметку последней проверки в прошлое
	repo.lastCheck.Store(time.Now().Add(-2 * time.Minute).UnixNano())
	require.NoError(t, repo.SetLastRun(ctx, "north", at))
	assert.False(t, repo.isDown.Load())

	got, err = primary.inner.GetLastRun(ctx, "north")
	require.NoError(t, err)
	assert.True(t, got.Equal(at))
}
