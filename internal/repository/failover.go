package repository

import (
	"context"
	"sync/atomic"
	"time"

	"ambassadord/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverRunRecordRepository пишет и читает отметки прогонов из основного
// хранилища, при сбое переключаясь на запасное. Попытка восстановления
// выполняется не чаще раза в минуту.
type FailoverRunRecordRepository struct {
	primary   domain.RunRecordRepository
	fallback  domain.RunRecordRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverRunRecordRepository(primary, fallback domain.RunRecordRepository, logger *zerolog.Logger) *FailoverRunRecordRepository {
	return &FailoverRunRecordRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverRunRecordRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("primary run-record repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverRunRecordRepository) shouldRetryPrimary() bool {
	return time.Since(time.Unix(0, r.lastCheck.Load())) > time.Minute
}

func (r *FailoverRunRecordRepository) GetLastRun(ctx context.Context, region string) (time.Time, error) {
	if !r.isDown.Load() || r.shouldRetryPrimary() {
		t, err := r.primary.GetLastRun(ctx, region)
		if err == nil {
			r.isDown.Store(false)
			return t, nil
		}
		r.markDown(err)
	}
	return r.fallback.GetLastRun(ctx, region)
}

func (r *FailoverRunRecordRepository) SetLastRun(ctx context.Context, region string, at time.Time) error {
	// Запасное хранилище обновляется всегда, чтобы после сбоя основного
	// не раздавать регион чаще суточного лимита.
	if err := r.fallback.SetLastRun(ctx, region, at); err != nil {
		return err
	}

	if !r.isDown.Load() || r.shouldRetryPrimary() {
		if err := r.primary.SetLastRun(ctx, region, at); err != nil {
			r.markDown(err)
			return nil
		}
		r.isDown.Store(false)
	}
	return nil
}

func (r *FailoverRunRecordRepository) AllLastRuns(ctx context.Context) (map[string]time.Time, error) {
	if !r.isDown.Load() || r.shouldRetryPrimary() {
		records, err := r.primary.AllLastRuns(ctx)
		if err == nil {
			r.isDown.Store(false)
			return records, nil
		}
		r.markDown(err)
	}
	return r.fallback.AllLastRuns(ctx)
}
