package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryRunRecordRepository отметки прогонов в памяти процесса.
// Используется как запасной вариант при недоступном Redis.
type MemoryRunRecordRepository struct {
	mu      sync.RWMutex
	records map[string]time.Time
}

func NewMemoryRunRecordRepository() *MemoryRunRecordRepository {
	return &MemoryRunRecordRepository{records: make(map[string]time.Time)}
}

func (r *MemoryRunRecordRepository) GetLastRun(ctx context.Context, region string) (time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records[region], nil
}

func (r *MemoryRunRecordRepository) SetLastRun(ctx context.Context, region string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[region] = at
	return nil
}

func (r *MemoryRunRecordRepository) AllLastRuns(ctx context.Context) (map[string]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]time.Time, len(r.records))
	for region, t := range r.records {
		out[region] = t
	}
	return out, nil
}
