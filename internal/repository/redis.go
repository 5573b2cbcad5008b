package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ambassadord/internal/config"

	"github.com/redis/go-redis/v9"
)

const regionKeyPrefix = "region_last_run:"

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func Ping(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return client.Ping(ctx).Err()
}

// RedisRunRecordRepository хранит отметки последнего прогона по регионам
// в Redis, чтобы суточная ротация переживала рестарты процесса.
type RedisRunRecordRepository struct {
	client *redis.Client
}

func NewRedisRunRecordRepository(client *redis.Client) *RedisRunRecordRepository {
	return &RedisRunRecordRepository{client: client}
}

func (r *RedisRunRecordRepository) GetLastRun(ctx context.Context, region string) (time.Time, error) {
	if r.client == nil {
		return time.Time{}, fmt.Errorf("redis client is nil")
	}

	val, err := r.client.Get(ctx, regionKeyPrefix+region).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get last run for %s: %w", region, err)
	}

	t, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last run for %s: %w", region, err)
	}
	return t, nil
}

func (r *RedisRunRecordRepository) SetLastRun(ctx context.Context, region string, at time.Time) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	if err := r.client.Set(ctx, regionKeyPrefix+region, at.Format(time.RFC3339Nano), 0).Err(); err != nil {
		return fmt.Errorf("set last run for %s: %w", region, err)
	}
	return nil
}

func (r *RedisRunRecordRepository) AllLastRuns(ctx context.Context) (map[string]time.Time, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}

	out := make(map[string]time.Time)
	iter := r.client.Scan(ctx, 0, regionKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		region := strings.TrimPrefix(iter.Val(), regionKeyPrefix)
		t, err := r.GetLastRun(ctx, region)
		if err != nil {
			return nil, err
		}
		if !t.IsZero() {
			out[region] = t
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan last runs: %w", err)
	}
	return out, nil
}
