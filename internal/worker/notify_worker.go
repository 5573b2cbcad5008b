package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ambassadord/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AlertTask одно оповещение о помеченной публикации.
type AlertTask struct {
	SubmissionID string    `json:"submission_id"`
	Reason       string    `json:"reason"`
	Attempts     int       `json:"attempts"`
	CreatedAt    time.Time `json:"created_at"`
}

// NotifyWorker доставляет оповещения о подозрительных публикациях.
// Очередь живет в Redis (переживает рестарт), при недоступном Redis
// задачи идут через локальный канал.
type NotifyWorker struct {
	store        domain.CollectionStore
	notifier     domain.Notifier
	redis        *redis.Client
	retryPolicy  RetryPolicy
	queue        chan AlertTask
	queueKey     string
	deadLetter   string
	pollInterval time.Duration
	logger       *zerolog.Logger
}

// NewNotifyWorker builds a worker with sane defaults.
func NewNotifyWorker(store domain.CollectionStore, notifier domain.Notifier, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *NotifyWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &NotifyWorker{
		store:        store,
		notifier:     notifier,
		redis:        redisClient,
		retryPolicy:  retry,
		queue:        make(chan AlertTask, 128),
		queueKey:     "alerts:queue",
		deadLetter:   "alerts:deadletter",
		pollInterval: 2 * time.Second,
		logger:       logger,
	}
}

// Enqueue ставит оповещение в очередь. Сначала пробуем Redis,
// при сбое падаем на локальный канал.
func (w *NotifyWorker) Enqueue(ctx context.Context, task AlertTask) error {
	if task.SubmissionID == "" {
		return errors.New("submission id is required")
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	if w.redis != nil {
		if err := w.pushRedis(ctx, task); err != nil {
			w.logger.Warn().Err(err).Msg("notify_worker: redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	select {
	case w.queue <- task:
	default:
		w.logger.Error().Str("submission_id", task.SubmissionID).Msg("notify_worker: queue full, alert dropped")
	}
	return nil
}

// Start launches main loop; stops when ctx is done.
func (w *NotifyWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("notify_worker: started")
	defer w.logger.Info().Msg("notify_worker: stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, t)
			continue
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, t)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.pollInterval):
		}
	}
}

func (w *NotifyWorker) tryLocalQueue() (AlertTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return AlertTask{}, false
	}
}

func (w *NotifyWorker) tryRedis(ctx context.Context) (AlertTask, bool) {
	if w.redis == nil {
		return AlertTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.queueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return AlertTask{}, false
		}
		w.logger.Warn().Err(err).Msg("notify_worker: redis BRPOP error")
		return AlertTask{}, false
	}
	if len(res) != 2 {
		return AlertTask{}, false
	}
	var task AlertTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("notify_worker: decode redis task")
		return AlertTask{}, false
	}
	return task, true
}

func (w *NotifyWorker) processTask(ctx context.Context, task AlertTask) {
	sub, err := w.store.Submission(ctx, task.SubmissionID)
	if err != nil {
		w.logger.Error().Err(err).Str("submission_id", task.SubmissionID).Msg("notify_worker: load submission")
		w.pushDeadLetter(ctx, task)
		return
	}

	if err := w.notifier.NotifyFlagged(ctx, sub); err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}
}

func (w *NotifyWorker) retryOrFail(ctx context.Context, task AlertTask, cause error) {
	task.Attempts++
	if task.Attempts >= w.retryPolicy.MaxRetries {
		w.logger.Error().Err(cause).Str("submission_id", task.SubmissionID).Msg("notify_worker: giving up")
		w.pushDeadLetter(ctx, task)
		return
	}

	delay := w.retryPolicy.NextDelay(task.Attempts)
	w.logger.Warn().Err(cause).
		Str("submission_id", task.SubmissionID).
		Int("attempt", task.Attempts).
		Dur("delay", delay).
		Msg("notify_worker: delivery failed, will retry")

	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(delay):
			_ = w.Enqueue(ctx, task)
		}
	}()
}

func (w *NotifyWorker) pushRedis(ctx context.Context, task AlertTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, w.queueKey, data).Err()
}

func (w *NotifyWorker) pushDeadLetter(ctx context.Context, task AlertTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Error().Err(err).Msg("notify_worker: encode deadletter")
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetter, data).Err(); err != nil {
		w.logger.Error().Err(err).Msg("notify_worker: deadletter push")
	}
}
