package domain

import (
	"context"
	"time"

	"ambassadord/internal/models"
	"ambassadord/internal/twitter"
)

// CollectionStore примитивы документного хранилища, которыми пользуется
// трекер. Транзакций на несколько записей нет.
type CollectionStore interface {
	Submissions(ctx context.Context) ([]models.Submission, error)
	Submission(ctx context.Context, id string) (*models.Submission, error)
	UpdateSubmission(ctx context.Context, sub *models.Submission) error
	Users(ctx context.Context) ([]models.User, error)
	User(ctx context.Context, id string) (*models.User, error)
	UpsertUser(ctx context.Context, u *models.User) error
}

// MetricsClient клиент внешнего провайдера метрик.
type MetricsClient interface {
	Configured() bool
	TweetMetrics(ctx context.Context, tweetID string) (twitter.Metrics, error)
}

// RunRecordRepository отметки последнего прогона по регионам.
type RunRecordRepository interface {
	GetLastRun(ctx context.Context, region string) (time.Time, error)
	SetLastRun(ctx context.Context, region string, at time.Time) error
	AllLastRuns(ctx context.Context) (map[string]time.Time, error)
}

// LeaderboardRecomputer пересчет очков и мест после успешного прогона.
type LeaderboardRecomputer interface {
	Recompute(ctx context.Context) error
}

// EventPublisher публикация доменных событий.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// BatchRunner точка входа пакетного прогона, общая для планировщика,
// повторного таймера и ручного запуска из админки.
type BatchRunner interface {
	RunBatch(ctx context.Context, reason, regionOverride string) models.RunResult
	Status() models.StatusSnapshot
}

// Notifier доставка оповещений о подозрительных публикациях.
type Notifier interface {
	NotifyFlagged(ctx context.Context, sub *models.Submission) error
}
