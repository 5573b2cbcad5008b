package tracker

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"ambassadord/internal/config"
	"ambassadord/internal/domain"
	"ambassadord/internal/events"
	"ambassadord/internal/metrics"
	"ambassadord/internal/models"
	"ambassadord/internal/scoring"
	"ambassadord/internal/twitter"

	"github.com/rs/zerolog"
)

// Service движок трекинга: пакетный прогон, планировщик и статус в одном
// объекте, создаваемом один раз на процесс.
type Service struct {
	cfg         config.TrackerConfig
	store       domain.CollectionStore
	client      domain.MetricsClient
	runRecords  domain.RunRecordRepository
	leaderboard domain.LeaderboardRecomputer
	bus         domain.EventPublisher
	logger      *zerolog.Logger

	// runMu допускает не более одного прогона одновременно; конкурирующие
	// вызовы завершаются молча с нулевым результатом.
	runMu   sync.Mutex
	running atomic.Bool

	// mu защищает статус, курсор и таймеры.
	mu       sync.Mutex
	state    runState
	cursor   int
	armed    bool
	followUp *time.Timer

	// baseCtx переживает контекст вызова, породившего отложенный прогон:
	// ручной запуск из HTTP-обработчика приходит с контекстом запроса,
	// который гаснет сразу после ответа.
	baseCtx context.Context

	now func() time.Time
}

func New(
	cfg config.TrackerConfig,
	store domain.CollectionStore,
	client domain.MetricsClient,
	runRecords domain.RunRecordRepository,
	leaderboard domain.LeaderboardRecomputer,
	bus domain.EventPublisher,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		cfg:         cfg,
		store:       store,
		client:      client,
		runRecords:  runRecords,
		leaderboard: leaderboard,
		bus:         bus,
		logger:      logger,
		baseCtx:     context.Background(),
		now:         time.Now,
	}
}

// RunBatch выполняет один пакетный прогон. Повторный вызов во время
// активного прогона немедленно возвращает нулевой результат: очереди нет.
func (s *Service) RunBatch(ctx context.Context, reason, regionOverride string) models.RunResult {
	if !s.runMu.TryLock() {
		s.logger.Debug().Str("reason", reason).Msg("run already in progress, skipping")
		return models.RunResult{Reason: reason}
	}
	defer s.runMu.Unlock()

	s.running.Store(true)
	defer s.running.Store(false)

	start := s.now()
	metrics.IncRun(reason)

	result := models.RunResult{Reason: reason}

	if !s.client.Configured() {
		s.appendLog(models.TrackingLogEntry{
			Outcome:  models.LogOutcomeError,
			Message:  "tracking is not configured: bearer token is missing",
			Critical: true,
		})
		s.logger.Warn().Str("reason", reason).Msg("tracking run skipped: api not configured")
		s.recordRun(start, result)
		return result
	}

	region := regionOverride
	if region == "" {
		region = s.selectDueRegion(ctx)
	}
	result.Region = region

	if region == "" {
		s.logger.Info().Str("reason", reason).Msg("no region due for tracking")
		s.recordRun(start, result)
		return result
	}

	// Регион помечается в начале обработки: медленный или частично
	// неудачный прогон всё равно засчитывается в суточный лимит.
	if err := s.runRecords.SetLastRun(ctx, region, start); err != nil {
		s.logger.Error().Err(err).Str("region", region).Msg("mark region run")
	}

	eligible, err := s.eligibleSubmissions(ctx, region)
	if err != nil {
		s.logger.Error().Err(err).Str("region", region).Msg("load eligible submissions")
		s.recordRun(start, result)
		return result
	}

	batch := eligible
	if len(batch) > s.cfg.BatchSize {
		batch = batch[:s.cfg.BatchSize]
		result.Remaining = len(eligible) - s.cfg.BatchSize
	}

	regionAvg := averageImpressions(eligible)

	for i := range batch {
		sub := &batch[i]
		if err := s.trackSubmission(ctx, sub, regionAvg); err != nil {
			result.Errors++
			s.logItemError(sub.ID, err)
			continue
		}
		result.Processed++
		s.appendLog(models.TrackingLogEntry{
			SubmissionID: sub.ID,
			Outcome:      models.LogOutcomeUpdated,
			Message:      "metrics refreshed",
		})
	}

	if result.Processed > 0 {
		if err := s.leaderboard.Recompute(ctx); err != nil {
			s.logger.Error().Err(err).Msg("leaderboard recompute failed")
		}
	}

	s.recordRun(start, result)

	if result.Remaining > 0 {
		s.scheduleFollowUp(region)
	}

	_ = s.bus.PublishJSON(events.EventRunCompleted, events.RunEventPayload{
		Reason:    reason,
		Region:    region,
		Processed: result.Processed,
		Errors:    result.Errors,
		Remaining: result.Remaining,
	})

	s.logger.Info().
		Str("reason", reason).
		Str("region", region).
		Int("processed", result.Processed).
		Int("errors", result.Errors).
		Int("remaining", result.Remaining).
		Dur("duration", s.now().Sub(start)).
		Msg("tracking run finished")

	return result
}

// selectDueRegion выбирает следующий регион круговым курсором. Курсор
// сдвигается на единицу при каждом вызове независимо от результата.
func (s *Service) selectDueRegion(ctx context.Context) string {
	regions, err := s.activeRegions(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("load regions")
		return ""
	}

	s.mu.Lock()
	s.state.regions = regions
	start := s.cursor
	s.cursor++
	s.mu.Unlock()

	if len(regions) == 0 {
		return ""
	}

	cooldown := s.cfg.RegionCooldown()
	for i := 0; i < len(regions); i++ {
		region := regions[(start+i)%len(regions)]
		lastRun, err := s.runRecords.GetLastRun(ctx, region)
		if err != nil {
			s.logger.Error().Err(err).Str("region", region).Msg("read region run record")
			continue
		}
		if lastRun.IsZero() || s.now().Sub(lastRun) >= cooldown {
			return region
		}
	}
	return ""
}

// activeRegions отсортированный список регионов активных не-админов.
func (s *Service) activeRegions(ctx context.Context) ([]string, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var regions []string
	for i := range users {
		u := &users[i]
		if !u.Trackable() || seen[u.Region] {
			continue
		}
		seen[u.Region] = true
		regions = append(regions, u.Region)
	}
	sort.Strings(regions)
	return regions, nil
}

// eligibleSubmissions одобренные публикации региона с извлекаемым твитом
// и неистекшим окном трекинга.
func (s *Service) eligibleSubmissions(ctx context.Context, region string) ([]models.Submission, error) {
	subs, err := s.store.Submissions(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var eligible []models.Submission
	for _, sub := range subs {
		if sub.Region != region || sub.Status != models.StatusApproved {
			continue
		}
		if _, id := scoring.ResolveTweetLink(&sub); id == "" {
			continue
		}
		if !now.Before(sub.TrackingDeadline()) {
			continue
		}
		eligible = append(eligible, sub)
	}
	return eligible, nil
}

// trackSubmission один шаг прогона: запрос метрик, пересчет оценки
// и эвристики накрутки.
func (s *Service) trackSubmission(ctx context.Context, sub *models.Submission, regionAvg float64) error {
	_, tweetID := scoring.ResolveTweetLink(sub)

	fetched, err := s.client.TweetMetrics(ctx, tweetID)
	if err != nil {
		return err
	}

	prev := sub.Metrics
	sub.Metrics = models.EngagementMetrics{
		Impressions: fetched.Impressions,
		Likes:       fetched.Likes,
		Comments:    fetched.Replies,
		Shares:      fetched.Retweets,
	}
	sub.LastTrackedAt = s.now()
	if sub.TrackingExpiresAt.IsZero() {
		sub.TrackingExpiresAt = sub.TrackingDeadline()
	}

	var followers int64
	if user, err := s.store.User(ctx, sub.UserID); err == nil {
		followers = user.FollowerCount
	}

	// Балл вовлеченности только растет: порог выше текущего поднимает
	// и его, и итог, порог ниже или равный оставляет рейтинг нетронутым.
	if sub.Rating != nil {
		newBucket := scoring.ComputeXEngagementScore(sub.Metrics.Impressions, followers)
		if newBucket > sub.Rating.EngagementScore {
			contentOnly := sub.Rating.TotalScore - sub.Rating.EngagementScore
			total := contentOnly + newBucket
			if total > models.MaxTotalScore {
				total = models.MaxTotalScore
			}
			sub.Rating.EngagementScore = newBucket
			sub.Rating.TotalScore = total
		}
	}

	flagged, reason := scoring.DetectAnomaly(scoring.AnomalyInput{
		Metrics:       sub.Metrics,
		Previous:      &prev,
		RegionAverage: regionAvg,
		FollowerCount: followers,
	})
	if flagged {
		sub.FlaggedForReview = true
		sub.FlaggedReason = reason
	}

	if err := s.store.UpdateSubmission(ctx, sub); err != nil {
		return err
	}

	if flagged {
		_ = s.bus.PublishJSON(events.EventSubmissionFlagged, events.SubmissionEventPayload{
			SubmissionID: sub.ID,
			UserID:       sub.UserID,
			Region:       sub.Region,
			Platform:     sub.Platform,
			Flagged:      true,
			Reason:       reason,
		})
	}

	payload := events.SubmissionEventPayload{
		SubmissionID: sub.ID,
		UserID:       sub.UserID,
		Region:       sub.Region,
		Platform:     sub.Platform,
	}
	if sub.Rating != nil {
		payload.TotalScore = sub.Rating.TotalScore
	}
	_ = s.bus.PublishJSON(events.EventSubmissionUpdated, payload)

	return nil
}

func (s *Service) logItemError(submissionID string, err error) {
	critical := twitter.IsAuthError(err) ||
		strings.Contains(err.Error(), "not configured")

	s.appendLog(models.TrackingLogEntry{
		SubmissionID: submissionID,
		Outcome:      models.LogOutcomeError,
		Message:      err.Error(),
		Critical:     critical,
	})
	metrics.AddItemErrors(1)

	s.logger.Error().Err(err).
		Str("submission_id", submissionID).
		Bool("critical", critical).
		Msg("submission tracking failed")
}

func (s *Service) recordRun(start time.Time, result models.RunResult) {
	duration := s.now().Sub(start)

	s.mu.Lock()
	s.state.lastRunAt = start
	s.state.lastReason = result.Reason
	s.state.lastRegion = result.Region
	s.state.lastProcessed = result.Processed
	s.state.lastErrors = result.Errors
	s.state.lastRemaining = result.Remaining
	s.state.lastDuration = duration
	s.mu.Unlock()

	metrics.AddProcessed(result.Processed)
	metrics.SetRunDuration(duration.Seconds())
}

func averageImpressions(subs []models.Submission) float64 {
	if len(subs) == 0 {
		return 0
	}
	var total int64
	for i := range subs {
		total += subs[i].Metrics.Impressions
	}
	return float64(total) / float64(len(subs))
}
