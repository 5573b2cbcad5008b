package tracker

import (
	"context"
	"time"

	"ambassadord/internal/models"
)

// StartScheduler запускает часовой цикл трекинга: один немедленный прогон
// при старте процесса, затем тики с фиксированным интервалом. Повторный
// вызов не дает второго таймера.
func (s *Service) StartScheduler(ctx context.Context) {
	s.mu.Lock()
	if s.armed {
		s.mu.Unlock()
		s.logger.Warn().Msg("scheduler already armed")
		return
	}
	s.armed = true
	s.baseCtx = ctx
	s.mu.Unlock()

	go func() {
		interval := s.cfg.Interval()

		s.RunBatch(ctx, models.RunReasonStartup, "")
		s.setNextScheduled(s.now().Add(interval))

		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				s.cancelFollowUp()
				return
			case <-timer.C:
				// Ошибки прогона не прерывают цикл: канал ошибок - статус
				s.RunBatch(ctx, models.RunReasonHourly, "")
				timer.Reset(interval)
				s.setNextScheduled(s.now().Add(interval))
			}
		}
	}()
}

// scheduleFollowUp ставит один отложенный прогон того же региона,
// заменяя ранее запланированный: висит не больше одного таймера.
// Прогон привязан к baseCtx сервиса, а не к контексту вызова: контекст
// ручного запуска гаснет задолго до срабатывания таймера.
func (s *Service) scheduleFollowUp(region string) {
	delay := s.cfg.FollowUpDelay()

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.baseCtx

	if s.followUp != nil {
		s.followUp.Stop()
	}

	s.followUp = time.AfterFunc(delay, func() {
		s.mu.Lock()
		s.followUp = nil
		s.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		s.RunBatch(ctx, models.RunReasonFollowUp, region)
	})

	s.logger.Info().Str("region", region).Dur("delay", delay).Msg("follow-up run scheduled")
}

func (s *Service) cancelFollowUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.followUp != nil {
		s.followUp.Stop()
		s.followUp = nil
	}
}

func (s *Service) setNextScheduled(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.nextScheduledRunAt = at
}
