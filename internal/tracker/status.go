package tracker

import (
	"context"
	"time"

	"ambassadord/internal/models"

	"github.com/google/uuid"
)

// runState поля статуса, изменяемые только прогоном, держащим guard.
type runState struct {
	lastRunAt          time.Time
	lastReason         string
	lastRegion         string
	lastProcessed      int
	lastErrors         int
	lastRemaining      int
	lastDuration       time.Duration
	nextScheduledRunAt time.Time
	regions            []string
	logs               []models.TrackingLogEntry
}

func (s *Service) appendLog(entry models.TrackingLogEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Time.IsZero() {
		entry.Time = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.logs = append(s.state.logs, entry)
	s.capLogs()
}

// capLogs ограничивает журнал жестким потолком. Сначала вытесняются
// самые старые некритичные записи; если потолок превышен одними
// критичными, режутся и они, тоже начиная с самых старых.
func (s *Service) capLogs() {
	over := len(s.state.logs) - models.LogMaxEntries
	if over <= 0 {
		return
	}

	kept := make([]models.TrackingLogEntry, 0, models.LogMaxEntries)
	for _, e := range s.state.logs {
		if over > 0 && !e.Critical {
			over--
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) > models.LogMaxEntries {
		kept = kept[len(kept)-models.LogMaxEntries:]
	}
	s.state.logs = kept
}

// pruneLogs удаляет некритичные записи старше срока хранения.
// Критичные записи живут до перезапуска процесса.
func (s *Service) pruneLogs() {
	cutoff := s.now().Add(-s.cfg.LogRetention())

	kept := s.state.logs[:0]
	for _, e := range s.state.logs {
		if e.Critical || e.Time.After(cutoff) {
			kept = append(kept, e)
		}
	}
	s.state.logs = kept
}

// Status возвращает копию состояния трекера. Флаги configured и running
// вычисляются на момент чтения, остальное мутирует только активный прогон.
func (s *Service) Status() models.StatusSnapshot {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	regionRuns, err := s.runRecords.AllLastRuns(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("status: load region run records")
		regionRuns = map[string]time.Time{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLogs()

	snapshot := models.StatusSnapshot{
		Configured:         s.client.Configured(),
		Running:            s.running.Load(),
		LastRunAt:          s.state.lastRunAt,
		LastReason:         s.state.lastReason,
		LastRegion:         s.state.lastRegion,
		LastProcessed:      s.state.lastProcessed,
		LastErrors:         s.state.lastErrors,
		LastRemaining:      s.state.lastRemaining,
		LastDurationMs:     s.state.lastDuration.Milliseconds(),
		NextScheduledRunAt: s.state.nextScheduledRunAt,
		RegionLastRunAt:    regionRuns,
		Regions:            append([]string(nil), s.state.regions...),
		Logs:               append([]models.TrackingLogEntry(nil), s.state.logs...),
	}
	return snapshot
}
