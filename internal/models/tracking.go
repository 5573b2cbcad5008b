package models

import "time"

// TrackingLogEntry запись журнала об обработке одной публикации.
// Критичные записи (проблемы с учетными данными) не вытесняются по времени.
type TrackingLogEntry struct {
	ID           string    `json:"id"`
	Time         time.Time `json:"time"`
	SubmissionID string    `json:"submission_id,omitempty"`
	Outcome      string    `json:"outcome"`
	Message      string    `json:"message"`
	Critical     bool      `json:"critical"`
}

// RunResult итог одного вызова пакетного прогона.
type RunResult struct {
	Reason    string `json:"reason"`
	Region    string `json:"region"`
	Processed int    `json:"processed"`
	Errors    int    `json:"errors"`
	Remaining int    `json:"remaining"`
}

// StatusSnapshot копия состояния трекера для операторов.
type StatusSnapshot struct {
	Configured         bool                 `json:"configured"`
	Running            bool                 `json:"running"`
	LastRunAt          time.Time            `json:"last_run_at,omitzero"`
	LastReason         string               `json:"last_reason,omitempty"`
	LastRegion         string               `json:"last_region,omitempty"`
	LastProcessed      int                  `json:"last_processed"`
	LastErrors         int                  `json:"last_errors"`
	LastRemaining      int                  `json:"last_remaining"`
	LastDurationMs     int64                `json:"last_duration_ms"`
	NextScheduledRunAt time.Time            `json:"next_scheduled_run_at,omitzero"`
	RegionLastRunAt    map[string]time.Time `json:"region_last_run_at"`
	Regions            []string             `json:"regions"`
	Logs               []TrackingLogEntry   `json:"logs"`
}
