package models

import "time"

// EngagementMetrics публичные счетчики вовлеченности публикации
type EngagementMetrics struct {
	Impressions int64 `json:"impressions"`
	Likes       int64 `json:"likes"`
	Comments    int64 `json:"comments"`
	Shares      int64 `json:"shares"`
}

// Rating оценка публикации: контентная часть выставляется модератором,
// EngagementScore пересчитывается трекером.
type Rating struct {
	ContentScore    float64 `json:"content_score"`
	CreativityScore float64 `json:"creativity_score"`
	EngagementScore float64 `json:"engagement_score"`
	TotalScore      float64 `json:"total_score"`
}

// PlatformLink одна ссылка публикации на конкретной платформе
type PlatformLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type Submission struct {
	ID                string            `json:"id"`
	UserID            string            `json:"user_id"`
	Region            string            `json:"region"`
	Platform          string            `json:"platform"`
	PostURL           string            `json:"post_url"`
	Platforms         []string          `json:"platforms,omitempty"`
	Links             []string          `json:"links,omitempty"`
	Status            string            `json:"status"`
	Metrics           EngagementMetrics `json:"metrics"`
	Rating            *Rating           `json:"rating,omitempty"`
	SubmittedAt       time.Time         `json:"submitted_at"`
	ReviewedAt        time.Time         `json:"reviewed_at,omitzero"`
	TrackingExpiresAt time.Time         `json:"tracking_expires_at,omitzero"`
	LastTrackedAt     time.Time         `json:"last_tracked_at,omitzero"`
	FlaggedForReview  bool              `json:"flagged_for_review"`
	FlaggedReason     string            `json:"flagged_reason,omitempty"`
}

// TrackingDeadline возвращает момент окончания окна трекинга. Если дедлайн
// не задан явно, окно отсчитывается от времени ревью, а для публикаций,
// одобренных до ввода поля ReviewedAt, от времени подачи.
func (s *Submission) TrackingDeadline() time.Time {
	if !s.TrackingExpiresAt.IsZero() {
		return s.TrackingExpiresAt
	}
	base := s.ReviewedAt
	if base.IsZero() {
		base = s.SubmittedAt
	}
	return base.Add(TrackingWindow)
}
