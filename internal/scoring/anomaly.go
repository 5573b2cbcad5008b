package scoring

import "ambassadord/internal/models"

// AnomalyInput входные данные эвристик накрутки.
type AnomalyInput struct {
	Metrics       models.EngagementMetrics
	Previous      *models.EngagementMetrics
	RegionAverage float64
	FollowerCount int64
}

const (
	regionSpikeFactor    = 5.0
	engagementRateCeil   = 1.5
	impressionJumpFactor = 4.0
)

// DetectAnomaly проверяет метрики публикации на подозрительные всплески.
// Правила применяются по порядку, срабатывает первое подошедшее.
func DetectAnomaly(in AnomalyInput) (flagged bool, reason string) {
	impressions := float64(in.Metrics.Impressions)

	if in.RegionAverage > 0 && impressions > regionSpikeFactor*in.RegionAverage {
		return true, "impressions exceed 5x regional average"
	}

	if in.FollowerCount > 0 {
		interactions := float64(in.Metrics.Likes + in.Metrics.Comments + in.Metrics.Shares)
		if interactions/float64(in.FollowerCount) > engagementRateCeil {
			return true, "engagement rate exceeds 1.5x follower count"
		}
	}

	if in.Previous != nil && in.Previous.Impressions > 0 &&
		impressions > impressionJumpFactor*float64(in.Previous.Impressions) {
		return true, "impressions grew more than 4x since last fetch"
	}

	return false, ""
}
