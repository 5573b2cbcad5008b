package scoring

import (
	"math"

	"ambassadord/internal/models"
)

// Весовые коэффициенты охвата по платформам. Неизвестная платформа
// получает пониженный вес, чтобы не поощрять непроверяемые ссылки.
var platformWeights = map[string]float64{
	models.PlatformTwitter:   1.0,
	models.PlatformTikTok:    0.95,
	models.PlatformInstagram: 0.9,
	models.PlatformYouTube:   0.85,
	models.PlatformFacebook:  0.75,
	models.PlatformTelegram:  0.7,
}

const unknownPlatformWeight = 0.8

// PlatformWeight возвращает вес платформы для расчета вовлеченности.
func PlatformWeight(platform string) float64 {
	if w, ok := platformWeights[NormalizePlatform(platform)]; ok {
		return w
	}
	return unknownPlatformWeight
}

// rawEngagement базовая взвешенная сумма счетчиков публикации.
func rawEngagement(m models.EngagementMetrics) float64 {
	return float64(m.Impressions)*0.02 +
		float64(m.Likes)*1.2 +
		float64(m.Comments)*1.6 +
		float64(m.Shares)*1.5
}

// PickBestEngagementPlatform выбирает ссылку с максимальным взвешенным
// баллом вовлеченности среди всех ссылок публикации.
func PickBestEngagementPlatform(sub *models.Submission) (platform string, score float64) {
	if sub == nil {
		return models.PlatformTwitter, 0
	}

	base := rawEngagement(sub.Metrics)
	links := ParseMultiLinks(sub.Platform, sub.PostURL, sub.Platforms, sub.Links)
	if len(links) == 0 {
		return NormalizePlatform(sub.Platform), base * PlatformWeight(sub.Platform)
	}

	platform = links[0].Platform
	score = base * PlatformWeight(links[0].Platform)
	for _, l := range links[1:] {
		if s := base * PlatformWeight(l.Platform); s > score {
			platform, score = l.Platform, s
		}
	}
	return platform, score
}

// ComputeEngagementScore балл вовлеченности публикации: лучший взвешенный
// балл, ограниченный диапазоном [0, 20] и округленный до сотых.
func ComputeEngagementScore(sub *models.Submission) float64 {
	_, score := PickBestEngagementPlatform(sub)
	if score < 0 {
		score = 0
	}
	if score > models.MaxEngagementScore {
		score = models.MaxEngagementScore
	}
	return math.Round(score*100) / 100
}

// ComputeXEngagementScore дискретный балл {0,5,10,15,20} по показам твита.
// При известном числе подписчиков используется отношение показов к аудитории,
// иначе абсолютные пороги.
func ComputeXEngagementScore(impressions, followers int64) float64 {
	if impressions <= 0 {
		return 0
	}

	if followers > 0 {
		ratio := float64(impressions) / float64(followers)
		switch {
		case ratio < 0.2:
			return 0
		case ratio <= 0.5:
			return 5
		case ratio <= 1.5:
			return 10
		case ratio <= 3.0:
			return 15
		default:
			return 20
		}
	}

	switch {
	case impressions < 500:
		return 0
	case impressions <= 1500:
		return 5
	case impressions <= 5000:
		return 10
	case impressions <= 10000:
		return 15
	default:
		return 20
	}
}

// ScoreBuckets раскладывает рейтинги 0-100 по пяти фиксированным корзинам
// для отчетности: 0-19, 20-39, 40-59, 60-79, 80-100.
func ScoreBuckets(scores []float64) [5]int {
	var buckets [5]int
	for _, s := range scores {
		if s < 0 {
			s = 0
		}
		idx := int(s / 20)
		if idx > 4 {
			idx = 4
		}
		buckets[idx]++
	}
	return buckets
}
