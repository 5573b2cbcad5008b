package scoring

import (
	"testing"

	"ambassadord/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeXEngagementScore(t *testing.T) {
	t.Run("AbsoluteThresholds", func(t *testing.T) {
		assert.Equal(t, 0.0, ComputeXEngagementScore(0, 0))
		assert.Equal(t, 0.0, ComputeXEngagementScore(499, 0))
		assert.Equal(t, 5.0, ComputeXEngagementScore(500, 0))
		assert.Equal(t, 5.0, ComputeXEngagementScore(1500, 0))
		assert.Equal(t, 10.0, ComputeXEngagementScore(1501, 0))
		assert.Equal(t, 10.0, ComputeXEngagementScore(5000, 0))
		assert.Equal(t, 15.0, ComputeXEngagementScore(10000, 0))
		assert.Equal(t, 20.0, ComputeXEngagementScore(10001, 0))
	})

	t.Run("FollowerRatio", func(t *testing.T) {
		// 100 показов на 1000 подписчиков: ratio 0.1
		assert.Equal(t, 0.0, ComputeXEngagementScore(100, 1000))
		assert.Equal(t, 5.0, ComputeXEngagementScore(400, 1000))
		assert.Equal(t, 10.0, ComputeXEngagementScore(1500, 1000))
		assert.Equal(t, 15.0, ComputeXEngagementScore(3000, 1000))
		assert.Equal(t, 20.0, ComputeXEngagementScore(3001, 1000))
	})

	t.Run("BucketDomainAndMonotonicity", func(t *testing.T) {
		valid := map[float64]bool{0: true, 5: true, 10: true, 15: true, 20: true}
		prev := 0.0
		for imp := int64(0); imp <= 20000; imp += 250 {
			got := ComputeXEngagementScore(imp, 0)
			assert.True(t, valid[got], "unexpected bucket %v", got)
			assert.GreaterOrEqual(t, got, prev)
			prev = got
		}

		prev = 0.0
		for imp := int64(0); imp <= 10000; imp += 100 {
			got := ComputeXEngagementScore(imp, 2500)
			assert.True(t, valid[got], "unexpected bucket %v", got)
			assert.GreaterOrEqual(t, got, prev)
			prev = got
		}
	})
}

func TestComputeEngagementScore(t *testing.T) {
	sub := &models.Submission{
		Platform: "x",
		PostURL:  "https://x.com/u/status/12345678",
		Metrics:  models.EngagementMetrics{Impressions: 100, Likes: 5, Comments: 2, Shares: 1},
	}

	// 100*0.02 + 5*1.2 + 2*1.6 + 1*1.5 = 12.7 при весе twitter 1.0
	got := ComputeEngagementScore(sub)
	assert.InDelta(t, 12.7, got, 0.001)

	// Чистая функция: повторный вызов дает тот же результат
	assert.Equal(t, got, ComputeEngagementScore(sub))

	t.Run("ClampedToTwenty", func(t *testing.T) {
		big := &models.Submission{
			Platform: "twitter",
			PostURL:  "https://x.com/u/status/12345678",
			Metrics:  models.EngagementMetrics{Impressions: 100000, Likes: 500},
		}
		assert.Equal(t, 20.0, ComputeEngagementScore(big))
	})

	t.Run("NilSubmission", func(t *testing.T) {
		assert.Equal(t, 0.0, ComputeEngagementScore(nil))
	})
}

func TestPickBestEngagementPlatform(t *testing.T) {
	sub := &models.Submission{
		Platform:  "telegram",
		PostURL:   "https://t.me/c/1",
		Platforms: []string{"tg", "x"},
		Links:     []string{"https://t.me/c/1", "https://x.com/u/status/12345678"},
		Metrics:   models.EngagementMetrics{Likes: 10},
	}

	platform, score := PickBestEngagementPlatform(sub)
	assert.Equal(t, "twitter", platform)
	// twitter выигрывает за счет веса 1.0 против 0.7 у telegram
	assert.InDelta(t, 12.0, score, 0.001)
}

func TestPlatformWeight(t *testing.T) {
	assert.Equal(t, 1.0, PlatformWeight("x"))
	assert.Equal(t, 0.95, PlatformWeight("tiktok"))
	assert.Equal(t, 0.7, PlatformWeight("telegram"))
	assert.Equal(t, 0.8, PlatformWeight("mastodon"))
}

func TestScoreBuckets(t *testing.T) {
	buckets := ScoreBuckets([]float64{0, 10, 25, 55, 72, 80, 100, -5})
	assert.Equal(t, [5]int{3, 1, 1, 1, 2}, buckets)
	assert.Equal(t, [5]int{}, ScoreBuckets(nil))
}
