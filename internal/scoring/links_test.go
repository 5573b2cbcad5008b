package scoring

import (
	"testing"

	"ambassadord/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlatform(t *testing.T) {
	assert.Equal(t, "twitter", NormalizePlatform("x"))
	assert.Equal(t, "twitter", NormalizePlatform("X"))
	assert.Equal(t, "twitter", NormalizePlatform(""))
	assert.Equal(t, "twitter", NormalizePlatform("  Twitter "))
	assert.Equal(t, "instagram", NormalizePlatform("ig"))
	assert.Equal(t, "youtube", NormalizePlatform("YT"))
	// Неизвестные значения проходят без изменений
	assert.Equal(t, "mastodon", NormalizePlatform("Mastodon"))
}

func TestIsValidPlatformURL(t *testing.T) {
	t.Run("ValidHosts", func(t *testing.T) {
		assert.True(t, IsValidPlatformURL("twitter", "https://twitter.com/u/status/1"))
		assert.True(t, IsValidPlatformURL("twitter", "https://x.com/u/status/1"))
		assert.True(t, IsValidPlatformURL("x", "https://www.x.com/u/status/1"))
		assert.True(t, IsValidPlatformURL("youtube", "https://youtu.be/abc"))
		assert.True(t, IsValidPlatformURL("telegram", "https://t.me/channel/42"))
	})

	t.Run("BareDomain", func(t *testing.T) {
		assert.True(t, IsValidPlatformURL("twitter", "twitter.com/u/status/1"))
		assert.True(t, IsValidPlatformURL("instagram", "www.instagram.com/p/abc"))
	})

	t.Run("Invalid", func(t *testing.T) {
		assert.False(t, IsValidPlatformURL("twitter", ""))
		assert.False(t, IsValidPlatformURL("twitter", "https://example.com/u/status/1"))
		assert.False(t, IsValidPlatformURL("twitter", "://not a url"))
		assert.False(t, IsValidPlatformURL("mastodon", "https://mastodon.social/@u"))
	})
}

func TestExtractTweetID(t *testing.T) {
	assert.Equal(t, "12345678", ExtractTweetID("https://x.com/u/status/12345678"))
	assert.Equal(t, "98765432", ExtractTweetID("https://twitter.com/someone/status/98765432?s=20"))
	assert.Equal(t, "11112222", ExtractTweetID("https://twitter.com/u/statuses/11112222"))
	// Фолбэк на самую длинную серию цифр
	assert.Equal(t, "123456789012", ExtractTweetID("post id 123456789012 shared"))
	assert.Equal(t, "", ExtractTweetID("not a tweet"))
	assert.Equal(t, "", ExtractTweetID("short 1234567 digits"))
}

func TestParseMultiLinks(t *testing.T) {
	t.Run("ExplicitLinksPreferred", func(t *testing.T) {
		links := ParseMultiLinks("twitter", "https://x.com/u/status/1",
			[]string{"x", "ig"},
			[]string{"https://x.com/u/status/2", "https://instagram.com/p/abc"})
		assert.Len(t, links, 2)
		assert.Equal(t, "twitter", links[0].Platform)
		assert.Equal(t, "instagram", links[1].Platform)
	})

	t.Run("EmptyURLsDropped", func(t *testing.T) {
		links := ParseMultiLinks("twitter", "https://x.com/u/status/1",
			[]string{"x", "ig"}, []string{"", "https://instagram.com/p/abc"})
		assert.Len(t, links, 1)
		assert.Equal(t, "instagram", links[0].Platform)
	})

	t.Run("FallbackToPostURL", func(t *testing.T) {
		links := ParseMultiLinks("x", "https://x.com/u/status/1", nil, nil)
		assert.Len(t, links, 1)
		assert.Equal(t, "twitter", links[0].Platform)
		assert.Equal(t, "https://x.com/u/status/1", links[0].URL)
	})

	t.Run("NothingUsable", func(t *testing.T) {
		assert.Empty(t, ParseMultiLinks("twitter", "", nil, nil))
	})
}

func TestResolveTweetLink(t *testing.T) {
	sub := &models.Submission{
		Platform: "x",
		PostURL:  "https://x.com/u/status/12345678",
	}
	link, id := ResolveTweetLink(sub)
	assert.Equal(t, "https://x.com/u/status/12345678", link)
	assert.Equal(t, "12345678", id)

	_, id = ResolveTweetLink(&models.Submission{Platform: "instagram", PostURL: "https://instagram.com/p/abc"})
	assert.Equal(t, "", id)

	_, id = ResolveTweetLink(nil)
	assert.Equal(t, "", id)
}
