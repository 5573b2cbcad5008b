package scoring

import (
	"net/url"
	"regexp"
	"strings"

	"ambassadord/internal/models"
)

// platformAliases сводит пользовательские названия платформ к каноничным.
var platformAliases = map[string]string{
	"x":           models.PlatformTwitter,
	"x.com":       models.PlatformTwitter,
	"twitter.com": models.PlatformTwitter,
	"ig":          models.PlatformInstagram,
	"insta":       models.PlatformInstagram,
	"yt":          models.PlatformYouTube,
	"fb":          models.PlatformFacebook,
	"tg":          models.PlatformTelegram,
}

// allowedHosts фиксированный список хостов на платформу.
var allowedHosts = map[string][]string{
	models.PlatformTwitter:   {"twitter.com", "x.com"},
	models.PlatformTikTok:    {"tiktok.com", "vm.tiktok.com"},
	models.PlatformInstagram: {"instagram.com"},
	models.PlatformYouTube:   {"youtube.com", "youtu.be"},
	models.PlatformFacebook:  {"facebook.com", "fb.com"},
	models.PlatformTelegram:  {"t.me", "telegram.me"},
}

var (
	twitterStatusRe = regexp.MustCompile(`twitter\.com/[^/]+/status(?:es)?/(\d+)`)
	xStatusRe       = regexp.MustCompile(`x\.com/[^/]+/status(?:es)?/(\d+)`)
	digitRunRe      = regexp.MustCompile(`\d{8,}`)
)

// NormalizePlatform приводит название платформы к каноничному виду.
// Неизвестные значения возвращаются как есть (в нижнем регистре),
// пустое значение трактуется как twitter.
func NormalizePlatform(raw string) string {
	p := strings.ToLower(strings.TrimSpace(raw))
	if p == "" {
		return models.PlatformTwitter
	}
	if canon, ok := platformAliases[p]; ok {
		return canon
	}
	return p
}

// IsValidPlatformURL проверяет, что ссылка ведет на допустимый хост платформы.
// Голые домены дополняются схемой https; непарсящийся ввод отклоняется.
func IsValidPlatformURL(platform, raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	hosts, ok := allowedHosts[NormalizePlatform(platform)]
	if !ok {
		return false
	}
	for _, h := range hosts {
		if host == h {
			return true
		}
	}
	return false
}

// ExtractTweetID достает идентификатор твита из ссылки. Сначала пробуются
// канонические пути twitter.com и x.com, затем самая длинная серия из 8+
// цифр. Возвращает пустую строку, если ничего не найдено.
func ExtractTweetID(raw string) string {
	if m := twitterStatusRe.FindStringSubmatch(raw); len(m) == 2 {
		return m[1]
	}
	if m := xStatusRe.FindStringSubmatch(raw); len(m) == 2 {
		return m[1]
	}

	longest := ""
	for _, run := range digitRunRe.FindAllString(raw, -1) {
		if len(run) > len(longest) {
			longest = run
		}
	}
	return longest
}

// ParseMultiLinks разворачивает публикацию в список ссылок по платформам.
// Явный список ссылок имеет приоритет; при его отсутствии строится
// одноэлементный список из основной ссылки.
func ParseMultiLinks(platform, postURL string, platforms, links []string) []models.PlatformLink {
	var out []models.PlatformLink
	for i, link := range links {
		link = strings.TrimSpace(link)
		if link == "" {
			continue
		}
		p := ""
		if i < len(platforms) {
			p = platforms[i]
		}
		out = append(out, models.PlatformLink{Platform: NormalizePlatform(p), URL: link})
	}
	if len(out) > 0 {
		return out
	}

	postURL = strings.TrimSpace(postURL)
	if postURL == "" {
		return nil
	}
	return []models.PlatformLink{{Platform: NormalizePlatform(platform), URL: postURL}}
}

// ResolveTweetLink находит среди ссылок публикации твиттерную с извлекаемым
// идентификатором. Возвращает пустые строки, если публикация не трекается.
func ResolveTweetLink(sub *models.Submission) (link string, tweetID string) {
	if sub == nil {
		return "", ""
	}
	for _, l := range ParseMultiLinks(sub.Platform, sub.PostURL, sub.Platforms, sub.Links) {
		if l.Platform != models.PlatformTwitter {
			continue
		}
		if id := ExtractTweetID(l.URL); id != "" {
			return l.URL, id
		}
	}
	return "", ""
}
