package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.twitter.com/2"

	// bodyExcerptLimit сколько байт тела ошибки попадает в сообщение
	bodyExcerptLimit = 200
)

// ErrNotConfigured возвращается при отсутствии bearer-токена.
// Это штатное состояние, а не сбой: трекер запускается и без токена.
var ErrNotConfigured = errors.New("twitter api is not configured")

// APIError ошибка провайдера метрик с HTTP-статусом и фрагментом тела.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twitter api error: status %d: %s", e.Status, e.Body)
}

// IsAuthError сообщает, связана ли ошибка с учетными данными.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrNotConfigured) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
	}
	return false
}

// Metrics публичные счетчики одного твита.
type Metrics struct {
	Impressions int64
	Likes       int64
	Retweets    int64
	Replies     int64
}

type tweetResponse struct {
	Data struct {
		PublicMetrics struct {
			ImpressionCount int64 `json:"impression_count"`
			LikeCount       int64 `json:"like_count"`
			RetweetCount    int64 `json:"retweet_count"`
			ReplyCount      int64 `json:"reply_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}

// Client клиент метрик твитов. Не делает повторных попыток: политика
// ретраев принадлежит пакетному прогону.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zerolog.Logger
}

// NewClient создает клиент. Пустой токен допустим: все вызовы будут
// завершаться ErrNotConfigured до появления токена в окружении.
func NewClient(token string, logger *zerolog.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 3),
		logger:     logger,
	}
}

// Configured сообщает, задан ли bearer-токен.
func (c *Client) Configured() bool {
	return c != nil && c.token != ""
}

// TweetMetrics запрашивает публичные счетчики твита.
func (c *Client) TweetMetrics(ctx context.Context, tweetID string) (Metrics, error) {
	if !c.Configured() {
		return Metrics{}, ErrNotConfigured
	}
	if tweetID == "" {
		return Metrics{}, errors.New("tweet id is required")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Metrics{}, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s/tweets/%s?tweet.fields=public_metrics", c.baseURL, url.PathEscape(tweetID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Metrics{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Metrics{}, fmt.Errorf("fetch tweet %s: %w", tweetID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Metrics{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := string(body)
		if len(excerpt) > bodyExcerptLimit {
			excerpt = excerpt[:bodyExcerptLimit]
		}
		return Metrics{}, &APIError{Status: resp.StatusCode, Body: excerpt}
	}

	var parsed tweetResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Metrics{}, fmt.Errorf("decode response: %w", err)
	}

	pm := parsed.Data.PublicMetrics
	m := Metrics{
		Impressions: pm.ImpressionCount,
		Likes:       pm.LikeCount,
		Retweets:    pm.RetweetCount,
		Replies:     pm.ReplyCount,
	}

	if c.logger != nil {
		c.logger.Debug().Str("tweet_id", tweetID).Int64("impressions", m.Impressions).Msg("tweet metrics fetched")
	}
	return m, nil
}

// SetBaseURL переопределяет адрес API (используется в тестах).
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}
