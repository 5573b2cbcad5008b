package models

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	UserStatusActive  = "active"
	UserStatusBanned  = "banned"
	UserStatusDormant = "dormant"
)

const (
	PlatformTwitter   = "twitter"
	PlatformTikTok    = "tiktok"
	PlatformInstagram = "instagram"
	PlatformYouTube   = "youtube"
	PlatformFacebook  = "facebook"
	PlatformTelegram  = "telegram"
)

const (
	// TrackingBatchSize максимальное число публикаций за один прогон
	TrackingBatchSize = 20

	// TrackingWindow окно трекинга после одобрения публикации
	TrackingWindow = 7 * 24 * time.Hour

	// RegionCooldown минимальный интервал между прогонами одного региона
	RegionCooldown = 24 * time.Hour

	// HourlyInterval интервал планировщика
	HourlyInterval = time.Hour

	// FollowUpDelay задержка повторного прогона при остатке
	FollowUpDelay = 30 * time.Minute

	// LogRetention срок хранения некритичных записей журнала
	LogRetention = 48 * time.Hour

	// LogMaxEntries жесткий потолок журнала; сверх него первыми
	// вытесняются самые старые некритичные записи
	LogMaxEntries = 500

	// MaxEngagementScore верхняя граница балла вовлечённости
	MaxEngagementScore = 20.0

	// MaxTotalScore верхняя граница итогового рейтинга
	MaxTotalScore = 100.0
)

const (
	LogOutcomeUpdated = "updated"
	LogOutcomeError   = "error"
)

const (
	RunReasonStartup  = "startup"
	RunReasonHourly   = "hourly-region"
	RunReasonFollowUp = "follow-up"
	RunReasonManual   = "manual"
)

const (
	CollectionSubmissions = "submissions"
	CollectionUsers       = "users"
)
