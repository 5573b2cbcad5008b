package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"ambassadord/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Tracker    TrackerConfig    `yaml:"tracker"`
	Notify     NotifyConfig     `yaml:"notify"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	API        APIConfig        `yaml:"api"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// TrackerConfig настройки движка трекинга. Токен обычно подставляется из
// окружения через ${TWITTER_BEARER_TOKEN}; его отсутствие не ошибка
// конфигурации, трекер переходит в состояние "not configured".
type TrackerConfig struct {
	BearerToken        string `yaml:"bearer_token"`
	BatchSize          int    `yaml:"batch_size"`
	IntervalMinutes    int    `yaml:"interval_minutes"`
	FollowUpMinutes    int    `yaml:"follow_up_minutes"`
	RegionCooldownHrs  int    `yaml:"region_cooldown_hours"`
	LogRetentionHours  int    `yaml:"log_retention_hours"`
}

type NotifyConfig struct {
	TelegramToken string `yaml:"telegram_token"`
	AdminChatID   int64  `yaml:"admin_chat_id"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	Port      int                `yaml:"port"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

// APIAuthConfig настройки авторизации HTTP API. Enabled трехзначный:
// nil в YAML означает "по умолчанию", то есть включено при включенном API;
// явный false открывает API без ключей.
type APIAuthConfig struct {
	Enabled      *bool          `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

// IsEnabled сообщает, включена ли авторизация после применения умолчаний.
func (a APIAuthConfig) IsEnabled() bool {
	return a.Enabled != nil && *a.Enabled
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env не обязателен: в продакшене переменные приходят из окружения
	if _, statErr := os.Stat(".env"); statErr == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.Tracker.BatchSize < 0 {
		return errors.New("tracker batch_size must be non-negative")
	}

	if c.API.Enabled && c.API.Auth.IsEnabled() && len(c.API.Auth.APIKeys) == 0 {
		return errors.New("api auth is enabled but no api keys are configured")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "ambassadord"
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	// auth enabled by default when API is enabled; explicit false wins
	if c.API.Enabled && c.API.Auth.Enabled == nil {
		enabled := true
		c.API.Auth.Enabled = &enabled
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}

	if c.Tracker.BatchSize == 0 {
		c.Tracker.BatchSize = models.TrackingBatchSize
	}
	if c.Tracker.IntervalMinutes == 0 {
		c.Tracker.IntervalMinutes = int(models.HourlyInterval / time.Minute)
	}
	if c.Tracker.FollowUpMinutes == 0 {
		c.Tracker.FollowUpMinutes = int(models.FollowUpDelay / time.Minute)
	}
	if c.Tracker.RegionCooldownHrs == 0 {
		c.Tracker.RegionCooldownHrs = int(models.RegionCooldown / time.Hour)
	}
	if c.Tracker.LogRetentionHours == 0 {
		c.Tracker.LogRetentionHours = int(models.LogRetention / time.Hour)
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}

// Interval интервал планировщика.
func (c *TrackerConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// FollowUpDelay задержка повторного прогона.
func (c *TrackerConfig) FollowUpDelay() time.Duration {
	return time.Duration(c.FollowUpMinutes) * time.Minute
}

// RegionCooldown минимальный интервал между прогонами одного региона.
func (c *TrackerConfig) RegionCooldown() time.Duration {
	return time.Duration(c.RegionCooldownHrs) * time.Hour
}

// LogRetention срок хранения некритичных записей журнала.
func (c *TrackerConfig) LogRetention() time.Duration {
	return time.Duration(c.LogRetentionHours) * time.Hour
}
