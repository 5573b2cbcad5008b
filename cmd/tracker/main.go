package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"ambassadord/internal/api"
	"ambassadord/internal/config"
	"ambassadord/internal/events"
	"ambassadord/internal/logging"
	"ambassadord/internal/metrics"
	"ambassadord/internal/notify"
	"ambassadord/internal/repository"
	"ambassadord/internal/service"
	"ambassadord/internal/store"
	"ambassadord/internal/tracker"
	"ambassadord/internal/twitter"
	"ambassadord/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, loadErr := loadConfigAndLogger()
	if loadErr != nil {
		return loadErr
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	metrics.Register()

	st, err := store.New(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка инициализации базы данных")
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, runRecords := initRunRecords(ctx, cfg, &logger)

	notifier := initNotifier(cfg, &logger)
	notifyWorker := worker.NewNotifyWorker(st, notifier, redisClient, worker.RetryPolicy{}, &logger)
	go notifyWorker.Start(ctx)

	eventBus := events.NewEventBus()
	subscribeTrackingEvents(ctx, eventBus, notifyWorker, &logger)

	leaderboard := service.NewLeaderboardService(st, &logger)
	exports := service.NewExportService(leaderboard, cfg.Exports.Path)
	twitterClient := twitter.NewClient(cfg.Tracker.BearerToken, &logger)

	trackerService := tracker.New(cfg.Tracker, st, twitterClient, runRecords, leaderboard, eventBus, &logger)
	trackerService.StartScheduler(ctx)

	if cfg.Monitoring.PrometheusEnabled {
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	if cfg.API.Enabled {
		apiServer := api.NewHTTPServer(cfg.API, trackerService, leaderboard, exports, &logger)
		go func() {
			if err := apiServer.Start(); err != nil {
				logger.Error().Err(err).Msg("API server error")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = apiServer.Shutdown(shutdownCtx)
		}()
	}

	logger.Info().Msg("Трекер запущен...")
	<-ctx.Done()

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	logger := baseLogger.With().Str("component", "tracker-main").Logger()

	return cfg, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg == nil {
		return os.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для базы данных")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для экспорта")
		return err
	}
	return nil
}

func initRunRecords(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *repository.FailoverRunRecordRepository) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if errPing := repository.Ping(ctx, redisClient); errPing != nil {
			logger.Warn().Err(errPing).Msg("Redis unavailable")
		}
	}

	primary := repository.NewRedisRunRecordRepository(redisClient)
	fallback := repository.NewMemoryRunRecordRepository()
	return redisClient, repository.NewFailoverRunRecordRepository(primary, fallback, logger)
}

func initNotifier(cfg *config.Config, logger *zerolog.Logger) *notify.TelegramNotifier {
	notifier, err := notify.NewTelegramNotifier(cfg.Notify.TelegramToken, cfg.Notify.AdminChatID, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Оповещения в Telegram недоступны")
		notifier, _ = notify.NewTelegramNotifier("", 0, logger)
	}
	if !notifier.Enabled() {
		logger.Info().Msg("Оповещения в Telegram не настроены")
	}
	return notifier
}

func subscribeTrackingEvents(
	ctx context.Context,
	bus *events.EventBus,
	notifyWorker *worker.NotifyWorker,
	logger *zerolog.Logger,
) {
	if bus == nil || notifyWorker == nil {
		return
	}

	bus.Subscribe(events.EventSubmissionFlagged, func(ev *events.Event) error {
		var payload events.SubmissionEventPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}

		task := worker.AlertTask{
			SubmissionID: payload.SubmissionID,
			Reason:       payload.Reason,
			CreatedAt:    time.Now(),
		}
		if err := notifyWorker.Enqueue(ctx, task); err != nil {
			logger.Error().Err(err).Str("submission_id", payload.SubmissionID).Msg("event bus: enqueue alert")
		}
		return nil
	})

	bus.Subscribe(events.EventRunCompleted, func(ev *events.Event) error {
		var payload events.RunEventPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			return nil
		}
		logger.Info().
			Str("reason", payload.Reason).
			Str("region", payload.Region).
			Int("processed", payload.Processed).
			Int("errors", payload.Errors).
			Int("remaining", payload.Remaining).
			Msg("Прогон завершен")
		return nil
	})
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
