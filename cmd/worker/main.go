// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/solesync/solesync/internal/adapters/api"
	redis_a "github.com/solesync/solesync/internal/adapters/redis_adapter"
	"github.com/solesync/solesync/internal/adapters/storage"
	"github.com/solesync/solesync/internal/core/domain"
	"github.com/solesync/solesync/internal/core/services"
	"github.com/solesync/solesync/internal/pkg/config"
	"github.com/solesync/solesync/internal/pkg/logger"
	"github.com/solesync/solesync/internal/workers"
)

func main() {
	slogger := logger.SetupLogger("info", "json")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("starting sync worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("api_base_url", cfg.API.BaseURL),
		slog.String("redis_addr", cfg.Asynq.RedisAddr))

	ctx := context.Background()

	clientOpts := []api.Option{
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		api.WithRateLimit(cfg.API.RatePerSecond, cfg.API.RateBurst),
	}
	if cfg.API.CacheResponses {
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			PoolSize:     cfg.Redis.PoolSize,
		})
		cache := redis_a.NewCache(rdb, cfg.Redis.TTL, slogger)
		if err := cache.Ping(ctx); err != nil {
			slogger.Error("redis unavailable", slog.String("error", err.Error()))
			os.Exit(1)
		}
		clientOpts = append(clientOpts, api.WithPageCache(cache, cfg.Redis.TTL))
	}

	gateway := api.NewClient(cfg.API.BaseURL, slogger, clientOpts...)
	store := services.NewStore(gateway, domain.Role(cfg.App.Role), slogger)

	var uploads storage.ReportStore
	if cfg.Export.UploadS3 {
		s3Store, err := storage.NewS3Storage(ctx, &storage.S3Config{
			Region:          cfg.AWS.Region,
			Bucket:          cfg.AWS.S3Bucket,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Endpoint:        cfg.AWS.S3Endpoint,
			UsePathStyle:    cfg.AWS.UsePathStyle,
		}, slogger)
		if err != nil {
			slogger.Error("failed to initialize S3 storage", slog.String("error", err.Error()))
			os.Exit(1)
		}
		uploads = s3Store
	}

	redisConn := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}

	srv := asynq.NewServer(redisConn, asynq.Config{
		Concurrency:     cfg.Asynq.Concurrency,
		Queues:          cfg.Asynq.Queues,
		StrictPriority:  cfg.Asynq.StrictPriority,
		ErrorHandler:    asynq.ErrorHandlerFunc(handleError),
		RetryDelayFunc:  exponentialBackoff,
		ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
		Logger:          newAsynqLogger(slogger),
	})

	mux := asynq.NewServeMux()

	syncProcessor := workers.NewSyncProcessor(store, slogger)
	mux.HandleFunc(workers.TypeRefreshSnapshot, syncProcessor.RefreshSnapshot)

	reportProcessor := workers.NewReportProcessor(store, cfg.Export.OutputDir, uploads, slogger)
	mux.HandleFunc(workers.TypeGenerateReport, reportProcessor.GenerateReport)

	// Periodic snapshot refresh keeps the worker's analytics current without
	// a user gesture
	scheduler := asynq.NewScheduler(redisConn, &asynq.SchedulerOpts{
		Logger: newAsynqLogger(slogger),
	})
	if _, err := scheduler.Register(cfg.Asynq.RefreshSchedule, asynq.NewTask(workers.TypeRefreshSnapshot, nil)); err != nil {
		slogger.Error("failed to register refresh schedule", slog.String("error", err.Error()))
		os.Exit(1)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(mux); err != nil {
			slogger.Error("failed to run worker server", slog.String("error", err.Error()))
			shutdown <- syscall.SIGTERM
		}
	}()
	go func() {
		if err := scheduler.Run(); err != nil {
			slogger.Error("failed to run scheduler", slog.String("error", err.Error()))
			shutdown <- syscall.SIGTERM
		}
	}()

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.String("refresh_schedule", cfg.Asynq.RefreshSchedule),
		slog.Any("queues", cfg.Asynq.Queues))

	sig := <-shutdown
	slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

	scheduler.Shutdown()
	srv.Shutdown()
	slogger.Info("worker shutdown complete")
}

func handleError(ctx context.Context, task *asynq.Task, err error) {
	slog.ErrorContext(ctx, "task processing failed",
		slog.String("type", task.Type()),
		slog.String("error", err.Error()))
}

func exponentialBackoff(n int, e error, t *asynq.Task) time.Duration {
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(n))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{
		logger: logger.With(slog.String("component", "asynq")),
	}
}

func (l *asynqLogger) Debug(args ...interface{}) { l.logger.Debug(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...interface{})  { l.logger.Info(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...interface{})  { l.logger.Warn(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...interface{}) { l.logger.Error(fmt.Sprint(args...)) }
func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
