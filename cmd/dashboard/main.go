// cmd/dashboard/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/solesync/solesync/internal/adapters/api"
	redis_a "github.com/solesync/solesync/internal/adapters/redis_adapter"
	"github.com/solesync/solesync/internal/core/domain"
	"github.com/solesync/solesync/internal/core/services"
	"github.com/solesync/solesync/internal/export"
	"github.com/solesync/solesync/internal/pkg/config"
	"github.com/solesync/solesync/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	writeReport := flag.Bool("report", false, "write an xlsx report after loading")
	flag.Parse()

	slogger := logger.SetupLogger("info", "json")
	slogger.Info("starting inventory dashboard",
		slog.String("version", Version),
		slog.String("build_time", BuildTime))

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := buildStore(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to build store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := store.LoadAll(ctx); err != nil {
		slogger.Error("failed to load inventory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	data := store.Snapshot()
	printSummary(data)

	if *writeReport {
		now := time.Now()
		workbook, err := export.GenerateWorkbook(data, now)
		if err != nil {
			slogger.Error("failed to generate report", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := os.MkdirAll(cfg.Export.OutputDir, 0o755); err != nil {
			slogger.Error("failed to create report directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
		path := filepath.Join(cfg.Export.OutputDir, export.Filename(now))
		if err := os.WriteFile(path, workbook, 0o644); err != nil {
			slogger.Error("failed to write report", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Printf("\nreport written to %s\n", path)
	}
}

func buildStore(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (*services.Store, error) {
	opts := []api.Option{
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
			return nil, fmt.Errorf("redis unavailable: %w", err)
		}
		opts = append(opts, api.WithPageCache(cache, cfg.Redis.TTL))
	}

	gateway := api.NewClient(cfg.API.BaseURL, slogger, opts...)
	return services.NewStore(gateway, domain.Role(cfg.App.Role), slogger), nil
}

func printSummary(data domain.Dataset) {
	fmt.Printf("total stock:     %d\n", data.TotalStock())
	fmt.Printf("total value:     %s\n", data.TotalValue().StringFixed(2))
	fmt.Printf("low stock items: %d\n", data.LowStockCount())
	fmt.Printf("suppliers:       %d\n", data.TotalSources())

	fmt.Println("\nstock by brand:")
	for _, bucket := range data.BrandStockSeries() {
		fmt.Printf("  %-20s %d\n", bucket.Name, bucket.Value)
	}

	series := data.TransactionTimeSeries(time.Now())
	fmt.Println("\nlast 7 days:")
	for i, day := range series.Days {
		fmt.Printf("  %s %+d\n", day, series.Totals[i])
	}

	fmt.Println("\nrecent transactions:")
	for _, tx := range data.RecentTransactions() {
		fmt.Printf("  #%-5d shoe %-5d %-10s qty %-4d %s\n",
			tx.TransactionID, tx.ShoeID, tx.TransactionType, tx.Quantity,
			tx.Date.Format("2006-01-02 15:04"))
	}
}
