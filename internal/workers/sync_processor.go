// internal/workers/sync_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/solesync/solesync/internal/core/services"
)

// Task type names
const (
	TypeRefreshSnapshot = "sync:refresh"
	TypeGenerateReport  = "report:generate"
)

// SyncProcessor refreshes the shared aggregated cache from the remote API
type SyncProcessor struct {
	store  *services.Store
	logger *slog.Logger
}

// NewSyncProcessor creates a new sync processor
func NewSyncProcessor(store *services.Store, logger *slog.Logger) *SyncProcessor {
	return &SyncProcessor{
		store:  store,
		logger: logger.With(slog.String("processor", "sync")),
	}
}

// RefreshSnapshot reloads every resource collection into the aggregated
// cache. Asynq retries the task on failure with backoff.
func (p *SyncProcessor) RefreshSnapshot(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "refreshing inventory snapshot")

	if err := p.store.LoadAll(ctx); err != nil {
		return fmt.Errorf("failed to refresh snapshot: %w", err)
	}

	snapshot := p.store.Snapshot()
	p.logger.InfoContext(ctx, "inventory snapshot refreshed",
		slog.Int("shoes", len(snapshot.Shoes)),
		slog.Int("total_stock", snapshot.TotalStock()),
		slog.Int("low_stock", snapshot.LowStockCount()))
	return nil
}
