// internal/workers/report_processor.go
package workers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"github.com/solesync/solesync/internal/adapters/storage"
	"github.com/solesync/solesync/internal/core/services"
	"github.com/solesync/solesync/internal/export"
)

// ReportProcessor generates inventory report workbooks from the shared
// store's snapshot
type ReportProcessor struct {
	store     *services.Store
	outputDir string
	uploads   storage.ReportStore // nil disables uploading
	logger    *slog.Logger
}

// NewReportProcessor creates a new report processor
func NewReportProcessor(store *services.Store, outputDir string, uploads storage.ReportStore, logger *slog.Logger) *ReportProcessor {
	return &ReportProcessor{
		store:     store,
		outputDir: outputDir,
		uploads:   uploads,
		logger:    logger.With(slog.String("processor", "report")),
	}
}

// GenerateReport writes the workbook to the output directory and, when an
// upload store is configured, pushes it there as well
func (p *ReportProcessor) GenerateReport(ctx context.Context, t *asynq.Task) error {
	now := time.Now()
	snapshot := p.store.Snapshot()

	data, err := export.GenerateWorkbook(snapshot, now)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	filename := export.Filename(now)
	path := filepath.Join(p.outputDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	p.logger.InfoContext(ctx, "report generated",
		slog.String("path", path),
		slog.Int("bytes", len(data)))

	if p.uploads != nil {
		location, err := p.uploads.Upload(ctx, filename, bytes.NewReader(data),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err != nil {
			return fmt.Errorf("failed to upload report: %w", err)
		}
		p.logger.InfoContext(ctx, "report uploaded", slog.String("location", location))
	}

	return nil
}
