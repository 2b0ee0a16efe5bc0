package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const confirmMessage = "import completed successfully"

// Source fetches raw upstream records.
type Source interface {
	Fetch(ctx context.Context, rawURL string) (Payload, error)
}

// Service orchestrates the preview and confirm steps of an import.
type Service struct {
	source    Source
	catalog   CatalogReader
	committer *Committer
	metrics   *Metrics
	logger    *slog.Logger
}

// NewService constructs a Service. metrics and logger may be nil.
func NewService(source Source, catalog CatalogReader, committer *Committer, metrics *Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, catalog: catalog, committer: committer, metrics: metrics, logger: logger}
}

// Preview fetches the source and diffs it against the current catalog
// without mutating anything.
func (s *Service) Preview(ctx context.Context, source string) (Preview, error) {
	start := time.Now()
	preview, err := s.preview(ctx, source)
	s.metrics.observePreview(start, len(preview.ImportData), err)
	if err != nil {
		s.logger.Warn("import preview failed", slog.String("source", source), slog.Any("error", err))
		return Preview{}, err
	}
	s.logger.Info("import preview",
		slog.String("source", source),
		slog.Int("items", preview.TotalItems),
		slog.Int("new", preview.Stats.New),
		slog.Int("update", preview.Stats.Update),
		slog.Int("unchanged", preview.Stats.Unchanged),
		slog.Duration("duration", time.Since(start)),
	)
	return preview, nil
}

func (s *Service) preview(ctx context.Context, source string) (Preview, error) {
	payload, err := s.source.Fetch(ctx, source)
	if err != nil {
		return Preview{}, err
	}
	candidates := Normalize(payload.Items)
	catalog, err := s.catalog.List(ctx)
	if err != nil {
		return Preview{}, fmt.Errorf("importer: load catalog: %w", err)
	}
	entries := Diff(candidates, catalog)
	return Preview{
		Source:     source,
		TotalItems: len(candidates),
		Stats:      Summarize(entries),
		Preview:    entries,
		ImportData: candidates,
	}, nil
}

// Confirm commits the echoed import data.
func (s *Service) Confirm(ctx context.Context, req ConfirmRequest) (ConfirmResult, error) {
	start := time.Now()
	summary, err := s.committer.Commit(ctx, req.ImportData, req.Overwrite, req.SelectedItems)
	s.metrics.observeCommit(summary, err)
	attrs := []any{
		slog.Int("total", summary.Total),
		slog.Int("selected", summary.Selected),
		slog.Int("created", summary.Created),
		slog.Int("updated", summary.Updated),
		slog.Int("skipped", summary.Skipped),
		slog.Bool("overwrite", req.Overwrite),
		slog.Duration("duration", time.Since(start)),
	}
	if err != nil {
		s.logger.Error("import commit failed", append(attrs, slog.Any("error", err))...)
		return ConfirmResult{Summary: summary}, err
	}
	s.logger.Info("import committed", attrs...)
	return ConfirmResult{Message: confirmMessage, Summary: summary}, nil
}
