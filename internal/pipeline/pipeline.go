package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/catalog-extractor/internal/common"
	"github.com/joseph-ayodele/catalog-extractor/internal/entity"
	"github.com/joseph-ayodele/catalog-extractor/internal/export"
	"github.com/joseph-ayodele/catalog-extractor/internal/ingest"
)

// Publisher receives the committed-to-be catalog, e.g. the Postgres storefront table.
type Publisher interface {
	Publish(ctx context.Context, db *entity.CatalogDatabase) error
}

// Config is what a run needs to know about its surroundings.
type Config struct {
	InputDir       string
	OutputDir      string
	CatalogVersion string // empty means a timestamp of the run
}

// Pipeline runs a full rebuild of the catalog: every page, then every artifact.
type Pipeline struct {
	cfg       Config
	processor *Processor
	writer    *export.Writer
	publisher Publisher
	workers   int
	now       func() time.Time
	logger    *slog.Logger
}

type Option func(*Pipeline)

// WithWorkers processes up to n pages at once. Products are still collected in page order.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithPublisher publishes the catalog after it has been rendered and before it is committed.
func WithPublisher(pub Publisher) Option {
	return func(p *Pipeline) {
		p.publisher = pub
	}
}

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

func New(cfg Config, processor *Processor, writer *export.Writer, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		cfg:       cfg,
		processor: processor,
		writer:    writer,
		workers:   1,
		now:       time.Now,
		logger:    logger,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run rebuilds the catalog from scratch. Per-page problems only degrade products; a
// missing input directory, an unwritable output directory, an invalid collection or a
// failed publish abort the run with nothing committed.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	ctx = common.WithLogger(common.WithRunID(ctx, runID), logger)

	pages, err := ingest.ListPages(p.cfg.InputDir, logger)
	if err != nil {
		logger.Error("failed to list pages", "dir", p.cfg.InputDir, "error", err)
		return nil, err
	}

	if err := export.CleanStaleStages(p.cfg.OutputDir); err != nil {
		logger.Warn("failed to clean stale stages", "dir", p.cfg.OutputDir, "error", err)
	}
	stage, err := export.NewStage(p.cfg.OutputDir)
	if err != nil {
		logger.Error("output directory not writable", "dir", p.cfg.OutputDir, "error", err)
		return nil, err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if err := stage.Discard(); err != nil {
			logger.Warn("failed to discard stage", "dir", stage.Dir(), "error", err)
		}
	}()

	logger.Info("catalog run started", "pages", len(pages), "workers", p.workers, "input", p.cfg.InputDir)

	results, err := p.processPages(ctx, pages, stage.ImagesDir())
	if err != nil {
		return nil, err
	}

	generatedAt := p.now()
	products := make([]entity.Product, len(results))
	for i, r := range results {
		products[i] = r.Product
	}
	db := entity.NewCatalogDatabase(products, p.version(generatedAt), runID, generatedAt)

	if _, err := p.writer.Write(ctx, stage, db); err != nil {
		logger.Error("failed to render artifacts", "error", err)
		return nil, err
	}
	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, db); err != nil {
			logger.Error("failed to publish catalog", "error", err)
			return nil, err
		}
	}
	if err := stage.Commit(); err != nil {
		logger.Error("failed to commit artifacts", "error", err)
		return nil, err
	}
	committed = true
	logger.Info("artifacts committed", "dir", stage.OutputDir(), "version", db.CatalogVersion)

	summary := Summarize(runID, results, time.Since(start))
	logger.Info("catalog run finished",
		"total", summary.Total,
		"with_data", summary.WithData,
		"without_data", summary.WithoutData,
		"image_failures", summary.ImageFailures,
		"recovered", summary.Recovered,
		"duration_ms", summary.Duration.Milliseconds(),
	)
	return summary, nil
}

// processPages returns one result per page, indexed like pages.
func (p *Pipeline) processPages(ctx context.Context, pages []ingest.PageFile, imagesDir string) ([]PageResult, error) {
	results := make([]PageResult, len(pages))

	if p.workers <= 1 {
		for i, pf := range pages {
			res, err := p.processor.ProcessPage(ctx, pf, imagesDir)
			if err != nil {
				return nil, fmt.Errorf("page %d: %w", pf.Page, err)
			}
			results[i] = res
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, pf := range pages {
		g.Go(func() error {
			res, err := p.processor.ProcessPage(gctx, pf, imagesDir)
			if err != nil {
				return fmt.Errorf("page %d: %w", pf.Page, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) version(generatedAt time.Time) string {
	if p.cfg.CatalogVersion != "" {
		return p.cfg.CatalogVersion
	}
	return generatedAt.UTC().Format("20060102-150405")
}
