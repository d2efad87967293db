package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/catalog-extractor/internal/catalog"
	"github.com/joseph-ayodele/catalog-extractor/internal/common"
	"github.com/joseph-ayodele/catalog-extractor/internal/entity"
	"github.com/joseph-ayodele/catalog-extractor/internal/extract"
	"github.com/joseph-ayodele/catalog-extractor/internal/images"
	"github.com/joseph-ayodele/catalog-extractor/internal/ingest"
	"github.com/joseph-ayodele/catalog-extractor/internal/ocr"
)

// PageRecognizer is the fused recognition step; *ocr.DualPass satisfies it.
type PageRecognizer interface {
	Recognize(ctx context.Context, imagePath string) (ocr.Result, error)
}

// PageResult is the product built for one page plus what went wrong along the way.
type PageResult struct {
	Product      entity.Product
	Source       string
	ImageFailed  bool
	Recovered    bool
	Duration     time.Duration
	ErrorMessage string
}

// Processor coordinates recognition, extraction, image materialization and assembly for a page.
type Processor struct {
	logger       *slog.Logger
	store        images.Store
	recognizer   PageRecognizer
	extractor    extract.FieldExtractor
	materializer *images.Materializer
	assembler    *catalog.Assembler
}

func NewProcessor(
	logger *slog.Logger,
	store images.Store,
	recognizer PageRecognizer,
	extractor extract.FieldExtractor,
	materializer *images.Materializer,
	assembler *catalog.Assembler,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:       logger,
		store:        store,
		recognizer:   recognizer,
		extractor:    extractor,
		materializer: materializer,
		assembler:    assembler,
	}
}

// ProcessPage always yields a product for the page. Recognition, decoding and
// materialization problems degrade the product instead of failing; the error is
// non-nil only when ctx is done.
func (p *Processor) ProcessPage(ctx context.Context, page ingest.PageFile, imagesDir string) (res PageResult, err error) {
	start := time.Now()
	logger := common.LoggerFromContext(ctx, p.logger).With("page", page.Page, "path", page.Path)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("page processing panicked, using defaults", "panic", r)
			res = p.fallback(page, fmt.Sprintf("panic: %v", r))
			err = nil
		}
		res.Duration = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		return PageResult{}, err
	}

	pg := catalog.Page{Number: page.Page}

	img, openErr := p.store.Open(page.Path)
	if openErr != nil {
		logger.Warn("page image unreadable", "error", openErr)
		res.ImageFailed = true
		res.ErrorMessage = openErr.Error()
	} else {
		b := img.Bounds()
		pg.Dimensions = entity.Dimensions{Width: b.Dx(), Height: b.Dy()}
	}

	recognized, err := p.recognizer.Recognize(ctx, page.Path)
	if err != nil {
		return PageResult{}, err
	}
	pg.OCRText = recognized.Text
	res.Source = recognized.Source
	logger.Debug("processor recognize stage success",
		"source", recognized.Source,
		"original_len", recognized.OriginalLen,
		"preprocessed_len", recognized.PreprocessedLen,
		"duration_ms", recognized.Duration.Milliseconds(),
	)

	fields := p.extractor.Extract(ocr.Clean(recognized.Text))
	logger.Debug("processor extract stage success", "empty", fields.Empty())

	if img != nil {
		name, matErr := p.materializer.Materialize(img, page.Page, imagesDir)
		if matErr != nil {
			logger.Warn("catalog image not written", "error", matErr)
			res.ImageFailed = true
			res.ErrorMessage = matErr.Error()
		} else {
			pg.ImageName = name
		}
	}

	res.Product = p.assembler.Assemble(pg, fields)
	logger.Info("page processed",
		"product_id", res.Product.ID,
		"has_data", res.Product.HasExtractedData(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// fallback is the all-defaults product used when a page blew up mid-way.
func (p *Processor) fallback(page ingest.PageFile, reason string) PageResult {
	return PageResult{
		Product:      p.assembler.Assemble(catalog.Page{Number: page.Page}, extract.Fields{}),
		Source:       ocr.SourceNone,
		ImageFailed:  true,
		Recovered:    true,
		ErrorMessage: reason,
	}
}
