package main

import (
	"context"
	"time"

	"github.com/joseph-ayodele/catalog-extractor/internal/catalog"
	"github.com/joseph-ayodele/catalog-extractor/internal/common"
	"github.com/joseph-ayodele/catalog-extractor/internal/export"
	"github.com/joseph-ayodele/catalog-extractor/internal/extract"
	"github.com/joseph-ayodele/catalog-extractor/internal/images"
	"github.com/joseph-ayodele/catalog-extractor/internal/ocr"
	"github.com/joseph-ayodele/catalog-extractor/internal/pipeline"
)

// components is the wired object graph of one process.
type components struct {
	recognizer ocr.Recognizer
	dual       *ocr.DualPass
	extractor  *extract.Extractor
	processor  *pipeline.Processor
	pipeline   *pipeline.Pipeline
	publisher  *export.PostgresPublisher
}

func (c *components) Close() {
	if c.publisher != nil {
		c.publisher.Close()
	}
}

// buildRecognition wires the recognizer, the dual-pass fuser and the field extractor.
func (a *app) buildRecognition() (*components, *extract.Rules, images.Store, error) {
	cfg, logger := a.cfg, a.logger

	rec, err := ocr.New(ocr.Config{
		Engine:      cfg.OCR.Engine,
		Tesseract:   cfg.OCR.Tesseract,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)
	if err != nil {
		return nil, nil, nil, common.NewAppError(common.CodeConfig, "ocr engine", err)
	}

	store := images.NewFSStore(cfg.Images.JPEGQuality)
	dual := ocr.NewDualPass(rec,
		images.NewPreprocessor(store, cfg.Images.ContrastFactor, cfg.Images.BrightnessFactor),
		a.ocrOptions(cfg.OCR.PrimaryPSM),
		a.ocrOptions(cfg.OCR.SecondaryPSM),
		cfg.OCR.TmpDir, logger)

	rules, err := extract.LoadRules(cfg.Extract.RulesFile)
	if err != nil {
		return nil, nil, nil, common.NewAppError(common.CodeConfig, "extraction rules", err)
	}
	extractor, err := extract.NewExtractor(rules, logger)
	if err != nil {
		return nil, nil, nil, common.NewAppError(common.CodeConfig, "extraction rules", err)
	}
	return &components{recognizer: rec, dual: dual, extractor: extractor}, rules, store, nil
}

// build wires the whole run, including the optional Postgres publisher.
func (a *app) build(ctx context.Context) (*components, error) {
	cfg, logger := a.cfg, a.logger

	c, rules, store, err := a.buildRecognition()
	if err != nil {
		return nil, err
	}

	processor := pipeline.NewProcessor(logger, store, c.dual, c.extractor,
		images.NewMaterializer(store, cfg.Images.MaxWidth, cfg.Images.Format, logger),
		catalog.NewAssembler(cfg.Output.ImagePrefix))
	c.processor = processor

	opts := []pipeline.Option{pipeline.WithWorkers(cfg.Pipeline.Workers)}
	if cfg.Output.PostgresDSN != "" {
		pub, err := export.OpenPostgres(ctx, export.PostgresConfig{
			DSN:              cfg.Output.PostgresDSN,
			MaxConns:         4,
			DialTimeout:      3 * time.Second,
			StatementTimeout: 30 * time.Second,
		}, logger)
		if err != nil {
			return nil, err
		}
		c.publisher = pub
		opts = append(opts, pipeline.WithPublisher(pub))
	}

	c.pipeline = pipeline.New(pipeline.Config{
		InputDir:       cfg.Paths.InputDir,
		OutputDir:      cfg.Paths.OutputDir,
		CatalogVersion: cfg.Output.CatalogVersion,
	}, processor, export.NewWriter(rules.PriceBound, cfg.Output.SQLite, logger), logger, opts...)
	return c, nil
}

func (a *app) ocrOptions(psm int) ocr.Options {
	return ocr.Options{
		Languages: a.cfg.OCR.Languages,
		PSM:       psm,
		OEM:       a.cfg.OCR.OEM,
		Timeout:   a.cfg.OCR.Timeout,
	}
}
