package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/catalog-extractor/internal/common"
	"github.com/joseph-ayodele/catalog-extractor/internal/entity"
	"github.com/joseph-ayodele/catalog-extractor/internal/extract"
)

// Writer renders the database, search index, data module and optional SQLite file.
type Writer struct {
	bound  extract.PriceBound
	sqlite *SQLiteWriter
	logger *slog.Logger
}

// NewWriter returns a Writer; withSQLite adds productos.db to the artifacts.
func NewWriter(bound extract.PriceBound, withSQLite bool, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Writer{bound: bound, logger: logger}
	if withSQLite {
		w.sqlite = NewSQLiteWriter(logger)
	}
	return w
}

// Write validates db and renders every artifact into stage. The output directory is not
// touched; call stage.Commit to publish.
func (w *Writer) Write(ctx context.Context, stage *Stage, db *entity.CatalogDatabase) (*entity.SearchIndex, error) {
	idx := entity.BuildSearchIndex(db.Products)
	if err := ValidateCatalog(db, idx, w.bound); err != nil {
		return nil, err
	}

	dbJSON, err := RenderDatabase(db)
	if err != nil {
		return nil, err
	}
	if err := ValidateDatabaseJSON(dbJSON); err != nil {
		return nil, common.NewAppError(common.CodeValidation, err.Error(), common.ErrValidation)
	}
	idxJSON, err := RenderSearchIndex(idx)
	if err != nil {
		return nil, err
	}
	module, err := RenderModule(db)
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		name string
		data []byte
	}{
		{DatabaseFile, dbJSON},
		{SearchIndexFile, idxJSON},
		{ModuleFile, module},
	} {
		if err := os.WriteFile(stage.Path(f.name), f.data, 0o644); err != nil {
			return nil, common.NewAppError(common.CodeOutputDir, fmt.Sprintf("write %s: %v", f.name, err), common.ErrOutputDir)
		}
	}

	if w.sqlite != nil {
		if err := w.sqlite.Write(ctx, stage.Path(SQLiteFile), db); err != nil {
			return nil, common.NewAppError(common.CodeOutputDir, fmt.Sprintf("write %s: %v", SQLiteFile, err), common.ErrOutputDir)
		}
	}

	w.logger.Info("artifacts rendered",
		"run_id", common.RunIDFromContext(ctx),
		"products", db.TotalProducts,
		"keywords", len(idx.Keywords()),
		"sqlite", w.sqlite != nil,
		"stage", stage.Dir(),
	)
	return idx, nil
}
