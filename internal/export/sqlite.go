package export

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/joseph-ayodele/catalog-extractor/internal/entity"
)

const sqliteSchema = `
CREATE TABLE catalog (
	catalog_version TEXT NOT NULL,
	run_id          TEXT NOT NULL,
	generated_at    TEXT NOT NULL,
	total_products  INTEGER NOT NULL
);
CREATE TABLE products (
	id           TEXT PRIMARY KEY,
	page         INTEGER NOT NULL UNIQUE,
	image_path   TEXT NOT NULL,
	name         TEXT NOT NULL,
	description  TEXT NOT NULL,
	price        INTEGER,
	price_text   TEXT,
	price_status TEXT,
	material     TEXT,
	category     TEXT,
	ocr_text     TEXT,
	width        INTEGER NOT NULL,
	height       INTEGER NOT NULL,
	available    INTEGER NOT NULL
);
CREATE TABLE product_keywords (
	product_id TEXT NOT NULL REFERENCES products(id),
	position   INTEGER NOT NULL,
	keyword    TEXT NOT NULL,
	detected   INTEGER NOT NULL,
	PRIMARY KEY (product_id, keyword)
);
CREATE INDEX idx_product_keywords_keyword ON product_keywords(keyword);
`

// SQLiteWriter writes the catalog as a self-contained SQLite file.
type SQLiteWriter struct {
	logger *slog.Logger
}

func NewSQLiteWriter(logger *slog.Logger) *SQLiteWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteWriter{logger: logger}
}

// Write creates path from scratch; an existing file is replaced.
func (w *SQLiteWriter) Write(ctx context.Context, path string, db *entity.CatalogDatabase) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove old sqlite file: %w", err)
	}
	conn, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO catalog (catalog_version, run_id, generated_at, total_products) VALUES (?, ?, ?, ?)`,
		db.CatalogVersion, db.RunID, db.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"), db.TotalProducts,
	); err != nil {
		return fmt.Errorf("insert catalog: %w", err)
	}

	prodStmt, err := tx.PrepareContext(ctx, `INSERT INTO products
		(id, page, image_path, name, description, price, price_text, price_status, material, category, ocr_text, width, height, available)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare products: %w", err)
	}
	defer prodStmt.Close()

	kwStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO product_keywords (product_id, position, keyword, detected) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare keywords: %w", err)
	}
	defer kwStmt.Close()

	for _, p := range db.Products {
		if _, err := prodStmt.ExecContext(ctx,
			p.ID, p.Page, p.ImagePath, p.Name, p.Description,
			nullInt(p.Price), nullString(p.PriceText), nullStatus(p), nullString(p.Material), nullCategory(p),
			nullString(p.OCRText), p.Dimensions.Width, p.Dimensions.Height, p.Available,
		); err != nil {
			return fmt.Errorf("insert product %s: %w", p.ID, err)
		}
		detected := make(map[string]struct{}, len(p.DetectedKeywords))
		for _, k := range p.DetectedKeywords {
			detected[k] = struct{}{}
		}
		for pos, k := range p.Keywords {
			_, isDetected := detected[k]
			if _, err := kwStmt.ExecContext(ctx, p.ID, pos, k, isDetected); err != nil {
				return fmt.Errorf("insert keyword %s/%s: %w", p.ID, k, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	w.logger.Debug("sqlite catalog written", "path", path, "products", len(db.Products))
	return nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullStatus(p entity.Product) sql.NullString {
	if p.PriceStatus == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*p.PriceStatus), Valid: true}
}

func nullCategory(p entity.Product) sql.NullString {
	if p.Category == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*p.Category), Valid: true}
}
