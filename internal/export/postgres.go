package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/catalog-extractor/internal/common"
	"github.com/joseph-ayodele/catalog-extractor/internal/entity"
)

type PostgresConfig struct {
	DSN              string
	MaxConns         int32
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

const createCatalogProducts = `
CREATE TABLE IF NOT EXISTS catalog_products (
	id              TEXT PRIMARY KEY,
	page            INTEGER NOT NULL UNIQUE,
	image_path      TEXT NOT NULL,
	name            TEXT NOT NULL,
	description     TEXT NOT NULL,
	keywords        TEXT[] NOT NULL,
	price           INTEGER,
	price_text      TEXT,
	price_status    TEXT,
	material        TEXT,
	category        TEXT,
	available       BOOLEAN NOT NULL,
	catalog_version TEXT NOT NULL,
	run_id          TEXT NOT NULL,
	generated_at    TIMESTAMPTZ NOT NULL
)`

var catalogProductColumns = []string{
	"id", "page", "image_path", "name", "description", "keywords",
	"price", "price_text", "price_status", "material", "category", "available",
	"catalog_version", "run_id", "generated_at",
}

// PostgresPublisher mirrors the catalog into the storefront's catalog_products table.
type PostgresPublisher struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenPostgres creates a pgx pool for the publisher.
func OpenPostgres(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (*PostgresPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, common.NewAppError(common.CodePublish, fmt.Sprintf("parse dsn: %v", err), common.ErrPublish)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "catalog-extractor"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%d", cfg.StatementTimeout.Milliseconds())
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, common.NewAppError(common.CodePublish, fmt.Sprintf("connect: %v", err), common.ErrPublish)
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		logger.Error("failed to connect to database", "error", err)
		return nil, common.NewAppError(common.CodePublish, fmt.Sprintf("ping: %v", err), common.ErrPublish)
	}
	logger.Info("successfully connected to database")
	return &PostgresPublisher{pool: pool, logger: logger}, nil
}

func (p *PostgresPublisher) Close() { p.pool.Close() }

// Publish replaces the table contents with db in a single transaction.
func (p *PostgresPublisher) Publish(ctx context.Context, db *entity.CatalogDatabase) error {
	start := time.Now()
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, createCatalogProducts); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM catalog_products`); err != nil {
			return fmt.Errorf("clear table: %w", err)
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"catalog_products"}, catalogProductColumns, catalogRows(db))
		if err != nil {
			return fmt.Errorf("copy products: %w", err)
		}
		if int(n) != len(db.Products) {
			return fmt.Errorf("copied %d of %d products", n, len(db.Products))
		}
		return nil
	})
	if err != nil {
		return common.NewAppError(common.CodePublish, err.Error(), common.ErrPublish)
	}
	p.logger.Info("catalog published",
		"products", len(db.Products),
		"run_id", db.RunID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// catalogRows flattens products in column order for CopyFrom.
func catalogRows(db *entity.CatalogDatabase) pgx.CopyFromSource {
	rows := make([][]any, 0, len(db.Products))
	for _, prod := range db.Products {
		var status, category *string
		if prod.PriceStatus != nil {
			s := string(*prod.PriceStatus)
			status = &s
		}
		if prod.Category != nil {
			c := string(*prod.Category)
			category = &c
		}
		rows = append(rows, []any{
			prod.ID, prod.Page, prod.ImagePath, prod.Name, prod.Description, prod.Keywords,
			prod.Price, prod.PriceText, status, prod.Material, category, prod.Available,
			db.CatalogVersion, db.RunID, db.GeneratedAt,
		})
	}
	return pgx.CopyFromRows(rows)
}
