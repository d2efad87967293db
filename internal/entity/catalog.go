package entity

import "time"

// CatalogDatabase is the run-level aggregate written wholesale at the end of a run.
type CatalogDatabase struct {
	TotalProducts  int       `json:"total_products"`
	GeneratedAt    time.Time `json:"generated_at"`
	CatalogVersion string    `json:"catalog_version"`
	RunID          string    `json:"run_id"`
	Products       []Product `json:"products"`
}

func NewCatalogDatabase(products []Product, version, runID string, generatedAt time.Time) *CatalogDatabase {
	if products == nil {
		products = []Product{}
	}
	return &CatalogDatabase{
		TotalProducts:  len(products),
		GeneratedAt:    generatedAt.UTC(),
		CatalogVersion: version,
		RunID:          runID,
		Products:       products,
	}
}
