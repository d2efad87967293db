package entity

import (
	"fmt"

	"github.com/joseph-ayodele/catalog-extractor/constants"
)

// Dimensions is the pixel size of a source page image.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Product is one catalog entry; exactly one is produced per source page image.
type Product struct {
	ID               string                 `json:"id"`
	Page             int                    `json:"page"`
	ImagePath        string                 `json:"image_path"`
	Name             string                 `json:"name"`
	Description      string                 `json:"description"`
	Keywords         []string               `json:"keywords"`
	DetectedKeywords []string               `json:"detected_keywords,omitempty"`
	Price            *int                   `json:"price,omitempty"`
	PriceText        *string                `json:"price_text,omitempty"`
	PriceStatus      *constants.PriceStatus `json:"price_status,omitempty"`
	Material         *string                `json:"material,omitempty"`
	Category         *constants.Category    `json:"category,omitempty"`
	OCRText          *string                `json:"ocr_text,omitempty"`
	Dimensions       Dimensions             `json:"dimensions"`
	Available        bool                   `json:"available"`
}

// ProductID derives the stable identifier of a page.
func ProductID(page int) string {
	return fmt.Sprintf("prod_%03d", page)
}

// PageToken is the search-index key of a page ("pag12").
func PageToken(page int) string {
	return fmt.Sprintf("pag%d", page)
}

// HasExtractedData reports whether recognition produced a price, keywords or a material for the page.
func (p Product) HasExtractedData() bool {
	return p.Price != nil || len(p.DetectedKeywords) > 0 || p.Material != nil
}
