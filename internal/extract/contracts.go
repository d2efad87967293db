package extract

import "github.com/joseph-ayodele/catalog-extractor/constants"

// FieldExtractor turns recognized page text into structured fields.
type FieldExtractor interface {
	Extract(raw string) Fields
}

// Fields is what the rule engine found on one page. A nil pointer or empty slice
// means "not found"; defaults are applied later by the product assembler.
type Fields struct {
	Name             *string                `json:"name,omitempty"`
	Description      *string                `json:"description,omitempty"`
	DetectedKeywords []string               `json:"detected_keywords,omitempty"`
	Price            *int                   `json:"price,omitempty"`
	PriceText        *string                `json:"price_text,omitempty"`
	PriceStatus      *constants.PriceStatus `json:"price_status,omitempty"`
	Material         *string                `json:"material,omitempty"`
	Category         *constants.Category    `json:"category,omitempty"`
}

// Empty reports whether nothing at all was extracted.
func (f Fields) Empty() bool {
	return f.Name == nil &&
		f.Description == nil &&
		len(f.DetectedKeywords) == 0 &&
		f.Price == nil &&
		f.PriceText == nil &&
		f.PriceStatus == nil &&
		f.Material == nil &&
		f.Category == nil
}
