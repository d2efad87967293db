package export

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/joseph-ayodele/catalog-extractor/constants"
	"github.com/joseph-ayodele/catalog-extractor/internal/common"
	"github.com/joseph-ayodele/catalog-extractor/internal/entity"
	"github.com/joseph-ayodele/catalog-extractor/internal/extract"
)

var reProductID = regexp.MustCompile(`^prod_\d{3,}$`)

// ValidateCatalog checks the invariants the three artifacts rely on: ids derived from
// pages, pages numbered 1..N, unique keywords, prices in bound, consult only without a
// price and an index that covers every product.
func ValidateCatalog(db *entity.CatalogDatabase, idx *entity.SearchIndex, bound extract.PriceBound) error {
	v := common.NewValidator()
	v.Check(db.TotalProducts == len(db.Products), "total_products", db.TotalProducts,
		fmt.Sprintf("must equal the product count %d", len(db.Products)))
	v.Field("catalog_version", db.CatalogVersion, common.Required, common.MaxLength(64))

	for i, p := range db.Products {
		field := func(name string) string { return fmt.Sprintf("products[%d].%s", i, name) }

		v.Check(p.Page == i+1, field("page"), p.Page, fmt.Sprintf("must be %d", i+1))
		v.Field(field("id"), p.ID, common.Matches(reProductID))
		v.Check(p.ID == entity.ProductID(p.Page), field("id"), p.ID, "must derive from the page number")
		v.Field(field("name"), p.Name, common.Required)
		v.Field(field("description"), p.Description, common.Required)
		v.Field(field("keywords"), p.Keywords, common.Unique)
		v.Field(field("price"), p.Price, common.IntRange(bound.Min, bound.Max))

		if p.PriceStatus != nil {
			switch *p.PriceStatus {
			case constants.PriceStatusConsult:
				v.Check(p.Price == nil, field("price_status"), *p.PriceStatus, "consult requires an absent price")
			case constants.PriceStatusAvailable:
				v.Check(p.Price != nil, field("price_status"), *p.PriceStatus, "available requires a price")
			default:
				v.Check(false, field("price_status"), *p.PriceStatus, "is not a known status")
			}
		}

		if idx == nil {
			continue
		}
		id, ok := idx.PageID(entity.PageToken(p.Page))
		v.Check(ok && id == p.ID, field("page"), p.Page, "missing from the search index")
		for _, kw := range p.DetectedKeywords {
			if _, clash := idx.PageID(kw); clash {
				continue
			}
			v.Check(slices.Contains(idx.KeywordIDs(kw), p.ID), field("detected_keywords"), kw, "missing from the search index")
		}
	}
	return v.Error()
}
