package catalog

import (
	"fmt"
	"path"

	"github.com/joseph-ayodele/catalog-extractor/internal/entity"
	"github.com/joseph-ayodele/catalog-extractor/internal/extract"
)

// Page is what the pipeline knows about a source image before extraction.
type Page struct {
	Number     int
	ImageName  string // materialized file name, e.g. page_001.png
	Dimensions entity.Dimensions
	OCRText    string
}

// Assembler merges extracted fields with page metadata into a Product.
type Assembler struct {
	imagePrefix string
}

// NewAssembler takes the URL prefix under which catalog images are served.
func NewAssembler(imagePrefix string) *Assembler {
	return &Assembler{imagePrefix: imagePrefix}
}

// DefaultName is the name of a page nothing could be read from.
func DefaultName(page int) string {
	return fmt.Sprintf("Producto Página %d", page)
}

// DefaultDescription is the description of a page nothing could be read from.
func DefaultDescription(page int) string {
	return fmt.Sprintf("Producto del catálogo - Página %d", page)
}

// Assemble never fails; absent fields fall back to page-derived defaults.
func (a *Assembler) Assemble(p Page, f extract.Fields) entity.Product {
	product := entity.Product{
		ID:               entity.ProductID(p.Number),
		Page:             p.Number,
		ImagePath:        a.imagePath(p.ImageName),
		Name:             DefaultName(p.Number),
		Description:      DefaultDescription(p.Number),
		Keywords:         Keywords(p.Number, f.DetectedKeywords),
		DetectedKeywords: f.DetectedKeywords,
		Price:            f.Price,
		PriceText:        f.PriceText,
		PriceStatus:      f.PriceStatus,
		Material:         f.Material,
		Category:         f.Category,
		Dimensions:       p.Dimensions,
		Available:        true,
	}
	if p.OCRText != "" {
		text := p.OCRText
		product.OCRText = &text
	}
	if f.Name != nil {
		product.Name = *f.Name
	}
	switch {
	case f.Description != nil:
		product.Description = *f.Description
	case f.Name != nil:
		product.Description = fmt.Sprintf("%s - Página %d", *f.Name, p.Number)
	}
	return product
}

func (a *Assembler) imagePath(name string) string {
	if name == "" {
		return ""
	}
	if a.imagePrefix == "" {
		return name
	}
	return path.Join(a.imagePrefix, name)
}

// Keywords is the page tokens followed by the detected tags, without duplicates.
func Keywords(page int, detected []string) []string {
	out := make([]string, 0, 2+len(detected))
	seen := make(map[string]struct{}, cap(out))
	add := func(k string) {
		if _, dup := seen[k]; dup || k == "" {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	add(entity.PageToken(page))
	add(fmt.Sprintf("pagina%d", page))
	for _, k := range detected {
		add(k)
	}
	return out
}
