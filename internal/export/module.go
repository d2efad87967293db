package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/joseph-ayodele/catalog-extractor/internal/entity"
)

//go:embed templates/catalogo-productos.js.tmpl
var moduleTemplate string

var moduleTmpl = template.Must(template.New("module").Funcs(template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
	"comment": func(s string) string { return strings.ReplaceAll(s, "*/", "* /") },
}).Parse(moduleTemplate))

// moduleProduct is the storefront's view of a Product; keys match what the bot reads.
type moduleProduct struct {
	ID           string   `json:"id"`
	Pagina       int      `json:"pagina"`
	Nombre       string   `json:"nombre"`
	Descripcion  string   `json:"descripcion"`
	Precio       *int     `json:"precio,omitempty"`
	PrecioTexto  *string  `json:"precioTexto,omitempty"`
	EstadoPrecio *string  `json:"estadoPrecio,omitempty"`
	Material     *string  `json:"material,omitempty"`
	Categoria    *string  `json:"categoria,omitempty"`
	ImagenPath   string   `json:"imagenPath"`
	Keywords     []string `json:"keywords"`
	Disponible   bool     `json:"disponible"`
}

func toModuleProduct(p entity.Product) moduleProduct {
	m := moduleProduct{
		ID:          p.ID,
		Pagina:      p.Page,
		Nombre:      p.Name,
		Descripcion: p.Description,
		Precio:      p.Price,
		PrecioTexto: p.PriceText,
		Material:    p.Material,
		ImagenPath:  p.ImagePath,
		Keywords:    p.Keywords,
		Disponible:  p.Available,
	}
	if m.Keywords == nil {
		m.Keywords = []string{}
	}
	if p.PriceStatus != nil {
		s := string(*p.PriceStatus)
		m.EstadoPrecio = &s
	}
	if p.Category != nil {
		c := string(*p.Category)
		m.Categoria = &c
	}
	return m
}

// RenderModule renders the ES module embedding every product and the three lookups.
func RenderModule(db *entity.CatalogDatabase) ([]byte, error) {
	products := make([]moduleProduct, 0, len(db.Products))
	for _, p := range db.Products {
		products = append(products, toModuleProduct(p))
	}
	inline, err := json.MarshalIndent(products, "    ", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode module products: %w", err)
	}

	var buf bytes.Buffer
	err = moduleTmpl.Execute(&buf, struct {
		Version     string
		Total       int
		GeneratedAt string
		Products    string
	}{
		Version:     db.CatalogVersion,
		Total:       db.TotalProducts,
		GeneratedAt: db.GeneratedAt.Format(time.RFC3339),
		Products:    string(inline),
	})
	if err != nil {
		return nil, fmt.Errorf("render module: %w", err)
	}
	return buf.Bytes(), nil
}
