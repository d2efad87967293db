package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/catalog-extractor/constants"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := NewExtractor(nil, nil)
	require.NoError(t, err)
	return e
}

func TestExtract_PricedRing(t *testing.T) {
	f := newTestExtractor(t).Extract("ANILLO ORO 18K $85")

	require.NotNil(t, f.Price)
	assert.Equal(t, 85, *f.Price)
	require.NotNil(t, f.PriceText)
	assert.Equal(t, "$85 USD", *f.PriceText)
	require.NotNil(t, f.PriceStatus)
	assert.Equal(t, constants.PriceStatusAvailable, *f.PriceStatus)

	require.NotNil(t, f.Material)
	assert.Equal(t, "oro_18k", *f.Material)
	require.NotNil(t, f.Category)
	assert.Equal(t, constants.Rings, *f.Category)
	require.NotNil(t, f.Name)
	assert.Equal(t, "Anillo de Oro", *f.Name)
	assert.Equal(t, []string{"anillo", "oro"}, f.DetectedKeywords)

	// the only line is all upper-case
	assert.Nil(t, f.Description)
}

func TestExtract_ConsultBracelet(t *testing.T) {
	f := newTestExtractor(t).Extract("PULSERA PLATA 925 consultar precio")

	assert.Nil(t, f.Price)
	assert.Nil(t, f.PriceText)
	require.NotNil(t, f.PriceStatus)
	assert.Equal(t, constants.PriceStatusConsult, *f.PriceStatus)
	require.NotNil(t, f.Material)
	assert.Equal(t, "plata_925", *f.Material)
	require.NotNil(t, f.Category)
	assert.Equal(t, constants.Bracelets, *f.Category)
	require.NotNil(t, f.Name)
	assert.Equal(t, "Pulsera de Plata", *f.Name)
	require.NotNil(t, f.Description)
	assert.Equal(t, "PULSERA PLATA 925 consultar precio", *f.Description)
}

func TestExtract_ShortTextYieldsNothing(t *testing.T) {
	e := newTestExtractor(t)
	for _, raw := range []string{"", "   ", "abc", "  hola  ", "12345"} {
		assert.True(t, e.Extract(raw).Empty(), "raw %q", raw)
	}
}

func TestExtract_PriceFrequencyAndTies(t *testing.T) {
	e := newTestExtractor(t)

	f := e.Extract("Anillo $20 o $30 o $30")
	require.NotNil(t, f.Price)
	assert.Equal(t, 30, *f.Price)

	f = e.Extract("Anillo $20 o $30")
	require.NotNil(t, f.Price)
	assert.Equal(t, 20, *f.Price, "ties go to the first candidate")
}

func TestExtract_PriceBounds(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name string
		raw  string
		want *int
	}{
		{"below minimum", "Dije sencillo $3", nil},
		{"above maximum", "Collar largo $600", nil},
		{"four digits are not truncated", "Collar largo $1000", nil},
		{"lower edge", "Dije sencillo $5", intPtr(5)},
		{"upper edge", "Collar largo $500", intPtr(500)},
		{"currency word", "Aretes finos 45 dolares", intPtr(45)},
		{"price label", "Cadena fina precio: 60", intPtr(60)},
		{"starting at", "Sets desde $120 cada uno", intPtr(120)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := e.Extract(tt.raw)
			if tt.want == nil {
				assert.Nil(t, f.Price)
				return
			}
			require.NotNil(t, f.Price)
			assert.Equal(t, *tt.want, *f.Price)
		})
	}
}

func TestExtract_NamePriority(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		raw  string
		want string
	}{
		{"Anillo de graduacion en oro", "Anillo de Graduación de Oro"},
		{"Dije corazon de plata", "Dije Corazón de Plata"},
		{"Hermosa pieza en acero", "Joya de Acero"},
		{"Diseño de mariposa", "Mariposa"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			f := e.Extract(tt.raw)
			require.NotNil(t, f.Name)
			assert.Equal(t, tt.want, *f.Name)
		})
	}
}

func TestExtract_MaterialVariants(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		raw  string
		want string
	}{
		{"Anillo oro rosa delicado", "oro_rosa"},
		{"Anillo oro blanco delicado", "oro_blanco"},
		{"Anillo de oro 14k delicado", "oro_14k"},
		{"Pulsera de acero quirúrgico", "acero_quirurgico"},
		{"Pulsera tejida de plata", "plata"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			f := e.Extract(tt.raw)
			require.NotNil(t, f.Material)
			assert.Equal(t, tt.want, *f.Material)
		})
	}
}

func TestExtract_NoTagsLeavesNameAndCategoryUnset(t *testing.T) {
	f := newTestExtractor(t).Extract("Hermosa pieza hecha a mano")
	assert.Nil(t, f.Name)
	assert.Nil(t, f.Category)
	assert.Nil(t, f.Material)
	assert.Empty(t, f.DetectedKeywords)
	require.NotNil(t, f.Description)
	assert.Equal(t, "Hermosa pieza hecha a mano", *f.Description)
}

func TestExtract_DescriptionSkipsUnsuitableLines(t *testing.T) {
	raw := "CATALOGO 2024\n12345678901234\nbreve\nUn anillo delicado para toda ocasión\nOtra línea que también sirve"
	f := newTestExtractor(t).Extract(raw)
	require.NotNil(t, f.Description)
	assert.Equal(t, "Un anillo delicado para toda ocasión", *f.Description)
}

func TestExtract_Idempotent(t *testing.T) {
	e := newTestExtractor(t)
	raw := "Relicario corazón de oro 18k\nIdeal para regalar a mamá\nPrecio $75"
	first := e.Extract(raw)
	second := e.Extract(raw)
	assert.Equal(t, first, second)

	require.NotNil(t, first.Category)
	assert.Equal(t, constants.Pendants, *first.Category)
}

func TestNewExtractor_RejectsBrokenRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Rules)
	}{
		{"inverted bound", func(r *Rules) { r.PriceBound = PriceBound{Min: 10, Max: 1} }},
		{"no capture group", func(r *Rules) { r.PricePatterns = []PricePattern{{Name: "bare", Expr: `\$\d+`}} }},
		{"bad regexp", func(r *Rules) { r.PricePatterns = []PricePattern{{Name: "bad", Expr: `(\d+`}} }},
		{"unknown naming tag", func(r *Rules) { r.Naming.Types = append(r.Naming.Types, "tiara") }},
		{"unknown material tag", func(r *Rules) { r.Materials = append(r.Materials, MaterialRule{Tag: "bronce"}) }},
		{"unknown kind", func(r *Rules) { r.Tags[0].Kind = "shape" }},
		{"duplicate tag", func(r *Rules) { r.Tags = append(r.Tags, r.Tags[0]) }},
		{"description bounds", func(r *Rules) { r.Description.MaxLen = r.Description.MinLen }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultRules()
			tt.mutate(rules)
			_, err := NewExtractor(rules, nil)
			assert.Error(t, err)
		})
	}
}

func TestMostFrequent(t *testing.T) {
	_, ok := mostFrequent(nil)
	assert.False(t, ok)

	v, ok := mostFrequent([]int{7, 9, 9, 7, 3})
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func intPtr(v int) *int { return &v }
