package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/catalog-extractor/constants"
)

func TestLoadRules_EmptyPathUsesDefaults(t *testing.T) {
	rules, err := LoadRules("")
	require.NoError(t, err)
	assert.Equal(t, PriceBound{Min: 5, Max: 500}, rules.PriceBound)
	_, ok := rules.Tag("anillo")
	assert.True(t, ok)
}

func TestLoadRules_OverlaysSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	doc := `
price_bound:
  min: 1
  max: 999
price_format: "USD %d"
consult_markers: ["Pregúntanos"]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, PriceBound{Min: 1, Max: 999}, rules.PriceBound)
	assert.Equal(t, []string{"preguntanos"}, rules.ConsultMarkers)
	assert.Len(t, rules.Tags, len(DefaultRules().Tags))

	e, err := NewExtractor(rules, nil)
	require.NoError(t, err)
	f := e.Extract("Collar largo $800")
	require.NotNil(t, f.Price)
	assert.Equal(t, 800, *f.Price)
	require.NotNil(t, f.PriceText)
	assert.Equal(t, "USD 800", *f.PriceText)

	f = e.Extract("Collar largo, preguntanos")
	require.NotNil(t, f.PriceStatus)
	assert.EqualValues(t, "consult", *f.PriceStatus)
}

func TestParseRules_Errors(t *testing.T) {
	_, err := ParseRules([]byte("price_bound:\n  min: 50\n  max: 10\n"))
	assert.Error(t, err)

	_, err = ParseRules([]byte("unknown_section: true\n"))
	assert.Error(t, err)

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseRules_EmptyDocument(t *testing.T) {
	rules, err := ParseRules(nil)
	require.NoError(t, err)
	assert.Equal(t, "$%d USD", rules.PriceFormat)
}

const bucketRules = `
tags:
  - tag: anillo
    kind: type
    bucket: %s
    variants: [anillo, sortija]
  - tag: oro
    kind: material
    variants: [oro]
naming:
  types: [anillo]
  materials: [oro]
  generic: Joya
materials: []
`

func TestParseRules_BucketSynonymIsCanonicalized(t *testing.T) {
	rules, err := ParseRules([]byte(fmt.Sprintf(bucketRules, "rings")))
	require.NoError(t, err)

	tag, ok := rules.Tag("anillo")
	require.True(t, ok)
	assert.Equal(t, constants.Rings, tag.Bucket)

	e, err := NewExtractor(rules, nil)
	require.NoError(t, err)
	f := e.Extract("SORTIJA DE ORO $85")
	require.NotNil(t, f.Category)
	assert.Equal(t, constants.Rings, *f.Category)
}

func TestParseRules_UnknownBucket(t *testing.T) {
	_, err := ParseRules([]byte(fmt.Sprintf(bucketRules, "relojes")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown bucket "relojes"`)
	assert.Contains(t, err.Error(), "anillos")
}
