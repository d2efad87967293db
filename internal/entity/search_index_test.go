package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchIndex(t *testing.T) {
	products := []Product{
		{ID: ProductID(1), Page: 1, DetectedKeywords: []string{"anillo", "oro"}},
		{ID: ProductID(2), Page: 2},
		{ID: ProductID(3), Page: 3, DetectedKeywords: []string{"pulsera", "oro"}},
	}
	idx := BuildSearchIndex(products)

	id, ok := idx.PageID("pag2")
	require.True(t, ok)
	assert.Equal(t, "prod_002", id)

	assert.Equal(t, []string{"prod_001", "prod_003"}, idx.KeywordIDs("oro"))
	assert.Equal(t, []string{"anillo", "oro", "pulsera"}, idx.Keywords())
	assert.Nil(t, idx.KeywordIDs("plata"))
}

func TestSearchIndex_MarshalJSONKeepsOrder(t *testing.T) {
	idx := BuildSearchIndex([]Product{
		{ID: "prod_001", Page: 1, DetectedKeywords: []string{"oro"}},
		{ID: "prod_002", Page: 2, DetectedKeywords: []string{"oro"}},
	})
	b, err := json.Marshal(idx)
	require.NoError(t, err)
	assert.Equal(t, `{"pag1":"prod_001","oro":["prod_001","prod_002"],"pag2":"prod_002"}`, string(b))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Len(t, decoded, 3)
}

func TestSearchIndex_Empty(t *testing.T) {
	b, err := json.Marshal(BuildSearchIndex(nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}

func TestProductHelpers(t *testing.T) {
	assert.Equal(t, "prod_007", ProductID(7))
	assert.Equal(t, "prod_1234", ProductID(1234))
	assert.Equal(t, "pag7", PageToken(7))

	material := "oro"
	assert.True(t, Product{Material: &material}.HasExtractedData())
	assert.False(t, Product{Keywords: []string{"pag1", "pagina1"}}.HasExtractedData())
}
