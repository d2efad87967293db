package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/joseph-ayodele/catalog-extractor/internal/entity"
)

// MarshalJSON renders v indented, keeping accented text and symbols unescaped.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderDatabase encodes the catalog database file.
func RenderDatabase(db *entity.CatalogDatabase) ([]byte, error) {
	b, err := MarshalJSON(db)
	if err != nil {
		return nil, fmt.Errorf("encode database: %w", err)
	}
	return b, nil
}

// RenderSearchIndex encodes the search index file.
func RenderSearchIndex(idx *entity.SearchIndex) ([]byte, error) {
	compact, err := json.Marshal(idx)
	if err != nil {
		return nil, fmt.Errorf("encode search index: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("indent search index: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
