package entity

import (
	"bytes"
	"encoding/json"
)

// SearchIndex maps page tokens to a single product id and detected keywords to the ids carrying them.
// Keys keep insertion order when serialized; keyword id lists follow page order.
type SearchIndex struct {
	keys      []string
	pages     map[string]string
	byKeyword map[string][]string
}

// BuildSearchIndex indexes products in the order given.
func BuildSearchIndex(products []Product) *SearchIndex {
	idx := &SearchIndex{
		pages:     make(map[string]string, len(products)),
		byKeyword: make(map[string][]string),
	}
	for _, p := range products {
		token := PageToken(p.Page)
		if _, ok := idx.pages[token]; !ok {
			idx.keys = append(idx.keys, token)
		}
		idx.pages[token] = p.ID

		for _, kw := range p.DetectedKeywords {
			if _, clash := idx.pages[kw]; clash {
				continue
			}
			if _, ok := idx.byKeyword[kw]; !ok {
				idx.keys = append(idx.keys, kw)
			}
			idx.byKeyword[kw] = append(idx.byKeyword[kw], p.ID)
		}
	}
	return idx
}

// PageID returns the id stored for a page token.
func (s *SearchIndex) PageID(token string) (string, bool) {
	id, ok := s.pages[token]
	return id, ok
}

// KeywordIDs returns the ids indexed under keyword, in page order.
func (s *SearchIndex) KeywordIDs(keyword string) []string {
	return s.byKeyword[keyword]
}

// Keywords returns the indexed keywords in first-seen order.
func (s *SearchIndex) Keywords() []string {
	out := make([]string, 0, len(s.byKeyword))
	for _, k := range s.keys {
		if _, ok := s.byKeyword[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// MarshalJSON writes a single flat object, page tokens and keywords interleaved in insertion order.
func (s *SearchIndex) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var val []byte
		if id, ok := s.pages[k]; ok {
			val, err = json.Marshal(id)
		} else {
			val, err = json.Marshal(s.byKeyword[k])
		}
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
