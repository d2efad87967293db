package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// rulesFile mirrors Rules for YAML. Absent sections keep their defaults.
type rulesFile struct {
	Tags           []TagRule         `yaml:"tags"`
	PricePatterns  []PricePattern    `yaml:"price_patterns"`
	PriceBound     *PriceBound       `yaml:"price_bound"`
	PriceFormat    *string           `yaml:"price_format"`
	Materials      []MaterialRule    `yaml:"materials"`
	Naming         *NamingRules      `yaml:"naming"`
	Description    *DescriptionRules `yaml:"description"`
	ConsultMarkers []string          `yaml:"consult_markers"`
	MinTextLength  *int              `yaml:"min_text_length"`
}

// LoadRules reads a YAML rule file and overlays it onto DefaultRules section by section.
// An empty path returns the compiled defaults.
func LoadRules(path string) (*Rules, error) {
	rules := DefaultRules()
	if path == "" {
		if err := rules.Compile(); err != nil {
			return nil, err
		}
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules overlays YAML document data onto DefaultRules and compiles the result.
func ParseRules(data []byte) (*Rules, error) {
	var file rulesFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	rules := DefaultRules()
	if file.Tags != nil {
		rules.Tags = file.Tags
	}
	if file.PricePatterns != nil {
		rules.PricePatterns = file.PricePatterns
	}
	if file.PriceBound != nil {
		rules.PriceBound = *file.PriceBound
	}
	if file.PriceFormat != nil {
		rules.PriceFormat = *file.PriceFormat
	}
	if file.Materials != nil {
		rules.Materials = file.Materials
	}
	if file.Naming != nil {
		rules.Naming = *file.Naming
	}
	if file.Description != nil {
		rules.Description = *file.Description
	}
	if file.ConsultMarkers != nil {
		rules.ConsultMarkers = file.ConsultMarkers
	}
	if file.MinTextLength != nil {
		rules.MinTextLength = *file.MinTextLength
	}

	if err := rules.Compile(); err != nil {
		return nil, fmt.Errorf("compile rules: %w", err)
	}
	return rules, nil
}
