package extract

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/joseph-ayodele/catalog-extractor/constants"
)

// Extractor is the rule-based field extractor. It is safe for concurrent use.
type Extractor struct {
	rules  *Rules
	logger *slog.Logger
}

// NewExtractor compiles rules (DefaultRules when nil) and returns a ready extractor.
func NewExtractor(rules *Rules, logger *slog.Logger) (*Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if rules == nil {
		rules = DefaultRules()
	}
	if err := rules.Compile(); err != nil {
		return nil, fmt.Errorf("compile rules: %w", err)
	}
	return &Extractor{rules: rules, logger: logger}, nil
}

// Extract runs every rule over raw recognized text. It never fails; text that is empty
// or shorter than the configured minimum yields empty Fields.
func (e *Extractor) Extract(raw string) Fields {
	var f Fields
	if utf8.RuneCountInString(strings.TrimSpace(raw)) <= e.rules.MinTextLength {
		return f
	}
	normalized := Normalize(raw)

	if price, ok := e.detectPrice(normalized); ok {
		text := fmt.Sprintf(e.rules.PriceFormat, price)
		status := constants.PriceStatusAvailable
		f.Price, f.PriceText, f.PriceStatus = &price, &text, &status
	}

	tags := e.detectTags(normalized)
	if len(tags) > 0 {
		f.DetectedKeywords = tags
		name := e.synthesizeName(tags)
		f.Name = &name
		if cat, ok := e.categoryFor(tags); ok {
			f.Category = &cat
		}
	}

	if material, ok := e.resolveMaterial(tags, normalized); ok {
		f.Material = &material
	}

	if desc, ok := e.describe(raw); ok {
		f.Description = &desc
	}

	if f.Price == nil && e.asksToConsult(normalized) {
		status := constants.PriceStatusConsult
		f.PriceStatus = &status
	}

	e.logger.Debug("fields extracted",
		"price", derefInt(f.Price),
		"tags", len(tags),
		"material", derefString(f.Material),
		"consult", f.Price == nil && f.PriceStatus != nil,
	)
	return f
}

// detectPrice collects every in-bound candidate across all patterns and returns the most
// frequent value, ties going to the earliest collected.
func (e *Extractor) detectPrice(normalized string) (int, bool) {
	var candidates []int
	for _, p := range e.rules.PricePatterns {
		for _, m := range p.re.FindAllStringSubmatch(normalized, -1) {
			v, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if v < e.rules.PriceBound.Min || v > e.rules.PriceBound.Max {
				continue
			}
			candidates = append(candidates, v)
		}
	}
	return mostFrequent(candidates)
}

func mostFrequent(values []int) (int, bool) {
	if len(values) == 0 {
		return 0, false
	}
	counts := make(map[int]int, len(values))
	var order []int
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best, true
}

// detectTags records each canonical tag once, on its first matching variant, in table order.
func (e *Extractor) detectTags(normalized string) []string {
	var tags []string
	seen := map[string]struct{}{}
	for _, rule := range e.rules.Tags {
		for _, variant := range rule.Variants {
			if !strings.Contains(normalized, variant) {
				continue
			}
			if _, dup := seen[rule.Tag]; !dup {
				seen[rule.Tag] = struct{}{}
				tags = append(tags, rule.Tag)
			}
			break
		}
	}
	return tags
}

// synthesizeName builds "<Type>[ de Graduación | <Feature>][ de <Material>]",
// "<Feature>[ de <Material>]", "<Generic> de <Material>" or the first tag, in that priority.
func (e *Extractor) synthesizeName(tags []string) string {
	typ := firstOf(tags, e.rules.Naming.Types)
	material := firstOf(tags, e.rules.Naming.Materials)
	feature := firstOf(tags, e.rules.Naming.Features)

	var parts []string
	switch {
	case typ != "":
		parts = append(parts, e.label(typ))
		if feature != "" {
			if rule, _ := e.rules.Tag(feature); rule != nil && rule.Prefixed {
				parts[0] += " de " + e.label(feature)
			} else {
				parts = append(parts, e.label(feature))
			}
		}
		if material != "" {
			parts = append(parts, "de "+e.label(material))
		}
	case feature != "":
		parts = append(parts, e.label(feature))
		if material != "" {
			parts = append(parts, "de "+e.label(material))
		}
	case material != "":
		parts = append(parts, e.rules.Naming.Generic+" de "+e.label(material))
	default:
		parts = append(parts, e.label(tags[0]))
	}
	return strings.Join(parts, " ")
}

func (e *Extractor) label(tag string) string {
	if rule, ok := e.rules.Tag(tag); ok && rule.Label != "" {
		return rule.Label
	}
	// Casers are stateful; one per call keeps Extract safe for concurrent use.
	return cases.Title(language.Spanish).String(tag)
}

// categoryFor maps the first detected naming type onto its bucket.
func (e *Extractor) categoryFor(tags []string) (constants.Category, bool) {
	typ := firstOf(tags, e.rules.Naming.Types)
	if typ == "" {
		return "", false
	}
	rule, ok := e.rules.Tag(typ)
	if !ok || rule.Bucket == "" {
		return "", false
	}
	return rule.Bucket, true
}

// resolveMaterial refines the first detected material (in rule order) into a variant.
func (e *Extractor) resolveMaterial(tags []string, normalized string) (string, bool) {
	detected := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		detected[t] = struct{}{}
	}
	for _, m := range e.rules.Materials {
		if _, ok := detected[m.Tag]; !ok {
			continue
		}
		for _, v := range m.Variants {
			for _, marker := range v.Markers {
				if strings.Contains(normalized, marker) {
					return v.Variant, true
				}
			}
		}
		return m.Tag, true
	}
	return "", false
}

// describe picks the first raw line whose length is strictly inside the configured bounds,
// that is not all upper-case and holds at least one letter.
func (e *Extractor) describe(raw string) (string, bool) {
	d := e.rules.Description
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		n := utf8.RuneCountInString(line)
		if n <= d.MinLen || n >= d.MaxLen {
			continue
		}
		if isUpper(line) || !hasLetter(line) {
			continue
		}
		return truncateRunes(line, d.Cap), true
	}
	return "", false
}

func (e *Extractor) asksToConsult(normalized string) bool {
	for _, marker := range e.rules.ConsultMarkers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}

func firstOf(tags, allowed []string) string {
	for _, t := range tags {
		for _, a := range allowed {
			if t == a {
				return t
			}
		}
	}
	return ""
}

// isUpper is true when s has at least one cased letter and none of them is lower-case.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
