package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/catalog-extractor/constants"
)

// TagKind groups canonical tags for name synthesis and reporting.
type TagKind string

const (
	KindType     TagKind = "type"
	KindMaterial TagKind = "material"
	KindFeature  TagKind = "feature"
	KindMotif    TagKind = "motif"
)

// TagRule maps a canonical tag onto the surface forms that reveal it.
type TagRule struct {
	Tag      string             `yaml:"tag"`
	Kind     TagKind            `yaml:"kind"`
	Label    string             `yaml:"label,omitempty"`  // display form, title-cased tag when empty
	Variants []string           `yaml:"variants"`         // substrings searched in normalized text
	Bucket   constants.Category `yaml:"bucket,omitempty"` // catalog bucket for type tags
	Prefixed bool               `yaml:"prefixed,omitempty"`
}

// PricePattern is a regular expression whose first capture group holds the amount.
type PricePattern struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`

	re *regexp.Regexp
}

// PriceBound is the inclusive plausible price range.
type PriceBound struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// MaterialVariant is selected when any of its markers appears in the normalized text.
type MaterialVariant struct {
	Markers []string `yaml:"markers"`
	Variant string   `yaml:"variant"`
}

// MaterialRule refines a coarse material tag; the tag itself is the fallback.
type MaterialRule struct {
	Tag      string            `yaml:"tag"`
	Variants []MaterialVariant `yaml:"variants"`
}

// NamingRules list, in priority order, which tags may fill each slot of a synthesized name.
type NamingRules struct {
	Types     []string `yaml:"types"`
	Materials []string `yaml:"materials"`
	Features  []string `yaml:"features"`
	Generic   string   `yaml:"generic"` // noun used when only a material is known
}

// DescriptionRules bound the candidate lines (exclusive) and cap the chosen one.
type DescriptionRules struct {
	MinLen int `yaml:"min_len"`
	MaxLen int `yaml:"max_len"`
	Cap    int `yaml:"cap"`
}

// Rules is the complete, auditable rule set of the field extractor.
type Rules struct {
	Tags           []TagRule
	PricePatterns  []PricePattern
	PriceBound     PriceBound
	PriceFormat    string
	Materials      []MaterialRule
	Naming         NamingRules
	Description    DescriptionRules
	ConsultMarkers []string
	MinTextLength  int

	byTag map[string]*TagRule
}

// DefaultRules returns the rule set tuned for the jewelry catalog.
func DefaultRules() *Rules {
	return &Rules{
		Tags: []TagRule{
			{Tag: "anillo", Kind: KindType, Bucket: constants.Rings, Variants: []string{"anillo", "anillos", "sortija", "sortijas"}},
			{Tag: "dije", Kind: KindType, Bucket: constants.Pendants, Variants: []string{"dije", "dijes", "medalla", "medallas"}},
			{Tag: "relicario", Kind: KindType, Bucket: constants.Pendants, Variants: []string{"relicario", "relicarios"}},
			{Tag: "pulsera", Kind: KindType, Bucket: constants.Bracelets, Variants: []string{"pulsera", "pulseras", "brazalete", "brazaletes", "manilla"}},
			{Tag: "collar", Kind: KindType, Bucket: constants.Necklaces, Variants: []string{"collar", "collares", "gargantilla"}},
			{Tag: "aretes", Kind: KindType, Bucket: constants.Earrings, Variants: []string{"arete", "aretes", "pendiente", "pendientes", "zarcillo"}},
			{Tag: "cadena", Kind: KindType, Bucket: constants.Necklaces, Variants: []string{"cadena", "cadenas"}},
			{Tag: "set", Kind: KindType, Bucket: constants.Sets, Variants: []string{"set", "juego", "combo"}},

			{Tag: "oro", Kind: KindMaterial, Variants: []string{"oro", "dorado", "gold", "18k", "14k", "bano de oro"}},
			{Tag: "plata", Kind: KindMaterial, Variants: []string{"plata", "plateado", "silver", "925"}},
			{Tag: "acero", Kind: KindMaterial, Variants: []string{"acero", "steel", "quirurgico"}},

			{Tag: "graduacion", Kind: KindFeature, Label: "Graduación", Prefixed: true, Variants: []string{"graduacion", "bachiller", "universitario", "grado"}},
			{Tag: "grabado", Kind: KindFeature, Variants: []string{"grabado", "grabados", "personalizado", "personalizacion"}},
			{Tag: "cristal", Kind: KindFeature, Variants: []string{"cristal", "cristales", "piedra", "zirconia"}},
			{Tag: "perla", Kind: KindFeature, Variants: []string{"perla", "perlas"}},
			{Tag: "diamante", Kind: KindFeature, Variants: []string{"diamante", "diamantes"}},

			{Tag: "corazon", Kind: KindMotif, Label: "Corazón", Variants: []string{"corazon", "heart"}},
			{Tag: "cruz", Kind: KindMotif, Variants: []string{"cruz", "cross"}},
			{Tag: "estrella", Kind: KindMotif, Variants: []string{"estrella", "star"}},
			{Tag: "luna", Kind: KindMotif, Variants: []string{"luna", "moon"}},
			{Tag: "flor", Kind: KindMotif, Variants: []string{"flor", "flores", "flower"}},
			{Tag: "infinito", Kind: KindMotif, Variants: []string{"infinito", "infinity"}},
			{Tag: "mariposa", Kind: KindMotif, Variants: []string{"mariposa", "butterfly"}},
		},
		PricePatterns: []PricePattern{
			{Name: "currency_sign", Expr: `\$\s*(\d{1,3})(?:\D|$)`},
			{Name: "currency_word", Expr: `(?:^|\D)(\d{1,3})\s*(?:usd|dolares?)`},
			{Name: "starting_at", Expr: `(?:desde|a partir de|por)\s*\$?\s*(\d{1,3})(?:\D|$)`},
			{Name: "price_label", Expr: `(?:precio|costo|valor)s?:?\s*\$?\s*(\d{1,3})(?:\D|$)`},
		},
		PriceBound:  PriceBound{Min: 5, Max: 500},
		PriceFormat: "$%d USD",
		Materials: []MaterialRule{
			{Tag: "oro", Variants: []MaterialVariant{
				{Markers: []string{"18k", "18 k"}, Variant: "oro_18k"},
				{Markers: []string{"14k"}, Variant: "oro_14k"},
				{Markers: []string{"rosa"}, Variant: "oro_rosa"},
				{Markers: []string{"blanco"}, Variant: "oro_blanco"},
			}},
			{Tag: "plata", Variants: []MaterialVariant{
				{Markers: []string{"925"}, Variant: "plata_925"},
			}},
			{Tag: "acero", Variants: []MaterialVariant{
				{Markers: []string{"quirurgico"}, Variant: "acero_quirurgico"},
			}},
		},
		Naming: NamingRules{
			Types:     []string{"anillo", "dije", "relicario", "pulsera", "collar", "aretes", "cadena", "set"},
			Materials: []string{"oro", "plata", "acero"},
			Features:  []string{"graduacion", "grabado", "corazon", "cruz"},
			Generic:   "Joya",
		},
		Description:    DescriptionRules{MinLen: 10, MaxLen: 100, Cap: 200},
		ConsultMarkers: []string{"consultar", "consulta", "cotizar", "cotizacion", "preguntar", "disponibilidad", "bajo pedido"},
		MinTextLength:  5,
	}
}

// Compile validates the rule set and prepares its regular expressions and lookups.
func (r *Rules) Compile() error {
	if r.PriceBound.Min < 0 || r.PriceBound.Min > r.PriceBound.Max {
		return fmt.Errorf("price bound [%d, %d] is invalid", r.PriceBound.Min, r.PriceBound.Max)
	}
	if len(r.PricePatterns) == 0 {
		return fmt.Errorf("at least one price pattern is required")
	}
	for i := range r.PricePatterns {
		p := &r.PricePatterns[i]
		re, err := regexp.Compile(p.Expr)
		if err != nil {
			return fmt.Errorf("price pattern %q: %w", p.Name, err)
		}
		if re.NumSubexp() < 1 {
			return fmt.Errorf("price pattern %q has no capture group", p.Name)
		}
		p.re = re
	}
	if r.Description.MinLen < 0 || r.Description.MinLen >= r.Description.MaxLen || r.Description.Cap <= 0 {
		return fmt.Errorf("description bounds (%d, %d) cap %d are invalid",
			r.Description.MinLen, r.Description.MaxLen, r.Description.Cap)
	}

	r.byTag = make(map[string]*TagRule, len(r.Tags))
	for i := range r.Tags {
		t := &r.Tags[i]
		switch t.Kind {
		case KindType, KindMaterial, KindFeature, KindMotif:
		default:
			return fmt.Errorf("tag %q has unknown kind %q", t.Tag, t.Kind)
		}
		if t.Tag == "" || len(t.Variants) == 0 {
			return fmt.Errorf("tag rule %d needs a tag and at least one variant", i)
		}
		if _, dup := r.byTag[t.Tag]; dup {
			return fmt.Errorf("tag %q declared twice", t.Tag)
		}
		if t.Bucket != "" {
			bucket, ok := constants.Canonicalize(string(t.Bucket))
			if !ok {
				return fmt.Errorf("tag %q has unknown bucket %q (want one of %s)",
					t.Tag, t.Bucket, strings.Join(constants.AsStringSlice(), ", "))
			}
			t.Bucket = bucket
		}
		for j, v := range t.Variants {
			t.Variants[j] = Normalize(v)
		}
		r.byTag[t.Tag] = t
	}

	for _, list := range [][]string{r.Naming.Types, r.Naming.Materials, r.Naming.Features} {
		for _, tag := range list {
			if _, ok := r.byTag[tag]; !ok {
				return fmt.Errorf("naming refers to unknown tag %q", tag)
			}
		}
	}
	for _, m := range r.Materials {
		if _, ok := r.byTag[m.Tag]; !ok {
			return fmt.Errorf("material rule refers to unknown tag %q", m.Tag)
		}
		for _, v := range m.Variants {
			for j := range v.Markers {
				v.Markers[j] = Normalize(v.Markers[j])
			}
		}
	}
	for i := range r.ConsultMarkers {
		r.ConsultMarkers[i] = Normalize(r.ConsultMarkers[i])
	}
	return nil
}

// Tag returns the rule for a canonical tag.
func (r *Rules) Tag(tag string) (*TagRule, bool) {
	t, ok := r.byTag[tag]
	return t, ok
}
