package constants

import (
	"strings"
)

// Category is a coarse catalog bucket derived from the detected product type.
type Category string

const (
	Rings     Category = "anillos"
	Necklaces Category = "collares"
	Bracelets Category = "pulseras"
	Earrings  Category = "aretes"
	Pendants  Category = "dijes"
	Sets      Category = "sets"
)

var allCategories = []Category{
	Rings,
	Necklaces,
	Bracelets,
	Earrings,
	Pendants,
	Sets,
}

// AsStringSlice lists the bucket names in catalog order.
func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Canonicalize maps a bucket name or one of its common synonyms onto a Category.
func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return "", false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	synonyms := map[string]Category{
		"rings":      Rings,
		"sortijas":   Rings,
		"necklaces":  Necklaces,
		"cadenas":    Necklaces,
		"bracelets":  Bracelets,
		"brazaletes": Bracelets,
		"earrings":   Earrings,
		"pendientes": Earrings,
		"pendants":   Pendants,
		"relicarios": Pendants,
		"juegos":     Sets,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	for _, cat := range allCategories {
		if normalized == string(cat) {
			return cat, true
		}
	}

	return "", false
}
