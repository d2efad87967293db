package constants

// PriceStatus describes how a product's price should be presented.
type PriceStatus string

// Stable values (written verbatim into every output artifact).
const (
	PriceStatusAvailable PriceStatus = "available" // a numeric price was extracted
	PriceStatusConsult   PriceStatus = "consult"   // no price, page asks the customer to inquire
)
