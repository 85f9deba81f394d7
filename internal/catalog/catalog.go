package catalog

import "github.com/shopspring/decimal"

// Availability describes how fast a product can ship.
type Availability string

const (
	AvailabilityUnavailable Availability = "unavailable"
	AvailabilityRestock     Availability = "restock"
	AvailabilityFast        Availability = "1-3"
	AvailabilityStandard    Availability = "5-7"
)

// Label returns the customer-facing delivery text.
func (a Availability) Label() string {
	switch a {
	case AvailabilityUnavailable:
		return "Derzeit nicht lieferbar"
	case AvailabilityRestock:
		return "Nachschub ist unterwegs"
	case AvailabilityFast:
		return "Lieferzeit 1-3 Werktage"
	case AvailabilityStandard:
		return "Lieferzeit 5-7 Werktage"
	default:
		return string(a)
	}
}

// Orderable reports whether the product can currently be put in a cart.
func (a Availability) Orderable() bool {
	return a != AvailabilityUnavailable
}

// Product is a catalog entry. The catalog is static configuration data,
// read-only at runtime.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Description   string          `json:"description"`
	Category      string          `json:"category,omitempty"`
	IsNew         bool            `json:"isNew,omitempty"`
	Availability  Availability    `json:"availability"`
}

// All returns every catalog product.
func All() []Product {
	return products
}

// ByID returns the product with the given id, or nil.
func ByID(id string) *Product {
	for i := range products {
		if products[i].ID == id {
			return &products[i]
		}
	}
	return nil
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pricePtr(s string) *decimal.Decimal {
	d := price(s)
	return &d
}

var products = []Product{
	{
		ID:            "meryemb-set",
		Name:          "Meryem Boral Trilogie-Set",
		Price:         price("29.99"),
		OriginalPrice: pricePtr("36.97"),
		Description:   "Von Ohne Liebe bis HERZBLUT – eine Reise durch toxische Liebe, Verlust und Selbstheilung.",
		Category:      "meryem-boral",
		IsNew:         true,
		Availability:  AvailabilityStandard,
	},
	{
		ID:           "herzblut-2025",
		Name:         "HERZBLUT",
		Price:        price("13.49"),
		Description:  "Taschenbuch – 2025",
		Category:     "meryem-boral",
		IsNew:        true,
		Availability: AvailabilityStandard,
	},
	{
		ID:           "ohne-liebe-22",
		Name:         "OHNE LIEBE – Meryem Boral",
		Price:        price("10.99"),
		Description:  "Taschenbuch – 14. Juli 2022",
		Category:     "meryem-boral",
		Availability: AvailabilityFast,
	},
	{
		ID:           "badt-2023",
		Name:         "Brief an den Täter",
		Price:        price("12.49"),
		Description:  "Taschenbuch – 21. Oktober 2023",
		Category:     "meryem-boral",
		Availability: AvailabilityStandard,
	},
}
