package coupon

import "github.com/PB4aCe/4aceDE-SHOP/internal/domain"

// Coupons is the deploy-time coupon table. Codes are matched
// case-insensitively; only one code is accepted per checkout.
var Coupons = []domain.Coupon{
	{
		Code:        "TEST10",
		Description: "10 % Test-Rabatt auf alle Produkte",
		Percentage:  10,
		Active:      true,
	},
	{
		Code:        "OHNELIEBE15",
		Description: "15 % auf OHNE LIEBE",
		Percentage:  15,
		ProductIDs:  []string{"ohne-liebe-001"},
		Active:      true,
	},
}
