package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one position of a checkout attempt. Cart contents are supplied
// by the client on every request and are never persisted directly; they travel
// through payment metadata and mail bodies only.
type CartLine struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// LineTotal returns unit price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Customer holds the billing contact of a checkout attempt.
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

// Coupon is a named discount rule. Coupons are defined at deploy time and
// never mutated at runtime.
type Coupon struct {
	Code        string
	Description string
	Percentage  int      // 10 = 10% off
	ProductIDs  []string // empty = applies to the entire cart
	ValidFrom   *time.Time
	ValidUntil  *time.Time
	Active      bool
}

// AppliesTo reports whether the given product falls under the coupon. An
// unrestricted coupon applies to every product.
func (c Coupon) AppliesTo(productID string) bool {
	if len(c.ProductIDs) == 0 {
		return true
	}
	for _, id := range c.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// CouponResult is the outcome of applying a coupon code to a cart. It is
// derived on every request; only FinalTotal and the coupon code flow into an
// order.
type CouponResult struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalTotal     decimal.Decimal
	AppliedCoupon  *Coupon
}

// Order is the durable record of a settled (or pending) checkout. The order
// number is the idempotency key: the orders table carries a unique constraint
// on it and every write in the settlement path is a single-row statement.
type Order struct {
	ID               uuid.UUID
	OrderNumber      string
	PaymentMethod    PaymentMethod
	Status           OrderStatus
	BillingFirstName *string
	BillingLastName  *string
	BillingEmail     *string
	BillingStreet    *string
	BillingZip       *string
	BillingCity      *string
	BillingCountry   *string
	TotalAmount      decimal.Decimal
	Currency         string
	CouponCode       *string
	// PaymentReference is the processor's own id for the payment
	// (Mollie payment id or PayPal order id), nil for Vorkasse.
	PaymentReference *string
	CreatedAt        time.Time
}
