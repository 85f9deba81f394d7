package coupon

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PB4aCe/4aceDE-SHOP/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Engine applies coupon codes to carts. It is pure: no I/O, no side effects,
// an unknown or expired code simply yields zero discount.
type Engine struct {
	coupons []domain.Coupon
	now     func() time.Time
}

// NewEngine creates an engine over a fixed coupon table.
func NewEngine(coupons []domain.Coupon) *Engine {
	return &Engine{
		coupons: coupons,
		now:     time.Now,
	}
}

// Default returns an engine over the deploy-time coupon table.
func Default() *Engine {
	return NewEngine(Coupons)
}

// Apply computes subtotal, discount and final total for the given cart and
// optional code. The discount base is either the whole cart or, for a
// restricted coupon, only the matching lines. Monetary rounding is to two
// decimal places; the final total never goes below zero.
func (e *Engine) Apply(items []domain.CartLine, code string) domain.CouponResult {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	result := domain.CouponResult{
		Subtotal:       subtotal,
		DiscountAmount: decimal.Zero,
		FinalTotal:     subtotal,
	}

	c := e.lookup(code)
	if c == nil {
		return result
	}

	eligible := subtotal
	if len(c.ProductIDs) > 0 {
		eligible = decimal.Zero
		for _, item := range items {
			if c.AppliesTo(item.ProductID) {
				eligible = eligible.Add(item.LineTotal())
			}
		}
	}

	discount := eligible.Mul(decimal.NewFromInt(int64(c.Percentage))).Div(hundred).Round(2)
	finalTotal := subtotal.Sub(discount).Round(2)
	if finalTotal.IsNegative() {
		finalTotal = decimal.Zero
	}

	result.DiscountAmount = discount
	result.FinalTotal = finalTotal
	result.AppliedCoupon = c
	return result
}

// lookup finds an active, currently valid coupon by case-insensitive code.
func (e *Engine) lookup(code string) *domain.Coupon {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil
	}
	for i := range e.coupons {
		c := &e.coupons[i]
		if strings.ToUpper(c.Code) != normalized {
			continue
		}
		if !c.Active {
			return nil
		}
		if !e.validByDate(c) {
			return nil
		}
		return c
	}
	return nil
}

func (e *Engine) validByDate(c *domain.Coupon) bool {
	now := e.now()
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}
	return true
}
