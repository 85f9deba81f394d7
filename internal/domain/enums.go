package domain

// OrderStatus represents the settlement state of an order.
type OrderStatus string

const (
	// OrderStatusPending - recorded but payment not yet confirmed
	// (Vorkasse orders start here and are confirmed out-of-band).
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusPaid - payment confirmed. Terminal.
	OrderStatusPaid OrderStatus = "paid"
)

// IsValid checks if the order status is valid.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid. Paid is terminal;
// re-confirming a paid order is allowed so reconciliation stays idempotent.
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return newStatus == OrderStatusPaid
	case OrderStatusPaid:
		return newStatus == OrderStatusPaid
	default:
		return false
	}
}

// PaymentMethod names the rail a checkout went through.
type PaymentMethod string

const (
	// PaymentMethodMollie - hosted redirect checkout (Klarna/Karte/Sofort via Mollie).
	PaymentMethodMollie PaymentMethod = "mollie"
	// PaymentMethodPayPal - in-page button, captured server-side.
	PaymentMethodPayPal PaymentMethod = "paypal"
	// PaymentMethodVorkasse - manual bank transfer, confirmed out-of-band.
	PaymentMethodVorkasse PaymentMethod = "vorkasse"
)

// IsValid checks if the payment method is one we sell through.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodMollie, PaymentMethodPayPal, PaymentMethodVorkasse:
		return true
	default:
		return false
	}
}

// Label returns the customer-facing name used in order mails.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodMollie:
		return "Mollie (z.B. Klarna/Karte/Sofort)"
	case PaymentMethodPayPal:
		return "PayPal"
	case PaymentMethodVorkasse:
		return "Vorkasse (Banküberweisung)"
	default:
		return string(m)
	}
}
