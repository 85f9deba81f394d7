package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/PB4aCe/4aceDE-SHOP/internal/domain"
	"github.com/PB4aCe/4aceDE-SHOP/internal/payment/mollie"
	"github.com/PB4aCe/4aceDE-SHOP/internal/payment/paypal"
)

// HostedGateway is the narrow contract with the hosted-redirect processor.
// Satisfied by *mollie.Client.
type HostedGateway interface {
	CreatePayment(ctx context.Context, req mollie.CreatePaymentRequest) (*mollie.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*mollie.Payment, error)
}

// CaptureGateway is the narrow contract with the in-page button processor.
// Satisfied by *paypal.Client.
type CaptureGateway interface {
	CaptureOrder(ctx context.Context, externalOrderID string) (*paypal.CaptureResult, error)
}

// CheckoutRequest is the normalized checkout payload shared by all three
// payment flows.
type CheckoutRequest struct {
	Customer   domain.Customer
	Items      []domain.CartLine
	Total      decimal.Decimal
	CouponCode string
}

// couponCodePtr returns the coupon code for persistence/metadata, nil when
// no code was supplied.
func (r CheckoutRequest) couponCodePtr() *string {
	if r.CouponCode == "" {
		return nil
	}
	code := r.CouponCode
	return &code
}

// HostedPaymentResult is what the client needs to continue a hosted-redirect
// checkout.
type HostedPaymentResult struct {
	OrderNumber string
	PaymentID   string
	CheckoutURL string
}

// FinalizeResult reports how a callback finalize ended. OrderNumber may be
// empty when the payment carried no metadata.
type FinalizeResult struct {
	OrderNumber   string
	PaymentStatus string
	Paid          bool
}

// FinalizeOutcome collects the results of each side-effecting step performed
// after a payment is confirmed. By that point the money has already moved, so
// failures here are logged and never propagated; the outcome record is the
// log's source of truth.
type FinalizeOutcome struct {
	OrderNumber     string
	Persisted       bool
	PersistErr      error
	CustomerMailErr error
	InternalMailErr error
}

func metadataItems(items []domain.CartLine) []mollie.MetadataItem {
	out := make([]mollie.MetadataItem, 0, len(items))
	for _, i := range items {
		out = append(out, mollie.MetadataItem{
			ID:       i.ProductID,
			Name:     i.Name,
			Price:    i.UnitPrice,
			Quantity: i.Quantity,
		})
	}
	return out
}

func cartLinesFromMetadata(items []mollie.MetadataItem) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(items))
	for _, i := range items {
		out = append(out, domain.CartLine{
			ProductID: i.ID,
			Name:      i.Name,
			UnitPrice: i.Price,
			Quantity:  i.Quantity,
		})
	}
	return out
}
