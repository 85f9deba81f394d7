package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PB4aCe/4aceDE-SHOP/internal/domain"
	"github.com/PB4aCe/4aceDE-SHOP/internal/payment/mollie"
)

func TestExtractPaymentID(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{
			name:        "json body",
			contentType: "application/json",
			body:        `{"id":"tr_WDqYK6vllg"}`,
			want:        "tr_WDqYK6vllg",
		},
		{
			name:        "json with charset",
			contentType: "application/json; charset=utf-8",
			body:        `{"id":"tr_WDqYK6vllg"}`,
			want:        "tr_WDqYK6vllg",
		},
		{
			name:        "form encoded body",
			contentType: "application/x-www-form-urlencoded",
			body:        "id=tr_WDqYK6vllg",
			want:        "tr_WDqYK6vllg",
		},
		{
			name:        "labeled id in plain text",
			contentType: "text/plain",
			body:        "payment id: tr_WDqYK6vllg at 12:00",
			want:        "tr_WDqYK6vllg",
		},
		{
			name:        "labeled id with equals",
			contentType: "",
			body:        "ID=tr_WDqYK6vllg",
			want:        "tr_WDqYK6vllg",
		},
		{
			name:        "bare id anywhere in body",
			contentType: "application/octet-stream",
			body:        "something something tr_WDqYK6vllg trailing",
			want:        "tr_WDqYK6vllg",
		},
		{
			name:        "json content type with bare id falls through to scan",
			contentType: "application/json",
			body:        "not json but mentions tr_WDqYK6vllg",
			want:        "tr_WDqYK6vllg",
		},
		{
			name:        "no id at all",
			contentType: "text/plain",
			body:        "nothing to see here",
			want:        "",
		},
		{
			name: "empty body",
			body: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPaymentID(tt.contentType, []byte(tt.body)))
		})
	}
}

func seedPendingOrder(store *fakeOrderStore, orderNumber string) {
	ref := "tr_paid1"
	store.orders[orderNumber] = &domain.Order{
		OrderNumber:      orderNumber,
		PaymentMethod:    domain.PaymentMethodMollie,
		Status:           domain.OrderStatusPending,
		PaymentReference: &ref,
	}
}

func TestReconcile_PaidPaymentMarksOrderPaid(t *testing.T) {
	hosted := &fakeHostedGateway{payments: map[string]*mollie.Payment{
		"tr_paid1": paidPayment("4ACE-20260831-A1B2"),
	}}
	store := newFakeOrderStore()
	seedPendingOrder(store, "4ACE-20260831-A1B2")
	reconciler := NewWebhookReconciler(store, hosted, zap.NewNop())

	result := reconciler.Reconcile(context.Background(), "application/x-www-form-urlencoded", []byte("id=tr_paid1"))

	assert.Equal(t, ReconcileUpdated, result)
	order := store.get("4ACE-20260831-A1B2")
	require.NotNil(t, order)
	assert.Equal(t, domain.OrderStatusPaid, order.Status)
}

// A non-paid status must leave the store untouched.
func TestReconcile_OpenPaymentTouchesNothing(t *testing.T) {
	open := paidPayment("4ACE-20260831-A1B2")
	open.Status = mollie.StatusOpen
	hosted := &fakeHostedGateway{payments: map[string]*mollie.Payment{"tr_open": open}}
	store := newFakeOrderStore()
	seedPendingOrder(store, "4ACE-20260831-A1B2")
	reconciler := NewWebhookReconciler(store, hosted, zap.NewNop())

	result := reconciler.Reconcile(context.Background(), "application/x-www-form-urlencoded", []byte("id=tr_open"))

	assert.Equal(t, ReconcileNotPaid, result)
	assert.Equal(t, domain.OrderStatusPending, store.get("4ACE-20260831-A1B2").Status)
}

func TestReconcile_NoPaymentID(t *testing.T) {
	store := newFakeOrderStore()
	reconciler := NewWebhookReconciler(store, &fakeHostedGateway{}, zap.NewNop())

	result := reconciler.Reconcile(context.Background(), "text/plain", []byte("garbage"))

	assert.Equal(t, ReconcileNoPaymentID, result)
	assert.Zero(t, store.count())
}

func TestReconcile_FetchFailure(t *testing.T) {
	hosted := &fakeHostedGateway{payments: map[string]*mollie.Payment{}}
	store := newFakeOrderStore()
	reconciler := NewWebhookReconciler(store, hosted, zap.NewNop())

	result := reconciler.Reconcile(context.Background(), "application/x-www-form-urlencoded", []byte("id=tr_gone"))

	assert.Equal(t, ReconcileFetchFailed, result)
	assert.Zero(t, store.count())
}

func TestReconcile_PaidWithoutOrderNumber(t *testing.T) {
	payment := paidPayment("")
	hosted := &fakeHostedGateway{payments: map[string]*mollie.Payment{"tr_paid1": payment}}
	store := newFakeOrderStore()
	reconciler := NewWebhookReconciler(store, hosted, zap.NewNop())

	result := reconciler.Reconcile(context.Background(), "application/x-www-form-urlencoded", []byte("id=tr_paid1"))

	assert.Equal(t, ReconcileNoOrderNumber, result)
	assert.Zero(t, store.count())
}

// Concurrent deliveries for the same paid payment must converge on a single
// paid row and never create a duplicate.
func TestReconcile_ConcurrentDeliveriesAreIdempotent(t *testing.T) {
	hosted := &fakeHostedGateway{payments: map[string]*mollie.Payment{
		"tr_paid1": paidPayment("4ACE-20260831-A1B2"),
	}}
	store := newFakeOrderStore()
	seedPendingOrder(store, "4ACE-20260831-A1B2")
	reconciler := NewWebhookReconciler(store, hosted, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := reconciler.Reconcile(context.Background(), "application/x-www-form-urlencoded", []byte("id=tr_paid1"))
			assert.Equal(t, ReconcileUpdated, result)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.count())
	assert.Equal(t, domain.OrderStatusPaid, store.get("4ACE-20260831-A1B2").Status)
}
