package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/PB4aCe/4aceDE-SHOP/internal/domain"
	"github.com/PB4aCe/4aceDE-SHOP/internal/payment/mollie"
	"github.com/PB4aCe/4aceDE-SHOP/internal/payment/paypal"
	"github.com/PB4aCe/4aceDE-SHOP/pkg/errors"
)

// fakeOrderStore is an in-memory OrderRepository keyed on order number,
// honoring the same semantics as the postgres implementation.
type fakeOrderStore struct {
	mu        sync.Mutex
	orders    map[string]*domain.Order
	insertErr error
	updateErr error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*domain.Order)}
}

func (s *fakeOrderStore) InsertIfAbsent(_ context.Context, order *domain.Order) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return false, s.insertErr
	}
	if _, ok := s.orders[order.OrderNumber]; ok {
		return false, nil
	}
	copied := *order
	s.orders[order.OrderNumber] = &copied
	return true, nil
}

func (s *fakeOrderStore) MarkPaid(_ context.Context, orderNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	if order, ok := s.orders[orderNumber]; ok {
		order.Status = domain.OrderStatusPaid
	}
	return nil
}

func (s *fakeOrderStore) GetByOrderNumber(_ context.Context, orderNumber string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderNumber]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "order", ID: orderNumber}
	}
	copied := *order
	return &copied, nil
}

func (s *fakeOrderStore) ListRecent(_ context.Context, limit int) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Order
	for _, o := range s.orders {
		if len(out) == limit {
			break
		}
		copied := *o
		out = append(out, &copied)
	}
	return out, nil
}

func (s *fakeOrderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *fakeOrderStore) get(orderNumber string) *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[orderNumber]
}

// fakeHostedGateway serves canned payments by id.
type fakeHostedGateway struct {
	payments  map[string]*mollie.Payment
	createErr error
	created   []mollie.CreatePaymentRequest
}

func (g *fakeHostedGateway) CreatePayment(_ context.Context, req mollie.CreatePaymentRequest) (*mollie.Payment, error) {
	g.created = append(g.created, req)
	if g.createErr != nil {
		return nil, g.createErr
	}
	meta := req.Metadata
	payment := &mollie.Payment{
		ID:     "tr_created",
		Status: mollie.StatusOpen,
		Amount: mollie.Amount{Currency: req.Currency, Value: req.Amount.StringFixed(2)},
	}
	payment.Metadata = &meta
	payment.Links.Checkout.Href = "https://pay.example/checkout/tr_created"
	return payment, nil
}

func (g *fakeHostedGateway) GetPayment(_ context.Context, paymentID string) (*mollie.Payment, error) {
	payment, ok := g.payments[paymentID]
	if !ok {
		return nil, &errors.ErrGateway{Provider: "mollie", Op: "fetch payment", Message: "not found"}
	}
	return payment, nil
}

// fakeCaptureGateway returns one canned capture outcome.
type fakeCaptureGateway struct {
	result *paypal.CaptureResult
	err    error
	calls  []string
}

func (g *fakeCaptureGateway) CaptureOrder(_ context.Context, externalOrderID string) (*paypal.CaptureResult, error) {
	g.calls = append(g.calls, externalOrderID)
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

type sentMail struct {
	to      string
	subject string
	text    string
}

// fakeMailer records sends and can fail per recipient.
type fakeMailer struct {
	mu     sync.Mutex
	sent   []sentMail
	failTo map[string]error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failTo[to]; ok {
		return err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, text: text})
	return nil
}

func (m *fakeMailer) sentTo(to string) []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMail
	for _, s := range m.sent {
		if s.to == to {
			out = append(out, s)
		}
	}
	return out
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

var errStoreDown = fmt.Errorf("connection refused")
