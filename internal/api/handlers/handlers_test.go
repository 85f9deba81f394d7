package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PB4aCe/4aceDE-SHOP/internal/config"
	"github.com/PB4aCe/4aceDE-SHOP/internal/coupon"
	"github.com/PB4aCe/4aceDE-SHOP/internal/domain"
	"github.com/PB4aCe/4aceDE-SHOP/internal/payment/mollie"
	"github.com/PB4aCe/4aceDE-SHOP/internal/repository"
	"github.com/PB4aCe/4aceDE-SHOP/internal/service"
	"github.com/PB4aCe/4aceDE-SHOP/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memOrders is a minimal in-memory OrderRepository for handler tests.
type memOrders struct {
	orders map[string]*domain.Order
}

func newMemOrders() *memOrders {
	return &memOrders{orders: make(map[string]*domain.Order)}
}

func (m *memOrders) InsertIfAbsent(_ context.Context, order *domain.Order) (bool, error) {
	if _, ok := m.orders[order.OrderNumber]; ok {
		return false, nil
	}
	m.orders[order.OrderNumber] = order
	return true, nil
}

func (m *memOrders) MarkPaid(_ context.Context, orderNumber string) error {
	if o, ok := m.orders[orderNumber]; ok {
		o.Status = domain.OrderStatusPaid
	}
	return nil
}

func (m *memOrders) GetByOrderNumber(_ context.Context, orderNumber string) (*domain.Order, error) {
	o, ok := m.orders[orderNumber]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "order", ID: orderNumber}
	}
	return o, nil
}

func (m *memOrders) ListRecent(_ context.Context, limit int) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range m.orders {
		if len(out) == limit {
			break
		}
		out = append(out, o)
	}
	return out, nil
}

type nopMailer struct{}

func (nopMailer) Send(context.Context, string, string, string) error { return nil }

// stubGateway serves one canned payment, or errors.
type stubGateway struct {
	payment *mollie.Payment
	err     error
}

func (g *stubGateway) CreatePayment(context.Context, mollie.CreatePaymentRequest) (*mollie.Payment, error) {
	return g.payment, g.err
}

func (g *stubGateway) GetPayment(context.Context, string) (*mollie.Payment, error) {
	return g.payment, g.err
}

func testCfg() *config.Config {
	return &config.Config{
		SiteURL:    "https://shop.example",
		AdminEmail: "admin@example.de",
		AdminKey:   "s3cret-admin-key",
	}
}

func testCheckoutService(store *memOrders, gateway *stubGateway) *service.CheckoutService {
	return service.NewCheckoutService(testCfg(), store, gateway, nil, nopMailer{}, zap.NewNop())
}

func perform(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleVorkasseCheckout(t *testing.T) {
	store := newMemOrders()
	router := gin.New()
	router.POST("/api/checkout/vorkasse", HandleVorkasseCheckout(testCheckoutService(store, nil), zap.NewNop()))

	body := `{
		"customer": {"firstName":"Maja","lastName":"Bergmann","email":"maja@example.de"},
		"items": [{"id":"herzblut-2025","name":"Herzblut 2025","price":13.49,"quantity":1}],
		"total": 13.49
	}`
	w := perform(router, http.MethodPost, "/api/checkout/vorkasse", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), "4ACE-VK-")
	assert.Len(t, store.orders, 1)
}

func TestHandleVorkasseCheckout_MalformedBody(t *testing.T) {
	router := gin.New()
	router.POST("/api/checkout/vorkasse", HandleVorkasseCheckout(testCheckoutService(newMemOrders(), nil), zap.NewNop()))

	w := perform(router, http.MethodPost, "/api/checkout/vorkasse", `{"total": "not a number"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleMollieCheckout_Validation(t *testing.T) {
	router := gin.New()
	router.POST("/api/checkout/mollie", HandleMollieCheckout(testCheckoutService(newMemOrders(), nil), zap.NewNop()))

	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"customer":{},"items":[{"id":"x","price":1,"quantity":1}],"total":1}`},
		{"empty items", `{"customer":{"email":"a@b.de"},"items":[],"total":1}`},
		{"zero total", `{"customer":{"email":"a@b.de"},"items":[{"id":"x","price":1,"quantity":1}],"total":0}`},
		{"negative total", `{"customer":{"email":"a@b.de"},"items":[{"id":"x","price":1,"quantity":1}],"total":-5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(router, http.MethodPost, "/api/checkout/mollie", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleMollieCheckout_GatewayFailure(t *testing.T) {
	gateway := &stubGateway{err: &errors.ErrGateway{Provider: "mollie", Op: "create payment", Message: "down"}}
	router := gin.New()
	router.POST("/api/checkout/mollie", HandleMollieCheckout(testCheckoutService(newMemOrders(), gateway), zap.NewNop()))

	body := `{"customer":{"email":"a@b.de"},"items":[{"id":"x","name":"X","price":9.99,"quantity":1}],"total":9.99}`
	w := perform(router, http.MethodPost, "/api/checkout/mollie", body)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func paidStubPayment(orderNumber string) *mollie.Payment {
	p := &mollie.Payment{
		ID:     "tr_handler1",
		Status: mollie.StatusPaid,
		Amount: mollie.Amount{Currency: "EUR", Value: "9.99"},
	}
	p.Metadata = &mollie.Metadata{
		OrderNumber: orderNumber,
		Customer:    domain.Customer{Email: "a@b.de"},
		Items:       []mollie.MetadataItem{{ID: "x", Name: "X", Price: decimal.RequireFromString("9.99"), Quantity: 1}},
		Totals:      mollie.MetadataTotals{TotalAmount: decimal.RequireFromString("9.99"), Currency: "EUR"},
	}
	return p
}

func TestHandleMollieReturn_RedirectsWithOrderNumber(t *testing.T) {
	store := newMemOrders()
	gateway := &stubGateway{payment: paidStubPayment("4ACE-20260831-Z9Z9")}
	router := gin.New()
	router.GET("/api/mollie/return", HandleMollieReturn(testCfg(), testCheckoutService(store, gateway), zap.NewNop()))

	w := perform(router, http.MethodGet, "/api/mollie/return?payment=tr_handler1", "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://shop.example/thank-you?order=4ACE-20260831-Z9Z9&method=mollie", w.Header().Get("Location"))
	assert.Len(t, store.orders, 1)
}

func TestHandleMollieReturn_MissingPaymentStillRedirects(t *testing.T) {
	router := gin.New()
	router.GET("/api/mollie/return", HandleMollieReturn(testCfg(), testCheckoutService(newMemOrders(), nil), zap.NewNop()))

	w := perform(router, http.MethodGet, "/api/mollie/return", "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://shop.example/thank-you?method=mollie", w.Header().Get("Location"))
}

// The webhook must acknowledge with 200 regardless of what was delivered,
// otherwise the processor keeps retrying.
func TestHandleMollieWebhook_AlwaysAcks(t *testing.T) {
	gateway := &stubGateway{err: &errors.ErrGateway{Provider: "mollie", Op: "fetch payment", Message: "down"}}
	reconciler := service.NewWebhookReconciler(newMemOrders(), gateway, zap.NewNop())
	router := gin.New()
	router.POST("/api/mollie/webhook", HandleMollieWebhook(reconciler, zap.NewNop()))

	bodies := []string{"", "garbage", "id=tr_123abc", `{"id":"tr_123abc"}`}
	for _, body := range bodies {
		w := perform(router, http.MethodPost, "/api/mollie/webhook", body)
		assert.Equal(t, http.StatusOK, w.Code, "body %q", body)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	}
}

func TestHandlePayPalCapture_MissingOrderID(t *testing.T) {
	router := gin.New()
	router.POST("/api/paypal/capture-order", HandlePayPalCapture(testCheckoutService(newMemOrders(), nil), zap.NewNop()))

	w := perform(router, http.MethodPost, "/api/paypal/capture-order", `{"customer":{"email":"a@b.de"},"total":9.99}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing orderID")
}

func TestHandleApplyCoupon(t *testing.T) {
	router := gin.New()
	router.POST("/api/coupon/apply", HandleApplyCoupon(coupon.Default()))

	body := `{"items":[{"id":"b1","name":"B1","price":10.00,"quantity":2}],"code":"TEST10"}`
	w := perform(router, http.MethodPost, "/api/coupon/apply", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"subtotal":"20.00"`)
	assert.Contains(t, w.Body.String(), `"discountAmount":"2.00"`)
	assert.Contains(t, w.Body.String(), `"finalTotal":"18.00"`)
	assert.Contains(t, w.Body.String(), `"code":"TEST10"`)
}

func TestHandleApplyCoupon_UnknownCodeIsZeroDiscount(t *testing.T) {
	router := gin.New()
	router.POST("/api/coupon/apply", HandleApplyCoupon(coupon.Default()))

	body := `{"items":[{"id":"b1","name":"B1","price":10.00,"quantity":1}],"code":"NOPE"}`
	w := perform(router, http.MethodPost, "/api/coupon/apply", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"discountAmount":"0.00"`)
	assert.NotContains(t, w.Body.String(), "appliedCoupon")
}

func TestHandleListOrders(t *testing.T) {
	store := newMemOrders()
	email := "a@b.de"
	store.orders["4ACE-VK-2026-000001"] = &domain.Order{
		OrderNumber:   "4ACE-VK-2026-000001",
		PaymentMethod: domain.PaymentMethodVorkasse,
		Status:        domain.OrderStatusPending,
		BillingEmail:  &email,
		TotalAmount:   decimal.RequireFromString("13.49"),
		Currency:      "EUR",
	}
	repos := &repository.Repositories{Order: store}
	router := gin.New()
	router.GET("/api/admin/orders", HandleListOrders(repos, zap.NewNop()))

	w := perform(router, http.MethodGet, "/api/admin/orders", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "4ACE-VK-2026-000001")
	assert.Contains(t, w.Body.String(), `"totalAmount":"13.49"`)
}
