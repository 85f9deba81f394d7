package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/PB4aCe/4aceDE-SHOP/internal/domain"
	"github.com/PB4aCe/4aceDE-SHOP/pkg/errors"
)

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

const orderColumns = `
	id, order_number, payment_method, status,
	billing_first_name, billing_last_name, billing_email,
	billing_street, billing_zip, billing_city, billing_country,
	total_amount, currency, coupon_code, payment_reference, created_at
`

func (r *orderRepository) InsertIfAbsent(ctx context.Context, order *domain.Order) (bool, error) {
	query := `
		INSERT INTO orders (
			id, order_number, payment_method, status,
			billing_first_name, billing_last_name, billing_email,
			billing_street, billing_zip, billing_city, billing_country,
			total_amount, currency, coupon_code, payment_reference, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (order_number) DO NOTHING
	`

	fillDefaults(order)

	res, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.OrderNumber,
		order.PaymentMethod,
		order.Status,
		order.BillingFirstName,
		order.BillingLastName,
		order.BillingEmail,
		order.BillingStreet,
		order.BillingZip,
		order.BillingCity,
		order.BillingCountry,
		order.TotalAmount.StringFixed(2),
		order.Currency,
		order.CouponCode,
		order.PaymentReference,
		order.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert order", zap.String("order_number", order.OrderNumber), zap.Error(err))
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, orderNumber string) error {
	query := `UPDATE orders SET status = 'paid' WHERE order_number = $1`

	_, err := r.db.ExecContext(ctx, query, orderNumber)
	if err != nil {
		r.logger.Error("Failed to mark order paid", zap.String("order_number", orderNumber), zap.Error(err))
		return err
	}
	return nil
}

func (r *orderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, orderNumber))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order", ID: orderNumber}
	}
	if err != nil {
		r.logger.Error("Failed to get order", zap.String("order_number", orderNumber), zap.Error(err))
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func fillDefaults(order *domain.Order) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.Currency == "" {
		order.Currency = "EUR"
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var firstName, lastName, email sql.NullString
	var street, zip, city, country sql.NullString
	var totalAmount string
	var couponCode, paymentReference sql.NullString

	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.PaymentMethod,
		&order.Status,
		&firstName,
		&lastName,
		&email,
		&street,
		&zip,
		&city,
		&country,
		&totalAmount,
		&order.Currency,
		&couponCode,
		&paymentReference,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.TotalAmount, err = decimal.NewFromString(totalAmount)
	if err != nil {
		return nil, err
	}

	order.BillingFirstName = nullableString(firstName)
	order.BillingLastName = nullableString(lastName)
	order.BillingEmail = nullableString(email)
	order.BillingStreet = nullableString(street)
	order.BillingZip = nullableString(zip)
	order.BillingCity = nullableString(city)
	order.BillingCountry = nullableString(country)
	order.CouponCode = nullableString(couponCode)
	order.PaymentReference = nullableString(paymentReference)

	return &order, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
