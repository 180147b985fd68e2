package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marketmesh/marketmesh/internal/logging"
	"github.com/marketmesh/marketmesh/internal/models"
)

// PostgresOrderRepository implements OrderRepository using PostgreSQL. Items
// and addresses live as JSONB columns on the orders row, so line items share
// the aggregate's lifecycle.
type PostgresOrderRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresOrderRepository creates the repository.
func NewPostgresOrderRepository(db *sql.DB, logger *logging.Logger) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db, logger: logger}
}

const orderColumns = `id, customer_id, status, items, shipping_address, billing_address,
       total_amount, total_currency, payment_method, payment_status, notes, created_at, updated_at`

func (r *PostgresOrderRepository) scanOrder(row interface{ Scan(...interface{}) error }) (*models.Order, error) {
	var order models.Order
	var itemsJSON, shippingJSON []byte
	var billingJSON []byte
	var paymentMethod, notes sql.NullString

	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.Status,
		&itemsJSON,
		&shippingJSON,
		&billingJSON,
		&order.Total.Amount,
		&order.Total.Currency,
		&paymentMethod,
		&order.PaymentStatus,
		&notes,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(shippingJSON, &order.ShippingAddress); err != nil {
		return nil, err
	}
	if len(billingJSON) > 0 {
		var billing models.Address
		if err := json.Unmarshal(billingJSON, &billing); err != nil {
			return nil, err
		}
		order.BillingAddress = &billing
	}
	if paymentMethod.Valid {
		order.PaymentMethod = models.PaymentMethod(paymentMethod.String)
	}
	if notes.Valid {
		order.Notes = notes.String
	}

	order.AttachReferences()
	return &order, nil
}

// GetByID retrieves an order by id.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := r.scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return order, err
}

// FindDraftByCustomer returns the customer's cart, if any.
func (r *PostgresOrderRepository) FindDraftByCustomer(ctx context.Context, customerID string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE customer_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1`
	order, err := r.scanOrder(r.db.QueryRowContext(ctx, query, customerID, models.OrderStatusDraft))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return order, err
}

func marshalOrder(order *models.Order) (items, shipping, billing []byte, err error) {
	items, err = json.Marshal(order.Items)
	if err != nil {
		return nil, nil, nil, err
	}
	shipping, err = json.Marshal(order.ShippingAddress)
	if err != nil {
		return nil, nil, nil, err
	}
	if order.BillingAddress != nil {
		billing, err = json.Marshal(order.BillingAddress)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return items, shipping, billing, nil
}

// Create inserts a new order row.
func (r *PostgresOrderRepository) Create(ctx context.Context, order *models.Order) error {
	itemsJSON, shippingJSON, billingJSON, err := marshalOrder(order)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (
			id, customer_id, status, items, shipping_address, billing_address,
			total_amount, total_currency, payment_method, payment_status, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = r.db.ExecContext(ctx, query,
		order.ID,
		order.CustomerID,
		order.Status,
		itemsJSON,
		shippingJSON,
		nullBytes(billingJSON),
		order.Total.Amount,
		order.Total.Currency,
		nullString(string(order.PaymentMethod)),
		order.PaymentStatus,
		nullString(order.Notes),
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create order", logging.Fields{
			"customer_id": order.CustomerID,
			"error":       err.Error(),
		})
	}
	return err
}

// Update rewrites the full aggregate.
func (r *PostgresOrderRepository) Update(ctx context.Context, order *models.Order) error {
	itemsJSON, shippingJSON, billingJSON, err := marshalOrder(order)
	if err != nil {
		return err
	}

	order.UpdatedAt = time.Now()
	query := `
		UPDATE orders
		SET status = $2, items = $3, shipping_address = $4, billing_address = $5,
		    total_amount = $6, total_currency = $7, payment_method = $8,
		    payment_status = $9, notes = $10, updated_at = $11
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.Status,
		itemsJSON,
		shippingJSON,
		nullBytes(billingJSON),
		order.Total.Amount,
		order.Total.Currency,
		nullString(string(order.PaymentMethod)),
		order.PaymentStatus,
		nullString(order.Notes),
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update order", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List retrieves orders newest first, applying the filter.
func (r *PostgresOrderRepository) List(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	baseQuery := ` FROM orders WHERE 1=1`
	args := make([]interface{}, 0, 4)

	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		baseQuery += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		baseQuery += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset())
	query := `SELECT ` + orderColumns + baseQuery +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	return orders, total, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}
