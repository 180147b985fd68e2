package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/marketmesh/marketmesh/internal/logging"
	"github.com/marketmesh/marketmesh/internal/models"
)

// PostgresProductRepository implements ProductRepository on PostgreSQL.
type PostgresProductRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresProductRepository creates the repository.
func NewPostgresProductRepository(db *sql.DB, logger *logging.Logger) *PostgresProductRepository {
	return &PostgresProductRepository{db: db, logger: logger}
}

const productColumns = `id, name, description, price_amount, price_currency, stock, max_per_order, seller_id, created_at, updated_at`

func (r *PostgresProductRepository) scanProduct(row interface{ Scan(...interface{}) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price.Amount,
		&p.Price.Currency,
		&p.Stock,
		&p.MaxPerOrder,
		&p.SellerID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a product by id.
func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product, err := r.scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return product, err
}

// Create inserts a product row.
func (r *PostgresProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, description, price_amount, price_currency, stock, max_per_order, seller_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price.Amount,
		product.Price.Currency,
		product.Stock,
		product.MaxPerOrder,
		product.SellerID,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create product", logging.Fields{
			"name":      product.Name,
			"seller_id": product.SellerID,
			"error":     err.Error(),
		})
	}
	return err
}

// Update rewrites a product's mutable fields.
func (r *PostgresProductRepository) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price_amount = $4, price_currency = $5,
		    stock = $6, max_per_order = $7, updated_at = $8
		WHERE id = $1
	`
	product.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price.Amount,
		product.Price.Currency,
		product.Stock,
		product.MaxPerOrder,
		product.UpdatedAt,
	)
	return err
}

// Delete removes a product row.
func (r *PostgresProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

// List retrieves products newest first, applying the filter.
func (r *PostgresProductRepository) List(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, int, error) {
	baseQuery := ` FROM products WHERE 1=1`
	args := make([]interface{}, 0, 6)

	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		baseQuery += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if filter.SellerID != "" {
		args = append(args, filter.SellerID)
		baseQuery += fmt.Sprintf(" AND seller_id = $%d", len(args))
	}
	if filter.MinPrice != nil {
		args = append(args, int64(*filter.MinPrice*100))
		baseQuery += fmt.Sprintf(" AND price_amount >= $%d", len(args))
	}
	if filter.MaxPrice != nil {
		args = append(args, int64(*filter.MaxPrice*100))
		baseQuery += fmt.Sprintf(" AND price_amount <= $%d", len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)
	query := `SELECT ` + productColumns + baseQuery +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		product, err := r.scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}
	return products, total, rows.Err()
}
