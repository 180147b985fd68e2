package orders

import (
	"context"

	"github.com/marketmesh/marketmesh/internal/models"
)

// OrderRepository is the order service's storage contract. Lookups return
// (nil, nil) when no row matches. Orders are never physically deleted;
// history is retained.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*models.Order, error)

	// FindDraftByCustomer returns the customer's DRAFT order (the cart).
	// The one-DRAFT-per-customer invariant is maintained by the service's
	// read-then-create pattern, not by the store.
	FindDraftByCustomer(ctx context.Context, customerID string) (*models.Order, error)

	Create(ctx context.Context, order *models.Order) error

	// Update rewrites the full aggregate: items, addresses, totals, status
	// and payment fields.
	Update(ctx context.Context, order *models.Order) error

	List(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error)
}

// OrderCache is the optional read-through cache in front of the repository.
type OrderCache interface {
	Get(ctx context.Context, id string) (*models.Order, error)
	Set(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
	GetCart(ctx context.Context, customerID string) (*models.Order, error)
	SetCart(ctx context.Context, customerID string, order *models.Order) error
	DeleteCart(ctx context.Context, customerID string) error
}

// ProductProvider resolves a product id to its catalog record for price
// capture and stock checks. The order service depends on this narrow
// contract instead of the catalog schema; responses still expose only
// reference stubs.
type ProductProvider interface {
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
}
