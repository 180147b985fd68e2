package catalog

import (
	"context"

	"github.com/marketmesh/marketmesh/internal/models"
)

// ProductRepository is the catalog's storage contract. Lookups return
// (nil, nil) when no row matches.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, int, error)
}
