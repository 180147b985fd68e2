package catalog

import (
	"context"
	"testing"

	"github.com/marketmesh/marketmesh/internal/apperrors"
	"github.com/marketmesh/marketmesh/internal/logging"
	"github.com/marketmesh/marketmesh/internal/models"
)

type memProductRepo struct {
	products map[string]*models.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]*models.Product)}
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	if p, ok := r.products[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *memProductRepo) Create(_ context.Context, product *models.Product) error {
	c := *product
	r.products[product.ID] = &c
	return nil
}

func (r *memProductRepo) Update(_ context.Context, product *models.Product) error {
	c := *product
	r.products[product.ID] = &c
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id string) error {
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) List(_ context.Context, filter *models.ProductFilter) ([]*models.Product, int, error) {
	var out []*models.Product
	for _, p := range r.products {
		if filter.SellerID != "" && p.SellerID != filter.SellerID {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	return out, len(out), nil
}

var (
	seller      = models.Identity{UserID: "user_seller", Role: models.RoleSeller}
	otherSeller = models.Identity{UserID: "user_other", Role: models.RoleSeller}
	shopper     = models.Identity{UserID: "user_shopper", Role: models.RoleCustomer}
	siteAdmin   = models.Identity{UserID: "user_admin", Role: models.RoleAdmin}
)

func newTestCatalog() (*Service, *memProductRepo) {
	repo := newMemProductRepo()
	return NewService(repo, logging.NewLogger("test")), repo
}

func createWidget(t *testing.T, svc *Service) *models.Product {
	t.Helper()
	product, err := svc.CreateProduct(context.Background(), seller, &models.CreateProductInput{
		Name:  "Widget",
		Price: 19.99,
		Stock: 5,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return product
}

func TestCreateProduct(t *testing.T) {
	svc, _ := newTestCatalog()
	product := createWidget(t, svc)

	if product.SellerID != seller.UserID {
		t.Errorf("Expected seller to default to the caller, got %s", product.SellerID)
	}
	if product.Price.Amount != 1999 || product.Price.Currency != "USD" {
		t.Errorf("Expected price 1999 USD, got %+v", product.Price)
	}
}

func TestCreateProduct_Authorization(t *testing.T) {
	svc, _ := newTestCatalog()
	ctx := context.Background()
	input := &models.CreateProductInput{Name: "Widget", Price: 1, Stock: 1}

	if _, err := svc.CreateProduct(ctx, shopper, input); !apperrors.Is(err, apperrors.KindAuthorization) {
		t.Errorf("Expected authorization error for customer, got %v", err)
	}
	if _, err := svc.CreateProduct(ctx, models.Identity{}, input); !apperrors.Is(err, apperrors.KindAuthentication) {
		t.Errorf("Expected authentication error for anonymous, got %v", err)
	}

	// Sellers cannot create inventory under another seller's id.
	forOther := &models.CreateProductInput{Name: "Widget", Price: 1, Stock: 1, SellerID: otherSeller.UserID}
	if _, err := svc.CreateProduct(ctx, seller, forOther); !apperrors.Is(err, apperrors.KindAuthorization) {
		t.Errorf("Expected authorization error, got %v", err)
	}
	if _, err := svc.CreateProduct(ctx, siteAdmin, forOther); err != nil {
		t.Errorf("Expected admin to create for any seller, got %v", err)
	}
}

func TestUpdateProduct_Ownership(t *testing.T) {
	svc, _ := newTestCatalog()
	product := createWidget(t, svc)
	ctx := context.Background()

	name := "Improved Widget"
	if _, err := svc.UpdateProduct(ctx, otherSeller, product.ID, &models.UpdateProductInput{Name: &name}); !apperrors.Is(err, apperrors.KindAuthorization) {
		t.Errorf("Expected authorization error, got %v", err)
	}

	updated, err := svc.UpdateProduct(ctx, seller, product.ID, &models.UpdateProductInput{Name: &name})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if updated.Name != "Improved Widget" {
		t.Errorf("Expected updated name, got %s", updated.Name)
	}

	if _, err := svc.UpdateProduct(ctx, siteAdmin, product.ID, &models.UpdateProductInput{Name: &name}); err != nil {
		t.Errorf("Expected admin update to succeed, got %v", err)
	}
}

func TestUpdateProduct_Validation(t *testing.T) {
	svc, _ := newTestCatalog()
	product := createWidget(t, svc)
	ctx := context.Background()

	empty := "  "
	if _, err := svc.UpdateProduct(ctx, seller, product.ID, &models.UpdateProductInput{Name: &empty}); !apperrors.Is(err, apperrors.KindValidation) {
		t.Errorf("Expected validation error for blank name, got %v", err)
	}

	negative := -1.0
	if _, err := svc.UpdateProduct(ctx, seller, product.ID, &models.UpdateProductInput{Price: &negative}); !apperrors.Is(err, apperrors.KindValidation) {
		t.Errorf("Expected validation error for negative price, got %v", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	svc, repo := newTestCatalog()
	product := createWidget(t, svc)
	ctx := context.Background()

	if err := svc.DeleteProduct(ctx, otherSeller, product.ID); !apperrors.Is(err, apperrors.KindAuthorization) {
		t.Errorf("Expected authorization error, got %v", err)
	}
	if err := svc.DeleteProduct(ctx, seller, product.ID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := repo.products[product.ID]; ok {
		t.Error("Expected product to be removed")
	}
	if err := svc.DeleteProduct(ctx, seller, product.ID); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	svc, _ := newTestCatalog()

	if _, err := svc.GetProduct(context.Background(), "prod_missing"); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestListProducts_MinMaxPrice(t *testing.T) {
	svc, _ := newTestCatalog()

	min, max := 10.0, 5.0
	_, _, err := svc.ListProducts(context.Background(), &models.ProductFilter{MinPrice: &min, MaxPrice: &max})
	if !apperrors.Is(err, apperrors.KindValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}
