// Package catalog owns product records: seller-scoped CRUD plus the public
// search and resolve-by-id reads.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marketmesh/marketmesh/internal/apperrors"
	"github.com/marketmesh/marketmesh/internal/logging"
	"github.com/marketmesh/marketmesh/internal/models"
)

// Service implements the catalog operations.
type Service struct {
	repo   ProductRepository
	logger *logging.Logger
}

// NewService creates the catalog service.
func NewService(repo ProductRepository, logger *logging.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetProduct returns a product by id. Public read.
func (s *Service) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NewNotFound("product")
	}
	return product, nil
}

// ListProducts searches the catalog. Public read.
func (s *Service) ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, 0, apperrors.NewValidation("min_price", "min price cannot exceed max price")
	}
	return s.repo.List(ctx, filter)
}

// CreateProduct creates a product. Sellers create for themselves; admins may
// create for any seller.
func (s *Service) CreateProduct(ctx context.Context, ident models.Identity, input *models.CreateProductInput) (*models.Product, error) {
	if ident.IsAnonymous() {
		return nil, apperrors.NewAuthentication("not authenticated")
	}
	if ident.Role != models.RoleSeller && !ident.IsAdmin() {
		return nil, apperrors.NewAuthorization("only sellers can create products")
	}

	sellerID := input.SellerID
	if sellerID == "" {
		sellerID = ident.UserID
	}
	if sellerID != ident.UserID && !ident.IsAdmin() {
		return nil, apperrors.NewAuthorization("you can only create products for yourself")
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidation("name", "name is required")
	}
	if input.Price < 0 {
		return nil, apperrors.NewValidation("price", "price cannot be negative")
	}
	if input.Stock < 0 {
		return nil, apperrors.NewValidation("stock", "stock cannot be negative")
	}
	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	now := time.Now()
	product := &models.Product{
		ID:          "prod_" + uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       models.NewMoney(input.Price, currency),
		Stock:       input.Stock,
		MaxPerOrder: input.MaxPerOrder,
		SellerID:    sellerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created", logging.Fields{
		"product_id": product.ID,
		"seller_id":  product.SellerID,
	})
	return product, nil
}

// UpdateProduct updates a product owned by the caller (or any, for admins).
func (s *Service) UpdateProduct(ctx context.Context, ident models.Identity, id string, input *models.UpdateProductInput) (*models.Product, error) {
	if ident.IsAnonymous() {
		return nil, apperrors.NewAuthentication("not authenticated")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NewNotFound("product")
	}
	if product.SellerID != ident.UserID && !ident.IsAdmin() {
		return nil, apperrors.NewAuthorization("not authorized to update this product")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.NewValidation("name", "name cannot be empty")
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.NewValidation("price", "price cannot be negative")
		}
		product.Price = models.NewMoney(*input.Price, product.Price.Currency)
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, apperrors.NewValidation("stock", "stock cannot be negative")
		}
		product.Stock = *input.Stock
	}
	if input.MaxPerOrder != nil {
		product.MaxPerOrder = *input.MaxPerOrder
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product owned by the caller (or any, for admins).
func (s *Service) DeleteProduct(ctx context.Context, ident models.Identity, id string) error {
	if ident.IsAnonymous() {
		return apperrors.NewAuthentication("not authenticated")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperrors.NewNotFound("product")
	}
	if product.SellerID != ident.UserID && !ident.IsAdmin() {
		return apperrors.NewAuthorization("not authorized to delete this product")
	}

	return s.repo.Delete(ctx, id)
}
