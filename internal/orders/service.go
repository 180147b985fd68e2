// Package orders owns the order aggregate and its lifecycle, including the
// server-side cart: a customer's single DRAFT order.
package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marketmesh/marketmesh/internal/apperrors"
	"github.com/marketmesh/marketmesh/internal/config"
	"github.com/marketmesh/marketmesh/internal/events"
	"github.com/marketmesh/marketmesh/internal/logging"
	"github.com/marketmesh/marketmesh/internal/models"
	"github.com/marketmesh/marketmesh/internal/payments"
)

const defaultListLimit = 20

// Service implements the order operations.
type Service struct {
	repo      OrderRepository
	cache     OrderCache
	products  ProductProvider
	gateway   payments.Gateway
	publisher events.Publisher
	features  config.FeatureFlags
	logger    *logging.Logger
}

// NewService creates the order service. cache and publisher may be nil when
// the corresponding feature flag is off.
func NewService(
	repo OrderRepository,
	cache OrderCache,
	products ProductProvider,
	gateway payments.Gateway,
	publisher events.Publisher,
	features config.FeatureFlags,
	logger *logging.Logger,
) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		products:  products,
		gateway:   gateway,
		publisher: publisher,
		features:  features,
		logger:    logger,
	}
}

// Cart returns the caller's DRAFT order, or nil when the caller has no cart.
func (s *Service) Cart(ctx context.Context, ident models.Identity) (*models.Order, error) {
	if ident.IsAnonymous() {
		return nil, apperrors.NewAuthentication("not authenticated")
	}

	if s.cachingEnabled() {
		cached, err := s.cache.GetCart(ctx, ident.UserID)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	draft, err := s.repo.FindDraftByCustomer(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, nil
	}

	s.refreshCache(ctx, draft)
	return draft, nil
}

// AddProductToCart appends or merges a line on the caller's cart, creating
// the DRAFT order first if none exists. The unit price is captured from the
// catalog at add time and never re-read afterwards.
func (s *Service) AddProductToCart(ctx context.Context, ident models.Identity, req *models.AddToCartRequest) (*models.Order, error) {
	if ident.IsAnonymous() {
		return nil, apperrors.NewAuthentication("not authenticated")
	}
	if err := ValidateAddToCartRequest(req); err != nil {
		return nil, err
	}

	draft, err := s.repo.FindDraftByCustomer(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}

	created := false
	now := time.Now().UTC()
	if draft == nil {
		draft = &models.Order{
			ID:            "ord_" + uuid.NewString(),
			CustomerID:    ident.UserID,
			Status:        models.OrderStatusDraft,
			PaymentStatus: models.PaymentStatusPending,
			CreatedAt:     now,
		}
		created = true
	}

	quantity := req.Quantity
	if item := draft.FindItem(req.ProductID); item != nil {
		quantity += item.Quantity
	}
	if err := s.setCartLine(ctx, draft, req.ProductID, quantity); err != nil {
		return nil, err
	}

	draft.CalculateTotal()
	draft.AttachReferences()
	draft.UpdatedAt = now

	if created {
		err = s.repo.Create(ctx, draft)
	} else {
		err = s.repo.Update(ctx, draft)
	}
	if err != nil {
		return nil, err
	}

	s.refreshCache(ctx, draft)

	s.logger.Info("Product added to cart", logging.Fields{
		"order_id":   draft.ID,
		"product_id": req.ProductID,
		"quantity":   quantity,
	})
	return draft, nil
}

// setCartLine sets a line to the given quantity, clamping to the product's
// per-order maximum and rejecting quantities above available stock. Missing
// lines are appended with the price captured from the catalog.
func (s *Service) setCartLine(ctx context.Context, draft *models.Order, productID string, quantity int) error {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperrors.NewNotFound("product")
	}

	if product.MaxPerOrder > 0 && quantity > product.MaxPerOrder {
		quantity = product.MaxPerOrder
	}
	if quantity > product.Stock {
		return apperrors.NewValidation("quantity", "quantity exceeds available stock")
	}

	if item := draft.FindItem(productID); item != nil {
		item.Quantity = quantity
		return nil
	}

	draft.Items = append(draft.Items, models.OrderItem{
		ID:        "item_" + uuid.NewString(),
		OrderID:   draft.ID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: product.Price,
	})
	return nil
}

// Checkout freezes the caller's DRAFT cart into a PENDING order. When the
// request carries items, the cart lines are reconciled to them first:
// quantities updated, missing lines added at a freshly captured price,
// absent lines removed.
func (s *Service) Checkout(ctx context.Context, ident models.Identity, req *models.CheckoutRequest) (*models.Order, error) {
	if ident.IsAnonymous() {
		return nil, apperrors.NewAuthentication("not authenticated")
	}
	if err := ValidateCheckoutRequest(req); err != nil {
		return nil, err
	}

	draft, err := s.repo.FindDraftByCustomer(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, apperrors.NewNotFound("cart")
	}

	if len(req.Items) > 0 {
		if err := s.reconcileCart(ctx, draft, req.Items); err != nil {
			return nil, err
		}
	}

	if len(draft.Items) == 0 {
		return nil, apperrors.NewValidation("items", "at least one item is required")
	}

	draft.ShippingAddress = req.ShippingAddress
	if req.BillingAddress != nil {
		draft.BillingAddress = req.BillingAddress
	} else {
		billing := req.ShippingAddress
		draft.BillingAddress = &billing
	}
	draft.PaymentMethod = req.PaymentMethod
	draft.Notes = req.Notes
	draft.Status = models.OrderStatusPending
	draft.PaymentStatus = models.PaymentStatusPending
	draft.CalculateTotal()
	draft.AttachReferences()
	draft.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, draft); err != nil {
		return nil, err
	}

	s.refreshCache(ctx, draft)

	if s.eventsEnabled() {
		if err := s.publisher.PublishOrderCheckedOut(ctx, draft); err != nil {
			s.logger.Warn("Failed to publish checkout event", logging.Fields{
				"order_id": draft.ID,
				"error":    err.Error(),
			})
		}
	}

	s.logger.Info("Order checked out", logging.Fields{
		"order_id":    draft.ID,
		"customer_id": draft.CustomerID,
		"total":       draft.Total.String(),
	})
	return draft, nil
}

func (s *Service) reconcileCart(ctx context.Context, draft *models.Order, desired []models.CheckoutItem) error {
	wanted := make(map[string]bool, len(desired))
	for _, item := range desired {
		wanted[item.ProductID] = true
		if err := s.setCartLine(ctx, draft, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}

	kept := draft.Items[:0]
	for _, item := range draft.Items {
		if wanted[item.ProductID] {
			kept = append(kept, item)
		}
	}
	draft.Items = kept
	return nil
}

// GetOrder returns an order visible to the caller: its owner or an admin.
func (s *Service) GetOrder(ctx context.Context, ident models.Identity, id string) (*models.Order, error) {
	if ident.IsAnonymous() {
		return nil, apperrors.NewAuthentication("not authenticated")
	}

	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.CustomerID != ident.UserID && !ident.IsAdmin() {
		return nil, apperrors.NewAuthorization("you can only view your own orders")
	}
	return order, nil
}

func (s *Service) getOrder(ctx context.Context, id string) (*models.Order, error) {
	if s.cachingEnabled() {
		cached, err := s.cache.Get(ctx, id)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.NewNotFound("order")
	}

	s.refreshCache(ctx, order)
	return order, nil
}

// MyOrders lists the caller's own orders.
func (s *Service) MyOrders(ctx context.Context, ident models.Identity, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	if ident.IsAnonymous() {
		return nil, 0, apperrors.NewAuthentication("not authenticated")
	}

	filter.CustomerID = ident.UserID
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if err := ValidateOrderListFilter(filter); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, filter)
}

// AllOrders lists orders across customers. Admin only.
func (s *Service) AllOrders(ctx context.Context, ident models.Identity, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	if ident.IsAnonymous() {
		return nil, 0, apperrors.NewAuthentication("not authenticated")
	}
	if !ident.IsAdmin() {
		return nil, 0, apperrors.NewAuthorization("admin access required")
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if err := ValidateOrderListFilter(filter); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, filter)
}

// UpdateOrderStatus sets an order's status to any valid value except DRAFT.
// Admin only;
// the customer lifecycle transitions are not enforced here, the override is
// deliberate.
func (s *Service) UpdateOrderStatus(ctx context.Context, ident models.Identity, id string, status models.OrderStatus) (*models.Order, error) {
	if ident.IsAnonymous() {
		return nil, apperrors.NewAuthentication("not authenticated")
	}
	if !ident.IsAdmin() {
		return nil, apperrors.NewAuthorization("admin access required")
	}
	if !models.ValidOrderStatus(status) {
		return nil, apperrors.NewValidation("status", "invalid order status")
	}
	// An order never re-enters the cart state; allowing it could hand a
	// customer a second DRAFT order.
	if status == models.OrderStatusDraft {
		return nil, apperrors.NewValidation("status", "an order cannot be moved back to DRAFT")
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.NewNotFound("order")
	}

	previous := order.Status
	order.Status = status
	order.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	s.refreshCache(ctx, order)

	if s.eventsEnabled() {
		if err := s.publisher.PublishOrderStatusChanged(ctx, order, previous); err != nil {
			s.logger.Warn("Failed to publish status change event", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
	}

	s.logger.Info("Order status updated", logging.Fields{
		"order_id": order.ID,
		"from":     string(previous),
		"to":       string(status),
	})
	return order, nil
}

// CancelOrder cancels a PENDING or PROCESSING order. Owner or admin.
func (s *Service) CancelOrder(ctx context.Context, ident models.Identity, id, reason string) (*models.Order, error) {
	if ident.IsAnonymous() {
		return nil, apperrors.NewAuthentication("not authenticated")
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.NewNotFound("order")
	}

	if order.CustomerID != ident.UserID && !ident.IsAdmin() {
		return nil, apperrors.NewAuthorization("you can only cancel your own orders")
	}
	if !order.CanCancel() {
		return nil, apperrors.NewStateConflict(
			fmt.Sprintf("order in status %s cannot be cancelled", order.Status))
	}

	previous := order.Status
	order.Status = models.OrderStatusCancelled
	order.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	s.refreshCache(ctx, order)

	if s.eventsEnabled() {
		if err := s.publisher.PublishOrderCancelled(ctx, order, reason); err != nil {
			s.logger.Warn("Failed to publish cancel event", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
	}

	s.logger.Info("Order cancelled", logging.Fields{
		"order_id": order.ID,
		"from":     string(previous),
		"reason":   reason,
	})
	return order, nil
}

// ProcessPayment charges a PENDING order through the payment gateway. Owner
// only. A declined charge is reported in the result, not as an error; the
// order stays PENDING with payment status FAILED so payment can be retried.
func (s *Service) ProcessPayment(ctx context.Context, ident models.Identity, orderID string, details models.PaymentDetails) (*models.PaymentResult, error) {
	if ident.IsAnonymous() {
		return nil, apperrors.NewAuthentication("not authenticated")
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.NewNotFound("order")
	}

	if order.CustomerID != ident.UserID {
		return nil, apperrors.NewAuthorization("you can only pay for your own orders")
	}
	if order.Status != models.OrderStatusPending {
		return nil, apperrors.NewStateConflict(
			fmt.Sprintf("payment not allowed for order in status %s", order.Status))
	}

	charge, err := s.gateway.Charge(ctx, payments.ChargeRequest{
		OrderID: order.ID,
		Amount:  order.Total,
		Method:  order.PaymentMethod,
		Details: details,
	})
	if err != nil {
		s.logger.Error("Payment gateway error", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
		return nil, apperrors.NewInternal("payment gateway unavailable")
	}

	result := &models.PaymentResult{
		Success:       charge.Approved,
		TransactionID: charge.TransactionID,
	}

	if charge.Approved {
		order.PaymentStatus = models.PaymentStatusPaid
		order.Status = models.OrderStatusProcessing
		result.Message = "payment processed"
	} else {
		order.PaymentStatus = models.PaymentStatusFailed
		result.Message = charge.Reason
	}
	order.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	result.Order = order

	s.refreshCache(ctx, order)

	if s.eventsEnabled() {
		if err := s.publisher.PublishPaymentProcessed(ctx, order, charge.Approved); err != nil {
			s.logger.Warn("Failed to publish payment event", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
	}

	s.logger.Info("Payment processed", logging.Fields{
		"order_id": order.ID,
		"success":  charge.Approved,
	})
	return result, nil
}

func (s *Service) cachingEnabled() bool {
	return s.features.EnableOrderCaching && s.cache != nil
}

func (s *Service) eventsEnabled() bool {
	return s.features.EnableOrderEvents && s.publisher != nil
}

// refreshCache keeps the by-id and cart entries in step with the store.
// Cache failures are logged, never surfaced.
func (s *Service) refreshCache(ctx context.Context, order *models.Order) {
	if !s.cachingEnabled() {
		return
	}

	if err := s.cache.Set(ctx, order); err != nil {
		s.logger.Warn("Failed to cache order", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
	}

	if order.Status == models.OrderStatusDraft {
		if err := s.cache.SetCart(ctx, order.CustomerID, order); err != nil {
			s.logger.Warn("Failed to cache cart", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
		return
	}

	if err := s.cache.DeleteCart(ctx, order.CustomerID); err != nil {
		s.logger.Warn("Failed to drop cached cart", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
	}
}
