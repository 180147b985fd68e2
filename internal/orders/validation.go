package orders

import (
	"github.com/marketmesh/marketmesh/internal/apperrors"
	"github.com/marketmesh/marketmesh/internal/models"
)

const maxListLimit = 100

// ValidateAddToCartRequest validates a cart append.
func ValidateAddToCartRequest(req *models.AddToCartRequest) error {
	if req.ProductID == "" {
		return apperrors.NewValidation("product_id", "product ID is required")
	}

	if req.Quantity <= 0 {
		return apperrors.NewValidation("quantity", "quantity must be positive")
	}

	return nil
}

// ValidateCheckoutRequest validates a checkout submission.
func ValidateCheckoutRequest(req *models.CheckoutRequest) error {
	for _, item := range req.Items {
		if item.ProductID == "" {
			return apperrors.NewValidation("items", "product ID is required for item")
		}
		if item.Quantity <= 0 {
			return apperrors.NewValidation("items", "quantity must be positive")
		}
	}

	if err := validateAddress(&req.ShippingAddress, "shipping_address"); err != nil {
		return err
	}

	if req.BillingAddress != nil {
		if err := validateAddress(req.BillingAddress, "billing_address"); err != nil {
			return err
		}
	}

	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return apperrors.NewValidation("payment_method", "unsupported payment method")
	}

	return nil
}

func validateAddress(addr *models.Address, field string) error {
	if addr.Line1 == "" {
		return apperrors.NewValidation(field, "address line 1 is required")
	}

	if addr.City == "" {
		return apperrors.NewValidation(field, "city is required")
	}

	if addr.PostalCode == "" {
		return apperrors.NewValidation(field, "postal code is required")
	}

	if addr.Country == "" {
		return apperrors.NewValidation(field, "country is required")
	}

	if len(addr.Country) != 2 {
		return apperrors.NewValidation(field, "country must be a 2-letter ISO code")
	}

	return nil
}

// ValidateOrderListFilter validates and caps a list filter.
func ValidateOrderListFilter(filter *models.OrderListFilter) error {
	if filter.Limit < 0 {
		return apperrors.NewValidation("limit", "limit cannot be negative")
	}

	if filter.Page < 0 {
		return apperrors.NewValidation("page", "page cannot be negative")
	}

	if filter.Limit > maxListLimit {
		return apperrors.NewValidation("limit", "limit cannot exceed 100")
	}

	if filter.Status != nil && !models.ValidOrderStatus(*filter.Status) {
		return apperrors.NewValidation("status", "invalid order status")
	}

	return nil
}
