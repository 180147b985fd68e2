package models

// AddToCartRequest appends or merges a product line on the caller's cart.
type AddToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CheckoutItem is a desired line in a checkout submission. The cart is
// reconciled against these before it is frozen.
type CheckoutItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CheckoutRequest submits the caller's DRAFT cart as a PENDING order.
// Items are optional; when present the cart lines are reconciled to them.
type CheckoutRequest struct {
	Items           []CheckoutItem `json:"items,omitempty"`
	ShippingAddress Address        `json:"shipping_address"`
	BillingAddress  *Address       `json:"billing_address,omitempty"`
	PaymentMethod   PaymentMethod  `json:"payment_method"`
	Notes           string         `json:"notes,omitempty"`
}

// PaymentDetails is the opaque payload handed to the payment gateway.
type PaymentDetails struct {
	CardNumber string `json:"card_number,omitempty"`
	CardExpiry string `json:"card_expiry,omitempty"`
	CardCVC    string `json:"card_cvc,omitempty"`
	PayPalID   string `json:"paypal_id,omitempty"`
}

// PaymentResult is the outcome of a processPayment call. A declined charge
// is a result, not an error.
type PaymentResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transaction_id,omitempty"`
	Order         *Order `json:"order"`
}

// OrderListFilter narrows an order listing. Page is 1-based.
type OrderListFilter struct {
	CustomerID string
	Status     *OrderStatus
	Page       int
	Limit      int
}

// Offset converts the 1-based page to a row offset.
func (f *OrderListFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit
}
