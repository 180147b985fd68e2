package models

import "time"

// OrderStatus is the lifecycle state of an order. DRAFT is the server-side
// shopping cart; it becomes PENDING exactly once, at checkout.
type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "DRAFT"
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// ValidOrderStatus reports whether s is a known status value.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusDraft, OrderStatusPending, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentStatus tracks the payment side of an order.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// PaymentMethod is a supported way to pay for an order.
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentMethodPayPal       PaymentMethod = "PAYPAL"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

// ValidPaymentMethod reports whether m is a supported payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodPayPal, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// OrderItem is a line on an order. UnitPrice is captured when the line is
// created and never re-read from the catalog.
type OrderItem struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	ProductID string    `json:"product_id"`
	Product   Reference `json:"product"`
	Quantity  int       `json:"quantity"`
	UnitPrice Money     `json:"unit_price"`
	Total     Money     `json:"total"`
}

// Order is the order/cart aggregate root.
type Order struct {
	ID              string        `json:"id"`
	CustomerID      string        `json:"customer_id"`
	Customer        Reference     `json:"customer"`
	Status          OrderStatus   `json:"status"`
	Items           []OrderItem   `json:"items"`
	Total           Money         `json:"total"`
	PaymentMethod   PaymentMethod `json:"payment_method,omitempty"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	ShippingAddress Address       `json:"shipping_address"`
	BillingAddress  *Address      `json:"billing_address,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// CalculateTotal recomputes each line total and the order total so that the
// total always equals the sum of quantity times captured unit price.
func (o *Order) CalculateTotal() {
	total := Money{}
	for i := range o.Items {
		o.Items[i].Total = o.Items[i].UnitPrice.Mul(o.Items[i].Quantity)
		total = total.Add(o.Items[i].Total)
	}
	o.Total = total
}

// AttachReferences fills in the reference stubs for the customer and each
// line's product from the stored foreign ids.
func (o *Order) AttachReferences() {
	o.Customer = UserRef(o.CustomerID)
	for i := range o.Items {
		o.Items[i].Product = ProductRef(o.Items[i].ProductID)
	}
}

// FindItem returns the line holding productID, or nil.
func (o *Order) FindItem(productID string) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ProductID == productID {
			return &o.Items[i]
		}
	}
	return nil
}

// CanCancel reports whether the customer-facing cancel transition is
// permitted from the current status.
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcessing
}

// IsTerminal reports whether no further transitions leave this status.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}
