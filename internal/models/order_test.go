package models

import "testing"

func TestCalculateTotal(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{ProductID: "prod_1", Quantity: 2, UnitPrice: Money{Amount: 1000, Currency: "USD"}},
			{ProductID: "prod_2", Quantity: 3, UnitPrice: Money{Amount: 2500, Currency: "USD"}},
		},
	}

	order.CalculateTotal()

	if order.Items[0].Total.Amount != 2000 {
		t.Errorf("Expected line total 2000, got %d", order.Items[0].Total.Amount)
	}
	if order.Items[1].Total.Amount != 7500 {
		t.Errorf("Expected line total 7500, got %d", order.Items[1].Total.Amount)
	}
	if order.Total.Amount != 9500 {
		t.Errorf("Expected order total 9500, got %d", order.Total.Amount)
	}
	if order.Total.Currency != "USD" {
		t.Errorf("Expected currency USD, got %s", order.Total.Currency)
	}
}

func TestCalculateTotal_Empty(t *testing.T) {
	order := &Order{}
	order.CalculateTotal()

	if order.Total.Amount != 0 {
		t.Errorf("Expected zero total, got %d", order.Total.Amount)
	}
}

func TestAttachReferences(t *testing.T) {
	order := &Order{
		CustomerID: "user_1",
		Items: []OrderItem{
			{ProductID: "prod_1"},
		},
	}

	order.AttachReferences()

	if order.Customer != UserRef("user_1") {
		t.Errorf("Expected user reference, got %+v", order.Customer)
	}
	if order.Items[0].Product != ProductRef("prod_1") {
		t.Errorf("Expected product reference, got %+v", order.Items[0].Product)
	}
}

func TestFindItem(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{ProductID: "prod_1", Quantity: 1},
			{ProductID: "prod_2", Quantity: 2},
		},
	}

	if item := order.FindItem("prod_2"); item == nil || item.Quantity != 2 {
		t.Errorf("Expected prod_2 line, got %+v", item)
	}
	if item := order.FindItem("prod_3"); item != nil {
		t.Errorf("Expected nil for missing product, got %+v", item)
	}

	// The returned pointer aliases the line so callers can mutate it.
	order.FindItem("prod_1").Quantity = 9
	if order.Items[0].Quantity != 9 {
		t.Error("Expected FindItem to return a pointer into Items")
	}
}

func TestCanCancel(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderStatusDraft, false},
		{OrderStatusPending, true},
		{OrderStatusProcessing, true},
		{OrderStatusShipped, false},
		{OrderStatusDelivered, false},
		{OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		o := &Order{Status: tt.status}
		if got := o.CanCancel(); got != tt.want {
			t.Errorf("CanCancel(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderStatusDraft, false},
		{OrderStatusPending, false},
		{OrderStatusProcessing, false},
		{OrderStatusShipped, false},
		{OrderStatusDelivered, true},
		{OrderStatusCancelled, true},
	}

	for _, tt := range tests {
		o := &Order{Status: tt.status}
		if got := o.IsTerminal(); got != tt.want {
			t.Errorf("IsTerminal(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestValidOrderStatus(t *testing.T) {
	if !ValidOrderStatus(OrderStatusShipped) {
		t.Error("Expected SHIPPED to be valid")
	}
	if ValidOrderStatus(OrderStatus("LOST")) {
		t.Error("Expected LOST to be invalid")
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Amount: 1050, Currency: "USD"}
	b := Money{Amount: 950, Currency: "USD"}

	sum := a.Add(b)
	if sum.Amount != 2000 || sum.Currency != "USD" {
		t.Errorf("Unexpected sum: %+v", sum)
	}

	product := a.Mul(3)
	if product.Amount != 3150 {
		t.Errorf("Expected 3150, got %d", product.Amount)
	}

	if s := a.String(); s != "10.50 USD" {
		t.Errorf("Unexpected string form: %s", s)
	}
}
