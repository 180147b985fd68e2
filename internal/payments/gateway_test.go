package payments

import (
	"context"
	"testing"

	"github.com/marketmesh/marketmesh/internal/models"
)

func TestSimulatedGateway_Approves(t *testing.T) {
	g := NewSimulatedGateway()

	result, err := g.Charge(context.Background(), ChargeRequest{
		OrderID: "ord_1",
		Amount:  models.Money{Amount: 1000, Currency: "USD"},
		Method:  models.PaymentMethodCreditCard,
		Details: models.PaymentDetails{CardNumber: "4111111111111111"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !result.Approved {
		t.Fatalf("Expected approval, got %+v", result)
	}
	if result.TransactionID == "" {
		t.Error("Expected a transaction id")
	}
}

func TestSimulatedGateway_DeclinesTestCard(t *testing.T) {
	g := NewSimulatedGateway()

	result, err := g.Charge(context.Background(), ChargeRequest{
		OrderID: "ord_1",
		Details: models.PaymentDetails{CardNumber: "4111111111110000"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.Approved {
		t.Error("Expected decline for test card")
	}
	if result.Reason == "" {
		t.Error("Expected a decline reason")
	}
}

func TestSimulatedGateway_IdempotentPerOrder(t *testing.T) {
	g := NewSimulatedGateway()
	ctx := context.Background()
	req := ChargeRequest{
		OrderID: "ord_1",
		Details: models.PaymentDetails{CardNumber: "4111111111111111"},
	}

	first, err := g.Charge(ctx, req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := g.Charge(ctx, req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if first.TransactionID != second.TransactionID {
		t.Errorf("Expected repeated charge to return the original result, got %s and %s",
			first.TransactionID, second.TransactionID)
	}
}

func TestSimulatedGateway_RetryAfterDecline(t *testing.T) {
	g := NewSimulatedGateway()
	ctx := context.Background()

	declined, err := g.Charge(ctx, ChargeRequest{
		OrderID: "ord_1",
		Details: models.PaymentDetails{CardNumber: "4111111111110000"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if declined.Approved {
		t.Fatal("Expected initial decline")
	}

	retried, err := g.Charge(ctx, ChargeRequest{
		OrderID: "ord_1",
		Details: models.PaymentDetails{CardNumber: "4242424242424242"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !retried.Approved {
		t.Errorf("Expected retry with a valid card to be approved, got %+v", retried)
	}
}

func TestSimulatedGateway_CancelledContext(t *testing.T) {
	g := NewSimulatedGateway()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Charge(ctx, ChargeRequest{OrderID: "ord_1"}); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
