// Package payments defines the charge contract the order service uses and a
// simulated gateway standing in for a real payment provider.
package payments

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/marketmesh/marketmesh/internal/models"
)

// ChargeRequest describes a single synchronous charge attempt.
type ChargeRequest struct {
	OrderID string
	Amount  models.Money
	Method  models.PaymentMethod
	Details models.PaymentDetails
}

// ChargeResult is the gateway's answer. A declined charge sets Approved
// false without an error; errors are reserved for transport failures.
type ChargeResult struct {
	Approved      bool
	TransactionID string
	Reason        string
}

// Gateway is the external payment collaborator.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// DeclineSuffix marks a test card number that is always declined.
const DeclineSuffix = "0000"

// SimulatedGateway approves every charge except test-decline card numbers.
// Approvals are remembered per order so a repeated charge returns the
// original result instead of double-charging; declines are not, so a failed
// payment can be retried.
type SimulatedGateway struct {
	mu      sync.Mutex
	charged map[string]*ChargeResult
}

// NewSimulatedGateway creates the in-memory gateway.
func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{charged: make(map[string]*ChargeResult)}
}

// Charge simulates a synchronous gateway call.
func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if result, ok := g.charged[req.OrderID]; ok {
		return result, nil
	}

	result := &ChargeResult{}
	if strings.HasSuffix(req.Details.CardNumber, DeclineSuffix) {
		result.Approved = false
		result.Reason = "card declined"
	} else {
		result.Approved = true
		result.TransactionID = "tx_" + uuid.NewString()
	}

	// Only approvals are memoized. A decline leaves the order chargeable so
	// the customer can retry with a different card.
	if result.Approved {
		g.charged[req.OrderID] = result
	}
	return result, nil
}
