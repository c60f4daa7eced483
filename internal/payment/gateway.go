// Package payment abstracts the charge step performed before an order is
// completed. The simulated gateway stands in for a real PSP integration.
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Error is a charge rejection from the gateway. Handlers translate it into a
// 402 response instead of a server error.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("payment declined (%s): %s", e.Code, e.Message)
}

// ChargeRequest describes a single charge attempt.
type ChargeRequest struct {
	OrderID string
	UserID  string
	Amount  decimal.Decimal
	Method  string
}

// Receipt is a successful charge confirmation.
type Receipt struct {
	Reference string
	ChargedAt time.Time
}

// Gateway performs charges. Charge returns *Error for declines and ordinary
// errors for transport failures.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (Receipt, error)
}

// SimulatedGateway approves every charge after an artificial processing
// delay. Zero-amount charges are approved immediately.
type SimulatedGateway struct {
	Delay time.Duration
}

var _ Gateway = (*SimulatedGateway)(nil)

// Charge implements Gateway. It respects context cancellation during the
// simulated delay.
func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (Receipt, error) {
	if req.Amount.IsNegative() {
		return Receipt{}, &Error{Code: "invalid_amount", Message: "amount must not be negative"}
	}

	if g.Delay > 0 && req.Amount.IsPositive() {
		t := time.NewTimer(g.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		case <-t.C:
		}
	}

	return Receipt{
		Reference: fmt.Sprintf("sim-%s", req.OrderID),
		ChargedAt: time.Now().UTC(),
	}, nil
}
