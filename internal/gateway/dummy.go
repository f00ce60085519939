// Package gateway holds payment gateway adapters. The dummy adapter
// stands in for a real acquirer while honoring the same contract:
// idempotency-keyed charges bounded by the caller's context.
package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/nikolayk812/checkout-core/internal/port"
	"golang.org/x/sync/singleflight"
)

// Verdict decides the outcome of a fresh charge.
type Verdict interface {
	Decide(req port.ChargeRequest) (port.ChargeStatus, string)
}

// ApproveAll is the default verdict.
type ApproveAll struct{}

func (ApproveAll) Decide(port.ChargeRequest) (port.ChargeStatus, string) {
	return port.ChargeStatusApproved, ""
}

// DeclineAll exists for tests and drills.
type DeclineAll struct {
	Reason string
}

func (d DeclineAll) Decide(port.ChargeRequest) (port.ChargeStatus, string) {
	reason := d.Reason
	if reason == "" {
		reason = "declined by issuer"
	}
	return port.ChargeStatusDeclined, reason
}

type Dummy struct {
	verdict Verdict
	latency time.Duration

	group   singleflight.Group
	mu      sync.Mutex
	charges map[string]port.ChargeResult
}

func NewDummy(verdict Verdict, latency time.Duration) *Dummy {
	if verdict == nil {
		verdict = ApproveAll{}
	}

	return &Dummy{
		verdict: verdict,
		latency: latency,
		charges: make(map[string]port.ChargeResult),
	}
}

// Charge replays the recorded result for a known idempotency key, so a
// retried charge is never double-applied.
func (g *Dummy) Charge(ctx context.Context, req port.ChargeRequest) (port.ChargeResult, error) {
	if req.IdempotencyKey == "" {
		return port.ChargeResult{}, fmt.Errorf("idempotency key is empty: %w", domain.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return port.ChargeResult{}, fmt.Errorf("charge amount must be positive: %w", domain.ErrValidation)
	}

	// Concurrent charges for one key collapse onto a single execution,
	// so the key can never mint two gateway transaction ids.
	v, err, _ := g.group.Do(req.IdempotencyKey, func() (any, error) {
		g.mu.Lock()
		if result, ok := g.charges[req.IdempotencyKey]; ok {
			g.mu.Unlock()
			return result, nil
		}
		g.mu.Unlock()

		if g.latency > 0 {
			select {
			case <-time.After(g.latency):
			case <-ctx.Done():
				return port.ChargeResult{}, fmt.Errorf("%w: %w", domain.ErrGatewayTimeout, ctx.Err())
			}
		}

		status, reason := g.verdict.Decide(req)
		result := port.ChargeResult{
			GatewayTransactionID: fmt.Sprintf("gw_%s", uuid.NewString()),
			Status:               status,
			RawResponse: map[string]any{
				"status":     string(status),
				"amount":     req.Amount.Amount.String(),
				"currency":   req.Amount.Currency.String(),
				"method":     req.Method,
				"charged_at": time.Now().UTC().Format(time.RFC3339),
			},
		}
		if reason != "" {
			result.RawResponse["decline_reason"] = reason
		}

		g.mu.Lock()
		g.charges[req.IdempotencyKey] = result
		g.mu.Unlock()

		return result, nil
	})
	if err != nil {
		return port.ChargeResult{}, err
	}

	return v.(port.ChargeResult), nil
}
