package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusProcessing TransactionStatus = "processing"
	TransactionStatusApproved   TransactionStatus = "approved"
	TransactionStatusRejected   TransactionStatus = "rejected"
	TransactionStatusCancelled  TransactionStatus = "cancelled"
	TransactionStatusRefunded   TransactionStatus = "refunded"
)

func (s TransactionStatus) String() string {
	return string(s)
}

func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TransactionStatusRejected, TransactionStatusCancelled, TransactionStatusRefunded:
		return true
	}
	return false
}

// transitions holds the allowed moves of the ledger state machine:
// pending -> processing -> {approved, rejected}, approved -> refunded,
// cancelled from pending or processing.
var transitions = map[TransactionStatus][]TransactionStatus{
	TransactionStatusPending:    {TransactionStatusProcessing, TransactionStatusCancelled},
	TransactionStatusProcessing: {TransactionStatusApproved, TransactionStatusRejected, TransactionStatusCancelled},
	TransactionStatusApproved:   {TransactionStatusRefunded},
}

// CanTransitionTo reports whether a transaction may move from s to next.
// Re-applying the current status is not a transition; callers reject it
// with ErrAlreadyInState to keep gateway callbacks from double-applying.
func CanTransitionTo(s, next TransactionStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func ParseTransactionStatus(raw string) (TransactionStatus, error) {
	switch s := TransactionStatus(strings.ToLower(raw)); s {
	case TransactionStatusPending, TransactionStatusProcessing, TransactionStatusApproved,
		TransactionStatusRejected, TransactionStatusCancelled, TransactionStatusRefunded:
		return s, nil
	}
	return "", fmt.Errorf("unknown transaction status %q: %w", raw, ErrValidation)
}

// Transaction is a payment-attempt record in the append-mostly ledger.
// Rows are never deleted; corrections happen through status transitions
// and metadata annotations.
type Transaction struct {
	TransactionID string
	OrderID       uuid.UUID

	PaymentMethodID int64
	Amount          Money

	Status      TransactionStatus
	Description string
	Metadata    map[string]any

	GatewayResponse      map[string]any
	GatewayTransactionID string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	ProcessedAt *time.Time
}

// NewTransactionID mints a server-generated, human-traceable ledger id,
// e.g. TXN-20260829-3F0A91BC.
func NewTransactionID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("TXN-%s-%s", now.Format("20060102"), suffix)
}

// MergeMetadata adds the keys of src into dst without clobbering keys
// dst already holds. Returns dst (allocating when nil).
func MergeMetadata(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		if _, exists := dst[k]; exists {
			continue
		}
		dst[k] = v
	}
	return dst
}

// PaymentMethod is reference data; deletion is blocked while any
// transaction references it.
type PaymentMethod struct {
	ID          int64
	Name        string
	Description string
	Active      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
