package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from TransactionStatus
		to   TransactionStatus
		want bool
	}{
		{"pending to processing", TransactionStatusPending, TransactionStatusProcessing, true},
		{"pending to cancelled", TransactionStatusPending, TransactionStatusCancelled, true},
		{"pending to approved", TransactionStatusPending, TransactionStatusApproved, false},
		{"pending to refunded", TransactionStatusPending, TransactionStatusRefunded, false},
		{"processing to approved", TransactionStatusProcessing, TransactionStatusApproved, true},
		{"processing to rejected", TransactionStatusProcessing, TransactionStatusRejected, true},
		{"processing to cancelled", TransactionStatusProcessing, TransactionStatusCancelled, true},
		{"processing to refunded", TransactionStatusProcessing, TransactionStatusRefunded, false},
		{"approved to refunded", TransactionStatusApproved, TransactionStatusRefunded, true},
		{"approved to rejected", TransactionStatusApproved, TransactionStatusRejected, false},
		{"approved to processing", TransactionStatusApproved, TransactionStatusProcessing, false},
		{"rejected is terminal", TransactionStatusRejected, TransactionStatusPending, false},
		{"refunded is terminal", TransactionStatusRefunded, TransactionStatusApproved, false},
		{"cancelled is terminal", TransactionStatusCancelled, TransactionStatusProcessing, false},
		{"same status is not a transition", TransactionStatusProcessing, TransactionStatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionTo(tt.from, tt.to))
		})
	}
}

func TestTransactionStatus_IsTerminal(t *testing.T) {
	assert.True(t, TransactionStatusRejected.IsTerminal())
	assert.True(t, TransactionStatusCancelled.IsTerminal())
	assert.True(t, TransactionStatusRefunded.IsTerminal())
	assert.False(t, TransactionStatusPending.IsTerminal())
	assert.False(t, TransactionStatusProcessing.IsTerminal())
	// approved can still be refunded
	assert.False(t, TransactionStatusApproved.IsTerminal())
}

func TestParseTransactionStatus(t *testing.T) {
	status, err := ParseTransactionStatus("APPROVED")
	require.NoError(t, err)
	assert.Equal(t, TransactionStatusApproved, status)

	_, err = ParseTransactionStatus("settled")
	require.ErrorIs(t, err, ErrValidation)
}

func TestNewTransactionID(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)

	id := NewTransactionID(now)
	assert.Regexp(t, regexp.MustCompile(`^TXN-20260829-[0-9A-F]{8}$`), id)

	// ids are unique across calls
	assert.NotEqual(t, id, NewTransactionID(now))
}

func TestMergeMetadata(t *testing.T) {
	dst := map[string]any{"existing": "kept"}

	merged := MergeMetadata(dst, map[string]any{
		"existing":         "clobbered",
		"rejection_reason": "card expired",
	})

	assert.Equal(t, "kept", merged["existing"])
	assert.Equal(t, "card expired", merged["rejection_reason"])
}

func TestMergeMetadata_NilDestination(t *testing.T) {
	merged := MergeMetadata(nil, map[string]any{"k": "v"})
	assert.Equal(t, map[string]any{"k": "v"}, merged)
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("Shipped")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, status)

	_, err = ParseOrderStatus("returned")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrderStatus_CanProgressTo(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to paid", OrderStatusPending, OrderStatusPaid, true},
		{"pending to shipped", OrderStatusPending, OrderStatusShipped, true},
		{"paid to shipped", OrderStatusPaid, OrderStatusShipped, true},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"paid to pending", OrderStatusPaid, OrderStatusPending, false},
		{"delivered backwards", OrderStatusDelivered, OrderStatusShipped, false},
		{"pending to canceled", OrderStatusPending, OrderStatusCanceled, true},
		{"canceled is terminal", OrderStatusCanceled, OrderStatusPending, false},
		{"same status", OrderStatusPaid, OrderStatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanProgressTo(tt.to))
		})
	}
}
