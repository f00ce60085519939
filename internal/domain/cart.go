package domain

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the single active cart of a user. It is created lazily on the
// first AddLine and deactivated, never deleted, by a successful checkout.
type Cart struct {
	ID     uuid.UUID
	UserID string
	Active bool
	Lines  []CartLine

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// CartLine is unique per (cart, product); repeated adds accumulate
// quantity on the same line.
type CartLine struct {
	ProductID uuid.UUID
	Quantity  int32

	CreatedAt time.Time
}

// CartSnapshot is the cart priced from the catalog at a point in time.
// Checkout captures one so order totals do not drift with later price
// changes.
type CartSnapshot struct {
	Lines      []SnapshotLine
	Total      Money
	CapturedAt time.Time
}

type SnapshotLine struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int32
	UnitPrice   Money
	Subtotal    Money
}
