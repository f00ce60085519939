package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog snapshot: whatever the catalog reports about a
// product at the moment of the call. Price is a pointer because a row
// with no price is a data anomaly the cart must tolerate, not crash on.
type Product struct {
	ID     uuid.UUID
	Name   string
	Price  *Money
	Stock  int32
	Active bool

	CreatedAt time.Time
}
