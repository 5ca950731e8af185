package data

import (
	"time"

	"github.com/shopspring/decimal"
)

type BasketStatus string

const (
	OpenBasket      = BasketStatus("OPEN")
	FrozenBasket    = BasketStatus("FROZEN")
	SubmittedBasket = BasketStatus("SUBMITTED")
)

type PlacementStatus string

const (
	PendingPlacement = PlacementStatus("PENDING")
	PlacedPlacement  = PlacementStatus("PLACED")
	FailedPlacement  = PlacementStatus("FAILED")
)

type Basket struct {
	ID              int64
	OwnerID         int64
	Site            string
	Status          BasketStatus
	Currency        string
	TotalInclTax    decimal.Decimal
	DiscountInclTax decimal.Decimal
}

// Total is the amount due once the basket's offer discount is applied.
func (b Basket) Total() decimal.Decimal {
	return b.TotalInclTax.Sub(b.DiscountInclTax)
}

type BasketAttribute struct {
	BasketID int64
	Name     string
	Value    string
}

type ProcessorResponse struct {
	CreatedAt     time.Time
	ProcessorName string
	TransactionID string
	Payload       []byte
	ID            int64
	BasketID      int64
}

type Order struct {
	CreatedAt       time.Time
	Number          string
	Site            string
	Currency        string
	PaymentLabel    string
	PlacementStatus PlacementStatus
	Total           decimal.Decimal
	BasketID        int64
}

// OrdersFilter selects orders by placement status. A zero CreatedBefore
// does not bound creation time; a non-positive Limit means no limit.
type OrdersFilter struct {
	CreatedBefore time.Time
	Statuses      []PlacementStatus
	Limit         int
}

type ReviewFlag struct {
	CreatedAt     time.Time
	ProcessorName string
	OrderNumber   string
	TransactionID string
	Payload       []byte
	Amount        decimal.Decimal
	ID            int64
}
