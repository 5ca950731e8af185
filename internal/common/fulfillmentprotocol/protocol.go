package fulfillmentprotocol

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlacedOrder is sent to the fulfillment service once an order is committed.
type PlacedOrder struct {
	Number       string          `json:"number"`
	BasketID     int64           `json:"basket_id"`
	Site         string          `json:"site"`
	Total        decimal.Decimal `json:"total"`
	Currency     string          `json:"currency"`
	PaymentLabel string          `json:"payment_label"`
	PlacedAt     time.Time       `json:"placed_at"`
}
