package ordernumber

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const DefaultOffset = 100000

var ErrInvalidOrderNumber = errors.New("invalid order number")

// Generator maps basket ids to order numbers of the form PREFIX-N, where
// N is the basket id shifted by Offset.
type Generator struct {
	Prefix string
	Offset int64
}

func New(prefix string, offset int64) Generator {
	return Generator{
		Prefix: prefix,
		Offset: offset,
	}
}

func (g Generator) OrderNumber(basketID int64) string {
	return fmt.Sprintf("%s-%d", g.Prefix, basketID+g.Offset)
}

// BasketID recovers the basket id from an order number. The prefix is not
// checked: baskets of any site share the same id space.
func (g Generator) BasketID(orderNumber string) (int64, error) {
	_, suffix, found := strings.Cut(orderNumber, "-")
	if !found || suffix == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOrderNumber, orderNumber)
	}
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOrderNumber, orderNumber)
	}
	basketID := n - g.Offset
	if basketID <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOrderNumber, orderNumber)
	}
	return basketID, nil
}
