package vnpay

import (
	"fmt"
	"maps"
	"strconv"

	"github.com/shopspring/decimal"
)

// Notification is the typed view of a payment notification. Values are
// copied on construction; nothing is shared with the caller's field set.
type Notification struct {
	OrderReference string
	TransactionID  string
	Amount         decimal.Decimal
	Currency       string
	CardType       string
	BankCode       string
	Locale         string
	ResponseCode   string
	RawFields      map[string]string
}

// CardDescriptor is the payment label stored on the order.
func (n Notification) CardDescriptor() string {
	return fmt.Sprintf("VNPay (%s)", n.CardType)
}

// Normalize extracts the notification fields. It does not check the
// signature; callers verify first.
func Normalize(fields map[string]string) (Notification, error) {
	orderReference := fields[FieldTxnRef]
	if orderReference == "" {
		return Notification{}, fmt.Errorf("%w: %s", ErrMissingField, FieldTxnRef)
	}
	transactionID := fields[FieldTransactionNo]
	if transactionID == "" {
		return Notification{}, fmt.Errorf("%w: %s", ErrMissingField, FieldTransactionNo)
	}
	amount, err := parseMinorUnits(fields[FieldAmount])
	if err != nil {
		return Notification{}, err
	}

	return Notification{
		OrderReference: orderReference,
		TransactionID:  transactionID,
		Amount:         amount,
		Currency:       Currency,
		CardType:       fields[FieldCardType],
		BankCode:       fields[FieldBankCode],
		Locale:         fields[FieldLocale],
		ResponseCode:   fields[FieldResponseCode],
		RawFields:      maps.Clone(fields),
	}, nil
}

func parseMinorUnits(raw string) (decimal.Decimal, error) {
	minor, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}
	if minor < 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: negative amount %q", ErrMalformedAmount, raw)
	}
	return decimal.New(minor, -2), nil
}
