package vnpay

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CommandPay       = "pay"
	DefaultLocale    = "vn"
	createDateLayout = "20060102150405"
)

var errFractionalMinorUnits = errors.New("amount has fractional minor units")

// PaymentRequest is the parameter set of an outbound payment initiation.
// Fields are named explicitly; ordering on the wire comes from CanonicalQuery.
type PaymentRequest struct {
	Version    string
	TmnCode    string
	Amount     decimal.Decimal
	Currency   string
	TxnRef     string
	OrderInfo  string
	OrderType  string
	Locale     string
	BankCode   string
	CreateDate time.Time
	IPAddr     string
	ReturnURL  string
}

func (r PaymentRequest) Fields() (map[string]string, error) {
	minor := r.Amount.Mul(decimal.New(AmountScale, 0))
	if !minor.Equal(minor.Truncate(0)) {
		return nil, fmt.Errorf("%w: %s", errFractionalMinorUnits, r.Amount.String())
	}
	locale := r.Locale
	if locale == "" {
		locale = DefaultLocale
	}
	fields := map[string]string{
		FieldVersion:    r.Version,
		FieldCommand:    CommandPay,
		FieldTmnCode:    r.TmnCode,
		FieldAmount:     strconv.FormatInt(minor.IntPart(), 10),
		FieldCurrCode:   r.Currency,
		FieldTxnRef:     r.TxnRef,
		FieldOrderInfo:  r.OrderInfo,
		FieldOrderType:  r.OrderType,
		FieldLocale:     locale,
		FieldCreateDate: r.CreateDate.Format(createDateLayout),
		FieldIPAddr:     r.IPAddr,
		FieldReturnURL:  r.ReturnURL,
	}
	if r.BankCode != "" {
		fields[FieldBankCode] = r.BankCode
	}
	return fields, nil
}

// PaymentURL returns the signed gateway URL the shopper is redirected to.
func (s *Signer) PaymentURL(baseURL string, r PaymentRequest) (string, error) {
	fields, err := r.Fields()
	if err != nil {
		return "", err
	}
	query := CanonicalQuery(fields)

	var sb strings.Builder
	sb.WriteString(baseURL)
	if strings.Contains(baseURL, "?") {
		sb.WriteByte('&')
	} else {
		sb.WriteByte('?')
	}
	sb.WriteString(query)
	sb.WriteString("&" + FieldSecureHash + "=")
	sb.WriteString(s.Sign(fields))
	return sb.String(), nil
}
