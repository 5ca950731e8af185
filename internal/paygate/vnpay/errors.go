package vnpay

import "errors"

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrMissingField     = errors.New("missing field")
	ErrMalformedAmount  = errors.New("malformed amount")
)
