package data

import "errors"

var (
	ErrNotFound                  = errors.New("not found")
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
)
