package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("terminal unauthorized")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")

	// ErrResponseMismatch marks a 2xx response whose results are not aligned
	// with the submitted batch (wrong length, order, or ids). Such a response
	// cannot be trusted item-by-item and is treated as an ambiguous delivery.
	ErrResponseMismatch = errors.New("batch response does not match request")
)
