package models

import "errors"

// Sentinel errors shared across repos and services. Handlers translate these
// into HTTP status codes at the boundary.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("requested dates are not available")
	ErrInvalidState = errors.New("operation not allowed in current booking state")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("invalid input")
	ErrGateway      = errors.New("payment gateway request failed")
)
