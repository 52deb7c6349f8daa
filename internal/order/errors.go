package order

import "errors"

var (
	ErrNotFound       = errors.New("order not found")
	ErrUnknownStatus  = errors.New("unknown order item status")
	ErrTerminalStatus = errors.New("status has no next step")
	ErrNoItems        = errors.New("order has no items at this status")
	ErrNoUser         = errors.New("order has no user")
	ErrAmbiguousOrder = errors.New("order cannot be told apart from another order")
)
