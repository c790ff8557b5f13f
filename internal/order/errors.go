package order

import "errors"

// Sentinel errors for the order lifecycle. Callers classify with
// errors.Is; the HTTP layer maps each kind to a status code.
var (
	// ErrInvalidOrder marks a malformed request: missing table, empty
	// item list, or a non-positive quantity. Retrying unmodified will
	// not succeed.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrUnknownTable marks a table number outside the configured set.
	ErrUnknownTable = errors.New("unknown table")

	// ErrUnknownItem marks a cart item whose ID is not on the menu.
	// Pricing is authoritative server-side, so an unknown item cannot
	// be accepted.
	ErrUnknownItem = errors.New("unknown menu item")

	// ErrNotFound marks a lookup or completion for an order ID that is
	// absent from the store. Terminal for that identifier.
	ErrNotFound = errors.New("order not found")
)
