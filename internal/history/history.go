// Package history defines the append-only order history log.
//
// Every submitted order is appended here exactly once, at creation time,
// and never touched again — completion of an order is deliberately not
// reflected back into the log. The log serves the manager dashboard and,
// via the trace fields, lets an operator jump from a history row to the
// distributed trace of the request that produced it.
package history

import (
	"context"
	"time"

	"github.com/jcmexdev/table-order/internal/store"
)

// Record is a single row in the history log: an immutable snapshot of an
// order as it was submitted.
type Record struct {
	// OrderID is the business identifier, joinable with live store state.
	OrderID string

	// Table the order was placed from.
	Table int

	// Items and Total as they were at submission.
	Items []store.OrderItem
	Total float64

	// ETAMinutes assigned at creation.
	ETAMinutes int

	// TraceID and SpanID of the request that created the order, as
	// W3C hex strings. Empty when tracing is disabled.
	TraceID string
	SpanID  string

	// CreatedAt is the submission wall-clock time.
	CreatedAt time.Time
}

// Repository is the port for persisting history records. The order service
// depends on this abstraction, not on SQLite directly, so the
// implementation can be swapped for in-memory in tests.
type Repository interface {
	// Append persists a new record. The log is append-only; records are
	// never updated or deleted.
	Append(ctx context.Context, rec Record) error

	// List returns all records, most recent first.
	List(ctx context.Context) ([]Record, error)
}
