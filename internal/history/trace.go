package history

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/table-order/internal/store"
)

// NewRecord builds a Record from a freshly created order, with the trace
// identifiers of the active OpenTelemetry span extracted from ctx. If the
// context carries no valid span (tracing disabled, unit tests), the trace
// fields stay empty.
func NewRecord(ctx context.Context, o store.Order) Record {
	rec := Record{
		OrderID:    o.OrderID,
		Table:      o.Table,
		Items:      o.Items,
		Total:      o.Total,
		ETAMinutes: o.ETAMinutes,
		CreatedAt:  o.CreatedAt,
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		rec.TraceID = sc.TraceID().String()
		rec.SpanID = sc.SpanID().String()
	}
	return rec
}
