// Package order implements the order lifecycle: validation and creation,
// lookup, the kitchen queue projection, and the pending→completed
// transition. All store mutations run inside a single store.Update, so the
// read-modify-write cycle is atomic with respect to other requests.
package order

import (
	"context"
	"encoding/base32"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/table-order/internal/history"
	"github.com/jcmexdev/table-order/internal/store"
)

// ETA bounds in minutes. The ETA is presentational, assigned once at
// creation and never recalculated.
const (
	etaMin = 20
	etaMax = 35
)

// Service owns order creation, lookup and completion on top of the store
// document and the history log.
type Service struct {
	store   *store.Store
	history history.Repository
	now     func() time.Time
}

// New wires a Service. hist may not be nil; use history.NewMemory when no
// durable log is configured.
func New(st *store.Store, hist history.Repository) *Service {
	return &Service{store: st, history: hist, now: time.Now}
}

// Place validates the cart and creates the order: a fresh ID and ETA,
// status pending, front-inserted into both the live orders and the kitchen
// queue in one store write, then appended to the history log.
//
// The total is recomputed from the menu's authoritative prices; whatever
// total or per-item price the client sent is ignored.
//
// The history append happens after the store write and is not rolled back
// or retried on failure — the order stands, the gap is logged.
func (s *Service) Place(ctx context.Context, table int, items []store.OrderItem) (store.Order, error) {
	if table <= 0 {
		return store.Order{}, fmt.Errorf("%w: table is required", ErrInvalidOrder)
	}
	if len(items) == 0 {
		return store.Order{}, fmt.Errorf("%w: at least one item is required", ErrInvalidOrder)
	}
	for _, it := range items {
		if it.Qty < 1 {
			return store.Order{}, fmt.Errorf("%w: item %q has quantity %d", ErrInvalidOrder, it.ID, it.Qty)
		}
	}

	o := store.Order{
		OrderID:    newOrderID(),
		Table:      table,
		ETAMinutes: etaMin + rand.IntN(etaMax-etaMin),
		Status:     store.StatusPending,
		CreatedAt:  s.now().UTC(),
	}

	err := s.store.Update(func(doc *store.Document) error {
		if !doc.HasTable(table) {
			return fmt.Errorf("%w: %d", ErrUnknownTable, table)
		}
		priced, total, err := priceItems(doc, items)
		if err != nil {
			return err
		}
		o.Items = priced
		o.Total = total

		doc.Orders = append([]store.Order{o}, doc.Orders...)
		doc.Kitchen = append([]store.KitchenEntry{store.KitchenEntry(o)}, doc.Kitchen...)
		return nil
	})
	if err != nil {
		return store.Order{}, err
	}

	if err := s.history.Append(ctx, history.NewRecord(ctx, o)); err != nil {
		// The order is already committed; failing the request here would
		// leave the client retrying a non-idempotent operation.
		slog.ErrorContext(ctx, "history append failed after store commit",
			"order_id", o.OrderID, "error", err)
	}

	slog.InfoContext(ctx, "order placed",
		"order_id", o.OrderID, "table", table, "total", o.Total, "eta_minutes", o.ETAMinutes)
	return o, nil
}

// Get returns the live order record for the given ID.
func (s *Service) Get(_ context.Context, orderID string) (store.Order, error) {
	var (
		found store.Order
		ok    bool
	)
	s.store.View(func(doc *store.Document) {
		for _, o := range doc.Orders {
			if o.OrderID == orderID {
				found, ok = o, true
				return
			}
		}
	})
	if !ok {
		return store.Order{}, fmt.Errorf("%w: %q", ErrNotFound, orderID)
	}
	return found, nil
}

// KitchenQueue returns the full queue in insertion order (most recent
// first), pending and completed entries alike. Filtering is the display's
// concern.
func (s *Service) KitchenQueue(_ context.Context) []store.KitchenEntry {
	var out []store.KitchenEntry
	s.store.View(func(doc *store.Document) {
		out = make([]store.KitchenEntry, len(doc.Kitchen))
		copy(out, doc.Kitchen)
	})
	return out
}

// Menu returns the menu items and their distinct categories in first-seen
// order. Read-only; the core never mutates the menu.
func (s *Service) Menu(_ context.Context) ([]store.MenuItem, []string) {
	var (
		menu       []store.MenuItem
		categories []string
	)
	s.store.View(func(doc *store.Document) {
		menu = make([]store.MenuItem, len(doc.Menu))
		copy(menu, doc.Menu)
		categories = doc.Categories()
	})
	return menu, categories
}

// Complete transitions the order to completed, stamping CompletedAt and
// updating the order record and its kitchen entry in the same store write.
//
// An order missing from either collection fails with ErrNotFound and
// leaves the store untouched — a divergence between the two is a
// consistency violation we surface, never auto-repair. Completing an
// already-completed order is a no-op that returns the existing terminal
// state without re-stamping CompletedAt.
func (s *Service) Complete(ctx context.Context, orderID string) (store.Order, error) {
	var result store.Order
	err := s.store.Update(func(doc *store.Document) error {
		oi := -1
		for i := range doc.Orders {
			if doc.Orders[i].OrderID == orderID {
				oi = i
				break
			}
		}
		ki := -1
		for i := range doc.Kitchen {
			if doc.Kitchen[i].OrderID == orderID {
				ki = i
				break
			}
		}
		if oi < 0 || ki < 0 {
			return fmt.Errorf("%w: %q", ErrNotFound, orderID)
		}

		if doc.Orders[oi].Status == store.StatusCompleted {
			result = doc.Orders[oi]
			return nil
		}

		now := s.now().UTC()
		doc.Orders[oi].Status = store.StatusCompleted
		doc.Orders[oi].CompletedAt = &now
		doc.Kitchen[ki].Status = store.StatusCompleted
		doc.Kitchen[ki].CompletedAt = &now
		result = doc.Orders[oi]
		return nil
	})
	if err != nil {
		return store.Order{}, err
	}

	slog.InfoContext(ctx, "order completed", "order_id", orderID)
	return result, nil
}

// priceItems resolves each cart line against the menu, overriding name and
// price with the menu's authoritative values, and returns the lines plus
// the recomputed total.
func priceItems(doc *store.Document, items []store.OrderItem) ([]store.OrderItem, float64, error) {
	priced := make([]store.OrderItem, 0, len(items))
	var total float64
	for _, it := range items {
		m, ok := doc.MenuItemByID(it.ID)
		if !ok {
			return nil, 0, fmt.Errorf("%w: %q", ErrUnknownItem, it.ID)
		}
		line := store.OrderItem{ID: m.ID, Name: m.Name, Price: m.Price, Qty: it.Qty}
		priced = append(priced, line)
		total += m.Price * float64(it.Qty)
	}
	return priced, total, nil
}

// orderIDEncoding spells the random suffix in base32 so IDs stay short and
// unambiguous when read aloud to the kitchen.
var orderIDEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// newOrderID returns a human-readable, collision-resistant identifier such
// as "ORD-K7Q2ZM": a fixed prefix plus six characters derived from a
// random UUID.
func newOrderID() string {
	u := uuid.New()
	return "ORD-" + orderIDEncoding.EncodeToString(u[:])[:6]
}
