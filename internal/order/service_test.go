package order

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jcmexdev/table-order/internal/history"
	"github.com/jcmexdev/table-order/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store, *history.Memory) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	hist := history.NewMemory()
	return New(st, hist), st, hist
}

func dosaCart() []store.OrderItem {
	return []store.OrderItem{{ID: "m1", Name: "Dosa", Price: 80, Qty: 2}}
}

func TestPlace(t *testing.T) {
	t.Parallel()

	svc, st, hist := newTestService(t)
	ctx := context.Background()

	o, err := svc.Place(ctx, 2, dosaCart())
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	if !strings.HasPrefix(o.OrderID, "ORD-") || len(o.OrderID) != len("ORD-")+6 {
		t.Fatalf("unexpected order ID %q", o.OrderID)
	}
	if o.ETAMinutes < 20 || o.ETAMinutes >= 35 {
		t.Fatalf("ETA out of range: %d", o.ETAMinutes)
	}
	if o.Status != store.StatusPending {
		t.Fatalf("expected pending, got %s", o.Status)
	}
	if o.Total != 160 {
		t.Fatalf("expected total 160, got %v", o.Total)
	}
	if o.CreatedAt.IsZero() || o.CompletedAt != nil {
		t.Fatalf("bad timestamps: %+v", o)
	}

	got, err := svc.Get(ctx, o.OrderID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Total != o.Total || got.Status != store.StatusPending {
		t.Fatalf("Get returned %+v", got)
	}

	queue := svc.KitchenQueue(ctx)
	if len(queue) != 1 {
		t.Fatalf("expected 1 kitchen entry, got %d", len(queue))
	}
	entry := queue[0]
	if entry.OrderID != o.OrderID || entry.Total != o.Total || entry.Status != store.StatusPending {
		t.Fatalf("kitchen entry diverges from order: %+v", entry)
	}
	if len(entry.Items) != 1 || entry.Items[0].ID != "m1" || entry.Items[0].Qty != 2 {
		t.Fatalf("kitchen items diverge: %+v", entry.Items)
	}

	st.View(func(doc *store.Document) {
		if len(doc.Orders) != 1 || len(doc.Kitchen) != 1 {
			t.Fatalf("store has %d orders, %d kitchen entries", len(doc.Orders), len(doc.Kitchen))
		}
	})

	recs, err := hist.List(ctx)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if len(recs) != 1 || recs[0].OrderID != o.OrderID || recs[0].Total != 160 {
		t.Fatalf("history diverges: %+v", recs)
	}
}

func TestPlaceValidation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		table   int
		items   []store.OrderItem
		wantErr error
	}{
		{name: "missing_table", table: 0, items: dosaCart(), wantErr: ErrInvalidOrder},
		{name: "negative_table", table: -3, items: dosaCart(), wantErr: ErrInvalidOrder},
		{name: "empty_items", table: 2, items: nil, wantErr: ErrInvalidOrder},
		{name: "zero_qty", table: 2, items: []store.OrderItem{{ID: "m1", Qty: 0}}, wantErr: ErrInvalidOrder},
		{name: "unknown_table", table: 42, items: dosaCart(), wantErr: ErrUnknownTable},
		{name: "unknown_item", table: 2, items: []store.OrderItem{{ID: "nope", Qty: 1}}, wantErr: ErrUnknownItem},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Place(ctx, tt.table, tt.items)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPlaceIgnoresClientPrices(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)

	// A tampered cart claims the dosa costs one paisa.
	o, err := svc.Place(context.Background(), 1, []store.OrderItem{
		{ID: "m1", Name: "Free Dosa", Price: 0.01, Qty: 2},
	})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if o.Total != 160 {
		t.Fatalf("client price won: total %v", o.Total)
	}
	if o.Items[0].Price != 80 || o.Items[0].Name != "Masala Dosa" {
		t.Fatalf("item not repriced from menu: %+v", o.Items[0])
	}
}

func TestPlaceGeneratesUniqueIDs(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 30; i++ {
		o, err := svc.Place(ctx, 1, dosaCart())
		if err != nil {
			t.Fatalf("Place %d: %v", i, err)
		}
		if seen[o.OrderID] {
			t.Fatalf("duplicate order ID %q", o.OrderID)
		}
		seen[o.OrderID] = true
	}
}

func TestComplete(t *testing.T) {
	t.Parallel()

	svc, st, _ := newTestService(t)
	ctx := context.Background()

	o, err := svc.Place(ctx, 2, dosaCart())
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	done, err := svc.Complete(ctx, o.OrderID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.Status != store.StatusCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}
	if done.CompletedAt == nil || done.CompletedAt.Before(done.CreatedAt) {
		t.Fatalf("bad CompletedAt: %+v", done)
	}

	st.View(func(doc *store.Document) {
		if doc.Orders[0].Status != store.StatusCompleted || doc.Orders[0].CompletedAt == nil {
			t.Fatalf("order copy not completed: %+v", doc.Orders[0])
		}
		if doc.Kitchen[0].Status != store.StatusCompleted || doc.Kitchen[0].CompletedAt == nil {
			t.Fatalf("kitchen copy not completed: %+v", doc.Kitchen[0])
		}
	})
}

func TestCompleteIsIdempotent(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	// Control the clock so a re-stamped CompletedAt would be visible.
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	o, err := svc.Place(ctx, 2, dosaCart())
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	first, err := svc.Complete(ctx, o.OrderID)
	if err != nil {
		t.Fatalf("first Complete: %v", err)
	}

	svc.now = func() time.Time { return base.Add(time.Hour) }
	second, err := svc.Complete(ctx, o.OrderID)
	if err != nil {
		t.Fatalf("second Complete: %v", err)
	}

	if !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Fatalf("CompletedAt re-stamped: %v then %v", first.CompletedAt, second.CompletedAt)
	}
}

func TestCompleteNotFoundLeavesStoreUntouched(t *testing.T) {
	t.Parallel()

	svc, st, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Place(ctx, 1, dosaCart()); err != nil {
		t.Fatalf("Place: %v", err)
	}

	_, err := svc.Complete(ctx, "ORD-GHOST1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	st.View(func(doc *store.Document) {
		if doc.Orders[0].Status != store.StatusPending {
			t.Fatalf("store mutated by failed completion: %+v", doc.Orders[0])
		}
	})
}

func TestCompleteRefusesDivergedCollections(t *testing.T) {
	t.Parallel()

	svc, st, _ := newTestService(t)
	ctx := context.Background()

	o, err := svc.Place(ctx, 1, dosaCart())
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	// Simulate a partially failed prior write: order present, kitchen
	// entry missing.
	err = st.Update(func(doc *store.Document) error {
		doc.Kitchen = nil
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	_, err = svc.Complete(ctx, o.OrderID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on diverged collections, got %v", err)
	}

	st.View(func(doc *store.Document) {
		if doc.Orders[0].Status != store.StatusPending {
			t.Fatal("diverged completion mutated the order record")
		}
	})
}

func TestCompleteNotReflectedInHistory(t *testing.T) {
	t.Parallel()

	svc, _, hist := newTestService(t)
	ctx := context.Background()

	o, err := svc.Place(ctx, 3, dosaCart())
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if _, err := svc.Complete(ctx, o.OrderID); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	recs, err := hist.List(ctx)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(recs))
	}
	// History is an append-only submission log; completion never touches it.
	if recs[0].OrderID != o.OrderID {
		t.Fatalf("unexpected history record: %+v", recs[0])
	}
}

func TestGetUnknownOrder(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	_, err := svc.Get(context.Background(), "ORD-MISSIN")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentPlaceLosesNoOrders(t *testing.T) {
	t.Parallel()

	svc, st, hist := newTestService(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Place(ctx, 1, dosaCart()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Place: %v", err)
	}

	st.View(func(doc *store.Document) {
		if len(doc.Orders) != n {
			t.Fatalf("lost updates: %d of %d orders in store", len(doc.Orders), n)
		}
		if len(doc.Kitchen) != n {
			t.Fatalf("lost updates: %d of %d kitchen entries", len(doc.Kitchen), n)
		}
	})

	recs, err := hist.List(ctx)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if len(recs) != n {
		t.Fatalf("history has %d of %d records", len(recs), n)
	}
}

func TestMenu(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	menu, categories := svc.Menu(context.Background())

	if len(menu) == 0 || len(categories) == 0 {
		t.Fatalf("empty menu or categories: %d / %d", len(menu), len(categories))
	}
	seen := make(map[string]bool)
	for _, c := range categories {
		if seen[c] {
			t.Fatalf("duplicate category %q", c)
		}
		seen[c] = true
	}
	for _, m := range menu {
		if !seen[m.Category] {
			t.Fatalf("menu item %q has unlisted category %q", m.ID, m.Category)
		}
	}
}

func TestOrderIDShape(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		id := newOrderID()
		if !strings.HasPrefix(id, "ORD-") {
			t.Fatalf("missing prefix: %q", id)
		}
		suffix := strings.TrimPrefix(id, "ORD-")
		if len(suffix) != 6 {
			t.Fatalf("suffix length %d in %q", len(suffix), id)
		}
		if suffix != strings.ToUpper(suffix) {
			t.Fatalf("suffix not case-normalized: %q", id)
		}
		for _, r := range suffix {
			if !strings.ContainsRune("ABCDEFGHIJKLMNOPQRSTUVWXYZ234567", r) {
				t.Fatalf("unexpected rune %q in %q", r, id)
			}
		}
	}
}

func TestETARange(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		o, err := svc.Place(ctx, 1, dosaCart())
		if err != nil {
			t.Fatalf("Place: %v", err)
		}
		if o.ETAMinutes < 20 || o.ETAMinutes >= 35 {
			t.Fatalf("ETA %d outside [20,35)", o.ETAMinutes)
		}
	}
}

func BenchmarkPlace(b *testing.B) {
	st, err := store.Open(filepath.Join(b.TempDir(), "store.json"))
	if err != nil {
		b.Fatalf("open store: %v", err)
	}
	svc := New(st, history.NewMemory())
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Place(ctx, 1, dosaCart()); err != nil {
			b.Fatalf("Place: %v", err)
		}
	}
}
