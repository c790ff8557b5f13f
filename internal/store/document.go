package store

import "time"

// Status is the lifecycle state of an order. The only transition is
// pending → completed; there is no cancellation or rejection path.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// OrderItem is one line of a customer's cart.
type OrderItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// Order is a submitted cart tracked through its lifecycle.
type Order struct {
	OrderID     string      `json:"orderId"`
	Table       int         `json:"table"`
	Items       []OrderItem `json:"items"`
	Total       float64     `json:"total"`
	ETAMinutes  int         `json:"etaMinutes"`
	Status      Status      `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
}

// KitchenEntry is the kitchen-facing copy of an Order, snapshotted at
// creation time. Completion must update it and the order record in the
// same store write so the two never diverge.
type KitchenEntry Order

// MenuItem is a dish on the menu. Order and kitchen logic never mutate it.
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

// Document is the full persisted state: the single source of truth for
// tables, menu, live orders and the kitchen queue. It is read and written
// wholesale; Store serializes all mutations.
type Document struct {
	Tables  []int          `json:"tables"`
	Menu    []MenuItem     `json:"menu"`
	Orders  []Order        `json:"orders"`
	Kitchen []KitchenEntry `json:"kitchen"`
}

// HasTable reports whether n is a configured table.
func (d *Document) HasTable(n int) bool {
	for _, t := range d.Tables {
		if t == n {
			return true
		}
	}
	return false
}

// MenuItemByID returns the menu item with the given ID.
func (d *Document) MenuItemByID(id string) (MenuItem, bool) {
	for _, m := range d.Menu {
		if m.ID == id {
			return m, true
		}
	}
	return MenuItem{}, false
}

// Categories returns the distinct menu categories in first-seen order.
func (d *Document) Categories() []string {
	seen := make(map[string]struct{}, len(d.Menu))
	out := make([]string, 0, len(d.Menu))
	for _, m := range d.Menu {
		if _, ok := seen[m.Category]; ok {
			continue
		}
		seen[m.Category] = struct{}{}
		out = append(out, m.Category)
	}
	return out
}

// defaultDocument seeds a fresh store file: five tables and a small menu,
// matching the deployment the QR generator produces codes for.
func defaultDocument() *Document {
	return &Document{
		Tables: []int{1, 2, 3, 4, 5},
		Menu: []MenuItem{
			{ID: "m1", Name: "Masala Dosa", Description: "Crisp rice crepe with spiced potato filling", Price: 80, Category: "South Indian", Image: "/images/masala-dosa.jpg"},
			{ID: "m2", Name: "Idli Sambar", Description: "Steamed rice cakes with lentil stew", Price: 60, Category: "South Indian", Image: "/images/idli-sambar.jpg"},
			{ID: "m3", Name: "Paneer Butter Masala", Description: "Cottage cheese in tomato butter gravy", Price: 180, Category: "Curries", Image: "/images/paneer-butter-masala.jpg"},
			{ID: "m4", Name: "Garlic Naan", Description: "Tandoor flatbread with garlic butter", Price: 40, Category: "Breads", Image: "/images/garlic-naan.jpg"},
			{ID: "m5", Name: "Filter Coffee", Description: "South Indian drip coffee with frothed milk", Price: 35, Category: "Beverages", Image: "/images/filter-coffee.jpg"},
		},
		Orders:  []Order{},
		Kitchen: []KitchenEntry{},
	}
}
