package httpx

import (
	"time"

	"github.com/jcmexdev/table-order/internal/history"
	"github.com/jcmexdev/table-order/internal/store"
)

type PlaceOrderRequest struct {
	Table int            `json:"table"`
	Items []OrderItemDTO `json:"items"`
	// Total is accepted for wire compatibility with the frontend but
	// ignored: the server reprices the cart from the menu.
	Total float64 `json:"total"`
}

type OrderItemDTO struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

type PlaceOrderResponse struct {
	OK         bool   `json:"ok"`
	OrderID    string `json:"orderId"`
	ETAMinutes int    `json:"etaMinutes"`
}

type MenuResponse struct {
	Menu       []store.MenuItem `json:"menu"`
	Categories []string         `json:"categories"`
}

type KitchenResponse struct {
	Orders []store.KitchenEntry `json:"orders"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type HistoryRecordDTO struct {
	OrderID    string            `json:"orderId"`
	Table      int               `json:"table"`
	Items      []store.OrderItem `json:"items"`
	Total      float64           `json:"total"`
	ETAMinutes int               `json:"etaMinutes"`
	TraceID    string            `json:"traceId,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

type ManagerOrdersResponse struct {
	Orders []HistoryRecordDTO `json:"orders"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapItems(items []OrderItemDTO) []store.OrderItem {
	out := make([]store.OrderItem, len(items))
	for i, it := range items {
		out[i] = store.OrderItem{ID: it.ID, Name: it.Name, Price: it.Price, Qty: it.Qty}
	}
	return out
}

func mapHistoryRecords(recs []history.Record) []HistoryRecordDTO {
	out := make([]HistoryRecordDTO, len(recs))
	for i, rec := range recs {
		out[i] = HistoryRecordDTO{
			OrderID:    rec.OrderID,
			Table:      rec.Table,
			Items:      rec.Items,
			Total:      rec.Total,
			ETAMinutes: rec.ETAMinutes,
			TraceID:    rec.TraceID,
			CreatedAt:  rec.CreatedAt,
		}
	}
	return out
}
