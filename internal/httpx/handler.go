// Package httpx exposes the table-ordering API over HTTP: the public menu
// and ordering endpoints, the kitchen display endpoints, and the
// session-gated manager history.
package httpx

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/table-order/internal/history"
	"github.com/jcmexdev/table-order/internal/order"
	"github.com/jcmexdev/table-order/internal/session"
	"github.com/jcmexdev/table-order/internal/store"
)

// sessionCookie carries the manager session token.
const sessionCookie = "emenu_session"

// OrderService is the slice of the order service the handlers need.
type OrderService interface {
	Place(ctx context.Context, table int, items []store.OrderItem) (store.Order, error)
	Get(ctx context.Context, orderID string) (store.Order, error)
	KitchenQueue(ctx context.Context) []store.KitchenEntry
	Complete(ctx context.Context, orderID string) (store.Order, error)
	Menu(ctx context.Context) ([]store.MenuItem, []string)
}

// Credentials is the manager login pair, supplied by configuration. The
// zero value disables login entirely.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) enabled() bool { return c.Username != "" && c.Password != "" }

// matches compares in constant time so a login attempt leaks nothing about
// how much of the credential pair was right.
func (c Credentials) matches(user, pass string) bool {
	u := subtle.ConstantTimeCompare([]byte(c.Username), []byte(user))
	p := subtle.ConstantTimeCompare([]byte(c.Password), []byte(pass))
	return c.enabled() && u == 1 && p == 1
}

// Handler handles incoming HTTP requests for the ordering domain.
type Handler struct {
	orders   OrderService
	history  history.Repository
	sessions session.Store
	creds    Credentials
}

// NewHandler initializes the handler with its required collaborators.
func NewHandler(orders OrderService, hist history.Repository, sessions session.Store, creds Credentials) *Handler {
	return &Handler{
		orders:   orders,
		history:  hist,
		sessions: sessions,
		creds:    creds,
	}
}

// GetMenu serves the menu and its category list. No auth: this is what the
// QR code lands customers on.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, categories := h.orders.Menu(r.Context())
	writeJSON(w, http.StatusOK, MenuResponse{Menu: menu, Categories: categories})
}

// PlaceOrder receives a cart and creates the order.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	o, err := h.orders.Place(r.Context(), req.Table, mapItems(req.Items))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PlaceOrderResponse{OK: true, OrderID: o.OrderID, ETAMinutes: o.ETAMinutes})
}

// GetOrder returns the live order record for a single order ID.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// GetKitchen returns the full kitchen queue, newest first, pending and
// completed alike — the display decides what to show.
func (h *Handler) GetKitchen(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, KitchenResponse{Orders: h.orders.KitchenQueue(r.Context())})
}

// CompleteOrder marks an order completed.
func (h *Handler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	if _, err := h.orders.Complete(r.Context(), chi.URLParam(r, "orderId")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}

// Login checks the configured manager credentials and issues a session
// cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if !h.creds.matches(req.Username, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "")
		return
	}

	token, err := h.sessions.Create(r.Context(), req.Username)
	if err != nil {
		slog.ErrorContext(r.Context(), "session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}

// Logout destroys the current session, if any.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if err := h.sessions.Destroy(r.Context(), c.Value); err != nil {
			slog.ErrorContext(r.Context(), "session destroy failed", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}

// ManagerOrders lists the append-only order history, newest first. Reached
// only through RequireSession.
func (h *Handler) ManagerOrders(w http.ResponseWriter, r *http.Request) {
	recs, err := h.history.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "history list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "")
		return
	}
	writeJSON(w, http.StatusOK, ManagerOrdersResponse{Orders: mapHistoryRecords(recs)})
}

// RequireSession gates manager endpoints on a valid session cookie.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, http.StatusForbidden, "unauthorized", "")
			return
		}
		if _, err := h.sessions.User(r.Context(), c.Value); err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				slog.ErrorContext(r.Context(), "session lookup failed", "error", err)
			}
			writeError(w, http.StatusForbidden, "unauthorized", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeServiceError maps order service errors to HTTP status codes and
// wire-level error kinds.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrInvalidOrder):
		writeError(w, http.StatusBadRequest, "invalid_order", err.Error())
	case errors.Is(err, order.ErrUnknownTable):
		writeError(w, http.StatusBadRequest, "unknown_table", err.Error())
	case errors.Is(err, order.ErrUnknownItem):
		writeError(w, http.StatusBadRequest, "unknown_item", err.Error())
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
