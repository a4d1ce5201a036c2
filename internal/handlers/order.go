package handlers

import (
	"errors"
	"net/http"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/auth"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/httpx"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/models"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/render"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/services"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/sheets"
)

type OrderHandler struct {
	Orders *services.OrderService
	Notify *services.NotifyService
}

func NewOrderHandler(orders *services.OrderService, notify *services.NotifyService) *OrderHandler {
	return &OrderHandler{Orders: orders, Notify: notify}
}

func (h *OrderHandler) Register(mux *http.ServeMux) {
	mux.Handle("GET /api/orders", auth.RequireAuth(http.HandlerFunc(h.list)))
	mux.Handle("POST /api/orders", auth.RequireAuth(http.HandlerFunc(h.create)))
	mux.Handle("GET /api/orders/{id}", auth.RequireAuth(http.HandlerFunc(h.get)))
	mux.Handle("PUT /api/orders/{id}/status", auth.RequireAuth(http.HandlerFunc(h.setStatus)))
	mux.Handle("DELETE /api/orders/{id}", auth.RequireAdmin(http.HandlerFunc(h.delete)))
	mux.Handle("POST /api/orders/{id}/send", auth.RequireAuth(http.HandlerFunc(h.send)))
	mux.Handle("POST /api/orders/sync", auth.RequireAdmin(http.HandlerFunc(h.syncAll)))
}

// orderResponse augments the stored order with derived totals.
type orderResponse struct {
	models.Order
	Totals render.Totals `json:"totals"`
}

func (h *OrderHandler) respond(w http.ResponseWriter, status int, o *models.Order) {
	httpx.JSON(w, status, orderResponse{Order: *o, Totals: h.Orders.Totals(o)})
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, orderResponse{Order: orders[i], Totals: h.Orders.Totals(&orders[i])})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *OrderHandler) create(w http.ResponseWriter, r *http.Request) {
	var in services.OrderInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	order, err := h.Orders.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, order)
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	order, err := h.Orders.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.respond(w, http.StatusOK, order)
}

func (h *OrderHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	order, err := h.Orders.SetStatus(r.Context(), id, in.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.respond(w, http.StatusOK, order)
}

func (h *OrderHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Orders.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.NoContent(w)
}

// send dispatches templated mail about the order and returns the
// per-recipient report so the client can show partial failures.
func (h *OrderHandler) send(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in services.SendInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	in.OrderID = id
	report, err := h.Notify.Send(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	status := http.StatusOK
	if report.Failed > 0 {
		status = http.StatusMultiStatus
	}
	httpx.JSON(w, status, report)
}

func (h *OrderHandler) syncAll(w http.ResponseWriter, r *http.Request) {
	if err := h.Orders.SyncAll(r.Context()); err != nil {
		if errors.Is(err, sheets.ErrDisabled) {
			httpx.JSONError(w, http.StatusServiceUnavailable, "sync_disabled", nil)
			return
		}
		writeServiceError(w, err)
		return
	}
	httpx.NoContent(w)
}
