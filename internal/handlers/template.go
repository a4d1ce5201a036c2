package handlers

import (
	"net/http"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/auth"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/httpx"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/services"
)

type TemplateHandler struct {
	Svc *services.TemplateService
}

func NewTemplateHandler(svc *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{Svc: svc}
}

func (h *TemplateHandler) Register(mux *http.ServeMux) {
	mux.Handle("GET /api/templates", auth.RequireAuth(http.HandlerFunc(h.list)))
	mux.Handle("POST /api/templates", auth.RequireAdmin(http.HandlerFunc(h.create)))
	mux.Handle("GET /api/templates/{id}", auth.RequireAuth(http.HandlerFunc(h.get)))
	mux.Handle("PUT /api/templates/{id}", auth.RequireAdmin(http.HandlerFunc(h.update)))
	mux.Handle("DELETE /api/templates/{id}", auth.RequireAdmin(http.HandlerFunc(h.delete)))
	mux.Handle("POST /api/templates/{id}/duplicate", auth.RequireAdmin(http.HandlerFunc(h.duplicate)))
	mux.Handle("POST /api/templates/{id}/default", auth.RequireAdmin(http.HandlerFunc(h.setDefault)))
}

func (h *TemplateHandler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.List(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *TemplateHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	tpl, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tpl)
}

func (h *TemplateHandler) create(w http.ResponseWriter, r *http.Request) {
	var in services.TemplateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	tpl, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, tpl)
}

func (h *TemplateHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in services.TemplateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	tpl, err := h.Svc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tpl)
}

func (h *TemplateHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *TemplateHandler) duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	tpl, err := h.Svc.Duplicate(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, tpl)
}

func (h *TemplateHandler) setDefault(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	tpl, err := h.Svc.SetDefault(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tpl)
}
