package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/auth"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/httpx"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/i18n"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/models"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/services"
)

type SettingsHandler struct {
	Svc *services.SettingsService
	DB  *gorm.DB
}

func NewSettingsHandler(svc *services.SettingsService, db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{Svc: svc, DB: db}
}

func (h *SettingsHandler) Register(mux *http.ServeMux) {
	mux.Handle("GET /api/settings", auth.RequireAuth(http.HandlerFunc(h.get)))
	mux.Handle("PUT /api/settings", auth.RequireAuth(http.HandlerFunc(h.put)))
	mux.Handle("GET /api/settings/options", auth.RequireAuth(http.HandlerFunc(h.options)))
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	settings, err := h.Svc.Load(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) put(w http.ResponseWriter, r *http.Request) {
	var in models.RenderSettings
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	if err := h.Svc.Save(r.Context(), uid, in); err != nil {
		writeServiceError(w, err)
		return
	}
	saved, err := h.Svc.Load(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, saved)
}

// options lists the selectable languages, currencies, and payment
// accounts for the settings screen.
func (h *SettingsHandler) options(w http.ResponseWriter, r *http.Request) {
	var accounts []models.PaymentAccount
	if err := h.DB.Find(&accounts).Error; err != nil {
		accounts = models.DefaultPaymentAccounts
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"languages":  i18n.Languages(),
		"currencies": i18n.Currencies(),
		"accounts":   accounts,
	})
}
