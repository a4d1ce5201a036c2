package handlers

import (
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/auth"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/httpx"
)

// PrivacyHandler forwards GDPR export and deletion requests to the
// external privacy processor. The app never handles the subject data
// itself; it authenticates the user and proxies the request body through.
type PrivacyHandler struct {
	ExportURL string
	DeleteURL string
	Client    *http.Client
	Log       *zap.Logger
}

func NewPrivacyHandler(exportURL, deleteURL string, log *zap.Logger) *PrivacyHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PrivacyHandler{
		ExportURL: exportURL,
		DeleteURL: deleteURL,
		Client:    &http.Client{Timeout: 30 * time.Second},
		Log:       log,
	}
}

func (h *PrivacyHandler) Register(mux *http.ServeMux) {
	mux.Handle("POST /api/privacy/export", auth.RequireAuth(http.HandlerFunc(h.export)))
	mux.Handle("POST /api/privacy/delete", auth.RequireAuth(http.HandlerFunc(h.delete)))
}

func (h *PrivacyHandler) export(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, h.ExportURL)
}

func (h *PrivacyHandler) delete(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, h.DeleteURL)
}

func (h *PrivacyHandler) forward(w http.ResponseWriter, r *http.Request, target string) {
	if target == "" {
		httpx.JSONError(w, http.StatusServiceUnavailable, "privacy_disabled", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, target, io.LimitReader(r.Body, 1<<20))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	req.Header.Set("Content-Type", r.Header.Get("Content-Type"))

	resp, err := h.Client.Do(req)
	if err != nil {
		h.Log.Warn("privacy forward failed", zap.Uint("user", uid), zap.Error(err))
		httpx.JSONError(w, http.StatusBadGateway, "privacy_unreachable", nil)
		return
	}
	defer resp.Body.Close()
	w.Header().Set("Content-Type", resp.Header.Get("Content-Type"))
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		_ = err
	}
}
