package handlers

import (
	"io"
	"net/http"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/auth"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/httpx"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/services"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/storage"
)

type SupportHandler struct {
	Svc   *services.SupportService
	Store *storage.Store
}

func NewSupportHandler(svc *services.SupportService, store *storage.Store) *SupportHandler {
	return &SupportHandler{Svc: svc, Store: store}
}

func (h *SupportHandler) Register(mux *http.ServeMux) {
	// Inquiries arrive from clients without a session.
	mux.HandleFunc("POST /api/inquiries", h.createInquiry)
	mux.Handle("GET /api/inquiries", auth.RequireAdmin(http.HandlerFunc(h.listInquiries)))
	mux.Handle("GET /api/inquiries/{id}", auth.RequireAdmin(http.HandlerFunc(h.getInquiry)))
	mux.Handle("POST /api/inquiries/{id}/replies", auth.RequireAuth(http.HandlerFunc(h.reply)))
	mux.Handle("POST /api/inquiries/{id}/close", auth.RequireAdmin(http.HandlerFunc(h.closeInquiry)))

	mux.Handle("POST /api/tickets", auth.RequireAuth(http.HandlerFunc(h.createTicket)))
	mux.Handle("GET /api/tickets", auth.RequireAuth(http.HandlerFunc(h.listTickets)))
	mux.Handle("GET /api/tickets/{id}", auth.RequireAuth(http.HandlerFunc(h.getTicket)))
	mux.Handle("POST /api/tickets/{id}/submit", auth.RequireAuth(http.HandlerFunc(h.submitTicket)))
	mux.Handle("POST /api/tickets/{id}/resolve", auth.RequireAdmin(http.HandlerFunc(h.resolveTicket)))
	mux.Handle("POST /api/tickets/{id}/attachments", auth.RequireAuth(http.HandlerFunc(h.upload)))
	mux.Handle("GET /api/attachments/{key}", auth.RequireAuth(http.HandlerFunc(h.download)))
}

func (h *SupportHandler) createInquiry(w http.ResponseWriter, r *http.Request) {
	var in services.InquiryInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	inq, err := h.Svc.CreateInquiry(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inq)
}

func (h *SupportHandler) listInquiries(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.ListInquiries(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *SupportHandler) getInquiry(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	inq, err := h.Svc.GetInquiry(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inq)
}

func (h *SupportHandler) reply(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in struct {
		Body string `json:"body"`
	}
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	reply, err := h.Svc.Reply(r.Context(), id, uid, auth.IsAdmin(r.Context()), in.Body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, reply)
}

func (h *SupportHandler) closeInquiry(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Svc.CloseInquiry(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *SupportHandler) createTicket(w http.ResponseWriter, r *http.Request) {
	var in services.TicketInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	ticket, err := h.Svc.CreateTicket(r.Context(), uid, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, ticket)
}

func (h *SupportHandler) listTickets(w http.ResponseWriter, r *http.Request) {
	// Admins see everything, users their own tickets.
	var reporterID uint
	if !auth.IsAdmin(r.Context()) {
		reporterID, _ = auth.UserIDFromContext(r.Context())
	}
	out, err := h.Svc.ListTickets(r.Context(), reporterID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *SupportHandler) getTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	ticket, err := h.Svc.GetTicket(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !auth.IsAdmin(r.Context()) {
		if uid, _ := auth.UserIDFromContext(r.Context()); ticket.ReporterID != uid {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, ticket)
}

func (h *SupportHandler) submitTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	ticket, err := h.Svc.SubmitTicket(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ticket)
}

func (h *SupportHandler) resolveTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	ticket, err := h.Svc.ResolveTicket(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ticket)
}

// upload stores one multipart file. The 201 response is the durable-write
// confirmation; there is no pending state to poll afterwards.
func (h *SupportHandler) upload(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if _, err := h.Svc.GetTicket(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_upload", nil)
		return
	}
	defer file.Close()
	att, err := h.Store.Save(r.Context(), id, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, att)
}

func (h *SupportHandler) download(w http.ResponseWriter, r *http.Request) {
	rc, err := h.Store.Open(r.PathValue("key"))
	if err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, rc); err != nil {
		_ = err
	}
}
