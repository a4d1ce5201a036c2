package handlers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/auth"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/httpx"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/middleware"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/models"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/render"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/services"
)

// DocumentHandler renders invoice/proposal documents from an order or
// from ad-hoc preview input.
type DocumentHandler struct {
	DB       *gorm.DB
	Orders   *services.OrderService
	Settings *services.SettingsService
}

func NewDocumentHandler(db *gorm.DB, orders *services.OrderService, settings *services.SettingsService) *DocumentHandler {
	return &DocumentHandler{DB: db, Orders: orders, Settings: settings}
}

func (h *DocumentHandler) Register(mux *http.ServeMux) {
	mux.Handle("POST /api/documents/preview", auth.RequireAuth(http.HandlerFunc(h.preview)))
	mux.Handle("GET /api/orders/{id}/document", auth.RequireAuth(http.HandlerFunc(h.orderDocument)))
}

type previewItem struct {
	Description  string  `json:"description"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	DiscountRate float64 `json:"discount_rate"`
	VATRate      float64 `json:"vat_rate"`
}

type previewParty struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	ZipCity string `json:"zip_city"`
	Country string `json:"country"`
	Email   string `json:"email"`
	VATID   string `json:"vat_id"`
}

type previewRequest struct {
	Kind     string                 `json:"kind"`
	Settings *models.RenderSettings `json:"settings"` // nil: use stored settings
	Items    []previewItem          `json:"items"`
	Client   previewParty           `json:"client"`
	Number   string                 `json:"number"`
	Notes    string                 `json:"notes"`
	HTML     bool                   `json:"html"` // include rendered HTML in the response
}

type documentResponse struct {
	Document render.RenderedDocument `json:"document"`
	HTML     string                  `json:"html,omitempty"`
}

// preview renders entirely from the request; nothing is persisted or sent.
func (h *DocumentHandler) preview(w http.ResponseWriter, r *http.Request) {
	var in previewRequest
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	settings, err := h.settingsOrDefault(r, uid, in.Settings)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	kind := in.Kind
	if kind != render.KindProposal {
		kind = render.KindInvoice
	}
	items := make([]render.LineItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, render.LineItem{
			Description:  it.Description,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			DiscountRate: it.DiscountRate,
			VATRate:      it.VATRate,
		})
	}
	doc := render.RenderDocument(render.Input{
		Items:    items,
		Settings: settings,
		Client: render.Party{
			Name:    in.Client.Name,
			Address: in.Client.Address,
			ZipCity: in.Client.ZipCity,
			Country: in.Client.Country,
			Email:   in.Client.Email,
			VATID:   in.Client.VATID,
		},
		Company: h.companyParty(),
		Meta: render.DocumentMeta{
			Kind:   kind,
			Number: in.Number,
			DueAt:  time.Now().AddDate(0, 0, 14),
		},
		Accounts: h.accounts(),
		Notes:    in.Notes,
		Preview:  true,
	})
	h.respond(w, doc, in.HTML)
}

// orderDocument renders the stored order as an invoice.
func (h *DocumentHandler) orderDocument(w http.ResponseWriter, r *http.Request) {
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
	uid, _ := auth.UserIDFromContext(r.Context())
	settings, err := h.Settings.Load(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if order.Currency != "" {
		settings.Currency = order.Currency
	}

	items := make([]render.LineItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, render.LineItem{
			Description:  it.Description,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			DiscountRate: it.DiscountRate,
			VATRate:      it.VATRate,
		})
	}
	doc := render.RenderDocument(render.Input{
		Items:    items,
		Settings: settings,
		Client: render.Party{
			Name:    order.Client.Name,
			Address: order.Client.Address,
			ZipCity: joinZipCity(order.Client.ZipCode, order.Client.City),
			Country: order.Client.Country,
			Email:   order.Client.Email,
			VATID:   order.Client.VATID,
		},
		Company: h.companyParty(),
		Meta: render.DocumentMeta{
			Kind:     render.KindInvoice,
			Number:   order.Number,
			IssuedAt: order.CreatedAt,
			DueAt:    order.CreatedAt.AddDate(0, 0, 14),
		},
		Accounts: h.accounts(),
		Notes:    order.Notes,
	})
	h.respond(w, doc, r.URL.Query().Get("format") == "html")
}

func (h *DocumentHandler) respond(w http.ResponseWriter, doc render.RenderedDocument, includeHTML bool) {
	out := documentResponse{Document: doc}
	if includeHTML {
		html, err := render.RenderHTML(doc)
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "render_failed", nil)
			return
		}
		out.HTML = html
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *DocumentHandler) settingsOrDefault(r *http.Request, uid uint, override *models.RenderSettings) (models.RenderSettings, error) {
	if override != nil {
		s := *override
		if s.Language == "" {
			s.Language = middleware.LangFrom(r)
		}
		return s, nil
	}
	return h.Settings.Load(r.Context(), uid)
}

func (h *DocumentHandler) companyParty() render.Party {
	var profile models.CompanyProfile
	if err := h.DB.First(&profile).Error; err != nil {
		return render.Party{}
	}
	return render.Party{
		Name:    profile.Name,
		Address: profile.Address,
		ZipCity: joinZipCity(profile.ZipCode, profile.City),
		Country: profile.Country,
		Email:   profile.Email,
		VATID:   profile.VATID,
	}
}

func (h *DocumentHandler) accounts() []models.PaymentAccount {
	var out []models.PaymentAccount
	if err := h.DB.Find(&out).Error; err != nil {
		return models.DefaultPaymentAccounts
	}
	return out
}

func joinZipCity(zip, city string) string {
	switch {
	case zip == "":
		return city
	case city == "":
		return zip
	default:
		return zip + " " + city
	}
}
