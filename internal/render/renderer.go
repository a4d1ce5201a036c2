package render

import (
	"time"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/i18n"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/models"
)

// Document kinds
const (
	KindInvoice  = "invoice"
	KindProposal = "proposal"
)

// LineItem is one priced row of the document to render.
type LineItem struct {
	Description  string
	Quantity     int
	UnitPrice    float64
	DiscountRate float64 // 0..1
	VATRate      float64 // 0..1
}

// Total returns quantity * unit price * (1 - discount rate), in full
// precision. Rounding happens once at display time.
func (li LineItem) Total() float64 {
	return float64(li.Quantity) * li.UnitPrice * (1 - li.DiscountRate)
}

// Totals are derived from line items and never stored.
type Totals struct {
	Subtotal  float64
	VATAmount float64
	Total     float64
}

// ComputeTotals sums line items in full precision; per-line rounding would
// compound the error across many items. VAT is zero when disabled.
func ComputeTotals(items []LineItem, vatEnabled bool) Totals {
	var t Totals
	for _, li := range items {
		line := li.Total()
		t.Subtotal += line
		if vatEnabled {
			t.VATAmount += line * li.VATRate
		}
	}
	t.Total = t.Subtotal + t.VATAmount
	return t
}

// Party identifies one side of the document (issuing company or client).
type Party struct {
	Name    string
	Address string
	ZipCity string
	Country string
	Email   string
	VATID   string
}

// DocumentMeta carries per-document identity and dates.
type DocumentMeta struct {
	Kind     string // KindInvoice or KindProposal
	Number   string
	IssuedAt time.Time
	DueAt    time.Time
}

// Input is everything the renderer needs; handlers map persisted models
// into it.
type Input struct {
	Items    []LineItem
	Settings models.RenderSettings
	Client   Party
	Company  Party
	Meta     DocumentMeta
	Accounts []models.PaymentAccount
	Notes    string
	Preview  bool // preview mode substitutes English placeholders for absent data
}

// Output blocks, keyed by what the document view needs. Empty string
// fields render as absent.
type HeaderBlock struct {
	CompanyName    string `json:"companyName"`
	CompanyAddress string `json:"companyAddress,omitempty"`
	CompanyEmail   string `json:"companyEmail,omitempty"`
	LogoURL        string `json:"logoUrl,omitempty"`
	LogoSize       int    `json:"logoSize,omitempty"`
	Number         string `json:"number"`
	DateLabel      string `json:"dateLabel"`
	Date           string `json:"date"`
	DueDateLabel   string `json:"dueDateLabel,omitempty"`
	DueDate        string `json:"dueDate,omitempty"`
}

type BillToBlock struct {
	Label   string `json:"label"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
	VATID   string `json:"vatId,omitempty"`
}

type ColumnLabels struct {
	Item     string `json:"item"`
	Quantity string `json:"quantity"`
	Rate     string `json:"rate"`
	Amount   string `json:"amount"`
}

type Row struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Rate        string `json:"rate"`
	Amount      string `json:"amount"`
}

type TotalsBlock struct {
	SubtotalLabel string `json:"subtotalLabel"`
	Subtotal      string `json:"subtotal"`
	TaxLabel      string `json:"taxLabel,omitempty"`
	Tax           string `json:"tax,omitempty"`
	TotalLabel    string `json:"totalLabel"`
	Total         string `json:"total"`
	BalanceLabel  string `json:"balanceLabel"`
	Balance       string `json:"balance"`
}

type PaymentRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type RenderedDocument struct {
	Kind     string       `json:"kind"`
	Language string       `json:"language"`
	Currency string       `json:"currency"`
	Preview  bool         `json:"preview"`
	Header   HeaderBlock  `json:"header"`
	BillTo   BillToBlock  `json:"billTo"`
	Columns  ColumnLabels `json:"columns"`
	Rows     []Row        `json:"rows"`
	Totals   TotalsBlock  `json:"totals"`
	Payment  []PaymentRow `json:"payment,omitempty"`
	Notes    string       `json:"notes,omitempty"`
	Terms    string       `json:"terms,omitempty"`
}

// sampleItems are shown when rendering a template preview with no real line
// items. Never persisted, never dispatched.
var sampleItems = []LineItem{
	{Description: "Sample service", Quantity: 1, UnitPrice: 100},
}

// RenderDocument assembles a previewable invoice or proposal from line
// items, settings, and party metadata.
func RenderDocument(in Input) RenderedDocument {
	lang := in.Settings.Language
	if !i18n.Supported(lang) {
		lang = "en"
	}
	currency := in.Settings.Currency

	items := in.Items
	preview := in.Preview
	if len(items) == 0 {
		items = sampleItems
		preview = true
	}

	totals := ComputeTotals(items, in.Settings.VATEnabled)

	doc := RenderedDocument{
		Kind:     in.Meta.Kind,
		Language: lang,
		Currency: currency,
		Preview:  preview,
	}

	doc.Header = HeaderBlock{
		CompanyName:    fallback(in.Company.Name, preview, "Your Company"),
		CompanyAddress: joinNonEmpty(in.Company.Address, in.Company.ZipCity, in.Company.Country),
		CompanyEmail:   in.Company.Email,
		LogoURL:        in.Settings.LogoURL,
		LogoSize:       in.Settings.LogoSize,
		Number:         in.Settings.InvoiceNumberPrefix + fallback(in.Meta.Number, preview, "0001"),
		DateLabel:      i18n.T(lang, "date"),
		Date:           i18n.FormatDate(issuedOrNow(in.Meta.IssuedAt), lang),
	}
	if !in.Meta.DueAt.IsZero() {
		doc.Header.DueDateLabel = i18n.T(lang, "dueDate")
		doc.Header.DueDate = i18n.FormatDate(in.Meta.DueAt, lang)
	}

	doc.BillTo = BillToBlock{
		Label:   i18n.T(lang, "billTo"),
		Name:    fallback(in.Client.Name, preview, "Client Name"),
		Address: joinNonEmpty(in.Client.Address, in.Client.ZipCity, in.Client.Country),
		Email:   in.Client.Email,
		VATID:   in.Client.VATID,
	}

	doc.Columns = ColumnLabels{
		Item:     i18n.T(lang, "item"),
		Quantity: i18n.T(lang, "quantity"),
		Rate:     i18n.T(lang, "rate"),
		Amount:   i18n.T(lang, "amount"),
	}

	doc.Rows = make([]Row, 0, len(items))
	for _, li := range items {
		doc.Rows = append(doc.Rows, Row{
			Description: li.Description,
			Quantity:    li.Quantity,
			Rate:        i18n.FormatCurrency(li.UnitPrice, currency),
			Amount:      i18n.FormatCurrency(i18n.RoundTo(li.Total(), 2), currency),
		})
	}

	doc.Totals = TotalsBlock{
		SubtotalLabel: i18n.T(lang, "subtotal"),
		Subtotal:      i18n.FormatCurrency(i18n.RoundTo(totals.Subtotal, 2), currency),
		TotalLabel:    i18n.T(lang, "total"),
		Total:         i18n.FormatCurrency(i18n.RoundTo(totals.Total, 2), currency),
		BalanceLabel:  i18n.T(lang, "balanceDue"),
		Balance:       i18n.FormatCurrency(i18n.RoundTo(totals.Total, 2), currency),
	}
	if in.Settings.VATEnabled {
		doc.Totals.TaxLabel = i18n.T(lang, "tax")
		doc.Totals.Tax = i18n.FormatCurrency(i18n.RoundTo(totals.VATAmount, 2), currency)
	}

	if acct := resolveAccount(in.Accounts, in.Settings.SelectedPaymentAccount); acct != nil {
		doc.Payment = paymentRows(*acct, lang)
	}

	doc.Notes = in.Notes
	doc.Terms = in.Settings.CustomTerms
	return doc
}

// resolveAccount looks up the selected payment account. An unknown or empty
// id means no account section, not an error.
func resolveAccount(accounts []models.PaymentAccount, id string) *models.PaymentAccount {
	if id == "" {
		return nil
	}
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i]
		}
	}
	return nil
}

func paymentRows(a models.PaymentAccount, lang string) []PaymentRow {
	rows := []PaymentRow{
		{Label: i18n.T(lang, "bank"), Value: a.Bank},
		{Label: i18n.T(lang, "iban"), Value: a.IBAN},
		{Label: i18n.T(lang, "bic"), Value: a.BIC},
	}
	if a.BLZ != "" {
		rows = append(rows, PaymentRow{Label: i18n.T(lang, "blz"), Value: a.BLZ})
	}
	if a.Account != "" {
		rows = append(rows, PaymentRow{Label: i18n.T(lang, "account"), Value: a.Account})
	}
	out := rows[:0]
	for _, r := range rows {
		if r.Value != "" {
			out = append(out, r)
		}
	}
	return out
}

func fallback(v string, preview bool, placeholder string) string {
	if v == "" && preview {
		return placeholder
	}
	return v
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}

func issuedOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
