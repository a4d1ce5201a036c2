package render

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/models"
)

func baseSettings() models.RenderSettings {
	s := models.DefaultRenderSettings()
	s.VATRate = 0.19
	return s
}

func TestComputeTotalsSumsMatch(t *testing.T) {
	items := []LineItem{
		{Description: "A", Quantity: 3, UnitPrice: 19.99, VATRate: 0.19},
		{Description: "B", Quantity: 1, UnitPrice: 5.55, DiscountRate: 0.1, VATRate: 0.21},
		{Description: "C", Quantity: 7, UnitPrice: 0.33, VATRate: 0.06},
	}
	got := ComputeTotals(items, true)
	if math.Abs(got.Total-(got.Subtotal+got.VATAmount)) > 1e-9 {
		t.Fatalf("total %v != subtotal %v + vat %v", got.Total, got.Subtotal, got.VATAmount)
	}

	noVAT := ComputeTotals(items, false)
	if noVAT.VATAmount != 0 {
		t.Fatalf("vat disabled but amount = %v", noVAT.VATAmount)
	}
	if noVAT.Total != noVAT.Subtotal {
		t.Fatalf("vat disabled: total %v != subtotal %v", noVAT.Total, noVAT.Subtotal)
	}
}

func TestComputeTotalsScenario(t *testing.T) {
	// 2 x 100 at 19% VAT -> 200 / 38 / 238
	items := []LineItem{{Description: "Service", Quantity: 2, UnitPrice: 100, VATRate: 0.19}}
	got := ComputeTotals(items, true)
	if got.Subtotal != 200 || got.VATAmount != 38 || got.Total != 238 {
		t.Fatalf("unexpected totals: %+v", got)
	}
}

func TestLineItemDiscount(t *testing.T) {
	li := LineItem{Quantity: 4, UnitPrice: 50, DiscountRate: 0.25}
	if li.Total() != 150 {
		t.Fatalf("expected 150, got %v", li.Total())
	}
}

func TestRenderDocumentFull(t *testing.T) {
	settings := baseSettings()
	settings.SelectedPaymentAccount = "de"
	settings.CustomTerms = "Payable within 14 days."
	in := Input{
		Items:    []LineItem{{Description: "Service", Quantity: 2, UnitPrice: 100, VATRate: 0.19}},
		Settings: settings,
		Company:  Party{Name: "Compass BV", Address: "Main St 1", Email: "billing@compass.test"},
		Client:   Party{Name: "Acme GmbH", Email: "acme@test"},
		Meta: DocumentMeta{
			Kind:     KindInvoice,
			Number:   "2024-001",
			IssuedAt: time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC),
			DueAt:    time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC),
		},
		Accounts: models.DefaultPaymentAccounts,
	}
	doc := RenderDocument(in)
	if doc.Preview {
		t.Fatalf("real data must not be marked preview")
	}
	if doc.Header.Number != "INV-2024-001" {
		t.Fatalf("number: %q", doc.Header.Number)
	}
	if doc.Header.Date != "15 Dec 2024" {
		t.Fatalf("date: %q", doc.Header.Date)
	}
	if doc.Totals.Subtotal != "€200.00" || doc.Totals.Tax != "€38.00" || doc.Totals.Total != "€238.00" {
		t.Fatalf("totals: %+v", doc.Totals)
	}
	if len(doc.Payment) == 0 {
		t.Fatalf("expected payment rows for german account")
	}
	foundBLZ := false
	for _, r := range doc.Payment {
		if r.Label == "BLZ:" {
			foundBLZ = true
		}
	}
	if !foundBLZ {
		t.Fatalf("german account should render a BLZ row: %+v", doc.Payment)
	}
	if doc.Terms != "Payable within 14 days." {
		t.Fatalf("terms: %q", doc.Terms)
	}
}

func TestRenderDocumentEmptyItemsFallsBackToSample(t *testing.T) {
	doc := RenderDocument(Input{Settings: baseSettings(), Meta: DocumentMeta{Kind: KindProposal}})
	if !doc.Preview {
		t.Fatalf("sample data must be flagged preview")
	}
	if len(doc.Rows) != 1 || doc.Rows[0].Description != "Sample service" {
		t.Fatalf("expected single sample row, got %+v", doc.Rows)
	}
	// absent party data gets English placeholders in preview
	if doc.Header.CompanyName != "Your Company" || doc.BillTo.Name != "Client Name" {
		t.Fatalf("expected preview placeholders, got %q / %q", doc.Header.CompanyName, doc.BillTo.Name)
	}
}

func TestRenderDocumentUnknownAccountRendersNothing(t *testing.T) {
	settings := baseSettings()
	settings.SelectedPaymentAccount = "nl"
	doc := RenderDocument(Input{
		Items:    []LineItem{{Description: "X", Quantity: 1, UnitPrice: 10}},
		Settings: settings,
		Accounts: models.DefaultPaymentAccounts,
		Meta:     DocumentMeta{Kind: KindInvoice},
	})
	if doc.Payment != nil {
		t.Fatalf("unknown account id must render no payment block, got %+v", doc.Payment)
	}
}

func TestRenderDocumentTranslatedLabels(t *testing.T) {
	settings := baseSettings()
	settings.Language = "de"
	doc := RenderDocument(Input{
		Items:    []LineItem{{Description: "X", Quantity: 1, UnitPrice: 10, VATRate: 0.19}},
		Settings: settings,
		Meta:     DocumentMeta{Kind: KindInvoice},
	})
	if doc.Totals.SubtotalLabel != "Zwischensumme:" {
		t.Fatalf("expected german subtotal label, got %q", doc.Totals.SubtotalLabel)
	}
	if doc.BillTo.Label != "Rechnung an:" {
		t.Fatalf("expected german bill-to label, got %q", doc.BillTo.Label)
	}
}

func TestRenderDocumentUnsupportedLanguageFallsBack(t *testing.T) {
	settings := baseSettings()
	settings.Language = "xx"
	doc := RenderDocument(Input{
		Items:    []LineItem{{Description: "X", Quantity: 1, UnitPrice: 10}},
		Settings: settings,
		Meta:     DocumentMeta{Kind: KindInvoice},
	})
	if doc.Language != "en" {
		t.Fatalf("expected language fallback to en, got %q", doc.Language)
	}
	if doc.Totals.SubtotalLabel != "Subtotal:" {
		t.Fatalf("expected english labels, got %q", doc.Totals.SubtotalLabel)
	}
}

func TestRenderHTML(t *testing.T) {
	settings := baseSettings()
	settings.SelectedPaymentAccount = "be"
	doc := RenderDocument(Input{
		Items:    []LineItem{{Description: "Consulting", Quantity: 2, UnitPrice: 100, VATRate: 0.19}},
		Settings: settings,
		Company:  Party{Name: "Compass BV"},
		Client:   Party{Name: "Acme & Sons"},
		Meta:     DocumentMeta{Kind: KindInvoice, Number: "42"},
		Accounts: models.DefaultPaymentAccounts,
	})
	html, err := RenderHTML(doc)
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	for _, want := range []string{"Consulting", "€238.00", "INV-42", "Acme &amp; Sons", "BE71"} {
		if !strings.Contains(html, want) {
			t.Fatalf("html missing %q", want)
		}
	}
}
