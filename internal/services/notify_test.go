package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/models"
)

func notifyFixture(t *testing.T) (*NotifyService, *recordingDispatcher, *models.Order) {
	t.Helper()
	db := setupTestDB(t, t.Name())
	client := models.Client{Name: "Acme GmbH", Email: "billing@acme.example", ContactPerson: "Jo Doe"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	orders := NewOrderService(db, nil, nil)
	order, err := orders.Create(context.Background(), OrderInput{
		Number:   "ORD-0042",
		ClientID: client.ID,
		Currency: "EUR",
		Items:    []OrderItemInput{{Description: "Consulting", Quantity: 2, UnitPrice: 100, VATRate: 0.19}},
	})
	if err != nil {
		t.Fatalf("seed order: %v", err)
	}

	templates := NewTemplateService(db)
	tpl := models.Template{
		Name:      "Reminder",
		Type:      models.TemplateTypePaymentReminder,
		Subject:   "Payment reminder {orderNumber}",
		Body:      "Dear {clientName}, {amount} is due. Regards, {companyName}",
		IsDefault: true,
	}
	if err := db.Create(&tpl).Error; err != nil {
		t.Fatalf("seed template: %v", err)
	}

	disp := &recordingDispatcher{}
	company := func(ctx context.Context) (*models.CompanyProfile, error) {
		return &models.CompanyProfile{Name: "Compass Ltd", IBAN: "BE71 0961 2345 6769"}, nil
	}
	return NewNotifyService(templates, orders, disp, company, nil), disp, order
}

func TestNotifySendSubstitutesVariables(t *testing.T) {
	svc, disp, order := notifyFixture(t)

	report, err := svc.Send(context.Background(), SendInput{
		OrderID:      order.ID,
		TemplateType: models.TemplateTypePaymentReminder,
		To:           []string{"billing@acme.example"},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if report.Sent != 1 || report.Failed != 0 {
		t.Fatalf("report = %+v", report)
	}
	msg := disp.sent[0]
	if msg.Subject != "Payment reminder ORD-0042" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "Dear Acme GmbH") {
		t.Errorf("body missing client name: %q", msg.HTML)
	}
	if !strings.Contains(msg.HTML, "€238.00") {
		t.Errorf("body missing formatted amount: %q", msg.HTML)
	}
	if !strings.Contains(msg.HTML, "Compass Ltd") {
		t.Errorf("body missing company name: %q", msg.HTML)
	}
}

func TestNotifySendUnknownTokenLeftLiteral(t *testing.T) {
	svc, disp, order := notifyFixture(t)

	// A template with a typo still sends, token intact.
	tpl, err := svc.templates.Create(context.Background(), TemplateInput{
		Name: "Typo", Type: models.TemplateTypeGeneral,
		Subject: "Re {orderNumbr}", Body: "b",
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	if _, err := svc.Send(context.Background(), SendInput{
		OrderID:    order.ID,
		TemplateID: tpl.ID,
		To:         []string{"x@example.com"},
	}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := disp.sent[len(disp.sent)-1].Subject; got != "Re {orderNumbr}" {
		t.Errorf("unknown token must stay literal, got %q", got)
	}
}

func TestNotifySendValueTokensNotEvaluated(t *testing.T) {
	svc, disp, _ := notifyFixture(t)

	// A calculated token hidden in a client-controlled field must come
	// out literal; only tokens written in the template are evaluated.
	sneaky := models.Client{Name: "{=subtotal*100}", Email: "x@example.com"}
	if err := svc.orders.db.Create(&sneaky).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	order, err := svc.orders.Create(context.Background(), OrderInput{
		Number:   "ORD-0099",
		ClientID: sneaky.ID,
		Currency: "EUR",
		Items:    []OrderItemInput{{Description: "Consulting", Quantity: 2, UnitPrice: 100, VATRate: 0.19}},
	})
	if err != nil {
		t.Fatalf("seed order: %v", err)
	}
	tpl, err := svc.templates.Create(context.Background(), TemplateInput{
		Name: "Calc", Type: models.TemplateTypeGeneral,
		Subject: "s", Body: "Dear {clientName}, pay {=total} now.",
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	if _, err := svc.Send(context.Background(), SendInput{
		OrderID:    order.ID,
		TemplateID: tpl.ID,
		To:         []string{"x@example.com"},
	}); err != nil {
		t.Fatalf("send: %v", err)
	}
	got := disp.sent[len(disp.sent)-1].HTML
	if !strings.Contains(got, "Dear {=subtotal*100},") {
		t.Errorf("client value must stay literal, got %q", got)
	}
	if !strings.Contains(got, "pay 238.00 now") {
		t.Errorf("template token must be evaluated, got %q", got)
	}
}

func TestNotifySendNoDefaultTemplate(t *testing.T) {
	svc, _, order := notifyFixture(t)

	_, err := svc.Send(context.Background(), SendInput{
		OrderID:      order.ID,
		TemplateType: models.TemplateTypeOrderStatus, // no default seeded
		To:           []string{"x@example.com"},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNotifySendRequiresRecipients(t *testing.T) {
	svc, _, order := notifyFixture(t)

	_, err := svc.Send(context.Background(), SendInput{OrderID: order.ID})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestBuildOrderVariables(t *testing.T) {
	o := &models.Order{
		Number:   "ORD-7",
		Status:   models.OrderStatusInvoiced,
		Currency: "USD",
		Client:   models.Client{Name: "Acme", Email: "a@example.com"},
	}
	vars := BuildOrderVariables(o, NewOrderService(nil, nil, nil).Totals(o), nil)
	if vars["orderNumber"] != "ORD-7" || vars["clientName"] != "Acme" {
		t.Errorf("vars = %v", vars)
	}
	if vars["amount"] != "$0.00" {
		t.Errorf("amount = %q", vars["amount"])
	}
	if _, ok := vars["companyName"]; ok {
		t.Errorf("companyName must be absent without a profile")
	}
}
