package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/i18n"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/mail"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/models"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/render"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/validation"
)

// NotifyService sends templated mail about orders. The template is chosen
// per type (explicit ID or the type's default), its {placeholder} tokens
// substituted from the order, and the result dispatched per recipient.
type NotifyService struct {
	templates  *TemplateService
	orders     *OrderService
	dispatcher mail.Dispatcher
	company    func(ctx context.Context) (*models.CompanyProfile, error)
	log        *zap.Logger
}

func NewNotifyService(templates *TemplateService, orders *OrderService, dispatcher mail.Dispatcher, company func(ctx context.Context) (*models.CompanyProfile, error), log *zap.Logger) *NotifyService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotifyService{templates: templates, orders: orders, dispatcher: dispatcher, company: company, log: log}
}

// BuildOrderVariables flattens an order into the substitution variables
// templates may reference.
func BuildOrderVariables(o *models.Order, totals render.Totals, company *models.CompanyProfile) map[string]string {
	vars := map[string]string{
		"orderNumber":   o.Number,
		"orderStatus":   o.Status,
		"clientName":    o.Client.Name,
		"clientEmail":   o.Client.Email,
		"contactPerson": o.Client.ContactPerson,
		"amount":        i18n.FormatCurrency(totals.Total, o.Currency),
		"subtotal":      i18n.FormatCurrency(totals.Subtotal, o.Currency),
		"vatAmount":     i18n.FormatCurrency(totals.VATAmount, o.Currency),
		"currency":      o.Currency,
		"date":          i18n.FormatDate(o.CreatedAt, "en"),
	}
	if company != nil {
		vars["companyName"] = company.Name
		vars["companyEmail"] = company.Email
		vars["iban"] = company.IBAN
		vars["bic"] = company.BIC
	}
	return vars
}

// SendInput selects the template and recipients for one send.
type SendInput struct {
	OrderID      uint     `json:"order_id"`
	TemplateID   uint     `json:"template_id"`   // 0 means use the type default
	TemplateType string   `json:"template_type"` // used when TemplateID is 0
	To           []string `json:"to"`
	CC           []string `json:"cc"`
}

// Send renders and dispatches the mail, returning the per-recipient
// report. Unknown template tokens are left literal, so a typo in a
// template never blocks a send.
func (s *NotifyService) Send(ctx context.Context, in SendInput) (mail.Report, error) {
	var zero mail.Report
	if s.dispatcher == nil {
		return zero, mail.ErrDisabled
	}
	if len(in.To) == 0 {
		return zero, &ValidationError{Violations: validation.Violations{"to": "required"}}
	}
	order, err := s.orders.Get(ctx, in.OrderID)
	if err != nil {
		return zero, err
	}
	tpl, err := s.resolveTemplate(ctx, in)
	if err != nil {
		return zero, err
	}

	var company *models.CompanyProfile
	if s.company != nil {
		company, err = s.company(ctx)
		if err != nil {
			s.log.Warn("company profile unavailable", zap.Error(err))
		}
	}
	totals := s.orders.Totals(order)
	vars := BuildOrderVariables(order, totals, company)
	nums := map[string]float64{
		"subtotal":  totals.Subtotal,
		"vatAmount": totals.VATAmount,
		"total":     totals.Total,
	}

	// Calculated tokens are evaluated on the template itself, before the
	// variables go in. A substituted value is never re-scanned, so a
	// {=expr} smuggled through a client-controlled field stays literal.
	msg := mail.Message{
		Subject: render.Substitute(tpl.Subject, vars),
		HTML:    render.Substitute(render.SubstituteCalculated(tpl.Body, nums), vars),
		CC:      in.CC,
	}
	report := mail.SendAll(ctx, s.dispatcher, msg, in.To)
	if report.Failed > 0 {
		s.log.Warn("order mail partly failed",
			zap.String("order", order.Number),
			zap.Int("sent", report.Sent),
			zap.Int("failed", report.Failed))
	}
	return report, nil
}

func (s *NotifyService) resolveTemplate(ctx context.Context, in SendInput) (*models.Template, error) {
	if in.TemplateID != 0 {
		return s.templates.Get(ctx, in.TemplateID)
	}
	typ := in.TemplateType
	if typ == "" {
		typ = models.TemplateTypeGeneral
	}
	tpl, err := s.templates.DefaultForType(ctx, typ)
	if err != nil {
		return nil, fmt.Errorf("no default %s template: %w", typ, err)
	}
	return tpl, nil
}
