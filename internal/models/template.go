package models

import "time"

// Template types. At most one template per type may be flagged default;
// uniqueness is enforced by TemplateService.SetDefault, not a DB constraint.
const (
	TemplateTypePaymentReminder = "payment_reminder"
	TemplateTypeInvoice         = "invoice"
	TemplateTypeOrderStatus     = "order_status"
	TemplateTypeGeneral         = "general"
)

// TemplateTypes lists the valid template type values.
var TemplateTypes = []string{
	TemplateTypePaymentReminder,
	TemplateTypeInvoice,
	TemplateTypeOrderStatus,
	TemplateTypeGeneral,
}

// Template is a named, reusable subject+body pair with {placeholder}
// tokens, owned by the operating organization. Hard-deleted on removal,
// unlike orders which carry a deleted_at tombstone.
type Template struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null;index"`
	Type      string `gorm:"not null;index"`
	Subject   string `gorm:"not null"`
	Body      string `gorm:"not null"`
	IsDefault bool   `gorm:"not null;default:false;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
