package models

import "time"

// RenderSettings are the user-configurable locale, currency, VAT, and
// branding options applied to rendered documents. Persisted as a single
// JSON blob per user and merged with defaults on load.
type RenderSettings struct {
	Language               string  `json:"language"`
	Currency               string  `json:"currency"`
	LogoURL                string  `json:"logoUrl"`
	LogoSize               int     `json:"logoSize"` // percent, 100 = natural size
	VATEnabled             bool    `json:"vatEnabled"`
	VATRate                float64 `json:"vatRate"` // 0..1
	InvoiceNumberPrefix    string  `json:"invoiceNumberPrefix"`
	SelectedPaymentAccount string  `json:"selectedPaymentAccount"`
	CustomTerms            string  `json:"customTerms"`
}

// DefaultRenderSettings returns the baseline settings merged into every
// stored blob.
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		Language:            "en",
		Currency:            "EUR",
		LogoSize:            100,
		VATEnabled:          true,
		VATRate:             0.19,
		InvoiceNumberPrefix: "INV-",
	}
}

// UserSettings stores the serialized RenderSettings blob for one user.
type UserSettings struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;uniqueIndex"`
	Data      string `gorm:"not null"` // RenderSettings JSON
	UpdatedAt time.Time
	CreatedAt time.Time
}
