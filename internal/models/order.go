package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses
const (
	OrderStatusDraft      = "draft"
	OrderStatusInProgress = "in_progress"
	OrderStatusInvoiced   = "invoiced"
	OrderStatusPaid       = "paid"
)

// Order is a client order with priced line items. Orders are soft-deleted
// (deleted_at tombstone) so the spreadsheet sync can still match old rows.
type Order struct {
	ID        uint           `gorm:"primaryKey"`
	Number    string         `gorm:"not null;uniqueIndex"`
	ClientID  uint           `gorm:"not null;index"`
	Client    Client         `gorm:"foreignKey:ClientID"`
	Status    string         `gorm:"not null;default:'draft'"`
	Currency  string         `gorm:"not null;default:'EUR'"`
	Items     []OrderItem    `gorm:"foreignKey:OrderID"`
	Notes     string
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem is one priced row of an order.
// Line total = quantity * unit price * (1 - discount rate).
type OrderItem struct {
	ID           uint    `gorm:"primaryKey"`
	OrderID      uint    `gorm:"not null;index"`
	Description  string  `gorm:"not null"`
	Quantity     int     `gorm:"not null"`
	UnitPrice    float64 `gorm:"not null"`
	DiscountRate float64 `gorm:"not null;default:0"` // 0..1
	VATRate      float64 `gorm:"not null;default:0"` // 0..1
}
