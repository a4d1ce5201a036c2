package models

import "time"

// Client entity
type Client struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"not null;index"` // company or person name
	ContactPerson string
	Email         string `gorm:"index"`
	Phone         string
	Address       string
	ZipCode       string
	City          string
	Country       string
	VATID         string `gorm:"index"` // intra-community VAT number
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
