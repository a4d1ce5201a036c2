package models

import "time"

// CompanyProfile holds the operating organization's identity used on
// rendered documents and outgoing mail. Single-row table.
type CompanyProfile struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Address   string
	ZipCode   string
	City      string
	Country   string
	Email     string
	Phone     string
	Website   string
	VATID     string
	LogoURL   string
	IBAN      string
	BIC       string
	CreatedAt time.Time
	UpdatedAt time.Time
}
