package models

// PaymentAccount is static reference data shown in the payment section of
// rendered documents. Read-only; seeded at migration time.
type PaymentAccount struct {
	ID      string `gorm:"primaryKey"`
	Country string `gorm:"not null"`
	Name    string `gorm:"not null"`
	IBAN    string `gorm:"not null"`
	BIC     string `gorm:"not null"`
	Bank    string
	BLZ     string
	Account string
}

// DefaultPaymentAccounts are the two predefined accounts selectable in
// render settings. An unknown id means "no account selected".
var DefaultPaymentAccounts = []PaymentAccount{
	{
		ID:      "be",
		Country: "Belgium",
		Name:    "Compass Business BV",
		IBAN:    "BE71 0961 2345 6769",
		BIC:     "GKCCBEBB",
		Bank:    "Belfius Bank",
	},
	{
		ID:      "de",
		Country: "Germany",
		Name:    "Compass Business GmbH",
		IBAN:    "DE75 5121 0800 1245 1261 99",
		BIC:     "SOGEDEFF",
		Bank:    "Société Générale Frankfurt",
		BLZ:     "51210800",
		Account: "1245126199",
	},
}
