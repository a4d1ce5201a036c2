package i18n

// Document label dictionaries for the ten supported languages.
// Keys are stable identifiers used by the document renderer; values are
// the display strings (most carry a trailing colon by convention).
var labels = map[string]map[string]string{
	"en": {
		"date":       "Date:",
		"dueDate":    "Due Date:",
		"balanceDue": "Balance Due:",
		"billTo":     "Bill To:",
		"item":       "Item",
		"quantity":   "Quantity",
		"rate":       "Rate",
		"amount":     "Amount",
		"subtotal":   "Subtotal:",
		"tax":        "Tax:",
		"total":      "Total:",
		"notes":      "Notes:",
		"terms":      "Terms:",
		"iban":       "IBAN:",
		"bic":        "BIC:",
		"blz":        "BLZ:",
		"account":    "Account:",
		"bank":       "Bank:",
	},
	"de": {
		"date":       "Datum:",
		"dueDate":    "Fälligkeitsdatum:",
		"balanceDue": "Offener Betrag:",
		"billTo":     "Rechnung an:",
		"item":       "Artikel",
		"quantity":   "Menge",
		"rate":       "Preis",
		"amount":     "Betrag",
		"subtotal":   "Zwischensumme:",
		"tax":        "MwSt.:",
		"total":      "Gesamt:",
		"notes":      "Anmerkungen:",
		"terms":      "Bedingungen:",
		"iban":       "IBAN:",
		"bic":        "BIC:",
		"blz":        "BLZ:",
		"account":    "Konto:",
		"bank":       "Bank:",
	},
	"nl": {
		"date":       "Datum:",
		"dueDate":    "Vervaldatum:",
		"balanceDue": "Verschuldigd bedrag:",
		"billTo":     "Factuur aan:",
		"item":       "Artikel",
		"quantity":   "Aantal",
		"rate":       "Tarief",
		"amount":     "Bedrag",
		"subtotal":   "Subtotaal:",
		"tax":        "BTW:",
		"total":      "Totaal:",
		"notes":      "Opmerkingen:",
		"terms":      "Voorwaarden:",
		"iban":       "IBAN:",
		"bic":        "BIC:",
		"blz":        "BLZ:",
		"account":    "Rekening:",
		"bank":       "Bank:",
	},
	"fr": {
		"date":       "Date :",
		"dueDate":    "Date d'échéance :",
		"balanceDue": "Solde dû :",
		"billTo":     "Facturer à :",
		"item":       "Article",
		"quantity":   "Quantité",
		"rate":       "Tarif",
		"amount":     "Montant",
		"subtotal":   "Sous-total :",
		"tax":        "TVA :",
		"total":      "Total :",
		"notes":      "Notes :",
		"terms":      "Conditions :",
		"iban":       "IBAN :",
		"bic":        "BIC :",
		"blz":        "BLZ :",
		"account":    "Compte :",
		"bank":       "Banque :",
	},
	"es": {
		"date":       "Fecha:",
		"dueDate":    "Fecha de vencimiento:",
		"balanceDue": "Saldo pendiente:",
		"billTo":     "Facturar a:",
		"item":       "Artículo",
		"quantity":   "Cantidad",
		"rate":       "Precio",
		"amount":     "Importe",
		"subtotal":   "Subtotal:",
		"tax":        "IVA:",
		"total":      "Total:",
		"notes":      "Notas:",
		"terms":      "Condiciones:",
		"iban":       "IBAN:",
		"bic":        "BIC:",
		"blz":        "BLZ:",
		"account":    "Cuenta:",
		"bank":       "Banco:",
	},
	"da": {
		"date":       "Dato:",
		"dueDate":    "Forfaldsdato:",
		"balanceDue": "Skyldigt beløb:",
		"billTo":     "Faktureres til:",
		"item":       "Vare",
		"quantity":   "Antal",
		"rate":       "Pris",
		"amount":     "Beløb",
		"subtotal":   "Subtotal:",
		"tax":        "Moms:",
		"total":      "Total:",
		"notes":      "Noter:",
		"terms":      "Betingelser:",
		"iban":       "IBAN:",
		"bic":        "BIC:",
		"blz":        "BLZ:",
		"account":    "Konto:",
		"bank":       "Bank:",
	},
	"no": {
		"date":       "Dato:",
		"dueDate":    "Forfallsdato:",
		"balanceDue": "Skyldig beløp:",
		"billTo":     "Fakturer til:",
		"item":       "Vare",
		"quantity":   "Antall",
		"rate":       "Pris",
		"amount":     "Beløp",
		"subtotal":   "Delsum:",
		"tax":        "MVA:",
		"total":      "Totalt:",
		"notes":      "Notater:",
		"terms":      "Vilkår:",
		"iban":       "IBAN:",
		"bic":        "BIC:",
		"blz":        "BLZ:",
		"account":    "Konto:",
		"bank":       "Bank:",
	},
	"cs": {
		"date":       "Datum:",
		"dueDate":    "Datum splatnosti:",
		"balanceDue": "Dlužná částka:",
		"billTo":     "Fakturovat:",
		"item":       "Položka",
		"quantity":   "Množství",
		"rate":       "Sazba",
		"amount":     "Částka",
		"subtotal":   "Mezisoučet:",
		"tax":        "DPH:",
		"total":      "Celkem:",
		"notes":      "Poznámky:",
		"terms":      "Podmínky:",
		"iban":       "IBAN:",
		"bic":        "BIC:",
		"blz":        "BLZ:",
		"account":    "Účet:",
		"bank":       "Banka:",
	},
	"pl": {
		"date":       "Data:",
		"dueDate":    "Termin płatności:",
		"balanceDue": "Do zapłaty:",
		"billTo":     "Nabywca:",
		"item":       "Pozycja",
		"quantity":   "Ilość",
		"rate":       "Stawka",
		"amount":     "Kwota",
		"subtotal":   "Suma częściowa:",
		"tax":        "VAT:",
		"total":      "Razem:",
		"notes":      "Uwagi:",
		"terms":      "Warunki:",
		"iban":       "IBAN:",
		"bic":        "BIC:",
		"blz":        "BLZ:",
		"account":    "Konto:",
		"bank":       "Bank:",
	},
	"sv": {
		"date":       "Datum:",
		"dueDate":    "Förfallodatum:",
		"balanceDue": "Att betala:",
		"billTo":     "Faktureras till:",
		"item":       "Artikel",
		"quantity":   "Antal",
		"rate":       "Pris",
		"amount":     "Belopp",
		"subtotal":   "Delsumma:",
		"tax":        "Moms:",
		"total":      "Totalt:",
		"notes":      "Anteckningar:",
		"terms":      "Villkor:",
		"iban":       "IBAN:",
		"bic":        "BIC:",
		"blz":        "BLZ:",
		"account":    "Konto:",
		"bank":       "Bank:",
	},
}

const defaultLanguage = "en"

// T returns the translated label for key in the given language.
// Unknown languages fall back to English entirely; a key missing from a
// supported language falls back to the English value for that key. A key
// unknown everywhere is returned verbatim so callers never render empty.
func T(lang, key string) string {
	if dict, ok := labels[lang]; ok {
		if v, ok := dict[key]; ok {
			return v
		}
	}
	if v, ok := labels[defaultLanguage][key]; ok {
		return v
	}
	return key
}

// Supported reports whether lang is one of the supported language codes.
func Supported(lang string) bool {
	_, ok := labels[lang]
	return ok
}

// Languages returns the supported language codes.
func Languages() []string {
	out := make([]string, 0, len(labels))
	for code := range labels {
		out = append(out, code)
	}
	return out
}
