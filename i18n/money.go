package i18n

import (
	"math"
	"strconv"
	"strings"
)

// currencyFormat captures the display rules for one ISO currency.
type currencyFormat struct {
	Symbol      string
	Decimals    int
	DecimalSep  string
	ThousandSep string
	SymbolAfter bool
	SpaceSymbol bool
}

var currencyFormats = map[string]currencyFormat{
	"EUR": {Symbol: "€", Decimals: 2, DecimalSep: ".", ThousandSep: ","},
	"USD": {Symbol: "$", Decimals: 2, DecimalSep: ".", ThousandSep: ","},
	"GBP": {Symbol: "£", Decimals: 2, DecimalSep: ".", ThousandSep: ","},
	"JPY": {Symbol: "¥", Decimals: 0, DecimalSep: ".", ThousandSep: ","},
	"CAD": {Symbol: "CA$", Decimals: 2, DecimalSep: ".", ThousandSep: ","},
	"AUD": {Symbol: "A$", Decimals: 2, DecimalSep: ".", ThousandSep: ","},
	"CHF": {Symbol: "CHF", Decimals: 2, DecimalSep: ".", ThousandSep: ",", SpaceSymbol: true},
	"SEK": {Symbol: "kr", Decimals: 2, DecimalSep: ".", ThousandSep: ",", SymbolAfter: true, SpaceSymbol: true},
	"NOK": {Symbol: "kr", Decimals: 2, DecimalSep: ".", ThousandSep: ",", SymbolAfter: true, SpaceSymbol: true},
	"DKK": {Symbol: "kr", Decimals: 2, DecimalSep: ".", ThousandSep: ",", SymbolAfter: true, SpaceSymbol: true},
}

// Currencies returns the supported ISO currency codes.
func Currencies() []string {
	out := make([]string, 0, len(currencyFormats))
	for code := range currencyFormats {
		out = append(out, code)
	}
	return out
}

// SupportedCurrency reports whether code is a supported ISO currency code.
func SupportedCurrency(code string) bool {
	_, ok := currencyFormats[code]
	return ok
}

// FormatCurrency renders a monetary amount for the given ISO currency code,
// rounded half-up to the currency's minor-unit precision, e.g.
// FormatCurrency(1299, "EUR") == "€1,299.00". Unknown codes render as
// "CODE 1,234.56" rather than failing.
func FormatCurrency(amount float64, code string) string {
	f, ok := currencyFormats[code]
	if !ok {
		return code + " " + formatNumber(amount, 2, ".", ",")
	}
	n := formatNumber(amount, f.Decimals, f.DecimalSep, f.ThousandSep)
	sep := ""
	if f.SpaceSymbol {
		sep = " "
	}
	if f.SymbolAfter {
		return n + sep + f.Symbol
	}
	return f.Symbol + sep + n
}

// RoundTo rounds half-up (away from zero) to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	if v < 0 {
		return -math.Floor(-v*factor+0.5) / factor
	}
	return math.Floor(v*factor+0.5) / factor
}

func formatNumber(v float64, decimals int, decSep, thouSep string) string {
	neg := v < 0
	v = RoundTo(math.Abs(v), decimals)
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	intPart := s
	fracPart := ""
	if decimals > 0 {
		intPart = s[:len(s)-decimals-1]
		fracPart = s[len(s)-decimals:]
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(thouSep)
		}
		b.WriteRune(d)
	}
	if decimals > 0 {
		b.WriteString(decSep)
		b.WriteString(fracPart)
	}
	return b.String()
}
