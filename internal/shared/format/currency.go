package format

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency is a supported settlement currency.
type Currency struct {
	Code   string `json:"value"`
	Symbol string `json:"label"`
	Name   string `json:"name"`
}

var Currencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	{Code: "CNY", Symbol: "¥", Name: "Chinese Yuan"},
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	{Code: "BRL", Symbol: "R$", Name: "Brazilian Real"},
	{Code: "MXN", Symbol: "$", Name: "Mexican Peso"},
}

var groupingPrinter = message.NewPrinter(language.English)

// LookupCurrency finds a currency by its ISO code.
func LookupCurrency(code string) (Currency, bool) {
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// CurrencySymbol returns the symbol for code, "$" when unknown.
func CurrencySymbol(code string) string {
	if c, ok := LookupCurrency(code); ok {
		return c.Symbol
	}
	return "$"
}

// FormatCurrency renders amount with the currency symbol. Yen and yuan are rounded to whole
// units with thousands grouping; every other currency uses two decimals.
func FormatCurrency(amount float64, code string) string {
	if code == "" {
		code = "USD"
	}
	symbol := CurrencySymbol(code)
	if code == "JPY" || code == "CNY" {
		return symbol + groupingPrinter.Sprintf("%d", int64(math.Floor(amount+0.5)))
	}
	return symbol + strconv.FormatFloat(amount, 'f', 2, 64)
}

// ParsePrice keeps digits and dots and reads the leading decimal number, 0 when none.
func ParsePrice(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	end, dot := 0, false
	for end < len(clean) {
		if clean[end] == '.' {
			if dot {
				break
			}
			dot = true
		}
		end++
	}
	value, err := strconv.ParseFloat(strings.TrimSuffix(clean[:end], "."), 64)
	if err != nil {
		return 0
	}
	return value
}
