// Package formato renders numbers, money and dates the way Brazilian users
// read them ("12.345", "R$ 1.234,56", "31/03/2024").
package formato

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var p = message.NewPrinter(language.BrazilianPortuguese)

func Inteiro(n int64) string { return p.Sprintf("%d", n) }

// Decimal formats d with exactly casas fraction digits.
func Decimal(d decimal.Decimal, casas int32) string {
	return p.Sprint(number.Decimal(d.Round(casas).InexactFloat64(), number.Scale(int(casas))))
}

func Moeda(d decimal.Decimal) string { return "R$ " + Decimal(d, 2) }

// CustoPagina shows cost per page with 4 places.
func CustoPagina(d decimal.Decimal) string { return "R$ " + Decimal(d, 4) }

func Percentual(d decimal.Decimal) string { return Decimal(d, 1) + "%" }

func Data(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func DataHora(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}

// DiaISO converts a "2006-01-02" key to "02/01/2006", leaving bad input as is.
func DiaISO(s string) string {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return s
	}
	return Data(t)
}
