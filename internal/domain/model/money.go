package model

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Crypto codes are not in go-money's ISO table, so register them with
// eight display fractions before anything formats.
func init() {
	money.AddCurrency("BTC", "₿", "1 $", ".", ",", 8)
	money.AddCurrency("ETH", "Ξ", "1 $", ".", ",", 8)
	for _, c := range []Currency{BNB, XRP, SOL, DOGE, ADA, AVAX, DOT, TRX} {
		money.AddCurrency(c.String(), c.String(), "1 $", ".", ",", 8)
	}
}

// FormatAmount renders amount in code's display convention, rounding to
// the currency's minor unit. Arithmetic stays decimal; this is for eyes
// only.
func FormatAmount(amount decimal.Decimal, code Currency) string {
	cur := money.New(0, code.String()).Currency()
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}
