package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RateQuote is one observed exchange rate for an ordered currency pair.
// Quotes are immutable once fetched; the store replaces, never mutates.
type RateQuote struct {
	Base       Currency        `json:"base"`
	Quote      Currency        `json:"quote"`
	Rate       decimal.Decimal `json:"rate"`
	ObservedAt time.Time       `json:"observed_at"`
	Source     string          `json:"source"`
}

// PairKey builds the canonical ordered key for a pair, e.g. "BTC_USD".
func PairKey(base, quote Currency) string {
	return fmt.Sprintf("%s_%s", base, quote)
}

func (q RateQuote) PairKey() string {
	return PairKey(q.Base, q.Quote)
}

// ParsePairKey splits a "BASE_QUOTE" key into its currencies.
func ParsePairKey(key string) (Currency, Currency, error) {
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed pair key %q, expected BASE_QUOTE", key)
	}

	base := Currency(strings.ToUpper(parts[0]))
	quote := Currency(strings.ToUpper(parts[1]))

	if !base.IsSupported() {
		return "", "", fmt.Errorf("%w: %s", ErrCurrencyUnknown, base)
	}
	if !quote.IsSupported() {
		return "", "", fmt.Errorf("%w: %s", ErrCurrencyUnknown, quote)
	}

	return base, quote, nil
}

func (q RateQuote) Validate() error {
	if !q.Base.IsSupported() {
		return fmt.Errorf("%w: %s", ErrCurrencyUnknown, q.Base)
	}
	if !q.Quote.IsSupported() {
		return fmt.Errorf("%w: %s", ErrCurrencyUnknown, q.Quote)
	}
	if q.Base == q.Quote {
		return fmt.Errorf("degenerate pair %s", q.PairKey())
	}
	if !q.Rate.IsPositive() {
		return fmt.Errorf("non-positive rate %s for %s", q.Rate, q.PairKey())
	}
	return nil
}

// Stale reports whether the quote has outlived ttl at time now.
// The boundary itself still counts as fresh.
func (q RateQuote) Stale(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(q.ObservedAt) > ttl
}

// RateSnapshot is the persisted unit: every stored pair plus the moment
// of the last completed refresh.
type RateSnapshot struct {
	Pairs       map[string]RateQuote `json:"pairs"`
	LastRefresh time.Time            `json:"last_refresh"`
}

// RateListing is one row of the cached-rates listing, re-expressed
// against a caller-chosen base currency.
type RateListing struct {
	Currency   Currency        `json:"currency"`
	Base       Currency        `json:"base"`
	Rate       decimal.Decimal `json:"rate"`
	ObservedAt time.Time       `json:"observed_at"`
	Source     string          `json:"source"`
	Stale      bool            `json:"stale"`
}
