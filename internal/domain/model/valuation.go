package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resolution is the answer to "what is one FROM worth in TO right now".
// Staleness is surfaced, never hidden: a resolution built from expired
// quotes still succeeds with Stale set.
type Resolution struct {
	Rate  decimal.Decimal `json:"rate"`
	AsOf  time.Time       `json:"as_of"`
	Stale bool            `json:"stale"`
}

type AssetValue struct {
	Currency   Currency        `json:"currency"`
	Amount     decimal.Decimal `json:"amount"`
	RateToBase decimal.Decimal `json:"rate_to_base"`
	Value      decimal.Decimal `json:"value"`
	Stale      bool            `json:"stale"`
	Display    string          `json:"display,omitempty"`
}

type Valuation struct {
	PortfolioID  string          `json:"portfolio_id"`
	Base         Currency        `json:"base"`
	Assets       []AssetValue    `json:"assets"`
	Total        decimal.Decimal `json:"total"`
	TotalDisplay string          `json:"total_display,omitempty"`
	Stale        bool            `json:"stale"`
	GeneratedAt  time.Time       `json:"generated_at"`
}
