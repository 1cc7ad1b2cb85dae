package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Holding struct {
	Currency Currency        `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

type Portfolio struct {
	ID       string    `json:"id"`
	Holdings []Holding `json:"holdings"`
}

func (p *Portfolio) Validate() error {
	for _, h := range p.Holdings {
		if !h.Currency.IsSupported() {
			return fmt.Errorf("%w: %s", ErrCurrencyUnknown, h.Currency)
		}
		if h.Amount.IsNegative() {
			return fmt.Errorf("negative amount %s for holding %s", h.Amount, h.Currency)
		}
	}
	return nil
}
