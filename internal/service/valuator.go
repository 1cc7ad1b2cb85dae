package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"valutatrade-hub/internal/domain/model"
	"valutatrade-hub/internal/domain/ports"
	"valutatrade-hub/pkg/logger"
)

// Valuator prices whole portfolios. Valuation is all-or-nothing: one
// non-zero holding without a resolvable rate fails the entire request,
// naming the offending currency. No partial totals leave this type.
type Valuator struct {
	resolver ports.RateResolver
	log      *logger.Logger
}

func NewValuator(resolver ports.RateResolver, log *logger.Logger) *Valuator {
	return &Valuator{resolver: resolver, log: log}
}

func (v *Valuator) Value(p *model.Portfolio, base model.Currency) (*model.Valuation, error) {
	valuation := &model.Valuation{
		PortfolioID: p.ID,
		Base:        base,
		Assets:      make([]model.AssetValue, 0, len(p.Holdings)),
		GeneratedAt: time.Now(),
	}

	total := decimal.Zero
	for _, h := range p.Holdings {
		asset := model.AssetValue{
			Currency: h.Currency,
			Amount:   h.Amount,
			Value:    decimal.Zero,
		}

		if h.Amount.IsZero() {
			// An empty holding never blocks the valuation; report its
			// rate when one happens to resolve, value it at zero
			// regardless.
			if res, err := v.resolver.Resolve(h.Currency, base); err == nil {
				asset.RateToBase = res.Rate
				asset.Stale = res.Stale
			}
			asset.Display = model.FormatAmount(asset.Value, base)
			valuation.Assets = append(valuation.Assets, asset)
			continue
		}

		res, err := v.resolver.Resolve(h.Currency, base)
		if err != nil {
			return nil, fmt.Errorf("holding %s: %w", h.Currency, err)
		}

		asset.RateToBase = res.Rate
		asset.Value = h.Amount.Mul(res.Rate)
		asset.Stale = res.Stale
		asset.Display = model.FormatAmount(asset.Value, base)

		if res.Stale {
			valuation.Stale = true
		}
		total = total.Add(asset.Value)
		valuation.Assets = append(valuation.Assets, asset)
	}

	valuation.Total = total
	valuation.TotalDisplay = model.FormatAmount(total, base)
	return valuation, nil
}
