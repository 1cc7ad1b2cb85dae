package ports

import (
	"context"

	"valutatrade-hub/internal/domain/model"
)

// RatesService is the surface the delivery layer talks to.
type RatesService interface {
	GetRate(ctx context.Context, from, to model.Currency) (*model.Resolution, error)
	TriggerRefresh(ctx context.Context, source string) (*model.RefreshResult, error)
	PortfolioValue(ctx context.Context, portfolioID string, base model.Currency) (*model.Valuation, error)
	ListRates(ctx context.Context, filter model.Currency, top int, base model.Currency) ([]model.RateListing, error)
	RateHistory(ctx context.Context, pair string, limit int) ([]model.RateQuote, error)
	Status(ctx context.Context) (*model.ServiceStatus, error)
}

// RateResolver turns a currency pair into a spendable rate, walking
// direct, inverse and cross paths over the store.
type RateResolver interface {
	Resolve(from, to model.Currency) (*model.Resolution, error)
}

// CycleRunner executes one refresh cycle; sourceFilter narrows it to a
// single named source when non-empty.
type CycleRunner interface {
	RunCycle(ctx context.Context, sourceFilter string) (*model.RefreshResult, error)
}

// RefreshTrigger is the single-flight gate in front of the CycleRunner.
type RefreshTrigger interface {
	TriggerNow(ctx context.Context, sourceFilter string) (*model.RefreshResult, error)
	State() string
}
