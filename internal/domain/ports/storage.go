package ports

import (
	"context"

	"valutatrade-hub/internal/domain/model"
)

// SnapshotStore persists the rate snapshot across restarts and keeps a
// capped history of observed quotes.
type SnapshotStore interface {
	Load(ctx context.Context) (model.RateSnapshot, error)
	Save(ctx context.Context, snap model.RateSnapshot) error
	AppendHistory(ctx context.Context, quotes []model.RateQuote) error
	History(ctx context.Context, pair string, limit int) ([]model.RateQuote, error)
}

// PortfolioStore reads portfolio records maintained by the wallet side
// of the platform.
type PortfolioStore interface {
	Get(ctx context.Context, id string) (*model.Portfolio, error)
}
