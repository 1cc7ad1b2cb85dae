package ports

import (
	"context"

	"valutatrade-hub/internal/domain/model"
)

// RateSource is one upstream rate provider. Fetch returns every quote
// the provider could supply in one shot; it never caches and never
// retries.
type RateSource interface {
	Name() string
	Fetch(ctx context.Context) ([]model.RateQuote, error)
}
