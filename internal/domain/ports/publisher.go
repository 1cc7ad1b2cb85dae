package ports

import (
	"context"

	"valutatrade-hub/internal/domain/model"
)

// EventPublisher announces finished refresh cycles to the outside
// world. Publishing is best effort; a cycle never fails on it.
type EventPublisher interface {
	Publish(ctx context.Context, result *model.RefreshResult) error
	Close() error
}
