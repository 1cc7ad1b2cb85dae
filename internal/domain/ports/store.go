package ports

import (
	"time"

	"valutatrade-hub/internal/domain/model"
)

// RateStore is the in-memory view of all known rates. Lookups are exact
// ordered-pair matches; staleness is judged by readers, and entries are
// never deleted once merged.
type RateStore interface {
	Get(base, quote model.Currency) (model.RateQuote, bool)
	Merge(quotes []model.RateQuote) int
	Snapshot() model.RateSnapshot
	Hydrate(snap model.RateSnapshot)
	LastRefresh() time.Time
	Len() int
}
