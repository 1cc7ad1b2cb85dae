package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"valutatrade-hub/internal/domain/model"
	"valutatrade-hub/internal/domain/ports"
	"valutatrade-hub/internal/metrics"
	"valutatrade-hub/pkg/logger"
)

// Resolver answers pair lookups from the store: identity first, then
// the direct quote, then the inverse, then one hop through the pivot
// currency. There is no deeper path search; anything further away is
// unavailable. Resolution never writes derived quotes back.
type Resolver struct {
	store   ports.RateStore
	pivot   model.Currency
	ttl     time.Duration
	metrics *metrics.Metrics
	log     *logger.Logger
}

func NewResolver(store ports.RateStore, pivot model.Currency, ttl time.Duration, metrics *metrics.Metrics, log *logger.Logger) *Resolver {
	return &Resolver{
		store:   store,
		pivot:   pivot,
		ttl:     ttl,
		metrics: metrics,
		log:     log,
	}
}

func (r *Resolver) Resolve(from, to model.Currency) (*model.Resolution, error) {
	now := time.Now()

	if from == to {
		r.metrics.ObserveResolution("identity", nil)
		return &model.Resolution{Rate: decimal.New(1, 0), AsOf: now}, nil
	}

	res, path, err := r.lookup(from, to, now)
	if err != nil {
		r.metrics.ObserveResolution(path, err)
		return nil, err
	}
	if res != nil {
		r.metrics.ObserveResolution(path, nil)
		return res, nil
	}

	if from != r.pivot && to != r.pivot {
		res, err := r.cross(from, to, now)
		if err != nil {
			r.metrics.ObserveResolution("cross", err)
			return nil, err
		}
		if res != nil {
			r.metrics.ObserveResolution("cross", nil)
			return res, nil
		}
	}

	err = fmt.Errorf("%w: %s", model.ErrRateUnavailable, model.PairKey(from, to))
	r.metrics.ObserveResolution("none", err)
	return nil, err
}

// lookup tries the direct quote, then the inverse. A nil resolution
// with nil error means the pair is simply not stored.
func (r *Resolver) lookup(from, to model.Currency, now time.Time) (*model.Resolution, string, error) {
	if q, ok := r.store.Get(from, to); ok {
		return &model.Resolution{
			Rate:  q.Rate,
			AsOf:  q.ObservedAt,
			Stale: q.Stale(r.ttl, now),
		}, "direct", nil
	}

	if q, ok := r.store.Get(to, from); ok {
		if !q.Rate.IsPositive() {
			return nil, "inverse", fmt.Errorf("%w: unusable rate %s stored for %s",
				model.ErrCorruptRate, q.Rate, q.PairKey())
		}
		return &model.Resolution{
			Rate:  decimal.New(1, 0).Div(q.Rate),
			AsOf:  q.ObservedAt,
			Stale: q.Stale(r.ttl, now),
		}, "inverse", nil
	}

	return nil, "", nil
}

// cross triangulates FROM→PIVOT→TO. Both legs must resolve directly or
// inversely; the result carries the older observation and is stale if
// either leg is.
func (r *Resolver) cross(from, to model.Currency, now time.Time) (*model.Resolution, error) {
	legFrom, _, err := r.lookup(from, r.pivot, now)
	if err != nil {
		return nil, err
	}
	legTo, _, err := r.lookup(r.pivot, to, now)
	if err != nil {
		return nil, err
	}
	if legFrom == nil || legTo == nil {
		return nil, nil
	}

	return &model.Resolution{
		Rate:  legFrom.Rate.Mul(legTo.Rate),
		AsOf:  olderOf(legFrom.AsOf, legTo.AsOf),
		Stale: legFrom.Stale || legTo.Stale,
	}, nil
}

func olderOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
