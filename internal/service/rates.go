package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"valutatrade-hub/internal/domain/model"
	"valutatrade-hub/internal/domain/ports"
	"valutatrade-hub/pkg/logger"
	"valutatrade-hub/pkg/utils"
)

// RatesService is the facade the delivery layer talks to. Reads are
// lazily self-healing: a stale store triggers one synchronous refresh
// through the scheduler gate, and when that refresh is busy or fails
// the cached data is served anyway with staleness flagged.
type RatesService struct {
	store      ports.RateStore
	resolver   ports.RateResolver
	valuator   *Valuator
	trigger    ports.RefreshTrigger
	portfolios ports.PortfolioStore
	snapshots  ports.SnapshotStore
	sources    []string
	ttl        time.Duration
	log        *logger.Logger
}

func NewRatesService(
	store ports.RateStore,
	resolver ports.RateResolver,
	valuator *Valuator,
	trigger ports.RefreshTrigger,
	portfolios ports.PortfolioStore,
	snapshots ports.SnapshotStore,
	sources []string,
	ttl time.Duration,
	log *logger.Logger,
) *RatesService {
	return &RatesService{
		store:      store,
		resolver:   resolver,
		valuator:   valuator,
		trigger:    trigger,
		portfolios: portfolios,
		snapshots:  snapshots,
		sources:    sources,
		ttl:        ttl,
		log:        log,
	}
}

func (s *RatesService) GetRate(ctx context.Context, from, to model.Currency) (*model.Resolution, error) {
	if !from.IsSupported() {
		return nil, fmt.Errorf("%w: %s", model.ErrCurrencyUnknown, from)
	}
	if !to.IsSupported() {
		return nil, fmt.Errorf("%w: %s", model.ErrCurrencyUnknown, to)
	}

	s.ensureFresh(ctx)

	return s.resolver.Resolve(from, to)
}

func (s *RatesService) TriggerRefresh(ctx context.Context, source string) (*model.RefreshResult, error) {
	return s.trigger.TriggerNow(ctx, source)
}

func (s *RatesService) PortfolioValue(ctx context.Context, portfolioID string, base model.Currency) (*model.Valuation, error) {
	if !base.IsSupported() {
		return nil, fmt.Errorf("%w: %s", model.ErrCurrencyUnknown, base)
	}

	portfolio, err := s.portfolios.Get(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	s.ensureFresh(ctx)

	return s.valuator.Value(portfolio, base)
}

// ListRates prices every stored pair's base currency against the
// requested base, sorted by rate descending. filter narrows to pairs
// touching one currency, top truncates the result.
func (s *RatesService) ListRates(ctx context.Context, filter model.Currency, top int, base model.Currency) ([]model.RateListing, error) {
	if filter != "" && !filter.IsSupported() {
		return nil, fmt.Errorf("%w: %s", model.ErrCurrencyUnknown, filter)
	}
	if !base.IsSupported() {
		return nil, fmt.Errorf("%w: %s", model.ErrCurrencyUnknown, base)
	}

	snap := s.store.Snapshot()

	listings := make([]model.RateListing, 0, len(snap.Pairs))
	seen := make(map[model.Currency]bool, len(snap.Pairs))
	for _, q := range snap.Pairs {
		if filter != "" && q.Base != filter && q.Quote != filter {
			continue
		}
		if seen[q.Base] {
			continue
		}

		res, err := s.resolver.Resolve(q.Base, base)
		if err != nil {
			s.log.Debug("Skipping unpriceable listing", "currency", q.Base, "base", base, "error", err)
			continue
		}

		seen[q.Base] = true
		listings = append(listings, model.RateListing{
			Currency:   q.Base,
			Base:       base,
			Rate:       res.Rate,
			ObservedAt: q.ObservedAt,
			Source:     q.Source,
			Stale:      res.Stale,
		})
	}

	sort.Slice(listings, func(i, j int) bool {
		if c := listings[i].Rate.Cmp(listings[j].Rate); c != 0 {
			return c > 0
		}
		return listings[i].Currency < listings[j].Currency
	})

	if top > 0 && len(listings) > top {
		listings = listings[:top]
	}

	return listings, nil
}

// RateHistory returns recent observations for one pair, or for all
// pairs when pair is empty, oldest first.
func (s *RatesService) RateHistory(ctx context.Context, pair string, limit int) ([]model.RateQuote, error) {
	if pair != "" {
		base, quote, err := model.ParsePairKey(pair)
		if err != nil {
			return nil, err
		}
		pair = model.PairKey(base, quote)
	}

	return s.snapshots.History(ctx, pair, limit)
}

func (s *RatesService) Status(ctx context.Context) (*model.ServiceStatus, error) {
	last := s.store.LastRefresh()
	return &model.ServiceStatus{
		LastRefresh:    last,
		Age:            utils.FormatAge(last),
		Pairs:          s.store.Len(),
		SchedulerState: s.trigger.State(),
		Sources:        s.sources,
	}, nil
}

// ensureFresh runs one synchronous refresh when the store has outlived
// its TTL. A busy gate or a failed cycle is tolerated: cached data is
// better than no answer, and readers see the staleness flag.
func (s *RatesService) ensureFresh(ctx context.Context) {
	if s.ttl <= 0 {
		return
	}

	last := s.store.LastRefresh()
	if !last.IsZero() && time.Since(last) <= s.ttl {
		return
	}

	s.log.Info("Cached rates stale, refreshing", "age", utils.FormatAge(last))
	if _, err := s.trigger.TriggerNow(ctx, ""); err != nil {
		s.log.Warn("Lazy refresh failed, serving cached rates", "age", utils.FormatAge(last), "error", err)
	}
}
