package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"valutatrade-hub/internal/domain/model"
	"valutatrade-hub/internal/domain/ports"
	"valutatrade-hub/internal/metrics"
	"valutatrade-hub/pkg/logger"
	"valutatrade-hub/pkg/utils"
)

var (
	ErrRefreshFailed = errors.New("refresh failed")
	ErrUnknownSource = errors.New("unknown rate source")
)

// Updater runs refresh cycles: fan out to every source, contain each
// failure as a per-source status, merge whatever arrived and persist
// the result. A cycle where no source delivered leaves the store
// byte-for-byte untouched.
type Updater struct {
	sources   []ports.RateSource
	store     ports.RateStore
	snapshots ports.SnapshotStore
	publisher ports.EventPublisher
	metrics   *metrics.Metrics
	log       *logger.Logger
}

func NewUpdater(
	sources []ports.RateSource,
	store ports.RateStore,
	snapshots ports.SnapshotStore,
	publisher ports.EventPublisher,
	metrics *metrics.Metrics,
	log *logger.Logger,
) *Updater {
	return &Updater{
		sources:   sources,
		store:     store,
		snapshots: snapshots,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
	}
}

type fetchOutcome struct {
	name   string
	quotes []model.RateQuote
	err    error
}

func (u *Updater) RunCycle(ctx context.Context, sourceFilter string) (*model.RefreshResult, error) {
	sources, err := u.selectSources(sourceFilter)
	if err != nil {
		return nil, err
	}

	result := &model.RefreshResult{
		CycleID:   uuid.New(),
		StartedAt: time.Now(),
		PerSource: make(map[string]model.SourceStatus, len(sources)),
	}

	u.log.Info("Starting refresh cycle", "cycle_id", result.CycleID, "sources", len(sources))

	outcomes := make([]fetchOutcome, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src ports.RateSource) {
			defer wg.Done()

			fetchStart := time.Now()
			quotes, err := src.Fetch(ctx)
			u.metrics.ObserveSourceFetch(src.Name(), time.Since(fetchStart), err)

			outcomes[i] = fetchOutcome{name: src.Name(), quotes: quotes, err: err}
		}(i, src)
	}
	wg.Wait()

	var fetched []model.RateQuote
	healthy := 0
	for _, out := range outcomes {
		if out.err != nil {
			u.log.Error("Source fetch failed", "source", out.name, "error", out.err)
			result.PerSource[out.name] = model.SourceStatus{
				OK:        false,
				ErrorKind: model.SourceErrorKind(out.err),
				Error:     out.err.Error(),
			}
			continue
		}
		healthy++
		result.PerSource[out.name] = model.SourceStatus{OK: true, Quotes: len(out.quotes)}
		fetched = append(fetched, out.quotes...)
	}

	switch {
	case healthy == len(sources):
		result.Overall = model.OutcomeSuccess
	case healthy > 0:
		result.Overall = model.OutcomePartial
	default:
		result.Overall = model.OutcomeFailed
	}

	if result.Overall != model.OutcomeFailed {
		result.QuotesMerged = u.store.Merge(fetched)
		u.persist(ctx, fetched)
	}

	result.Duration = time.Since(result.StartedAt)
	u.metrics.ObserveRefreshCycle(string(result.Overall), result.Duration, result.QuotesMerged, u.store.Len())
	u.publish(ctx, result)

	u.log.Info("Refresh cycle finished",
		"cycle_id", result.CycleID,
		"overall", result.Overall,
		"quotes_merged", result.QuotesMerged,
		"duration", utils.FormatDuration(result.Duration),
	)

	if result.Overall == model.OutcomeFailed {
		return result, fmt.Errorf("%w: no source delivered quotes; cached data %s",
			ErrRefreshFailed, utils.FormatAge(u.store.LastRefresh()))
	}
	return result, nil
}

func (u *Updater) selectSources(filter string) ([]ports.RateSource, error) {
	if filter == "" {
		return u.sources, nil
	}
	for _, src := range u.sources {
		if src.Name() == filter {
			return []ports.RateSource{src}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSource, filter)
}

// persist failures are logged, not fatal: the in-memory store already
// holds the merged quotes and stays the source of truth.
func (u *Updater) persist(ctx context.Context, fetched []model.RateQuote) {
	if err := u.snapshots.Save(ctx, u.store.Snapshot()); err != nil {
		u.log.Error("Failed to persist rate snapshot", "error", err)
	}
	if err := u.snapshots.AppendHistory(ctx, fetched); err != nil {
		u.log.Error("Failed to append rate history", "error", err)
	}
}

func (u *Updater) publish(ctx context.Context, result *model.RefreshResult) {
	if u.publisher == nil {
		return
	}
	if err := u.publisher.Publish(ctx, result); err != nil {
		u.log.Error("Failed to publish refresh event", "cycle_id", result.CycleID, "error", err)
	}
}

// SourceNames lists the configured sources in wiring order.
func (u *Updater) SourceNames() []string {
	names := make([]string, len(u.sources))
	for i, src := range u.sources {
		names[i] = src.Name()
	}
	return names
}
