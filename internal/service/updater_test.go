package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"valutatrade-hub/internal/adapter/cache"
	"valutatrade-hub/internal/domain/model"
	"valutatrade-hub/internal/domain/ports"
	"valutatrade-hub/pkg/logger"
)

func TestUpdater_RunCycleOutcomes(t *testing.T) {
	log := logger.NewLogger("error")
	now := time.Now()

	cryptoQuotes := []model.RateQuote{
		newTestQuote(model.BTC, model.USD, "65000", now),
		newTestQuote(model.ETH, model.USD, "3000", now),
	}
	fiatQuotes := []model.RateQuote{
		newTestQuote(model.EUR, model.USD, "1.09", now),
	}

	testCases := []struct {
		name        string
		cryptoErr   error
		fiatErr     error
		wantOutcome model.Outcome
		wantMerged  int
		wantErr     error
	}{
		{
			name:        "all sources deliver",
			wantOutcome: model.OutcomeSuccess,
			wantMerged:  3,
		},
		{
			name:        "one source fails",
			fiatErr:     model.ErrSourceUnavailable,
			wantOutcome: model.OutcomePartial,
			wantMerged:  2,
		},
		{
			name:        "every source fails",
			cryptoErr:   model.ErrSourceRateLimited,
			fiatErr:     model.ErrSourceUnavailable,
			wantOutcome: model.OutcomeFailed,
			wantMerged:  0,
			wantErr:     ErrRefreshFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			crypto := &MockRateSource{name: "coingecko", FetchFunc: func(ctx context.Context) ([]model.RateQuote, error) {
				return cryptoQuotes, tc.cryptoErr
			}}
			fiat := &MockRateSource{name: "exchangerate", FetchFunc: func(ctx context.Context) ([]model.RateQuote, error) {
				return fiatQuotes, tc.fiatErr
			}}
			store := cache.NewMemoryStore(log)
			updater := NewUpdater([]ports.RateSource{crypto, fiat}, store, &MockSnapshotStore{}, nil, nil, log)

			result, err := updater.RunCycle(context.Background(), "")

			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Expected error %v, got: %v", tc.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if result == nil {
				t.Fatal("Expected a result even for failed cycles")
			}
			if result.Overall != tc.wantOutcome {
				t.Errorf("Expected outcome %s, got: %s", tc.wantOutcome, result.Overall)
			}
			if result.QuotesMerged != tc.wantMerged {
				t.Errorf("Expected %d merged quotes, got: %d", tc.wantMerged, result.QuotesMerged)
			}
			if store.Len() != tc.wantMerged {
				t.Errorf("Expected %d stored pairs, got: %d", tc.wantMerged, store.Len())
			}
			if result.CycleID == uuid.Nil {
				t.Error("Expected a cycle id to be assigned")
			}
		})
	}
}

func TestUpdater_RunCyclePerSourceStatus(t *testing.T) {
	log := logger.NewLogger("error")
	now := time.Now()

	crypto := &MockRateSource{name: "coingecko", FetchFunc: func(ctx context.Context) ([]model.RateQuote, error) {
		return []model.RateQuote{newTestQuote(model.BTC, model.USD, "65000", now)}, nil
	}}
	fiat := &MockRateSource{name: "exchangerate", FetchFunc: func(ctx context.Context) ([]model.RateQuote, error) {
		return nil, model.ErrSourceRateLimited
	}}
	store := cache.NewMemoryStore(log)
	updater := NewUpdater([]ports.RateSource{crypto, fiat}, store, &MockSnapshotStore{}, nil, nil, log)

	result, err := updater.RunCycle(context.Background(), "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	good := result.PerSource["coingecko"]
	if !good.OK || good.Quotes != 1 {
		t.Errorf("Unexpected status for healthy source: %+v", good)
	}

	bad := result.PerSource["exchangerate"]
	if bad.OK {
		t.Error("Expected failed source to report not OK")
	}
	if bad.ErrorKind != "rate_limited" {
		t.Errorf("Expected error kind rate_limited, got: %s", bad.ErrorKind)
	}
	if bad.Error == "" {
		t.Error("Expected failed source to carry its error message")
	}
}

func TestUpdater_RunCycleFailureLeavesStoreUntouched(t *testing.T) {
	log := logger.NewLogger("error")
	now := time.Now()

	store := cache.NewMemoryStore(log)
	store.Merge([]model.RateQuote{newTestQuote(model.BTC, model.USD, "64000", now.Add(-time.Hour))})
	refreshBefore := store.LastRefresh()

	saveCalled := false
	snapshots := &MockSnapshotStore{SaveFunc: func(ctx context.Context, snap model.RateSnapshot) error {
		saveCalled = true
		return nil
	}}
	broken := &MockRateSource{name: "coingecko", FetchFunc: func(ctx context.Context) ([]model.RateQuote, error) {
		return nil, model.ErrSourceUnavailable
	}}
	updater := NewUpdater([]ports.RateSource{broken}, store, snapshots, nil, nil, log)

	_, err := updater.RunCycle(context.Background(), "")
	if !errors.Is(err, ErrRefreshFailed) {
		t.Fatalf("Expected ErrRefreshFailed, got: %v", err)
	}

	if store.Len() != 1 {
		t.Errorf("Expected store to keep its single pair, got: %d", store.Len())
	}
	got, _ := store.Get(model.BTC, model.USD)
	if got.Rate.String() != "64000" {
		t.Errorf("Expected cached rate to survive, got: %s", got.Rate)
	}
	if !store.LastRefresh().Equal(refreshBefore) {
		t.Error("Expected last refresh to stay untouched after a failed cycle")
	}
	if saveCalled {
		t.Error("Expected no snapshot write for a failed cycle")
	}
}

func TestUpdater_RunCycleSourceFilter(t *testing.T) {
	log := logger.NewLogger("error")
	now := time.Now()

	var cryptoCalled, fiatCalled bool
	crypto := &MockRateSource{name: "coingecko", FetchFunc: func(ctx context.Context) ([]model.RateQuote, error) {
		cryptoCalled = true
		return []model.RateQuote{newTestQuote(model.BTC, model.USD, "65000", now)}, nil
	}}
	fiat := &MockRateSource{name: "exchangerate", FetchFunc: func(ctx context.Context) ([]model.RateQuote, error) {
		fiatCalled = true
		return []model.RateQuote{newTestQuote(model.EUR, model.USD, "1.09", now)}, nil
	}}
	store := cache.NewMemoryStore(log)
	updater := NewUpdater([]ports.RateSource{crypto, fiat}, store, &MockSnapshotStore{}, nil, nil, log)

	result, err := updater.RunCycle(context.Background(), "coingecko")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !cryptoCalled {
		t.Error("Expected the filtered source to be fetched")
	}
	if fiatCalled {
		t.Error("Expected the other source to be skipped")
	}
	if len(result.PerSource) != 1 {
		t.Errorf("Expected 1 source status, got: %d", len(result.PerSource))
	}

	cryptoCalled, fiatCalled = false, false
	_, err = updater.RunCycle(context.Background(), "binance")
	if !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("Expected ErrUnknownSource, got: %v", err)
	}
	if cryptoCalled || fiatCalled {
		t.Error("Expected no fetches for an unknown source filter")
	}
}

func TestUpdater_RunCyclePersistsAndPublishes(t *testing.T) {
	log := logger.NewLogger("error")
	now := time.Now()

	var savedSnap model.RateSnapshot
	var appended []model.RateQuote
	snapshots := &MockSnapshotStore{
		SaveFunc: func(ctx context.Context, snap model.RateSnapshot) error {
			savedSnap = snap
			return nil
		},
		AppendHistoryFunc: func(ctx context.Context, quotes []model.RateQuote) error {
			appended = quotes
			return nil
		},
	}

	var published *model.RefreshResult
	publisher := &MockPublisher{PublishFunc: func(ctx context.Context, result *model.RefreshResult) error {
		published = result
		return nil
	}}

	src := &MockRateSource{name: "coingecko", FetchFunc: func(ctx context.Context) ([]model.RateQuote, error) {
		return []model.RateQuote{newTestQuote(model.BTC, model.USD, "65000", now)}, nil
	}}
	store := cache.NewMemoryStore(log)
	updater := NewUpdater([]ports.RateSource{src}, store, snapshots, publisher, nil, log)

	result, err := updater.RunCycle(context.Background(), "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, ok := savedSnap.Pairs["BTC_USD"]; !ok {
		t.Error("Expected the saved snapshot to contain BTC_USD")
	}
	if len(appended) != 1 {
		t.Errorf("Expected 1 history entry, got: %d", len(appended))
	}
	if published == nil {
		t.Fatal("Expected the refresh event to be published")
	}
	if published.CycleID != result.CycleID {
		t.Error("Expected the published event to describe this cycle")
	}
}

func TestUpdater_RunCycleToleratesPersistFailure(t *testing.T) {
	log := logger.NewLogger("error")
	now := time.Now()

	snapshots := &MockSnapshotStore{
		SaveFunc: func(ctx context.Context, snap model.RateSnapshot) error {
			return errors.New("disk full")
		},
		AppendHistoryFunc: func(ctx context.Context, quotes []model.RateQuote) error {
			return errors.New("disk full")
		},
	}
	src := &MockRateSource{name: "coingecko", FetchFunc: func(ctx context.Context) ([]model.RateQuote, error) {
		return []model.RateQuote{newTestQuote(model.BTC, model.USD, "65000", now)}, nil
	}}
	store := cache.NewMemoryStore(log)
	updater := NewUpdater([]ports.RateSource{src}, store, snapshots, nil, nil, log)

	result, err := updater.RunCycle(context.Background(), "")
	if err != nil {
		t.Fatalf("Expected persist failures to be tolerated, got: %v", err)
	}
	if result.Overall != model.OutcomeSuccess {
		t.Errorf("Expected success, got: %s", result.Overall)
	}
	if result.QuotesMerged != 1 {
		t.Errorf("Expected 1 merged quote, got: %d", result.QuotesMerged)
	}
}

func TestUpdater_SourceNames(t *testing.T) {
	updater := NewUpdater([]ports.RateSource{
		&MockRateSource{name: "coingecko"},
		&MockRateSource{name: "exchangerate"},
	}, cache.NewMemoryStore(logger.NewLogger("error")), &MockSnapshotStore{}, nil, nil, logger.NewLogger("error"))

	names := updater.SourceNames()
	if len(names) != 2 || names[0] != "coingecko" || names[1] != "exchangerate" {
		t.Errorf("Unexpected source names: %v", names)
	}
}
