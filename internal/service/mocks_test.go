package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"valutatrade-hub/internal/domain/model"
)

func newTestQuote(base, quote model.Currency, rate string, observedAt time.Time) model.RateQuote {
	return model.RateQuote{
		Base:       base,
		Quote:      quote,
		Rate:       decimal.RequireFromString(rate),
		ObservedAt: observedAt,
		Source:     "test",
	}
}

type MockRateSource struct {
	name      string
	FetchFunc func(ctx context.Context) ([]model.RateQuote, error)
}

func (m *MockRateSource) Name() string {
	return m.name
}

func (m *MockRateSource) Fetch(ctx context.Context) ([]model.RateQuote, error) {
	return m.FetchFunc(ctx)
}

type MockSnapshotStore struct {
	LoadFunc          func(ctx context.Context) (model.RateSnapshot, error)
	SaveFunc          func(ctx context.Context, snap model.RateSnapshot) error
	AppendHistoryFunc func(ctx context.Context, quotes []model.RateQuote) error
	HistoryFunc       func(ctx context.Context, pair string, limit int) ([]model.RateQuote, error)
}

func (m *MockSnapshotStore) Load(ctx context.Context) (model.RateSnapshot, error) {
	if m.LoadFunc == nil {
		return model.RateSnapshot{Pairs: make(map[string]model.RateQuote)}, nil
	}
	return m.LoadFunc(ctx)
}

func (m *MockSnapshotStore) Save(ctx context.Context, snap model.RateSnapshot) error {
	if m.SaveFunc == nil {
		return nil
	}
	return m.SaveFunc(ctx, snap)
}

func (m *MockSnapshotStore) AppendHistory(ctx context.Context, quotes []model.RateQuote) error {
	if m.AppendHistoryFunc == nil {
		return nil
	}
	return m.AppendHistoryFunc(ctx, quotes)
}

func (m *MockSnapshotStore) History(ctx context.Context, pair string, limit int) ([]model.RateQuote, error) {
	if m.HistoryFunc == nil {
		return nil, nil
	}
	return m.HistoryFunc(ctx, pair, limit)
}

type MockPublisher struct {
	PublishFunc func(ctx context.Context, result *model.RefreshResult) error
}

func (m *MockPublisher) Publish(ctx context.Context, result *model.RefreshResult) error {
	if m.PublishFunc == nil {
		return nil
	}
	return m.PublishFunc(ctx, result)
}

func (m *MockPublisher) Close() error {
	return nil
}

type MockCycleRunner struct {
	RunCycleFunc func(ctx context.Context, sourceFilter string) (*model.RefreshResult, error)
}

func (m *MockCycleRunner) RunCycle(ctx context.Context, sourceFilter string) (*model.RefreshResult, error) {
	return m.RunCycleFunc(ctx, sourceFilter)
}

type MockRefreshTrigger struct {
	TriggerNowFunc func(ctx context.Context, sourceFilter string) (*model.RefreshResult, error)
	StateFunc      func() string
}

func (m *MockRefreshTrigger) TriggerNow(ctx context.Context, sourceFilter string) (*model.RefreshResult, error) {
	if m.TriggerNowFunc == nil {
		return &model.RefreshResult{Overall: model.OutcomeSuccess}, nil
	}
	return m.TriggerNowFunc(ctx, sourceFilter)
}

func (m *MockRefreshTrigger) State() string {
	if m.StateFunc == nil {
		return StateIdle
	}
	return m.StateFunc()
}

type MockRateResolver struct {
	ResolveFunc func(from, to model.Currency) (*model.Resolution, error)
}

func (m *MockRateResolver) Resolve(from, to model.Currency) (*model.Resolution, error) {
	return m.ResolveFunc(from, to)
}

type MockPortfolioStore struct {
	GetFunc func(ctx context.Context, id string) (*model.Portfolio, error)
}

func (m *MockPortfolioStore) Get(ctx context.Context, id string) (*model.Portfolio, error) {
	return m.GetFunc(ctx, id)
}

// MockRateStore lets a test hand the resolver quotes the real store
// would have refused.
type MockRateStore struct {
	GetFunc func(base, quote model.Currency) (model.RateQuote, bool)
}

func (m *MockRateStore) Get(base, quote model.Currency) (model.RateQuote, bool) {
	return m.GetFunc(base, quote)
}

func (m *MockRateStore) Merge(quotes []model.RateQuote) int { return 0 }

func (m *MockRateStore) Snapshot() model.RateSnapshot {
	return model.RateSnapshot{Pairs: make(map[string]model.RateQuote)}
}

func (m *MockRateStore) Hydrate(snap model.RateSnapshot) {}

func (m *MockRateStore) LastRefresh() time.Time { return time.Time{} }

func (m *MockRateStore) Len() int { return 0 }
