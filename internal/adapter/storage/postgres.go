package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"valutatrade-hub/internal/domain/model"
	"valutatrade-hub/pkg/logger"
)

type rateModel struct {
	Pair       string          `gorm:"primaryKey;size:16"`
	Base       string          `gorm:"size:8"`
	Quote      string          `gorm:"size:8"`
	Rate       decimal.Decimal `gorm:"type:numeric"`
	ObservedAt time.Time
	Source     string `gorm:"size:32"`
}

func (rateModel) TableName() string { return "rates" }

type historyModel struct {
	ID         uint            `gorm:"primaryKey"`
	Pair       string          `gorm:"size:16;index"`
	Base       string          `gorm:"size:8"`
	Quote      string          `gorm:"size:8"`
	Rate       decimal.Decimal `gorm:"type:numeric"`
	ObservedAt time.Time
	Source     string `gorm:"size:32"`
}

func (historyModel) TableName() string { return "rate_history" }

type metaModel struct {
	Key   string `gorm:"primaryKey;size:32"`
	Value string
}

func (metaModel) TableName() string { return "rates_meta" }

const lastRefreshKey = "last_refresh"

// PostgresStore persists the snapshot and quote history in Postgres.
// It is a drop-in for FileStore when several replicas need a shared
// view of the last refresh.
type PostgresStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresStore(dsn string, log *logger.Logger) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := db.AutoMigrate(&rateModel{}, &historyModel{}, &metaModel{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &PostgresStore{db: db, log: log}, nil
}

func (p *PostgresStore) Load(ctx context.Context) (model.RateSnapshot, error) {
	snap := model.RateSnapshot{Pairs: make(map[string]model.RateQuote)}

	var rows []rateModel
	if err := p.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return snap, fmt.Errorf("load rates: %w", err)
	}
	for _, row := range rows {
		q := toQuote(row.Base, row.Quote, row.Rate, row.ObservedAt, row.Source)
		snap.Pairs[q.PairKey()] = q
	}

	var meta metaModel
	err := p.db.WithContext(ctx).First(&meta, "key = ?", lastRefreshKey).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return snap, fmt.Errorf("load meta: %w", err)
	default:
		ts, perr := time.Parse(time.RFC3339Nano, meta.Value)
		if perr != nil {
			p.log.Error("Unreadable last_refresh value", "value", meta.Value, "error", perr)
		} else {
			snap.LastRefresh = ts
		}
	}

	return snap, nil
}

func (p *PostgresStore) Save(ctx context.Context, snap model.RateSnapshot) error {
	rows := make([]rateModel, 0, len(snap.Pairs))
	for _, q := range snap.Pairs {
		rows = append(rows, rateModel{
			Pair:       q.PairKey(),
			Base:       q.Base.String(),
			Quote:      q.Quote.String(),
			Rate:       q.Rate,
			ObservedAt: q.ObservedAt,
			Source:     q.Source,
		})
	}

	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error; err != nil {
				return fmt.Errorf("upsert rates: %w", err)
			}
		}

		meta := metaModel{Key: lastRefreshKey, Value: snap.LastRefresh.Format(time.RFC3339Nano)}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&meta).Error; err != nil {
			return fmt.Errorf("upsert meta: %w", err)
		}
		return nil
	})
}

func (p *PostgresStore) AppendHistory(ctx context.Context, quotes []model.RateQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	rows := make([]historyModel, 0, len(quotes))
	for _, q := range quotes {
		rows = append(rows, historyModel{
			Pair:       q.PairKey(),
			Base:       q.Base.String(),
			Quote:      q.Quote.String(),
			Rate:       q.Rate,
			ObservedAt: q.ObservedAt,
			Source:     q.Source,
		})
	}

	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		// Trim everything older than the newest historyCap rows.
		err := tx.Exec(
			"DELETE FROM rate_history WHERE id <= (SELECT id FROM rate_history ORDER BY id DESC OFFSET ? LIMIT 1)",
			historyCap,
		).Error
		if err != nil {
			return fmt.Errorf("trim history: %w", err)
		}
		return nil
	})
}

func (p *PostgresStore) History(ctx context.Context, pair string, limit int) ([]model.RateQuote, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	query := p.db.WithContext(ctx).Order("id DESC").Limit(limit)
	if pair != "" {
		query = query.Where("pair = ?", pair)
	}

	var rows []historyModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	// Rows arrive newest first; callers expect oldest first.
	quotes := make([]model.RateQuote, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		quotes = append(quotes, toQuote(row.Base, row.Quote, row.Rate, row.ObservedAt, row.Source))
	}
	return quotes, nil
}

func toQuote(base, quote string, rate decimal.Decimal, observedAt time.Time, source string) model.RateQuote {
	return model.RateQuote{
		Base:       model.Currency(base),
		Quote:      model.Currency(quote),
		Rate:       rate,
		ObservedAt: observedAt,
		Source:     source,
	}
}
