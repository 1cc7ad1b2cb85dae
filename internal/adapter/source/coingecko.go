package source

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"valutatrade-hub/internal/domain/model"
	"valutatrade-hub/pkg/logger"
)

// coinIDs maps currency codes onto CoinGecko's own asset identifiers.
var coinIDs = map[model.Currency]string{
	model.BTC:  "bitcoin",
	model.ETH:  "ethereum",
	model.BNB:  "binancecoin",
	model.XRP:  "ripple",
	model.SOL:  "solana",
	model.DOGE: "dogecoin",
	model.ADA:  "cardano",
	model.AVAX: "avalanche-2",
	model.DOT:  "polkadot",
	model.TRX:  "tron",
}

// CoinGecko fetches crypto spot prices quoted in USD. No API key is
// required for the simple price endpoint.
type CoinGecko struct {
	baseURL string
	client  *http.Client
	log     *logger.Logger
}

func NewCoinGecko(baseURL string, timeout time.Duration, log *logger.Logger) *CoinGecko {
	return &CoinGecko{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

func (c *CoinGecko) Name() string {
	return "coingecko"
}

func (c *CoinGecko) Fetch(ctx context.Context) ([]model.RateQuote, error) {
	ids := make([]string, 0, len(coinIDs))
	byID := make(map[string]model.Currency, len(coinIDs))
	for cur, id := range coinIDs {
		ids = append(ids, id)
		byID[id] = cur
	}
	sort.Strings(ids)

	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", c.baseURL, strings.Join(ids, ","))

	var payload map[string]map[string]decimal.Decimal
	if err := fetchJSON(ctx, c.client, url, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty price payload", model.ErrSourceMalformed)
	}

	now := time.Now().UTC()
	quotes := make([]model.RateQuote, 0, len(payload))
	for id, prices := range payload {
		cur, ok := byID[id]
		if !ok {
			continue
		}
		usd, ok := prices["usd"]
		if !ok || !usd.IsPositive() {
			c.log.Debug("Skipping unusable price", "coin", id)
			continue
		}
		quotes = append(quotes, model.RateQuote{
			Base:       cur,
			Quote:      model.USD,
			Rate:       usd,
			ObservedAt: now,
			Source:     c.Name(),
		})
	}

	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: no usable prices", model.ErrSourceMalformed)
	}

	return quotes, nil
}
