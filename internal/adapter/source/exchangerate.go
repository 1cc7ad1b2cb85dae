package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"valutatrade-hub/internal/domain/model"
	"valutatrade-hub/pkg/logger"
)

type exchangeRatePayload struct {
	Result          string                     `json:"result"`
	ErrorType       string                     `json:"error-type"`
	BaseCode        string                     `json:"base_code"`
	ConversionRates map[string]decimal.Decimal `json:"conversion_rates"`
}

// ExchangeRate fetches fiat rates from ExchangeRate-API. The provider
// quotes USD→X, so every usable entry is inverted into an X→USD quote
// before it leaves the adapter.
type ExchangeRate struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *logger.Logger
}

func NewExchangeRate(baseURL, apiKey string, timeout time.Duration, log *logger.Logger) *ExchangeRate {
	return &ExchangeRate{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

func (e *ExchangeRate) Name() string {
	return "exchangerate"
}

func (e *ExchangeRate) Fetch(ctx context.Context) ([]model.RateQuote, error) {
	if e.apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key", model.ErrSourceUnavailable)
	}

	url := fmt.Sprintf("%s/%s/latest/%s", e.baseURL, e.apiKey, model.USD)

	var payload exchangeRatePayload
	if err := fetchJSON(ctx, e.client, url, &payload); err != nil {
		return nil, err
	}

	if payload.Result != "success" {
		if payload.ErrorType == "quota-reached" {
			return nil, fmt.Errorf("%w: %s", model.ErrSourceRateLimited, payload.ErrorType)
		}
		return nil, fmt.Errorf("%w: provider error %q", model.ErrSourceUnavailable, payload.ErrorType)
	}

	now := time.Now().UTC()
	one := decimal.New(1, 0)
	quotes := make([]model.RateQuote, 0, len(payload.ConversionRates))
	for code, perUSD := range payload.ConversionRates {
		cur := model.Currency(strings.ToUpper(code))
		if cur == model.USD || cur.Kind() != model.KindFiat {
			continue
		}
		if !perUSD.IsPositive() {
			e.log.Debug("Skipping unusable conversion rate", "currency", cur)
			continue
		}
		quotes = append(quotes, model.RateQuote{
			Base:       cur,
			Quote:      model.USD,
			Rate:       one.Div(perUSD),
			ObservedAt: now,
			Source:     e.Name(),
		})
	}

	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: no usable conversion rates", model.ErrSourceMalformed)
	}

	return quotes, nil
}
