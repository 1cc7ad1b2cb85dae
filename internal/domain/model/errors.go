package model

import "errors"

var (
	ErrSourceUnavailable = errors.New("rate source unavailable")
	ErrSourceMalformed   = errors.New("rate source returned malformed data")
	ErrSourceRateLimited = errors.New("rate source rate limited")
	ErrRateUnavailable   = errors.New("exchange rate unavailable")
	ErrCorruptRate       = errors.New("corrupt rate data")
	ErrCurrencyUnknown   = errors.New("unknown currency")
	ErrPortfolioNotFound = errors.New("portfolio not found")
)

// SourceErrorKind maps a fetch error onto the short label recorded in a
// RefreshResult source status.
func SourceErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrSourceRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrSourceMalformed):
		return "malformed"
	case errors.Is(err, ErrSourceUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
