package model

type Currency string

type CurrencyKind string

const (
	KindFiat   CurrencyKind = "fiat"
	KindCrypto CurrencyKind = "crypto"
)

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"

	BTC  Currency = "BTC"
	ETH  Currency = "ETH"
	BNB  Currency = "BNB"
	XRP  Currency = "XRP"
	SOL  Currency = "SOL"
	DOGE Currency = "DOGE"
	ADA  Currency = "ADA"
	AVAX Currency = "AVAX"
	DOT  Currency = "DOT"
	TRX  Currency = "TRX"
)

var FiatCurrencies = []Currency{
	USD, EUR, GBP, "JPY", "CHF", "CAD", "AUD", "CNY", "HKD", "SGD",
	"SEK", "NOK", "KRW", "NZD", "INR", "BRL", "RUB", "ZAR", "MXN", "TRY",
	"PLN", "THB", "IDR", "HUF", "CZK", "ILS", "CLP", "PHP", "AED", "COP",
	"SAR", "MYR", "RON",
}

var CryptoCurrencies = []Currency{BTC, ETH, BNB, XRP, SOL, DOGE, ADA, AVAX, DOT, TRX}

var supportedCurrencies = make(map[Currency]CurrencyKind)

func init() {
	for _, c := range FiatCurrencies {
		supportedCurrencies[c] = KindFiat
	}
	for _, c := range CryptoCurrencies {
		supportedCurrencies[c] = KindCrypto
	}
}

func (c Currency) IsSupported() bool {
	_, ok := supportedCurrencies[c]
	return ok
}

func (c Currency) Kind() CurrencyKind {
	return supportedCurrencies[c]
}

func (c Currency) String() string {
	return string(c)
}
