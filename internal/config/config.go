package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server  ServerConfig
	Rates   RatesConfig
	Sources SourcesConfig
	Storage StorageConfig
	Kafka   KafkaConfig
}

type ServerConfig struct {
	Port         int           `env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"120s"`
}

type RatesConfig struct {
	// TTL bounds how old a quote may get before reads flag it stale
	// and trigger a lazy refresh.
	TTL             time.Duration `env:"RATES_TTL" env-default:"5m"`
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" env-default:"24h"`
	BaseCurrency    string        `env:"BASE_CURRENCY" env-default:"USD"`
}

type SourcesConfig struct {
	CoinGeckoURL       string        `env:"COINGECKO_URL" env-default:"https://api.coingecko.com/api/v3"`
	ExchangeRateURL    string        `env:"EXCHANGERATE_API_URL" env-default:"https://v6.exchangerate-api.com/v6"`
	ExchangeRateAPIKey string        `env:"EXCHANGERATE_API_KEY" env-default:""`
	RequestTimeout     time.Duration `env:"SOURCE_REQUEST_TIMEOUT" env-default:"10s"`
}

type StorageConfig struct {
	// Driver selects the snapshot backend: "file" or "postgres".
	Driver      string `env:"STORAGE_DRIVER" env-default:"file"`
	DataDir     string `env:"DATA_DIR" env-default:"data"`
	PostgresDSN string `env:"POSTGRES_DSN" env-default:""`
}

type KafkaConfig struct {
	Enabled bool     `env:"KAFKA_ENABLED" env-default:"false"`
	Brokers []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	Topic   string   `env:"KAFKA_TOPIC" env-default:"rate-refresh-events"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &cfg, nil
}
