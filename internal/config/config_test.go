package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got: %d", cfg.Server.Port)
	}
	if cfg.Rates.TTL != 5*time.Minute {
		t.Errorf("Expected default ttl 5m, got: %v", cfg.Rates.TTL)
	}
	if cfg.Rates.RefreshInterval != 24*time.Hour {
		t.Errorf("Expected default refresh interval 24h, got: %v", cfg.Rates.RefreshInterval)
	}
	if cfg.Rates.BaseCurrency != "USD" {
		t.Errorf("Expected default base USD, got: %s", cfg.Rates.BaseCurrency)
	}
	if cfg.Storage.Driver != "file" {
		t.Errorf("Expected default storage driver file, got: %s", cfg.Storage.Driver)
	}
	if cfg.Kafka.Enabled {
		t.Error("Expected Kafka to be disabled by default")
	}
	if len(cfg.Kafka.Brokers) != 1 || cfg.Kafka.Brokers[0] != "localhost:9092" {
		t.Errorf("Unexpected default brokers: %v", cfg.Kafka.Brokers)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RATES_TTL", "30s")
	t.Setenv("BASE_CURRENCY", "EUR")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "host=localhost user=rates dbname=rates")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got: %d", cfg.Server.Port)
	}
	if cfg.Rates.TTL != 30*time.Second {
		t.Errorf("Expected ttl 30s, got: %v", cfg.Rates.TTL)
	}
	if cfg.Rates.BaseCurrency != "EUR" {
		t.Errorf("Expected base EUR, got: %s", cfg.Rates.BaseCurrency)
	}
	if cfg.Storage.Driver != "postgres" || cfg.Storage.PostgresDSN == "" {
		t.Errorf("Unexpected storage config: %+v", cfg.Storage)
	}
	if !cfg.Kafka.Enabled {
		t.Error("Expected Kafka to be enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("Expected 2 brokers, got: %v", cfg.Kafka.Brokers)
	}
}

func TestLoadConfigRejectsGarbage(t *testing.T) {
	t.Setenv("RATES_TTL", "not-a-duration")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("Expected an error for an unparseable duration")
	}
}
