package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	require.Equal(t, "IBTC_USDT", cfg.Trade.Symbol)
	require.Equal(t, []string{"0.100", "0.101"}, cfg.Trade.TargetPrices)
	require.Equal(t, int64(100), cfg.Trade.MinQuantity)
	require.Equal(t, int64(1100), cfg.Trade.MaxQuantity)
	require.Equal(t, 600, cfg.Trade.MaxDelaySeconds)
	require.Equal(t, 3000, cfg.Server.Port)
	require.Equal(t, "full", cfg.Mode)
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad mode", func(c *Config) { c.Mode = "watch" }},
		{"empty host", func(c *Config) { c.Exchange.Host = "" }},
		{"empty symbol", func(c *Config) { c.Trade.Symbol = "" }},
		{"no target prices", func(c *Config) { c.Trade.TargetPrices = nil }},
		{"unparsable price", func(c *Config) { c.Trade.TargetPrices = []string{"cheap"} }},
		{"zero min quantity", func(c *Config) { c.Trade.MinQuantity = 0 }},
		{"inverted quantity range", func(c *Config) { c.Trade.MaxQuantity = 50 }},
		{"zero delay", func(c *Config) { c.Trade.MaxDelaySeconds = 0 }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestParsedTargetPrices(t *testing.T) {
	cfg := Defaults()
	prices, err := cfg.ParsedTargetPrices()
	require.NoError(t, err)
	require.Len(t, prices, 2)
	require.True(t, prices[0].Equal(decimal.RequireFromString("0.100")))
	require.True(t, prices[1].Equal(decimal.RequireFromString("0.101")))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, Defaults().Trade.Symbol, cfg.Trade.Symbol)
	require.NoError(t, cfg.Validate())
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode = "serve"

[exchange]
api_key = "file-key"

[trade]
symbol = "BTC_USDT"
target_prices = ["0.200"]

[server]
port = 8080
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "serve", cfg.Mode)
	require.Equal(t, "file-key", cfg.Exchange.APIKey)
	require.Equal(t, "BTC_USDT", cfg.Trade.Symbol)
	require.Equal(t, []string{"0.200"}, cfg.Trade.TargetPrices)
	require.Equal(t, 8080, cfg.Server.Port)

	// Untouched sections keep their defaults.
	require.Equal(t, int64(100), cfg.Trade.MinQuantity)
	require.Equal(t, "https://openapi.digifinex.com", cfg.Exchange.Host)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("XBOT_EXCHANGE_API_KEY", "env-key")
	t.Setenv("XBOT_EXCHANGE_API_SECRET", "env-secret")
	t.Setenv("XBOT_TRADE_TARGET_PRICES", "0.300, 0.301")
	t.Setenv("XBOT_TRADE_MAX_QUANTITY", "500")
	t.Setenv("XBOT_TRADE_AUTO_START", "true")
	t.Setenv("XBOT_MODE", "trade")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, "env-key", cfg.Exchange.APIKey)
	require.Equal(t, "env-secret", cfg.Exchange.APISecret)
	require.Equal(t, []string{"0.300", "0.301"}, cfg.Trade.TargetPrices)
	require.Equal(t, int64(500), cfg.Trade.MaxQuantity)
	require.True(t, cfg.Trade.AutoStart)
	require.Equal(t, "trade", cfg.Mode)
}

func TestRedacted(t *testing.T) {
	cfg := Defaults()
	cfg.Exchange.APIKey = "key"
	cfg.Exchange.APISecret = "secret"
	cfg.Server.APIKey = "server-key"
	cfg.Redis.Password = "redis-pass"
	cfg.SMTP.Password = "smtp-pass"

	red := Redacted(&cfg)
	require.Equal(t, "***", red.Exchange.APIKey)
	require.Equal(t, "***", red.Exchange.APISecret)
	require.Equal(t, "***", red.Server.APIKey)
	require.Equal(t, "***", red.Redis.Password)
	require.Equal(t, "***", red.SMTP.Password)

	// Original is untouched, and empty secrets stay empty.
	require.Equal(t, "secret", cfg.Exchange.APISecret)
	require.Empty(t, Redacted(&Config{}).Exchange.APIKey)
}
