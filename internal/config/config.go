// Package config defines the top-level configuration for the bot and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by XBOT_* environment variables.
// Credentials are loaded once at startup and injected into the transport;
// nothing reads the ambient environment after Load returns.
type Config struct {
	Exchange ExchangeConfig `toml:"exchange"`
	Trade    TradeConfig    `toml:"trade"`
	Server   ServerConfig   `toml:"server"`
	Redis    RedisConfig    `toml:"redis"`
	SMTP     SMTPConfig     `toml:"smtp"`
	Notify   NotifyConfig   `toml:"notify"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// ExchangeConfig holds DigiFinex API parameters.
type ExchangeConfig struct {
	Host           string `toml:"host"`
	APIKey         string `toml:"api_key"`
	APISecret      string `toml:"api_secret"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// TradeConfig holds the trading loop parameters. The defaults reproduce the
// production constants: target prices {0.100, 0.101}, quantity drawn from
// [100, 1101) with four fractional digits, cycle delay bounded by 600s.
type TradeConfig struct {
	Symbol          string   `toml:"symbol"`
	TargetPrices    []string `toml:"target_prices"`
	MinQuantity     int64    `toml:"min_quantity"`
	MaxQuantity     int64    `toml:"max_quantity"`
	MaxDelaySeconds int      `toml:"max_delay_seconds"`
	AutoStart       bool     `toml:"auto_start"`
	Seed            int64    `toml:"seed"` // 0 = time-based
}

// ServerConfig holds the HTTP API parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	APIKey      string   `toml:"api_key"` // empty disables authentication
	CORSOrigins []string `toml:"cors_origins"`
}

// RedisConfig holds snapshot cache parameters. An empty Addr disables the
// cache entirely.
type RedisConfig struct {
	Addr           string `toml:"addr"`
	Password       string `toml:"password"`
	DB             int    `toml:"db"`
	PoolSize       int    `toml:"pool_size"`
	MaxRetries     int    `toml:"max_retries"`
	TLSEnabled     bool   `toml:"tls_enabled"`
	BookTTLSeconds int    `toml:"book_ttl_seconds"`
}

// SMTPConfig holds email delivery parameters. An empty Host disables mail.
type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// NotifyConfig controls loop event notifications.
type NotifyConfig struct {
	EmailTo string   `toml:"email_to"`
	Events  []string `toml:"events"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Exchange: ExchangeConfig{
			Host:           "https://openapi.digifinex.com",
			TimeoutSeconds: 30,
		},
		Trade: TradeConfig{
			Symbol:          "IBTC_USDT",
			TargetPrices:    []string{"0.100", "0.101"},
			MinQuantity:     100,
			MaxQuantity:     1100,
			MaxDelaySeconds: 600,
		},
		Server: ServerConfig{
			Port: 3000,
		},
		Redis: RedisConfig{
			BookTTLSeconds: 2,
		},
		SMTP: SMTPConfig{
			Port: 465,
		},
		Mode:     "full",
		LogLevel: "info",
	}
}

// Validate checks the configuration for structural errors. Exchange
// credentials are deliberately not required here; signed calls check them
// at the transport boundary.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Mode) {
	case "serve", "trade", "full":
	default:
		return fmt.Errorf("config: unsupported mode %q", c.Mode)
	}

	if c.Exchange.Host == "" {
		return fmt.Errorf("config: exchange.host is required")
	}
	if c.Trade.Symbol == "" {
		return fmt.Errorf("config: trade.symbol is required")
	}
	if _, err := c.ParsedTargetPrices(); err != nil {
		return err
	}
	if c.Trade.MinQuantity <= 0 || c.Trade.MaxQuantity < c.Trade.MinQuantity {
		return fmt.Errorf("config: invalid trade quantity range [%d, %d]",
			c.Trade.MinQuantity, c.Trade.MaxQuantity)
	}
	if c.Trade.MaxDelaySeconds <= 0 {
		return fmt.Errorf("config: trade.max_delay_seconds must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server.port %d", c.Server.Port)
	}
	return nil
}

// ParsedTargetPrices parses trade.target_prices into decimals.
func (c *Config) ParsedTargetPrices() ([]decimal.Decimal, error) {
	if len(c.Trade.TargetPrices) == 0 {
		return nil, fmt.Errorf("config: trade.target_prices is required")
	}
	prices := make([]decimal.Decimal, 0, len(c.Trade.TargetPrices))
	for _, s := range c.Trade.TargetPrices {
		p, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("config: invalid target price %q: %w", s, err)
		}
		prices = append(prices, p)
	}
	return prices, nil
}

// Redacted returns a shallow copy of cfg with sensitive fields replaced by
// "***" so the active configuration can be logged safely.
func Redacted(cfg *Config) Config {
	out := *cfg

	redact(&out.Exchange.APIKey)
	redact(&out.Exchange.APISecret)
	redact(&out.Server.APIKey)
	redact(&out.Redis.Password)
	redact(&out.SMTP.Password)

	if cfg.Trade.TargetPrices != nil {
		out.Trade.TargetPrices = append([]string(nil), cfg.Trade.TargetPrices...)
	}
	if cfg.Server.CORSOrigins != nil {
		out.Server.CORSOrigins = append([]string(nil), cfg.Server.CORSOrigins...)
	}
	if cfg.Notify.Events != nil {
		out.Notify.Events = append([]string(nil), cfg.Notify.Events...)
	}

	return out
}

func redact(s *string) {
	if *s != "" {
		*s = "***"
	}
}
