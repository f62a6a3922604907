package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies XBOT_* environment variable overrides, and
// returns the final Config. A missing file is not an error; the defaults
// plus environment carry a complete configuration. The returned Config has
// NOT been validated; the caller should invoke Config.Validate after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known XBOT_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Exchange ──
	setStr(&cfg.Exchange.Host, "XBOT_EXCHANGE_HOST")
	setStr(&cfg.Exchange.APIKey, "XBOT_EXCHANGE_API_KEY")
	setStr(&cfg.Exchange.APISecret, "XBOT_EXCHANGE_API_SECRET")
	setInt(&cfg.Exchange.TimeoutSeconds, "XBOT_EXCHANGE_TIMEOUT_SECONDS")

	// ── Trade ──
	setStr(&cfg.Trade.Symbol, "XBOT_TRADE_SYMBOL")
	setStringSlice(&cfg.Trade.TargetPrices, "XBOT_TRADE_TARGET_PRICES")
	setInt64(&cfg.Trade.MinQuantity, "XBOT_TRADE_MIN_QUANTITY")
	setInt64(&cfg.Trade.MaxQuantity, "XBOT_TRADE_MAX_QUANTITY")
	setInt(&cfg.Trade.MaxDelaySeconds, "XBOT_TRADE_MAX_DELAY_SECONDS")
	setBool(&cfg.Trade.AutoStart, "XBOT_TRADE_AUTO_START")
	setInt64(&cfg.Trade.Seed, "XBOT_TRADE_SEED")

	// ── Server ──
	setInt(&cfg.Server.Port, "XBOT_SERVER_PORT")
	setStr(&cfg.Server.APIKey, "XBOT_SERVER_API_KEY")
	setStringSlice(&cfg.Server.CORSOrigins, "XBOT_SERVER_CORS_ORIGINS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "XBOT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "XBOT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "XBOT_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "XBOT_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "XBOT_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "XBOT_REDIS_TLS_ENABLED")
	setInt(&cfg.Redis.BookTTLSeconds, "XBOT_REDIS_BOOK_TTL_SECONDS")

	// ── SMTP ──
	setStr(&cfg.SMTP.Host, "XBOT_SMTP_HOST")
	setInt(&cfg.SMTP.Port, "XBOT_SMTP_PORT")
	setStr(&cfg.SMTP.Username, "XBOT_SMTP_USERNAME")
	setStr(&cfg.SMTP.Password, "XBOT_SMTP_PASSWORD")
	setStr(&cfg.SMTP.From, "XBOT_SMTP_FROM")

	// ── Notify ──
	setStr(&cfg.Notify.EmailTo, "XBOT_NOTIFY_EMAIL_TO")
	setStringSlice(&cfg.Notify.Events, "XBOT_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "XBOT_MODE")
	setStr(&cfg.LogLevel, "XBOT_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
