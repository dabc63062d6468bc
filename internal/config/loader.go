package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultPath is the config file the binary looks for when -config is not
// given. A missing file at this path is not an error; Load falls back to
// Defaults.
const DefaultPath = "config.toml"

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies ARBRADAR_* environment variable overrides, and
// returns the final Config. A missing file is an error unless path is
// DefaultPath. The returned Config has NOT been validated; the caller should
// invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		_, err := toml.DecodeFile(path, &cfg)
		switch {
		case err == nil:
		case path == DefaultPath && errors.Is(err, fs.ErrNotExist):
			// The default file is optional; the built-in defaults apply.
		default:
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known ARBRADAR_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators tune the engine at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Exchanges ──
	setStringSlice(&cfg.Exchanges.Enabled, "ARBRADAR_EXCHANGES_ENABLED")
	setDuration(&cfg.Exchanges.FetchTimeout, "ARBRADAR_EXCHANGES_FETCH_TIMEOUT")
	setInt(&cfg.Exchanges.MaxConcurrent, "ARBRADAR_EXCHANGES_MAX_CONCURRENT")
	setInt(&cfg.Exchanges.RequestsPerMinute, "ARBRADAR_EXCHANGES_REQUESTS_PER_MINUTE")
	setFloat64(&cfg.Exchanges.MinQuoteVolume, "ARBRADAR_EXCHANGES_MIN_QUOTE_VOLUME")
	setStringSlice(&cfg.Exchanges.TrustedSymbols, "ARBRADAR_EXCHANGES_TRUSTED_SYMBOLS")

	// ── Engine ──
	setDuration(&cfg.Engine.SnapshotTTL, "ARBRADAR_ENGINE_SNAPSHOT_TTL")
	setDuration(&cfg.Engine.ResultTTL, "ARBRADAR_ENGINE_RESULT_TTL")
	setDuration(&cfg.Engine.CycleTimeout, "ARBRADAR_ENGINE_CYCLE_TIMEOUT")
	setFloat64(&cfg.Engine.MinProfitPercent, "ARBRADAR_ENGINE_MIN_PROFIT_PERCENT")
	setFloat64(&cfg.Engine.MinVolume24h, "ARBRADAR_ENGINE_MIN_VOLUME_24H")
	setInt(&cfg.Engine.FreeLimit, "ARBRADAR_ENGINE_FREE_LIMIT")
	setInt(&cfg.Engine.PreviewExtra, "ARBRADAR_ENGINE_PREVIEW_EXTRA")

	// ── Feed ──
	setDuration(&cfg.Feed.RefreshInterval, "ARBRADAR_FEED_REFRESH_INTERVAL")
	setBool(&cfg.Feed.BinanceStream, "ARBRADAR_FEED_BINANCE_STREAM")
	setStr(&cfg.Feed.BinanceWsHost, "ARBRADAR_FEED_BINANCE_WS_HOST")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "ARBRADAR_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "ARBRADAR_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "ARBRADAR_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "ARBRADAR_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "ARBRADAR_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "ARBRADAR_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "ARBRADAR_REDIS_TLS_ENABLED")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "ARBRADAR_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "ARBRADAR_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "ARBRADAR_SERVER_CORS_ORIGINS")
	setInt(&cfg.Server.RequestsPerMinute, "ARBRADAR_SERVER_REQUESTS_PER_MINUTE")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "ARBRADAR_LOG_LEVEL")
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

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
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

func setDuration(dst *Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
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
