// Package config defines the top-level configuration for the arbitrage
// engine and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by ARBRADAR_* environment
// variables.
type Config struct {
	Exchanges ExchangesConfig `toml:"exchanges"`
	Engine    EngineConfig    `toml:"engine"`
	Feed      FeedConfig      `toml:"feed"`
	Redis     RedisConfig     `toml:"redis"`
	Server    ServerConfig    `toml:"server"`
	LogLevel  string          `toml:"log_level"`
}

// ExchangesConfig controls which exchange adapters run and how they fetch.
type ExchangesConfig struct {
	// Enabled lists adapter names to run; empty means all built-in adapters.
	Enabled []string `toml:"enabled"`
	// FetchTimeout bounds a single adapter call.
	FetchTimeout Duration `toml:"fetch_timeout"`
	// MaxConcurrent caps how many adapter fetches run at once.
	MaxConcurrent int `toml:"max_concurrent"`
	// RequestsPerMinute is the per-exchange-host rate limit (0 disables).
	RequestsPerMinute int `toml:"requests_per_minute"`
	// MinQuoteVolume drops thin ticker rows at parse time.
	MinQuoteVolume float64 `toml:"min_quote_volume"`
	// TierOverrides adjusts the built-in exchange tier table (1-3).
	TierOverrides map[string]int `toml:"tier_overrides"`
	// TrustedSymbols extends the built-in trusted symbol set.
	TrustedSymbols []string `toml:"trusted_symbols"`
}

// EngineConfig holds detection, scoring, and gating parameters. The risk and
// ranking weights are configurable rather than hardcoded.
type EngineConfig struct {
	// SnapshotTTL is how long a price snapshot stays live in the aggregator.
	SnapshotTTL Duration `toml:"snapshot_ttl"`
	// ResultTTL is how long an assembled result is served from cache.
	ResultTTL Duration `toml:"result_ttl"`
	// CycleTimeout bounds one detection cycle including adapter fan-out.
	CycleTimeout Duration `toml:"cycle_timeout"`

	// MinProfitPercent and MinVolume24h are the system floors; request
	// filters may only raise them.
	MinProfitPercent float64 `toml:"min_profit_percent"`
	MinVolume24h     float64 `toml:"min_volume_24h"`

	// FreeLimit caps free-tier responses; PreviewExtra is how many elided
	// items beyond the cap a premium preview shows.
	FreeLimit    int `toml:"free_limit"`
	PreviewExtra int `toml:"preview_extra"`

	Risk RiskConfig `toml:"risk"`
	Rank RankConfig `toml:"rank"`
}

// RiskConfig holds the risk-scoring thresholds and the score cap.
type RiskConfig struct {
	HighProfitPct   float64 `toml:"high_profit_pct"`   // >this: +3
	MediumProfitPct float64 `toml:"medium_profit_pct"` // >this: +2
	LowProfitPct    float64 `toml:"low_profit_pct"`    // >this: +1
	LowVolume       float64 `toml:"low_volume"`        // <this: +3
	MediumVolume    float64 `toml:"medium_volume"`     // <this: +2
	ScoreCap        int     `toml:"score_cap"`
}

// RankConfig holds the opportunity-score weights.
type RankConfig struct {
	ProfitPerPct float64 `toml:"profit_per_pct"` // score per 1% profit
	ProfitCap    float64 `toml:"profit_cap"`
	RiskFactor   float64 `toml:"risk_factor"` // score per risk point
	VolumeCap    float64 `toml:"volume_cap"`  // cap on log-volume bonus
}

// FeedConfig controls background refresh and the streaming ticker feed.
type FeedConfig struct {
	// RefreshInterval drives the background cycle loop (0 disables).
	RefreshInterval Duration `toml:"refresh_interval"`
	// BinanceStream enables the websocket miniTicker feed.
	BinanceStream bool   `toml:"binance_stream"`
	BinanceWsHost string `toml:"binance_ws_host"`
}

// RedisConfig holds Redis connection parameters. Redis is optional: when
// disabled the engine keeps only its in-memory last-good result.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled           bool     `toml:"enabled"`
	Port              int      `toml:"port"`
	CORSOrigins       []string `toml:"cors_origins"`
	RequestsPerMinute int      `toml:"requests_per_minute"` // per client IP, 0 disables
}

// Duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5s", "30s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Exchanges: ExchangesConfig{
			Enabled:           nil, // all built-in adapters
			FetchTimeout:      Duration{8 * time.Second},
			MaxConcurrent:     6,
			RequestsPerMinute: 30,
			MinQuoteVolume:    10_000,
			TierOverrides:     map[string]int{},
		},
		Engine: EngineConfig{
			SnapshotTTL:      Duration{15 * time.Second},
			ResultTTL:        Duration{10 * time.Second},
			CycleTimeout:     Duration{5 * time.Second},
			MinProfitPercent: 0.1,
			MinVolume24h:     10_000,
			FreeLimit:        10,
			PreviewExtra:     10,
			Risk: RiskConfig{
				HighProfitPct:   10.0,
				MediumProfitPct: 5.0,
				LowProfitPct:    2.0,
				LowVolume:       50_000,
				MediumVolume:    100_000,
				ScoreCap:        10,
			},
			Rank: RankConfig{
				ProfitPerPct: 2.0,
				ProfitCap:    20.0,
				RiskFactor:   3.0,
				VolumeCap:    10.0,
			},
		},
		Feed: FeedConfig{
			RefreshInterval: Duration{10 * time.Second},
			BinanceStream:   false,
			BinanceWsHost:   "wss://stream.binance.com:9443",
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		Server: ServerConfig{
			Enabled:           true,
			Port:              8000,
			CORSOrigins:       []string{"http://localhost:3000"},
			RequestsPerMinute: 120,
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Exchanges
	if c.Exchanges.FetchTimeout.Duration <= 0 {
		errs = append(errs, "exchanges: fetch_timeout must be positive")
	}
	if c.Exchanges.MaxConcurrent < 1 {
		errs = append(errs, "exchanges: max_concurrent must be >= 1")
	}
	if c.Exchanges.MinQuoteVolume < 0 {
		errs = append(errs, "exchanges: min_quote_volume must be >= 0")
	}
	for ex, t := range c.Exchanges.TierOverrides {
		if t < 1 || t > 3 {
			errs = append(errs, fmt.Sprintf("exchanges: tier override for %q must be 1-3, got %d", ex, t))
		}
	}

	// Engine
	if c.Engine.SnapshotTTL.Duration <= 0 {
		errs = append(errs, "engine: snapshot_ttl must be positive")
	}
	if c.Engine.ResultTTL.Duration <= 0 {
		errs = append(errs, "engine: result_ttl must be positive")
	}
	if c.Engine.CycleTimeout.Duration <= 0 {
		errs = append(errs, "engine: cycle_timeout must be positive")
	}
	if c.Engine.MinProfitPercent <= 0 {
		errs = append(errs, "engine: min_profit_percent must be > 0")
	}
	if c.Engine.MinVolume24h < 0 {
		errs = append(errs, "engine: min_volume_24h must be >= 0")
	}
	if c.Engine.FreeLimit < 1 {
		errs = append(errs, "engine: free_limit must be >= 1")
	}
	if c.Engine.PreviewExtra < 0 {
		errs = append(errs, "engine: preview_extra must be >= 0")
	}
	if c.Engine.Risk.ScoreCap < 1 {
		errs = append(errs, "engine: risk score_cap must be >= 1")
	}
	if !(c.Engine.Risk.LowProfitPct < c.Engine.Risk.MediumProfitPct &&
		c.Engine.Risk.MediumProfitPct < c.Engine.Risk.HighProfitPct) {
		errs = append(errs, "engine: risk profit thresholds must be strictly increasing")
	}
	if c.Engine.Risk.LowVolume >= c.Engine.Risk.MediumVolume {
		errs = append(errs, "engine: risk low_volume must be below medium_volume")
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
