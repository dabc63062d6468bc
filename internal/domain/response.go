package domain

import "time"

// TierCounts breaks a per-exchange count down by trust tier.
type TierCounts struct {
	Tier1 int `json:"tier_1"`
	Tier2 int `json:"tier_2"`
	Tier3 int `json:"tier_3"`
}

// CacheStats describes aggregator/result-cache behavior for observability.
type CacheStats struct {
	Hits            uint64     `json:"hits"`
	Misses          uint64     `json:"misses"`
	HitRate         float64    `json:"hit_rate"`
	LastRefresh     time.Time  `json:"last_refresh"`
	ExchangesByTier TierCounts `json:"exchanges_by_tier"`
	SymbolCount     int        `json:"symbol_count"`
}

// PerfStats summarizes adapter fetch performance across the last cycles.
type PerfStats struct {
	AvgResponseMs   float64 `json:"avg_response_ms"`
	SuccessRate     float64 `json:"success_rate"`
	ActiveExchanges int     `json:"active_exchanges"`
	TotalRequests   uint64  `json:"total_requests"`
}

// ResponseMetadata accompanies every gated opportunity list.
type ResponseMetadata struct {
	TotalFound     int        `json:"total_found"`
	IsPremium      bool       `json:"is_premium"`
	PreviewMode    bool       `json:"preview_mode,omitempty"`
	UpgradeMessage string     `json:"upgrade_message,omitempty"`
	Stale          bool       `json:"stale,omitempty"`
	Message        string     `json:"message,omitempty"`
	LastUpdated    time.Time  `json:"last_updated"`
	Cache          CacheStats `json:"cache"`
	Performance    PerfStats  `json:"performance"`
}

// OpportunitiesResult is the assembled answer to an opportunity query.
type OpportunitiesResult struct {
	Opportunities []Opportunity    `json:"opportunities"`
	Metadata      ResponseMetadata `json:"metadata"`
}

// SymbolStats are derived statistics over one symbol's live snapshots.
type SymbolStats struct {
	MinPrice      float64 `json:"min_price"`
	MaxPrice      float64 `json:"max_price"`
	AvgPrice      float64 `json:"avg_price"`
	SpreadPercent float64 `json:"spread_percent"`
	ExchangeCount int     `json:"exchange_count"`
	TotalVolume   float64 `json:"total_volume"`
}

// SymbolPrices is the per-symbol price listing across exchanges.
type SymbolPrices struct {
	Symbol      string          `json:"symbol"`
	Prices      []PriceSnapshot `json:"prices"`
	Stats       SymbolStats     `json:"statistics"`
	LastUpdated time.Time       `json:"last_updated"`
}

// MarketOverview aggregates statistics across all detected opportunities.
type MarketOverview struct {
	TotalOpportunities   int               `json:"total_opportunities"`
	AvgProfit            float64           `json:"avg_profit"`
	MaxProfit            float64           `json:"max_profit"`
	RiskDistribution     map[RiskLevel]int `json:"risk_distribution"`
	CategoryDistribution map[string]int    `json:"category_distribution"`
	TopSymbols           []string          `json:"top_symbols"`
	ExchangeHealth       TierCounts        `json:"exchange_health"`
	Cache                CacheStats        `json:"cache"`
	Performance          PerfStats         `json:"performance"`
	Message              string            `json:"message,omitempty"`
	LastUpdated          time.Time         `json:"last_updated"`
}

// LabeledOption is an enumerated filter value with a display label.
type LabeledOption struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// ExchangeOption is an exchange filter value annotated with its tier.
type ExchangeOption struct {
	Value string `json:"value"`
	Tier  Tier   `json:"tier"`
}

// FilterOptions enumerates the valid values callers may filter on.
type FilterOptions struct {
	RiskLevels    []LabeledOption  `json:"risk_levels"`
	Exchanges     []ExchangeOption `json:"exchanges"`
	Categories    []LabeledOption  `json:"categories"`
	VolumeRanges  []float64        `json:"volume_ranges"`
	ProfitRanges  []float64        `json:"profit_ranges"`
}
