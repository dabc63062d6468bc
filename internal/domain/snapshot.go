// Package domain defines the core data model for the arbitrage engine:
// price snapshots, detected opportunities, filter criteria, and the
// interfaces implemented by the cache layer.
package domain

import "time"

// Tier classifies an exchange by trust and liquidity: 1 (major) to 3 (minor).
type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
	Tier3 Tier = 3
)

// PriceSnapshot is one exchange's most recent price/volume observation for a
// symbol. It is written once by its adapter and never mutated; a newer
// snapshot for the same (exchange, symbol) pair supersedes it.
type PriceSnapshot struct {
	Exchange   string    `json:"exchange"`
	Symbol     string    `json:"symbol"`
	Price      float64   `json:"price"`
	Volume24h  float64   `json:"volume_24h"`
	Change24h  float64   `json:"change_24h"`
	Tier       Tier      `json:"tier"`
	ObservedAt time.Time `json:"observed_at"`
}

// Valid reports whether the snapshot passes ingestion checks: a positive
// price, a non-negative volume, and non-empty identifiers.
func (s PriceSnapshot) Valid() bool {
	return s.Exchange != "" && s.Symbol != "" && s.Price > 0 && s.Volume24h >= 0
}

// SymbolInfo is immutable reference data about a trading symbol.
type SymbolInfo struct {
	Symbol   string `json:"symbol"`
	Trusted  bool   `json:"trusted"`
	Premium  bool   `json:"premium"`
	Category string `json:"category"`
}

// Symbol categories. The list is open-ended; CategoryOther is the fallback.
const (
	CategoryLayer0   = "layer0"
	CategoryLayer1   = "layer1"
	CategoryLayer2   = "layer2"
	CategoryDeFi     = "defi"
	CategoryExchange = "exchange"
	CategoryPayment  = "payment"
	CategoryMeme     = "meme"
	CategoryOther    = "other"
)
