package domain

import "time"

// RiskLevel is the step-function bucket of a risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// riskOrder gives RiskLevel a total order: low < medium < high.
var riskOrder = map[RiskLevel]int{
	RiskLow:    0,
	RiskMedium: 1,
	RiskHigh:   2,
}

// Rank returns the ordinal position of the level. Unknown levels rank above
// high so that a risk ceiling never accidentally admits them.
func (r RiskLevel) Rank() int {
	if n, ok := riskOrder[r]; ok {
		return n
	}
	return len(riskOrder)
}

// AtMost reports whether r is within the inclusive ceiling max.
func (r RiskLevel) AtMost(max RiskLevel) bool {
	return r.Rank() <= max.Rank()
}

// Valid reports whether r is one of the known levels.
func (r RiskLevel) Valid() bool {
	_, ok := riskOrder[r]
	return ok
}

// Opportunity is a detected profitable directional price gap for one symbol
// between two exchanges at one point in time. It is created fresh each
// detection cycle and never mutated; it has no identity beyond its content.
type Opportunity struct {
	Symbol        string    `json:"symbol"`
	BuyExchange   string    `json:"buy_exchange"`
	SellExchange  string    `json:"sell_exchange"`
	BuyPrice      float64   `json:"buy_price"`
	SellPrice     float64   `json:"sell_price"`
	ProfitPercent float64   `json:"profit_percent"`
	ProfitAmount  float64   `json:"profit_amount"`
	Volume24h     float64   `json:"volume_24h"`
	BuyTier       Tier      `json:"buy_tier"`
	SellTier      Tier      `json:"sell_tier"`
	RiskLevel     RiskLevel `json:"risk_level"`
	RiskScore     int       `json:"risk_score"`
	RiskFactors   []string  `json:"risk_factors"`
	Confidence    float64   `json:"confidence"`
	Score         float64   `json:"opportunity_score"`
	Category      string    `json:"category"`
	ObservedAt    time.Time `json:"observed_at"`

	// PreviewOnly marks items beyond the free cap that are returned with
	// numeric fields elided. Existence and category remain visible.
	PreviewOnly bool `json:"preview_only,omitempty"`
}

// FilterCriteria narrows an opportunity query. All populated criteria must
// hold simultaneously; empty sets impose no restriction.
type FilterCriteria struct {
	MaxRisk          RiskLevel `json:"max_risk,omitempty"`
	Categories       []string  `json:"categories,omitempty"`
	Exchanges        []string  `json:"exchanges,omitempty"`
	MinProfitPercent float64   `json:"min_profit,omitempty"`
	MinVolume24h     float64   `json:"min_volume,omitempty"`
}
