package refdata

import (
	"sort"

	"github.com/coinarb/arbradar/internal/domain"
)

// premiumSymbols are the large-cap coins that earn a risk bonus, with their
// market category.
var premiumSymbols = map[string]string{
	"BTCUSDT":   domain.CategoryLayer1,
	"ETHUSDT":   domain.CategoryLayer1,
	"BNBUSDT":   domain.CategoryExchange,
	"SOLUSDT":   domain.CategoryLayer1,
	"XRPUSDT":   domain.CategoryPayment,
	"ADAUSDT":   domain.CategoryLayer1,
	"AVAXUSDT":  domain.CategoryLayer1,
	"DOGEUSDT":  domain.CategoryMeme,
	"DOTUSDT":   domain.CategoryLayer0,
	"MATICUSDT": domain.CategoryLayer2,
}

// trustedSymbols extends the premium set with established mid-caps that are
// considered safe but earn no bonus.
var trustedSymbols = map[string]string{
	"LINKUSDT":  domain.CategoryDeFi,
	"LTCUSDT":   domain.CategoryPayment,
	"BCHUSDT":   domain.CategoryPayment,
	"UNIUSDT":   domain.CategoryDeFi,
	"ATOMUSDT":  domain.CategoryLayer1,
	"VETUSDT":   domain.CategoryLayer1,
	"FILUSDT":   domain.CategoryLayer1,
	"TRXUSDT":   domain.CategoryLayer1,
	"ETCUSDT":   domain.CategoryLayer1,
	"XLMUSDT":   domain.CategoryPayment,
	"ALGOUSDT":  domain.CategoryLayer1,
	"ICPUSDT":   domain.CategoryLayer1,
	"THETAUSDT": domain.CategoryOther,
	"AXSUSDT":   domain.CategoryOther,
	"SANDUSDT":  domain.CategoryOther,
	"MANAUSDT":  domain.CategoryOther,
	"CHZUSDT":   domain.CategoryOther,
	"ENJUSDT":   domain.CategoryOther,
	"GALAUSDT":  domain.CategoryOther,
	"APTUSDT":   domain.CategoryLayer1,
	"NEARUSDT":  domain.CategoryLayer1,
	"FLOWUSDT":  domain.CategoryLayer1,
	"AAVEUSDT":  domain.CategoryDeFi,
	"COMPUSDT":  domain.CategoryDeFi,
	"SUSHIUSDT": domain.CategoryDeFi,
}

// SymbolClassifier answers trust and category questions about trading
// symbols. Symbols outside both tables are untrusted and categorized "other".
type SymbolClassifier struct {
	info map[string]domain.SymbolInfo
}

// NewSymbolClassifier builds a classifier from the built-in tables plus any
// extra trusted symbols from configuration (category "other").
func NewSymbolClassifier(extraTrusted []string) *SymbolClassifier {
	info := make(map[string]domain.SymbolInfo, len(premiumSymbols)+len(trustedSymbols)+len(extraTrusted))
	for sym, cat := range trustedSymbols {
		info[sym] = domain.SymbolInfo{Symbol: sym, Trusted: true, Category: cat}
	}
	for sym, cat := range premiumSymbols {
		info[sym] = domain.SymbolInfo{Symbol: sym, Trusted: true, Premium: true, Category: cat}
	}
	for _, sym := range extraTrusted {
		if _, ok := info[sym]; ok {
			continue
		}
		info[sym] = domain.SymbolInfo{Symbol: sym, Trusted: true, Category: domain.CategoryOther}
	}
	return &SymbolClassifier{info: info}
}

// Classify returns the trust info for a symbol.
func (c *SymbolClassifier) Classify(symbol string) domain.SymbolInfo {
	if si, ok := c.info[symbol]; ok {
		return si
	}
	return domain.SymbolInfo{Symbol: symbol, Category: domain.CategoryOther}
}

// Categories returns the distinct categories present in the tables, plus
// "other", in lexical order.
func (c *SymbolClassifier) Categories() []string {
	seen := map[string]bool{domain.CategoryOther: true}
	for _, si := range c.info {
		seen[si.Category] = true
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}
