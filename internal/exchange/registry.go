package exchange

import (
	"fmt"
	"sort"
)

// builders maps adapter names to their constructors. baseURL "" selects the
// production endpoint.
var builders = map[string]func(baseURL string) Adapter{
	"binance": func(u string) Adapter { return NewBinanceAdapter(u) },
	"kraken":  func(u string) Adapter { return NewKrakenAdapter(u) },
	"kucoin":  func(u string) Adapter { return NewKucoinAdapter(u) },
	"gate":    func(u string) Adapter { return NewGateAdapter(u) },
	"okx":     func(u string) Adapter { return NewOkxAdapter(u) },
	"bybit":   func(u string) Adapter { return NewBybitAdapter(u) },
	"mexc":    func(u string) Adapter { return NewMexcAdapter(u) },
	"huobi":   func(u string) Adapter { return NewHuobiAdapter(u) },
	"lbank":   func(u string) Adapter { return NewLbankAdapter(u) },
}

// AdapterNames returns the names of all built-in adapters in lexical order.
func AdapterNames() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildAdapters constructs the adapters named in enabled, or every built-in
// adapter when enabled is empty. Unknown names return an error.
func BuildAdapters(enabled []string) ([]Adapter, error) {
	if len(enabled) == 0 {
		enabled = AdapterNames()
	}
	adapters := make([]Adapter, 0, len(enabled))
	for _, name := range enabled {
		build, ok := builders[name]
		if !ok {
			return nil, fmt.Errorf("exchange: unknown adapter %q", name)
		}
		adapters = append(adapters, build(""))
	}
	return adapters, nil
}
