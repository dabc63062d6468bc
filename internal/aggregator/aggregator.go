// Package aggregator maintains the freshest price snapshot per
// (exchange, symbol) pair in an in-memory table with lazy TTL expiry.
package aggregator

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coinarb/arbradar/internal/domain"
)

// Aggregator collates snapshots into a queryable table. Writes replace the
// prior snapshot for the same (exchange, symbol) pair only when newer;
// expiry is checked lazily on every read, so a snapshot older than the TTL
// is treated as absent rather than stale-but-present.
type Aggregator struct {
	ttl time.Duration

	mu         sync.RWMutex
	bySymbol   map[string]map[string]domain.PriceSnapshot // symbol -> exchange -> snapshot
	lastIngest time.Time

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates an Aggregator whose snapshots live for ttl.
func New(ttl time.Duration) *Aggregator {
	return &Aggregator{
		ttl:      ttl,
		bySymbol: make(map[string]map[string]domain.PriceSnapshot),
	}
}

// Ingest stores a snapshot, replacing any prior snapshot for the same
// (exchange, symbol) pair if the new one is newer. Snapshots that fail
// validation are discarded. It reports whether the snapshot was stored.
func (a *Aggregator) Ingest(snap domain.PriceSnapshot) bool {
	if !snap.Valid() {
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	exs, ok := a.bySymbol[snap.Symbol]
	if !ok {
		exs = make(map[string]domain.PriceSnapshot)
		a.bySymbol[snap.Symbol] = exs
	}
	if prev, ok := exs[snap.Exchange]; ok && !snap.ObservedAt.After(prev.ObservedAt) {
		return false
	}
	exs[snap.Exchange] = snap
	if snap.ObservedAt.After(a.lastIngest) {
		a.lastIngest = snap.ObservedAt
	}
	return true
}

// IngestBatch ingests all snapshots and returns how many were stored.
func (a *Aggregator) IngestBatch(snaps []domain.PriceSnapshot) int {
	stored := 0
	for _, s := range snaps {
		if a.Ingest(s) {
			stored++
		}
	}
	return stored
}

// SnapshotsFor returns all non-expired snapshots for a symbol, sorted by
// ascending price. Expired entries are pruned. The hit counter increments
// when at least one live snapshot exists, the miss counter otherwise.
func (a *Aggregator) SnapshotsFor(symbol string) []domain.PriceSnapshot {
	cutoff := time.Now().Add(-a.ttl)

	a.mu.Lock()
	exs := a.bySymbol[symbol]
	out := make([]domain.PriceSnapshot, 0, len(exs))
	for ex, snap := range exs {
		if snap.ObservedAt.Before(cutoff) {
			delete(exs, ex)
			continue
		}
		out = append(out, snap)
	}
	if len(exs) == 0 {
		delete(a.bySymbol, symbol)
	}
	a.mu.Unlock()

	if len(out) == 0 {
		a.misses.Add(1)
		return nil
	}
	a.hits.Add(1)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].Exchange < out[j].Exchange
	})
	return out
}

// AllSymbols returns every symbol with at least one live snapshot, in
// lexical order.
func (a *Aggregator) AllSymbols() []string {
	cutoff := time.Now().Add(-a.ttl)

	a.mu.RLock()
	syms := make([]string, 0, len(a.bySymbol))
	for sym, exs := range a.bySymbol {
		for _, snap := range exs {
			if !snap.ObservedAt.Before(cutoff) {
				syms = append(syms, sym)
				break
			}
		}
	}
	a.mu.RUnlock()

	sort.Strings(syms)
	return syms
}

// Table returns an immutable copy of all live snapshots keyed by symbol.
// Detection cycles run over this copy, so they need no further locking.
func (a *Aggregator) Table() map[string][]domain.PriceSnapshot {
	cutoff := time.Now().Add(-a.ttl)

	a.mu.RLock()
	defer a.mu.RUnlock()

	table := make(map[string][]domain.PriceSnapshot, len(a.bySymbol))
	for sym, exs := range a.bySymbol {
		var live []domain.PriceSnapshot
		for _, snap := range exs {
			if !snap.ObservedAt.Before(cutoff) {
				live = append(live, snap)
			}
		}
		if len(live) == 0 {
			continue
		}
		sort.Slice(live, func(i, j int) bool {
			if live[i].Price != live[j].Price {
				return live[i].Price < live[j].Price
			}
			return live[i].Exchange < live[j].Exchange
		})
		table[sym] = live
	}
	return table
}

// ActiveExchanges returns the set of exchanges with at least one live
// snapshot.
func (a *Aggregator) ActiveExchanges() map[string]bool {
	cutoff := time.Now().Add(-a.ttl)

	a.mu.RLock()
	defer a.mu.RUnlock()

	active := make(map[string]bool)
	for _, exs := range a.bySymbol {
		for ex, snap := range exs {
			if !snap.ObservedAt.Before(cutoff) {
				active[ex] = true
			}
		}
	}
	return active
}

// LastRefresh returns the observation time of the newest snapshot ever
// ingested, which serves as the table's last refresh marker.
func (a *Aggregator) LastRefresh() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastIngest
}

// Counters returns the hit and miss counts accumulated by reads.
func (a *Aggregator) Counters() (hits, misses uint64) {
	return a.hits.Load(), a.misses.Load()
}
