package exchange

import (
	"sync"
	"time"

	"github.com/coinarb/arbradar/internal/domain"
)

// PerfTracker records per-exchange fetch timing, success rates, and error
// counts. Success rates use an exponential moving average so one failure
// does not erase an exchange's history.
type PerfTracker struct {
	mu          sync.Mutex
	responseMs  map[string]float64
	successRate map[string]float64
	errorCounts map[string]uint64
	total       uint64
}

// NewPerfTracker creates an empty tracker.
func NewPerfTracker() *PerfTracker {
	return &PerfTracker{
		responseMs:  make(map[string]float64),
		successRate: make(map[string]float64),
		errorCounts: make(map[string]uint64),
	}
}

// Record notes the outcome of one adapter fetch.
func (p *PerfTracker) Record(exchange string, elapsed time.Duration, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total++
	p.responseMs[exchange] = float64(elapsed.Milliseconds())

	prev, seen := p.successRate[exchange]
	if !seen {
		prev = 0.95
	}
	outcome := 0.0
	if ok {
		outcome = 1.0
	} else {
		p.errorCounts[exchange]++
	}
	p.successRate[exchange] = prev*0.9 + outcome*0.1
}

// Snapshot summarizes the tracked metrics.
func (p *PerfTracker) Snapshot() domain.PerfStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	var stats domain.PerfStats
	stats.TotalRequests = p.total
	stats.ActiveExchanges = len(p.responseMs)

	if len(p.responseMs) > 0 {
		var sum float64
		for _, ms := range p.responseMs {
			sum += ms
		}
		stats.AvgResponseMs = sum / float64(len(p.responseMs))
	}
	if len(p.successRate) > 0 {
		var sum float64
		for _, r := range p.successRate {
			sum += r
		}
		stats.SuccessRate = sum / float64(len(p.successRate)) * 100
	}
	return stats
}

// ErrorCount returns the accumulated error count for an exchange.
func (p *PerfTracker) ErrorCount(exchange string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errorCounts[exchange]
}
