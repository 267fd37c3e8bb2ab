package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// EngineMetrics tracks timing and counters for deck checks and card data
// refreshes.
type EngineMetrics struct {
	// Latency histograms, in milliseconds.
	CheckLatency *Histogram // full deck status calculation
	ParseLatency *Histogram // deck list parsing

	DecksChecked    atomic.Uint64
	DecksParsed     atomic.Uint64
	SnapshotReloads atomic.Uint64
	StatusCacheHits atomic.Uint64 // trusted stored statuses reused as-is
	NRDBRequests    atomic.Uint64
	NRDBErrors      atomic.Uint64

	startTime time.Time
	mu        sync.RWMutex
}

// NewEngineMetrics creates a metrics collector.
func NewEngineMetrics() *EngineMetrics {
	return &EngineMetrics{
		CheckLatency: NewHistogram(10000),
		ParseLatency: NewHistogram(10000),
		startTime:    time.Now(),
	}
}

// RecordCheckDuration records the time taken for one full deck status
// calculation.
func (m *EngineMetrics) RecordCheckDuration(d time.Duration) {
	m.CheckLatency.Record(d)
	m.DecksChecked.Add(1)
}

// RecordParseDuration records the time taken to parse one deck list.
func (m *EngineMetrics) RecordParseDuration(d time.Duration) {
	m.ParseLatency.Record(d)
	m.DecksParsed.Add(1)
}

// IncrementSnapshotReloads counts one card data snapshot swap.
func (m *EngineMetrics) IncrementSnapshotReloads() {
	m.SnapshotReloads.Add(1)
}

// IncrementStatusCacheHits counts one stored deck status reused without a
// recalculation.
func (m *EngineMetrics) IncrementStatusCacheHits() {
	m.StatusCacheHits.Add(1)
}

// IncrementNRDBRequests counts one upstream card data request.
func (m *EngineMetrics) IncrementNRDBRequests() {
	m.NRDBRequests.Add(1)
}

// IncrementNRDBErrors counts one failed upstream card data request.
func (m *EngineMetrics) IncrementNRDBErrors() {
	m.NRDBErrors.Add(1)
}

// LatencyStats summarizes one latency histogram.
type LatencyStats struct {
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// EngineStats is a point-in-time snapshot of all metrics.
type EngineStats struct {
	CheckLatency LatencyStats `json:"check_latency"`
	ParseLatency LatencyStats `json:"parse_latency"`

	DecksChecked    uint64  `json:"decks_checked"`
	DecksParsed     uint64  `json:"decks_parsed"`
	SnapshotReloads uint64  `json:"snapshot_reloads"`
	StatusCacheHits uint64  `json:"status_cache_hits"`
	NRDBRequests    uint64  `json:"nrdb_requests"`
	NRDBErrors      uint64  `json:"nrdb_errors"`
	NRDBSuccessRate float64 `json:"nrdb_success_rate"` // percentage

	Uptime string `json:"uptime"`
}

// GetStats returns a snapshot of the current statistics.
func (m *EngineMetrics) GetStats() *EngineStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	requests := m.NRDBRequests.Load()
	errors := m.NRDBErrors.Load()
	successRate := 0.0
	if requests > 0 {
		successRate = float64(requests-errors) / float64(requests) * 100
	}

	return &EngineStats{
		CheckLatency:    latencyStats(m.CheckLatency),
		ParseLatency:    latencyStats(m.ParseLatency),
		DecksChecked:    m.DecksChecked.Load(),
		DecksParsed:     m.DecksParsed.Load(),
		SnapshotReloads: m.SnapshotReloads.Load(),
		StatusCacheHits: m.StatusCacheHits.Load(),
		NRDBRequests:    requests,
		NRDBErrors:      errors,
		NRDBSuccessRate: successRate,
		Uptime:          time.Since(m.startTime).Round(time.Second).String(),
	}
}

func latencyStats(h *Histogram) LatencyStats {
	return LatencyStats{
		Mean:  h.Mean(),
		P50:   h.Percentile(50),
		P95:   h.Percentile(95),
		P99:   h.Percentile(99),
		Min:   h.Min(),
		Max:   h.Max(),
		Count: h.Count(),
	}
}

// Reset clears all histograms and counters.
func (m *EngineMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CheckLatency.Reset()
	m.ParseLatency.Reset()

	m.DecksChecked.Store(0)
	m.DecksParsed.Store(0)
	m.SnapshotReloads.Store(0)
	m.StatusCacheHits.Store(0)
	m.NRDBRequests.Store(0)
	m.NRDBErrors.Store(0)

	m.startTime = time.Now()
}
