package pipeline

import (
	"sort"
	"sync"
	"time"
)

// Import phases timed by ImportStats.
const (
	PhaseExtract   = "extract"
	PhaseStructure = "structure"
	PhasePersist   = "persist"
	PhaseValidate  = "validate"
	PhaseTotal     = "total"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
}

// StatsSnapshot is a point-in-time aggregate of latency samples.
type StatsSnapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// ImportStats tracks recent per-phase import latencies within a rolling
// window.
type ImportStats struct {
	mu      sync.Mutex
	samples map[string][]sample
	maxAge  time.Duration
}

func NewImportStats(maxAge time.Duration) *ImportStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &ImportStats{
		samples: make(map[string][]sample),
		maxAge:  maxAge,
	}
}

// Record adds one latency sample for phase.
func (s *ImportStats) Record(phase string, d time.Duration) {
	durationMs := d.Milliseconds()
	if durationMs < 0 {
		durationMs = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(phase, now)
	s.samples[phase] = append(s.samples[phase], sample{
		timestamp:  now,
		durationMs: durationMs,
	})
}

// Snapshot aggregates every phase that has samples in the window.
func (s *ImportStats) Snapshot() map[string]StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]StatsSnapshot, len(s.samples))
	for phase := range s.samples {
		s.pruneLocked(phase, now)
		if len(s.samples[phase]) == 0 {
			continue
		}
		out[phase] = aggregate(s.samples[phase])
	}
	return out
}

func aggregate(samples []sample) StatsSnapshot {
	values := make([]int64, 0, len(samples))
	var sum int64
	for _, sm := range samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return StatsSnapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

func (s *ImportStats) pruneLocked(phase string, now time.Time) {
	cutoff := now.Add(-s.maxAge)
	kept := s.samples[phase][:0]
	for _, sm := range s.samples[phase] {
		if !sm.timestamp.Before(cutoff) {
			kept = append(kept, sm)
		}
	}
	s.samples[phase] = kept
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
