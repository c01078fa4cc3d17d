package domain

import "time"

// HistoryEntry is a persisted record of one accepted command and its provenance.
// IDs are assigned by the store, strictly increasing, and never reused.
type HistoryEntry struct {
	ID        int64          `json:"id"`
	Command   string         `json:"command"`
	ModelID   string         `json:"model_id"`
	Family    ProviderFamily `json:"provider_family"`
	CreatedAt time.Time      `json:"created_at"`
}

// UsageStat accumulates per-model invocation counters.
// Successes never exceed invocations.
type UsageStat struct {
	ModelID             string `json:"model_id"`
	Invocations         int64  `json:"invocation_count"`
	Successes           int64  `json:"success_count"`
	CumulativeLatencyMS int64  `json:"cumulative_latency_ms"`
}

// AverageLatencyMS returns the mean latency across all invocations, or zero
// when nothing has been recorded yet.
func (u UsageStat) AverageLatencyMS() int64 {
	if u.Invocations == 0 {
		return 0
	}
	return u.CumulativeLatencyMS / u.Invocations
}
