package dto

import "time"

// SystemMetrics is a JSON snapshot of the service's own counters.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	FetchCount               uint64    `json:"fetch_count"`
	FetchFailures            uint64    `json:"fetch_failures"`
	AverageFetchDurationMs   float64   `json:"average_fetch_duration_ms"`
	PushSent                 uint64    `json:"push_sent"`
	PushFailed               uint64    `json:"push_failed"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
