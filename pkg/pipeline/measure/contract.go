package measure

import "time"

// Measure holds one metric per stage.
type Measure interface {
	AddMetric(name string, capacity int) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric aggregates the durations observed for a single stage.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AddTransportDuration(inputStageName string, elapsed time.Duration)
	AVGDuration() time.Duration
	AVGTransportDuration() map[string]*TransportInfo
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
	Total() int64
	Capacity() int
}
