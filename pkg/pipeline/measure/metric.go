package measure

import (
	"sync"
	"time"
)

// TransportInfo is the time spent by a stage between two outputs, per input stage.
type TransportInfo struct {
	Elapsed time.Duration
	total   int64
}

type DefaultMetric struct {
	mu          sync.Mutex
	transports  map[string]*TransportInfo
	endDuration time.Duration
	stepElapsed time.Duration
	total       int64
	capacity    int
}

func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.total++
	mt.stepElapsed += elapsed
}

func (mt *DefaultMetric) SetTotalDuration(endDuration time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.endDuration = endDuration
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.endDuration
}

func (mt *DefaultMetric) Total() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.total
}

// Capacity is the capacity of the queue feeding the stage.
func (mt *DefaultMetric) Capacity() int {
	return mt.capacity
}

func (mt *DefaultMetric) AddTransportDuration(inputStageName string, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	info, ok := mt.transports[inputStageName]
	if !ok {
		info = &TransportInfo{}
		mt.transports[inputStageName] = info
	}
	info.Elapsed += elapsed
	info.total++
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.total == 0 {
		return 0
	}

	return round(mt.stepElapsed / time.Duration(mt.total))
}

// AVGTransportDuration returns the average per input stage. The stored totals
// are left untouched.
func (mt *DefaultMetric) AVGTransportDuration() map[string]*TransportInfo {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	avg := make(map[string]*TransportInfo, len(mt.transports))
	for name, info := range mt.transports {
		out := &TransportInfo{total: info.total}
		if info.total > 0 {
			out.Elapsed = round(info.Elapsed / time.Duration(info.total))
		}
		avg[name] = out
	}

	return avg
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Millisecond)
	case d > time.Millisecond:
		d = d.Round(time.Microsecond)
	}

	return d
}
