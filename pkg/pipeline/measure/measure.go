// Package measure records how long the stages of a run take.
package measure

import (
	"sync"
)

type DefaultMeasure struct {
	mu     sync.RWMutex
	stages map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		stages: make(map[string]Metric),
	}
}

func (m *DefaultMeasure) AddMetric(name string, capacity int) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()
	mt := &DefaultMetric{
		transports: make(map[string]*TransportInfo),
		capacity:   capacity,
	}
	m.stages[name] = mt

	return mt
}

// GetMetric returns nil for an unknown stage.
func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mt, ok := m.stages[name]
	if !ok {
		return nil
	}

	return mt
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make(map[string]Metric, len(m.stages))
	for name, mt := range m.stages {
		all[name] = mt
	}

	return all
}

var _ Measure = (*DefaultMeasure)(nil)
