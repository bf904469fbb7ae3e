package middleware

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds dispatch counts and duration statistics per event.
type Metrics struct {
	mu     sync.RWMutex
	events map[string]*EventMetrics
}

// EventMetrics holds metrics for a single peer event.
type EventMetrics struct {
	Count   atomic.Int64
	Errors  atomic.Int64
	TotalNs atomic.Int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{events: make(map[string]*EventMetrics)}
}

func (m *Metrics) getOrCreate(event string) *EventMetrics {
	m.mu.RLock()
	em, ok := m.events[event]
	m.mu.RUnlock()
	if ok {
		return em
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if em, ok := m.events[event]; ok {
		return em
	}
	em = &EventMetrics{}
	m.events[event] = em
	return em
}

// Snapshot returns a point-in-time copy of all event metrics.
func (m *Metrics) Snapshot() map[string]EventSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]EventSnapshot, len(m.events))
	for name, em := range m.events {
		snap[name] = EventSnapshot{
			Count:     em.Count.Load(),
			Errors:    em.Errors.Load(),
			TotalTime: time.Duration(em.TotalNs.Load()),
		}
	}
	return snap
}

// EventSnapshot is a point-in-time copy of metrics for one event.
type EventSnapshot struct {
	Count     int64
	Errors    int64
	TotalTime time.Duration
}

// Telemetry returns middleware that collects dispatch count and latency metrics.
func Telemetry(metrics *Metrics) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, event string, data json.RawMessage) error {
			em := metrics.getOrCreate(event)
			start := time.Now()
			err := next(ctx, event, data)
			elapsed := time.Since(start)

			em.Count.Add(1)
			em.TotalNs.Add(int64(elapsed))
			if err != nil {
				em.Errors.Add(1)
			}

			return err
		}
	}
}
