package memory

import (
	"context"
	"sync"

	"memoir-backend/application/ports"
	"memoir-backend/domain/events"
)

// EventRecorder is an in-memory event publisher that records every
// published event for inspection in tests
type EventRecorder struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

// NewEventRecorder creates an empty event recorder
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// Publish records a single event
func (p *EventRecorder) Publish(_ context.Context, event events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// PublishBatch records multiple events
func (p *EventRecorder) PublishBatch(_ context.Context, batch []events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, batch...)
	return nil
}

// Events returns everything published so far
func (p *EventRecorder) Events() []events.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}

// MetricsRecorder is an in-memory metrics publisher that accumulates
// counts per metric name
type MetricsRecorder struct {
	mu     sync.Mutex
	counts map[string]float64
}

// NewMetricsRecorder creates an empty metrics recorder
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{counts: make(map[string]float64)}
}

// RecordCount accumulates one count metric
func (p *MetricsRecorder) RecordCount(_ context.Context, metric string, value float64, _ string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts[metric] += value
}

// Count returns the accumulated value for a metric
func (p *MetricsRecorder) Count(metric string) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[metric]
}

var (
	_ ports.EventPublisher   = (*EventRecorder)(nil)
	_ ports.MetricsPublisher = (*MetricsRecorder)(nil)
)
