package statsd

import (
	"sync"
	"time"
)

// Point is one metric captured by Memory.
type Point struct {
	Kind  string
	Name  string
	Value float64
	Tags  map[string]string
}

// Memory is an in-process Sink that records every metric. Tests use it to
// assert on emitted metrics.
type Memory struct {
	mu     sync.Mutex
	points []Point
}

var _ Sink = (*Memory)(nil)

// Count implements Sink.
func (m *Memory) Count(name string, value int64, tags map[string]string) {
	m.add(Point{Kind: "c", Name: name, Value: float64(value), Tags: tags})
}

// Gauge implements Sink.
func (m *Memory) Gauge(name string, value float64, tags map[string]string) {
	m.add(Point{Kind: "g", Name: name, Value: value, Tags: tags})
}

// Timing implements Sink.
func (m *Memory) Timing(name string, value time.Duration, tags map[string]string) {
	m.add(Point{Kind: "ms", Name: name, Value: float64(value) / float64(time.Millisecond), Tags: tags})
}

func (m *Memory) add(p Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points = append(m.points, p)
}

// Points returns a snapshot of recorded metrics.
func (m *Memory) Points() []Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Point, len(m.points))
	copy(out, m.points)
	return out
}

// Sum totals the values of every point named name whose tags include match.
func (m *Memory) Sum(name string, match map[string]string) float64 {
	var total float64
	for _, p := range m.Points() {
		if p.Name != name {
			continue
		}
		if tagsMatch(p.Tags, match) {
			total += p.Value
		}
	}
	return total
}

func tagsMatch(tags, match map[string]string) bool {
	for k, v := range match {
		if tags[k] != v {
			return false
		}
	}
	return true
}
