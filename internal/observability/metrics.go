package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	searches     map[string]int64
	solutions    int64
	conflicts    int64
	branches     int64
	searchTime   time.Duration
	extensions   int64
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Requests     map[string]int64 `json:"requests"`
	Errors       map[string]int64 `json:"errors"`
	Searches     map[string]int64 `json:"searches"`
	Solutions    int64            `json:"solutions"`
	Conflicts    int64            `json:"conflicts"`
	Branches     int64            `json:"branches"`
	SearchTimeMS int64            `json:"search_time_ms"`
	Extensions   int64            `json:"extensions"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		searches:     make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordSearch accumulates one finished search, keyed by mode and status.
func (m *Metrics) RecordSearch(mode, status string, solutions, conflicts, branches int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches[mode+"|"+status]++
	m.solutions += int64(solutions)
	m.conflicts += int64(conflicts)
	m.branches += int64(branches)
	m.searchTime += elapsed
}

// RecordExtension counts one employee appended to a session.
func (m *Metrics) RecordExtension() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extensions++
}

// Snapshot copies the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsSnapshot{
		Requests:     copyCounts(m.requestCount),
		Errors:       copyCounts(m.errorCount),
		Searches:     copyCounts(m.searches),
		Solutions:    m.solutions,
		Conflicts:    m.conflicts,
		Branches:     m.branches,
		SearchTimeMS: m.searchTime.Milliseconds(),
		Extensions:   m.extensions,
	}
}

func copyCounts(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
