package metrics

import (
	"sort"
	"sync"
	"time"
)

const maxSamples = 1000

type Metrics struct {
	mutex           sync.RWMutex
	searches        int64
	resultsReturned int64
	statusCodes     map[int]int64
	dropped         map[string]int64
	upstreamCalls   map[string]int64
	upstreamStatus  map[string]map[string]int64
	responseTimes   map[string][]time.Duration
	startTime       time.Time
}

type Snapshot struct {
	TotalSearches   int64                      `json:"total_searches"`
	ResultsReturned int64                      `json:"results_returned"`
	Uptime          time.Duration              `json:"uptime"`
	StatusCodes     map[int]int64              `json:"status_codes"`
	Dropped         map[string]int64           `json:"dropped"`
	Upstream        map[string]EndpointMetrics `json:"upstream"`
}

type EndpointMetrics struct {
	Calls       int64            `json:"calls"`
	Statuses    map[string]int64 `json:"statuses"`
	AvgResponse time.Duration    `json:"avg_response"`
	P50Response time.Duration    `json:"p50_response"`
	P95Response time.Duration    `json:"p95_response"`
	P99Response time.Duration    `json:"p99_response"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		statusCodes:    make(map[int]int64),
		dropped:        make(map[string]int64),
		upstreamCalls:  make(map[string]int64),
		upstreamStatus: make(map[string]map[string]int64),
		responseTimes:  make(map[string][]time.Duration),
		startTime:      time.Now(),
	}
}

func (m *Metrics) IncrementSearches() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.searches++
}

func (m *Metrics) RecordUpstreamCall(endpoint, status string, duration time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.upstreamCalls[endpoint]++

	if m.upstreamStatus[endpoint] == nil {
		m.upstreamStatus[endpoint] = make(map[string]int64)
	}
	m.upstreamStatus[endpoint][status]++

	m.responseTimes[endpoint] = append(m.responseTimes[endpoint], duration)
	if len(m.responseTimes[endpoint]) > maxSamples {
		m.responseTimes[endpoint] = m.responseTimes[endpoint][1:]
	}
}

func (m *Metrics) RecordDrop(reason string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.dropped[reason]++
}

func (m *Metrics) RecordCompletion(statusCode, results int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.statusCodes[statusCode]++
	m.resultsReturned += int64(results)
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		TotalSearches:   m.searches,
		ResultsReturned: m.resultsReturned,
		Uptime:          time.Since(m.startTime),
		StatusCodes:     make(map[int]int64, len(m.statusCodes)),
		Dropped:         make(map[string]int64, len(m.dropped)),
		Upstream:        make(map[string]EndpointMetrics, len(m.upstreamCalls)),
	}

	for code, n := range m.statusCodes {
		snap.StatusCodes[code] = n
	}
	for reason, n := range m.dropped {
		snap.Dropped[reason] = n
	}

	for endpoint, calls := range m.upstreamCalls {
		em := EndpointMetrics{
			Calls:    calls,
			Statuses: make(map[string]int64, len(m.upstreamStatus[endpoint])),
		}
		for status, n := range m.upstreamStatus[endpoint] {
			em.Statuses[status] = n
		}

		durations := m.responseTimes[endpoint]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			em.AvgResponse = average(sorted)
			em.P50Response = percentile(sorted, 0.50)
			em.P95Response = percentile(sorted, 0.95)
			em.P99Response = percentile(sorted, 0.99)
		}

		snap.Upstream[endpoint] = em
	}

	return snap
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
