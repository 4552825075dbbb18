package handler_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angeloszaimis/places-proxy/internal/metrics"
	"github.com/angeloszaimis/places-proxy/internal/places"
)

type fakePlaces struct {
	mutex sync.Mutex

	apiKey     bool
	textSearch *places.TextSearchResponse
	textErr    error
	details    map[string]*places.DetailsResponse
	detailErrs map[string]error
	delay      time.Duration

	queries     []string
	detailCalls []string
	inFlight    int
	maxInFlight int
}

func newFakePlaces() *fakePlaces {
	return &fakePlaces{
		apiKey:     true,
		textSearch: &places.TextSearchResponse{Status: places.StatusZeroResults, Raw: []byte(`{"status":"ZERO_RESULTS","results":[]}`)},
		details:    make(map[string]*places.DetailsResponse),
		detailErrs: make(map[string]error),
	}
}

func (f *fakePlaces) HasAPIKey() bool {
	return f.apiKey
}

func (f *fakePlaces) TextSearch(_ context.Context, query string) (*places.TextSearchResponse, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.queries = append(f.queries, query)
	if f.textErr != nil {
		return nil, f.textErr
	}
	return f.textSearch, nil
}

func (f *fakePlaces) Details(_ context.Context, placeID string) (*places.DetailsResponse, error) {
	f.mutex.Lock()
	f.detailCalls = append(f.detailCalls, placeID)
	f.inFlight++
	f.maxInFlight = max(f.maxInFlight, f.inFlight)
	f.mutex.Unlock()

	time.Sleep(f.delay)

	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.inFlight--

	if err := f.detailErrs[placeID]; err != nil {
		return nil, err
	}
	if resp, ok := f.details[placeID]; ok {
		return resp, nil
	}
	return &places.DetailsResponse{Status: "NOT_FOUND"}, nil
}

func (f *fakePlaces) DetailCalls() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]string(nil), f.detailCalls...)
}

func (f *fakePlaces) TextSearchCalls() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.queries)
}

// withCandidates sets an OK text search with n candidates p1..pn, each with an OK
// detail record named "Place i".
func (f *fakePlaces) withCandidates(n int) {
	results := make([]places.Candidate, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("p%d", i)
		results = append(results, places.Candidate{PlaceID: id, Name: "Candidate " + id})
		f.details[id] = &places.DetailsResponse{
			Status: places.StatusOK,
			Result: places.DetailRecord{Name: fmt.Sprintf("Place %d", i)},
		}
	}
	f.textSearch = &places.TextSearchResponse{Status: places.StatusOK, Results: results}
}

type recordingEmitter struct {
	mutex  sync.Mutex
	events []metrics.MetricEvent
}

func (r *recordingEmitter) Emit(event metrics.MetricEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingEmitter) OfType(t metrics.EventType) []metrics.MetricEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []metrics.MetricEvent
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func ptr(v float64) *float64 {
	return &v
}
