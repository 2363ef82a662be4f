package memory

import (
	"context"
	"sync"
)

// CounterStore keeps quota counters in process memory. Increment is
// atomic under the store mutex; suitable for single-instance
// deployments and tests.
type CounterStore struct {
	mu     sync.Mutex
	counts map[string]map[string]int
}

func NewCounterStore() *CounterStore {
	return &CounterStore{counts: make(map[string]map[string]int)}
}

func (s *CounterStore) Snapshot(_ context.Context, surveyID string, quotaIDs []string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[string]int, len(quotaIDs))
	for _, id := range quotaIDs {
		snapshot[id] = s.counts[surveyID][id]
	}
	return snapshot, nil
}

func (s *CounterStore) Increment(_ context.Context, surveyID, quotaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts[surveyID] == nil {
		s.counts[surveyID] = make(map[string]int)
	}
	s.counts[surveyID][quotaID]++
	return nil
}

func (s *CounterStore) Reset(_ context.Context, surveyID string, _ []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counts, surveyID)
	return nil
}
