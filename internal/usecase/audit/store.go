package audit

import (
	"sync"

	"github.com/chandrakanthm/skyvern/internal/domain/entity"
)

// ResultStore keeps finished audits in memory, keyed by audit id. It is the
// only shared mutable state in the system and is safe for concurrent use.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string]*entity.AuditResult
	order   []string
}

func NewResultStore() *ResultStore {
	return &ResultStore{results: make(map[string]*entity.AuditResult)}
}

func (s *ResultStore) Put(result *entity.AuditResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.results[result.AuditID]; !seen {
		s.order = append(s.order, result.AuditID)
	}
	s.results[result.AuditID] = result
}

func (s *ResultStore) Get(auditID string) (*entity.AuditResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[auditID]
	return r, ok
}

// List returns stored results in insertion order.
func (s *ResultStore) List() []*entity.AuditResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.AuditResult, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.results[id])
	}
	return out
}
