package memory

import (
	"context"
	"fmt"
	"sync"

	"persona-quiz-service/internal/domain"
)

// ResultStore is an in-memory, append-only implementation of app.ResultStore.
type ResultStore struct {
	mu      sync.RWMutex
	byToken map[string]domain.Result
}

func NewResultStore() *ResultStore {
	return &ResultStore{byToken: make(map[string]domain.Result)}
}

func (s *ResultStore) Save(_ context.Context, result domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byToken[result.Token]; exists {
		return fmt.Errorf("result token %q already stored", result.Token)
	}
	s.byToken[result.Token] = result
	return nil
}

func (s *ResultStore) FindByToken(_ context.Context, token string) (domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.byToken[token]
	if !ok {
		return domain.Result{}, domain.ErrResultNotFound
	}
	return result, nil
}

// Len reports the number of stored results. Test helper.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byToken)
}
