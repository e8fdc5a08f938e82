package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/storage"
)

// BacktestRunStore is an in-memory implementation of storage.BacktestRunStore.
type BacktestRunStore struct {
	mu   sync.RWMutex
	data map[string]*domain.BacktestRun // keyed by run_id
}

// NewBacktestRunStore creates a new in-memory backtest run store.
func NewBacktestRunStore() *BacktestRunStore {
	return &BacktestRunStore{
		data: make(map[string]*domain.BacktestRun),
	}
}

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *BacktestRunStore) Insert(_ context.Context, r *domain.BacktestRun) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	s.data[r.RunID] = &copy
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *BacktestRunStore) GetByID(_ context.Context, runID string) (*domain.BacktestRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *r
	return &copy, nil
}

// GetBySymbol retrieves all runs for a symbol, ordered by started_at ASC.
func (s *BacktestRunStore) GetBySymbol(_ context.Context, symbol string) ([]*domain.BacktestRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.BacktestRun
	for _, r := range s.data {
		if r.Symbol == symbol {
			copy := *r
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.Before(result[j].StartedAt)
	})

	return result, nil
}

// GetByStrategy retrieves all runs for a strategy, ordered by started_at ASC.
func (s *BacktestRunStore) GetByStrategy(_ context.Context, strategyID string) ([]*domain.BacktestRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.BacktestRun
	for _, r := range s.data {
		if r.StrategyID == strategyID {
			copy := *r
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.Before(result[j].StartedAt)
	})

	return result, nil
}

var _ storage.BacktestRunStore = (*BacktestRunStore)(nil)
