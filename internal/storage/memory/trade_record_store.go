package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/storage"
)

// TradeRecordStore is an in-memory implementation of storage.TradeRecordStore.
type TradeRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TradeRecord // keyed by trade_id
}

// NewTradeRecordStore creates a new in-memory trade record store.
func NewTradeRecordStore() *TradeRecordStore {
	return &TradeRecordStore{
		data: make(map[string]*domain.TradeRecord),
	}
}

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeRecordStore) Insert(_ context.Context, t *domain.TradeRecord) error {
	if t == nil || t.TradeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.TradeID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *t
	s.data[t.TradeID] = &copy
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeRecordStore) InsertBulk(_ context.Context, trades []*domain.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(trades))

	// First pass: check for duplicates (existing + intra-batch)
	for _, t := range trades {
		if t == nil || t.TradeID == "" {
			return storage.ErrInvalidInput
		}

		if _, exists := s.data[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[t.TradeID] = struct{}{}
	}

	// Second pass: insert all
	for _, t := range trades {
		copy := *t
		s.data[t.TradeID] = &copy
	}

	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeRecordStore) GetByID(_ context.Context, tradeID string) (*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[tradeID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *t
	return &copy, nil
}

// GetByRunID retrieves all trades for a run, ordered by date ASC.
func (s *TradeRecordStore) GetByRunID(_ context.Context, runID string) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TradeRecord
	for _, t := range s.data {
		if t.RunID == runID {
			copy := *t
			result = append(result, &copy)
		}
	}

	sortTradesByDate(result)
	return result, nil
}

// GetByDateRange retrieves trades for a run within [start, end] (inclusive).
func (s *TradeRecordStore) GetByDateRange(_ context.Context, runID string, start, end time.Time) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TradeRecord
	for _, t := range s.data {
		if t.RunID != runID {
			continue
		}
		if t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		copy := *t
		result = append(result, &copy)
	}

	sortTradesByDate(result)
	return result, nil
}

func sortTradesByDate(trades []*domain.TradeRecord) {
	sort.Slice(trades, func(i, j int) bool {
		return trades[i].Date.Before(trades[j].Date)
	})
}

var _ storage.TradeRecordStore = (*TradeRecordStore)(nil)
