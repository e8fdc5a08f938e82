package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/storage"
)

// AssetRecordStore is an in-memory implementation of storage.AssetRecordStore.
// Snapshots are keyed by (run_id, date).
type AssetRecordStore struct {
	mu   sync.RWMutex
	data map[assetKey]*domain.AssetRecord
}

type assetKey struct {
	runID string
	date  int64 // unix nanoseconds, UTC
}

func keyFor(a *domain.AssetRecord) assetKey {
	return assetKey{runID: a.RunID, date: a.Date.UTC().UnixNano()}
}

// NewAssetRecordStore creates a new in-memory asset record store.
func NewAssetRecordStore() *AssetRecordStore {
	return &AssetRecordStore{
		data: make(map[assetKey]*domain.AssetRecord),
	}
}

// Insert adds a new snapshot. Returns ErrDuplicateKey if (run_id, date) exists.
func (s *AssetRecordStore) Insert(_ context.Context, a *domain.AssetRecord) error {
	if a == nil || a.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := keyFor(a)
	if _, exists := s.data[k]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *a
	s.data[k] = &copy
	return nil
}

// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
func (s *AssetRecordStore) InsertBulk(_ context.Context, records []*domain.AssetRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[assetKey]struct{}, len(records))

	for _, a := range records {
		if a == nil || a.RunID == "" {
			return storage.ErrInvalidInput
		}

		k := keyFor(a)
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, a := range records {
		copy := *a
		s.data[keyFor(a)] = &copy
	}

	return nil
}

// GetByRunID retrieves all snapshots for a run, ordered by date ASC.
func (s *AssetRecordStore) GetByRunID(_ context.Context, runID string) ([]*domain.AssetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AssetRecord
	for _, a := range s.data {
		if a.RunID == runID {
			copy := *a
			result = append(result, &copy)
		}
	}

	sortAssetsByDate(result)
	return result, nil
}

// GetByDateRange retrieves snapshots for a run within [start, end] (inclusive).
func (s *AssetRecordStore) GetByDateRange(_ context.Context, runID string, start, end time.Time) ([]*domain.AssetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AssetRecord
	for _, a := range s.data {
		if a.RunID != runID {
			continue
		}
		if a.Date.Before(start) || a.Date.After(end) {
			continue
		}
		copy := *a
		result = append(result, &copy)
	}

	sortAssetsByDate(result)
	return result, nil
}

func sortAssetsByDate(records []*domain.AssetRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}

var _ storage.AssetRecordStore = (*AssetRecordStore)(nil)
