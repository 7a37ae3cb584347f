package memory

import (
	"context"
	"slices"
	"sync"

	"streamhub/proj/internal/domain/models"
	"streamhub/proj/internal/storage"
)

// ViewLogs is append-only. Entries are never updated or removed.
type ViewLogs struct {
	mu      sync.RWMutex
	entries []models.ViewLogEntry
	ids     map[string]struct{}
}

func NewViewLogs() *ViewLogs {
	return &ViewLogs{ids: make(map[string]struct{})}
}

func (s *ViewLogs) Append(ctx context.Context, entry models.ViewLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[entry.ID]; ok {
		return storage.ErrConflict
	}
	s.ids[entry.ID] = struct{}{}
	s.entries = append(s.entries, entry)
	return nil
}

// Recent returns up to n entries, newest first. Entries sharing a timestamp
// keep reverse insertion order.
func (s *ViewLogs) Recent(ctx context.Context, n int) ([]models.ViewLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]models.ViewLogEntry, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		res = append(res, s.entries[i])
	}
	slices.SortStableFunc(res, func(a, b models.ViewLogEntry) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if len(res) > n {
		res = res[:n]
	}
	return res, nil
}

func (s *ViewLogs) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
