package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"streamhub/proj/internal/domain/filters"
	"streamhub/proj/internal/domain/models"
	"streamhub/proj/internal/storage"
)

type Contents struct {
	mu   sync.RWMutex
	byID map[string]*models.Content
}

func NewContents() *Contents {
	return &Contents{byID: make(map[string]*models.Content)}
}

func (s *Contents) Insert(ctx context.Context, content *models.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[content.ID]; ok {
		return storage.ErrConflict
	}
	s.byID[content.ID] = content.Clone()
	return nil
}

func (s *Contents) Get(ctx context.Context, id string) (*models.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return content.Clone(), nil
}

func (s *Contents) List(ctx context.Context, f filters.ContentFilters) ([]models.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(f.Search)
	res := make([]models.Content, 0)
	for _, c := range s.byID {
		if f.Featured && !c.Featured {
			continue
		}
		if f.Trending && !c.Trending {
			continue
		}
		if f.NewEpisodes && c.Type != models.ContentSeries {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Title), search) {
			continue
		}
		res = append(res, *c.Clone())
	}
	slices.SortFunc(res, func(a, b models.Content) int {
		if f.NewEpisodes {
			return b.UpdatedAt.Compare(a.UpdatedAt)
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit := f.EffectiveLimit(); len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

// Update replaces the stored document. Views of the content and of every
// episode whose id survives the update are carried over from the stored copy.
func (s *Contents) Update(ctx context.Context, content *models.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.byID[content.ID]
	if !ok {
		return storage.ErrNotFound
	}
	updated := content.Clone()
	updated.Views = stored.Views
	updated.CreatedBy = stored.CreatedBy
	updated.CreatedAt = stored.CreatedAt
	for si := range updated.Seasons {
		for ei := range updated.Seasons[si].Episodes {
			ep := &updated.Seasons[si].Episodes[ei]
			if old := stored.Episode(ep.ID); old != nil {
				ep.Views = old.Views
			} else {
				ep.Views = 0
			}
		}
	}
	s.byID[content.ID] = updated
	return nil
}

func (s *Contents) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *Contents) IncrementViews(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.byID[id]
	if !ok {
		return storage.ErrNotFound
	}
	content.Views++
	return nil
}

// IncrementEpisodeViews reports false when the episode is not part of the content.
func (s *Contents) IncrementEpisodeViews(ctx context.Context, contentID, episodeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.byID[contentID]
	if !ok {
		return false, storage.ErrNotFound
	}
	return content.IncrementEpisodeViews(episodeID), nil
}

func (s *Contents) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.byID)), nil
}

func (s *Contents) SumViews(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, c := range s.byID {
		total += c.Views
	}
	return total, nil
}

// Top returns the n most viewed contents.
func (s *Contents) Top(ctx context.Context, n int) ([]models.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]models.Content, 0, len(s.byID))
	for _, c := range s.byID {
		res = append(res, *c.Clone())
	}
	slices.SortFunc(res, func(a, b models.Content) int {
		if a.Views != b.Views {
			if a.Views > b.Views {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
	if len(res) > n {
		res = res[:n]
	}
	return res, nil
}
