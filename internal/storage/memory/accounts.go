package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"streamhub/proj/internal/domain/models"
	"streamhub/proj/internal/domain/rbac"
	"streamhub/proj/internal/storage"
)

type Accounts struct {
	mu      sync.RWMutex
	byID    map[string]*models.Account
	byEmail map[string]string
}

func NewAccounts() *Accounts {
	return &Accounts{
		byID:    make(map[string]*models.Account),
		byEmail: make(map[string]string),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Accounts) Insert(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[emailKey(account.Email)]; ok {
		return storage.ErrConflict
	}
	if _, ok := s.byID[account.ID]; ok {
		return storage.ErrConflict
	}
	if account.Protected && s.hasProtected() {
		return storage.ErrConflict
	}
	s.byID[account.ID] = account.Clone()
	s.byEmail[emailKey(account.Email)] = account.ID
	return nil
}

func (s *Accounts) Get(ctx context.Context, id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return account.Clone(), nil
}

func (s *Accounts) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[emailKey(email)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return s.byID[id].Clone(), nil
}

// List returns all accounts, newest first.
func (s *Accounts) List(ctx context.Context) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]models.Account, 0, len(s.byID))
	for _, a := range s.byID {
		accounts = append(accounts, *a.Clone())
	}
	slices.SortFunc(accounts, func(a, b models.Account) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return accounts, nil
}

func (s *Accounts) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.byID)), nil
}

func (s *Accounts) HasProtected(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasProtected(), nil
}

func (s *Accounts) hasProtected() bool {
	for _, a := range s.byID {
		if a.Protected {
			return true
		}
	}
	return false
}

func (s *Accounts) UpdateRole(ctx context.Context, id string, role rbac.Role, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.byID[id]
	if !ok {
		return storage.ErrNotFound
	}
	account.Role = role
	account.UpdatedAt = updatedAt
	return nil
}

func (s *Accounts) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.byID[id]
	if !ok {
		return storage.ErrNotFound
	}
	delete(s.byEmail, emailKey(account.Email))
	delete(s.byID, id)
	return nil
}

func (s *Accounts) profile(accountID, profileID string) (*models.Profile, error) {
	account, ok := s.byID[accountID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	p := account.Profile(profileID)
	if p == nil {
		return nil, storage.ErrNotFound
	}
	return p, nil
}

// AddToWatchlist is a no-op when contentID is already present.
func (s *Accounts) AddToWatchlist(ctx context.Context, accountID, profileID, contentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.profile(accountID, profileID)
	if err != nil {
		return err
	}
	if !slices.Contains(p.Watchlist, contentID) {
		p.Watchlist = append(p.Watchlist, contentID)
	}
	return nil
}

func (s *Accounts) RemoveFromWatchlist(ctx context.Context, accountID, profileID, contentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.profile(accountID, profileID)
	if err != nil {
		return err
	}
	p.Watchlist = slices.DeleteFunc(p.Watchlist, func(id string) bool { return id == contentID })
	return nil
}

// SetContinueWatching overwrites the resume point of the profile. It reports
// false when the account or profile does not exist.
func (s *Accounts) SetContinueWatching(ctx context.Context, accountID, profileID string, cw models.ContinueWatching) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.profile(accountID, profileID)
	if err != nil {
		return false, nil
	}
	p.ContinueWatching = &cw
	return true, nil
}
