package store

import (
	"context"
	"sort"
	"sync"

	"loadestimator/internal/apperrors"
	"loadestimator/internal/models"
)

// MemoryStore is an in-process ProjectStore for development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]map[string]models.ProjectItem // username -> project name -> item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]map[string]models.ProjectItem)}
}

func (s *MemoryStore) Put(ctx context.Context, item models.ProjectItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byName, ok := s.items[item.Username]
	if !ok {
		byName = make(map[string]models.ProjectItem)
		s.items[item.Username] = byName
	}
	byName[item.ProjectName] = item
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, username, projectName string) (models.ProjectItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[username][projectName]
	if !ok {
		return models.ProjectItem{}, apperrors.NotFound("project " + projectName)
	}
	return item, nil
}

func (s *MemoryStore) List(ctx context.Context, username string) ([]models.ProjectItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byName := s.items[username]
	out := make([]models.ProjectItem, 0, len(byName))
	for _, item := range byName {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProjectName < out[j].ProjectName })
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, username, projectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items[username], projectName)
	return nil
}
