package category

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu         sync.RWMutex
	categories map[string]Category
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{categories: make(map[string]Category)}
}

func (r *memoryRepository) Create(_ context.Context, cat Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[cat.ID] = cat
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cat, ok := r.categories[id]
	if !ok {
		return Category{}, ErrNotFound
	}
	return cat, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cats := make([]Category, 0, len(r.categories))
	for _, cat := range r.categories {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].CreatedAt.Before(cats[j].CreatedAt) })
	return cats, nil
}

func (r *memoryRepository) Update(_ context.Context, cat Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[cat.ID]; !ok {
		return ErrNotFound
	}
	r.categories[cat.ID] = cat
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return ErrNotFound
	}
	delete(r.categories, id)
	return nil
}
