package post

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	posts map[string]Post
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{posts: make(map[string]Post)}
}

func (r *memoryRepository) Create(_ context.Context, p Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.posts {
		if existing.UserID == p.UserID && existing.Title == p.Title {
			return ErrDuplicateTitle
		}
	}
	r.posts[p.ID] = p
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[id]
	if !ok {
		return Post{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	posts := make([]Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.Before(posts[j].CreatedAt) })
	return posts, nil
}

func (r *memoryRepository) Update(_ context.Context, p Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[p.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range r.posts {
		if id != p.ID && existing.UserID == p.UserID && existing.Title == p.Title {
			return ErrDuplicateTitle
		}
	}
	r.posts[p.ID] = p
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return ErrNotFound
	}
	delete(r.posts, id)
	return nil
}
