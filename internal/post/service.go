package post

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/signalpost/signalpost/internal/category"
	"github.com/signalpost/signalpost/internal/identity"
)

const titleMaxLen = 255

var (
	// ErrInvalidTitle indicates a missing or oversized title.
	ErrInvalidTitle = errors.New("title is required and must be at most 255 characters")

	// ErrMissingContent indicates an empty post body.
	ErrMissingContent = errors.New("content is required")

	// ErrUnknownAuthor indicates the user_id matches no identity record.
	ErrUnknownAuthor = errors.New("author not found")

	// ErrUnknownCategory indicates a referenced category does not exist.
	ErrUnknownCategory = errors.New("category not found")
)

// Service manages post records.
type Service struct {
	repo       Repository
	users      identity.Repository
	categories category.Repository
	now        func() time.Time
}

// NewService creates a post service. The identity and category repositories
// back the referential checks a relational schema would otherwise enforce.
func NewService(repo Repository, users identity.Repository, categories category.Repository) *Service {
	return &Service{repo: repo, users: users, categories: categories, now: time.Now}
}

// CreateInput carries the fields accepted on creation and update.
type CreateInput struct {
	UserID      string
	Title       string
	Content     string
	CategoryIDs []string
}

// Create validates and stores a new post.
func (s *Service) Create(ctx context.Context, in CreateInput) (Post, error) {
	if err := s.validate(ctx, in); err != nil {
		return Post{}, err
	}
	if _, err := s.users.FindByID(ctx, in.UserID); err != nil {
		return Post{}, ErrUnknownAuthor
	}
	now := s.now().UTC()
	p := Post{
		ID:          uuid.New().String(),
		UserID:      in.UserID,
		Title:       in.Title,
		Content:     in.Content,
		CategoryIDs: in.CategoryIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.CategoryIDs == nil {
		p.CategoryIDs = []string{}
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Post{}, err
	}
	return p, nil
}

// Get fetches a single post.
func (s *Service) Get(ctx context.Context, id string) (Post, error) {
	return s.repo.Get(ctx, id)
}

// List returns all posts.
func (s *Service) List(ctx context.Context) ([]Post, error) {
	return s.repo.List(ctx)
}

// Update validates and replaces a post's fields. Authorship is immutable.
func (s *Service) Update(ctx context.Context, id string, in CreateInput) (Post, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}
	in.UserID = p.UserID
	if err := s.validate(ctx, in); err != nil {
		return Post{}, err
	}
	p.Title = in.Title
	p.Content = in.Content
	p.CategoryIDs = in.CategoryIDs
	if p.CategoryIDs == nil {
		p.CategoryIDs = []string{}
	}
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return Post{}, err
	}
	return p, nil
}

// Delete removes a post.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(ctx context.Context, in CreateInput) error {
	if l := len(in.Title); l == 0 || l > titleMaxLen {
		return ErrInvalidTitle
	}
	if in.Content == "" {
		return ErrMissingContent
	}
	for _, cid := range in.CategoryIDs {
		if _, err := s.categories.Get(ctx, cid); err != nil {
			return ErrUnknownCategory
		}
	}
	return nil
}
