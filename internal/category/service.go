package category

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	nameMinLen = 3
	nameMaxLen = 100
)

// ErrInvalidName indicates the category name violates length constraints.
var ErrInvalidName = fmt.Errorf("name must be between %d and %d characters", nameMinLen, nameMaxLen)

// Service manages category records.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a category service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateInput carries the fields accepted on creation and update.
type CreateInput struct {
	Name        string
	Description string
}

// Create validates and stores a new category.
func (s *Service) Create(ctx context.Context, in CreateInput) (Category, error) {
	if err := validateName(in.Name); err != nil {
		return Category{}, err
	}
	if in.Description == "" {
		in.Description = defaultDescription
	}
	now := s.now().UTC()
	cat := Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, cat); err != nil {
		return Category{}, err
	}
	return cat, nil
}

// Get fetches a single category.
func (s *Service) Get(ctx context.Context, id string) (Category, error) {
	return s.repo.Get(ctx, id)
}

// List returns all categories.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

// Update validates and replaces a category's fields.
func (s *Service) Update(ctx context.Context, id string, in CreateInput) (Category, error) {
	if err := validateName(in.Name); err != nil {
		return Category{}, err
	}
	cat, err := s.repo.Get(ctx, id)
	if err != nil {
		return Category{}, err
	}
	cat.Name = in.Name
	if in.Description != "" {
		cat.Description = in.Description
	}
	cat.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, cat); err != nil {
		return Category{}, err
	}
	return cat, nil
}

// Delete removes a category.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validateName(name string) error {
	if l := len(name); l < nameMinLen || l > nameMaxLen {
		return ErrInvalidName
	}
	return nil
}
