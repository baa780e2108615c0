package category

import (
	"context"
	"errors"
	"testing"
)

func TestCategoryCRUD(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	cat, err := svc.Create(ctx, CreateInput{Name: "Tech"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if cat.Description != defaultDescription {
		t.Fatalf("expected default description, got %q", cat.Description)
	}

	got, err := svc.Get(ctx, cat.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Tech" {
		t.Fatalf("expected Tech, got %q", got.Name)
	}

	updated, err := svc.Update(ctx, cat.ID, CreateInput{Name: "Technology", Description: "All things tech"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Technology" || updated.Description != "All things tech" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	cats, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != 1 {
		t.Fatalf("expected one category, got %d", len(cats))
	}

	if err := svc.Delete(ctx, cat.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, cat.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCategoryNameValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Name: "ab"}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}

	cat, err := svc.Create(ctx, CreateInput{Name: "Valid"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Update(ctx, cat.ID, CreateInput{Name: "x"}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName on update, got %v", err)
	}
}
