package post

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/signalpost/signalpost/internal/category"
	"github.com/signalpost/signalpost/internal/identity"
)

func newTestService(t *testing.T) (*Service, identity.User, category.Category) {
	t.Helper()
	ctx := context.Background()

	users := identity.NewMemoryRepository()
	author := identity.User{ID: uuid.New().String(), Phone: "+15551234567", FirstName: "Jane", LastName: "Doe", IsActive: true}
	if err := users.Create(ctx, author); err != nil {
		t.Fatalf("seed author: %v", err)
	}

	categories := category.NewMemoryRepository()
	catSvc := category.NewService(categories)
	cat, err := catSvc.Create(ctx, category.CreateInput{Name: "Tech"})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}

	return NewService(NewMemoryRepository(), users, categories), author, cat
}

func TestPostCRUD(t *testing.T) {
	svc, author, cat := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{
		UserID:      author.ID,
		Title:       "Hello",
		Content:     "First post",
		CategoryIDs: []string{cat.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Hello" || len(got.CategoryIDs) != 1 {
		t.Fatalf("unexpected post: %+v", got)
	}

	updated, err := svc.Update(ctx, p.ID, CreateInput{Title: "Hello again", Content: "Edited"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.UserID != author.ID {
		t.Fatal("authorship must be immutable")
	}
	if updated.Title != "Hello again" || updated.Content != "Edited" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostDuplicateTitlePerAuthor(t *testing.T) {
	svc, author, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{UserID: author.ID, Title: "Hello", Content: "one"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{UserID: author.ID, Title: "Hello", Content: "two"}); !errors.Is(err, ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle, got %v", err)
	}
}

func TestPostValidation(t *testing.T) {
	svc, author, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{UserID: author.ID, Title: "", Content: "body"}); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{UserID: author.ID, Title: "Hello", Content: ""}); !errors.Is(err, ErrMissingContent) {
		t.Fatalf("expected ErrMissingContent, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{UserID: uuid.New().String(), Title: "Hello", Content: "body"}); !errors.Is(err, ErrUnknownAuthor) {
		t.Fatalf("expected ErrUnknownAuthor, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{UserID: author.ID, Title: "Hello", Content: "body", CategoryIDs: []string{uuid.New().String()}}); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}
