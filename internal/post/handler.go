package post

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/signalpost/signalpost/internal/respond"
)

// Handler exposes post CRUD endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a post HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type postRequest struct {
	UserID      string   `json:"user_id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	CategoryIDs []string `json:"categories"`
}

// List returns all posts.
func (h *Handler) List(c *fiber.Ctx) error {
	posts, err := h.service.List(c.UserContext())
	if err != nil {
		return failFromError(c, err)
	}
	return respond.Fetched(c, posts)
}

// Get returns a single post.
func (h *Handler) Get(c *fiber.Ctx) error {
	p, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return failFromError(c, err)
	}
	return respond.Fetched(c, p)
}

// Create stores a new post.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.FailMessage(c, http.StatusBadRequest, "invalid request body")
	}
	p, err := h.service.Create(c.UserContext(), CreateInput{
		UserID:      req.UserID,
		Title:       req.Title,
		Content:     req.Content,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		return failFromError(c, err)
	}
	return respond.Success(c, p)
}

// Update replaces a post's fields.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.FailMessage(c, http.StatusBadRequest, "invalid request body")
	}
	p, err := h.service.Update(c.UserContext(), c.Params("id"), CreateInput{
		Title:       req.Title,
		Content:     req.Content,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		return failFromError(c, err)
	}
	return respond.Success(c, p)
}

// Delete removes a post.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return failFromError(c, err)
	}
	return respond.Success(c, fiber.Map{"message": "Post deleted successfully."})
}

func failFromError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return respond.FailMessage(c, http.StatusNotFound, "Post not found.")
	case errors.Is(err, ErrInvalidTitle):
		return respond.Fail(c, http.StatusBadRequest, fiber.Map{"title": ErrInvalidTitle.Error()})
	case errors.Is(err, ErrMissingContent):
		return respond.Fail(c, http.StatusBadRequest, fiber.Map{"content": ErrMissingContent.Error()})
	case errors.Is(err, ErrDuplicateTitle):
		return respond.Fail(c, http.StatusBadRequest, fiber.Map{"title": ErrDuplicateTitle.Error()})
	case errors.Is(err, ErrUnknownAuthor):
		return respond.Fail(c, http.StatusBadRequest, fiber.Map{"user_id": ErrUnknownAuthor.Error()})
	case errors.Is(err, ErrUnknownCategory):
		return respond.Fail(c, http.StatusBadRequest, fiber.Map{"categories": ErrUnknownCategory.Error()})
	default:
		return respond.FailMessage(c, http.StatusInternalServerError, "Internal server error.")
	}
}
