package category

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/signalpost/signalpost/internal/respond"
)

// Handler exposes category CRUD endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a category HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List returns all categories.
func (h *Handler) List(c *fiber.Ctx) error {
	cats, err := h.service.List(c.UserContext())
	if err != nil {
		return failFromError(c, err)
	}
	return respond.Fetched(c, cats)
}

// Get returns a single category.
func (h *Handler) Get(c *fiber.Ctx) error {
	cat, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return failFromError(c, err)
	}
	return respond.Fetched(c, cat)
}

// Create stores a new category.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.FailMessage(c, http.StatusBadRequest, "invalid request body")
	}
	cat, err := h.service.Create(c.UserContext(), CreateInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return failFromError(c, err)
	}
	return respond.Success(c, cat)
}

// Update replaces a category's fields.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.FailMessage(c, http.StatusBadRequest, "invalid request body")
	}
	cat, err := h.service.Update(c.UserContext(), c.Params("id"), CreateInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return failFromError(c, err)
	}
	return respond.Success(c, cat)
}

// Delete removes a category.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return failFromError(c, err)
	}
	return respond.Success(c, fiber.Map{"message": "Category deleted successfully."})
}

func failFromError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return respond.FailMessage(c, http.StatusNotFound, "Category not found.")
	case errors.Is(err, ErrInvalidName):
		return respond.Fail(c, http.StatusBadRequest, fiber.Map{"name": ErrInvalidName.Error()})
	default:
		return respond.FailMessage(c, http.StatusInternalServerError, "Internal server error.")
	}
}
