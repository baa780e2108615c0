package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/signalpost/signalpost/internal/category"
)

// RegisterCategoryRoutes wires category CRUD endpoints.
func RegisterCategoryRoutes(r fiber.Router, h *category.Handler) {
	r.Get("/categories", h.List)
	r.Post("/categories", h.Create)
	r.Get("/categories/:id", h.Get)
	r.Put("/categories/:id", h.Update)
	r.Delete("/categories/:id", h.Delete)
}
