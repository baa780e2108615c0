package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/signalpost/signalpost/internal/post"
)

// RegisterPostRoutes wires post CRUD endpoints.
func RegisterPostRoutes(r fiber.Router, h *post.Handler) {
	r.Get("/posts", h.List)
	r.Post("/posts", h.Create)
	r.Get("/posts/:id", h.Get)
	r.Put("/posts/:id", h.Update)
	r.Delete("/posts/:id", h.Delete)
}
