package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/signalpost/signalpost/internal/identity"
	"github.com/signalpost/signalpost/internal/respond"
)

// RegisterProfileRoute exposes the authenticated user's own profile.
func RegisterProfileRoute(r fiber.Router, repo identity.Repository) {
	r.Get("/me", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if uid == "" {
			return respond.FailMessage(c, http.StatusUnauthorized, "unauthorized")
		}
		user, err := repo.FindByID(c.UserContext(), uid)
		if err != nil {
			return respond.FailMessage(c, http.StatusUnauthorized, "user not found")
		}
		return respond.Fetched(c, user.Profile())
	})
}
