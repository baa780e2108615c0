package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/signalpost/signalpost/internal/auth"
	"github.com/signalpost/signalpost/internal/identity"
	"github.com/signalpost/signalpost/internal/respond"
)

// JWTAuth validates bearer access tokens and resolves the subject against the
// identity store. The user ID lands in c.Locals("user_id").
func JWTAuth(tokens *auth.TokenService, repo identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return respond.FailMessage(c, http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		userID, err := tokens.Parse(tokenStr)
		if err != nil {
			return respond.FailMessage(c, http.StatusUnauthorized, "invalid token")
		}

		user, err := repo.FindByID(c.UserContext(), userID)
		if err != nil || !user.IsActive {
			return respond.FailMessage(c, http.StatusUnauthorized, "invalid token")
		}

		c.Locals("user_id", user.ID)
		return c.Next()
	}
}
