package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/signalpost/signalpost/internal/identity"
	"github.com/signalpost/signalpost/internal/respond"
)

// Handler exposes the login endpoint.
type Handler struct {
	ids    *identity.Service
	tokens *TokenService
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(ids *identity.Service, tokens *TokenService) *Handler {
	return &Handler{ids: ids, tokens: tokens}
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Login verifies phone+password and issues an access token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.FailMessage(c, http.StatusBadRequest, "invalid request body")
	}

	user, err := h.ids.Authenticate(c.UserContext(), req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return respond.FailMessage(c, http.StatusBadRequest, "Invalid phone number or password.")
		}
		return respond.FailMessage(c, http.StatusInternalServerError, "Internal server error.")
	}

	token, _, err := h.tokens.Issue(user)
	if err != nil {
		return respond.FailMessage(c, http.StatusInternalServerError, "Failed to issue access token.")
	}

	return respond.Success(c, fiber.Map{
		"message":      "Login successful",
		"user":         user.Profile(),
		"access_token": token,
	})
}
