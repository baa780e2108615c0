package identity

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/signalpost/signalpost/internal/respond"
)

// Handler exposes the OTP-gated registration and password-reset endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type registerRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Register stages a new account behind an OTP.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.FailMessage(c, http.StatusBadRequest, "invalid request body")
	}

	receipt, err := h.service.StartRegistration(c.UserContext(), RegistrationInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return failFromError(c, err)
	}

	data := fiber.Map{
		"message":                "OTP sent to your phone.",
		"otp_expires_in_seconds": int(receipt.ExpiresIn.Seconds()),
	}
	if receipt.Code != "" {
		data["otp"] = receipt.Code
	}
	return respond.Success(c, data)
}

type verifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// VerifyOTP confirms a pending registration.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.FailMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Phone == "" || req.OTP == "" {
		return respond.FailMessage(c, http.StatusBadRequest, "Phone number and OTP are required.")
	}

	if _, err := h.service.ConfirmRegistration(c.UserContext(), req.Phone, req.OTP); err != nil {
		return failFromError(c, err)
	}
	return respond.Success(c, fiber.Map{"message": "User successfully registered and activated!"})
}

type forgotPasswordRequest struct {
	Phone string `json:"phone"`
}

// ForgotPassword issues a fresh OTP for an existing account.
func (h *Handler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.FailMessage(c, http.StatusBadRequest, "invalid request body")
	}

	receipt, err := h.service.RequestPasswordReset(c.UserContext(), req.Phone)
	if err != nil {
		return failFromError(c, err)
	}

	data := fiber.Map{
		"message":                "OTP sent to your phone.",
		"otp_expires_in_minutes": int(receipt.ExpiresIn.Minutes()),
	}
	if receipt.Code != "" {
		data["otp"] = receipt.Code
	}
	return respond.Success(c, data)
}

type resetPasswordRequest struct {
	Phone       string `json:"phone"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// ResetPassword confirms a pending reset and replaces the password.
func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.FailMessage(c, http.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ConfirmPasswordReset(c.UserContext(), req.Phone, req.OTP, req.NewPassword); err != nil {
		return failFromError(c, err)
	}
	return respond.Success(c, fiber.Map{"message": "Password reset successful."})
}

// failFromError maps identity errors onto the envelope and status taxonomy:
// validation and business failures are 400, missing entities 404, delivery
// failures 502.
func failFromError(c *fiber.Ctx, err error) error {
	var verr ValidationError
	switch {
	case errors.As(err, &verr):
		return respond.Fail(c, http.StatusBadRequest, verr)
	case errors.Is(err, ErrInvalidOTP):
		return respond.FailMessage(c, http.StatusBadRequest, "Invalid or expired OTP.")
	case errors.Is(err, ErrOTPAttemptsExceeded):
		return respond.FailMessage(c, http.StatusBadRequest, "Maximum OTP attempts exceeded.")
	case errors.Is(err, ErrUserNotFound):
		return respond.FailMessage(c, http.StatusNotFound, "User not found.")
	case errors.Is(err, ErrPhoneTaken):
		return respond.FailMessage(c, http.StatusBadRequest, "Phone number already registered.")
	case errors.Is(err, ErrDelivery):
		return respond.FailMessage(c, http.StatusBadGateway, "Failed to deliver OTP. Please try again.")
	default:
		return respond.FailMessage(c, http.StatusInternalServerError, "Internal server error.")
	}
}
