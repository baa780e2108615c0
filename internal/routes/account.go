package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/signalpost/signalpost/internal/auth"
	"github.com/signalpost/signalpost/internal/identity"
)

// RegisterAccountRoutes wires the OTP-gated registration, login and
// password-reset endpoints.
func RegisterAccountRoutes(r fiber.Router, ids *identity.Handler, authn *auth.Handler) {
	r.Post("/register", ids.Register)
	r.Post("/verify-otp", ids.VerifyOTP)
	r.Post("/login", authn.Login)
	r.Post("/forgot-password", ids.ForgotPassword)
	r.Post("/reset-password", ids.ResetPassword)
}
