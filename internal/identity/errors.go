package identity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials covers every login failure: unknown phone, wrong
	// password, inactive account. A single error class leaks nothing about
	// which case occurred.
	ErrInvalidCredentials = errors.New("invalid phone number or password")

	// ErrInvalidOTP covers a wrong, expired or never-issued code. Expired
	// challenges are indistinguishable from ones that never existed.
	ErrInvalidOTP = errors.New("invalid or expired OTP")

	// ErrOTPAttemptsExceeded indicates the challenge was discarded after too
	// many wrong codes; a fresh one must be requested.
	ErrOTPAttemptsExceeded = errors.New("maximum OTP attempts exceeded")

	// ErrUserNotFound indicates no identity record matches the phone.
	ErrUserNotFound = errors.New("user not found")

	// ErrPhoneTaken indicates the phone is already bound to an account.
	ErrPhoneTaken = errors.New("phone number already registered")

	// ErrDelivery indicates the notifier failed to send the OTP. The staged
	// challenge is worthless in that case, so the caller sees the failure.
	ErrDelivery = errors.New("failed to deliver OTP")
)

// ValidationError reports per-field input violations.
type ValidationError map[string]string

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
