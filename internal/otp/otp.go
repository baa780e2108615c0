package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

var (
	// ErrNotFound indicates no pending challenge exists for the key. Expired
	// and never-created challenges are deliberately indistinguishable.
	ErrNotFound = errors.New("challenge not found or expired")

	// ErrCodeMismatch indicates the supplied code was wrong; the challenge
	// remains pending and may be retried until its TTL elapses.
	ErrCodeMismatch = errors.New("code mismatch")

	// ErrTooManyAttempts indicates the attempt budget is exhausted; the
	// challenge has been discarded.
	ErrTooManyAttempts = errors.New("too many attempts")
)

const (
	codeMin = 100000
	codeMax = 999999
)

// Challenge is a staged, unconfirmed action awaiting proof of phone ownership.
// Registration challenges carry the full candidate payload so no identity
// record exists until the code is confirmed.
type Challenge struct {
	Phone        string    `json:"phone"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	PasswordHash []byte    `json:"password_hash,omitempty"`
	Code         string    `json:"code"`
	ExpiresAt    time.Time `json:"expires_at"`
	Attempts     int       `json:"attempts"`
	MaxAttempts  int       `json:"max_attempts"`
}

// Store stages challenges with a TTL. Get after the TTL (or the challenge's
// own expiry) must behave as if the entry never existed.
type Store interface {
	// Put stages a challenge under key, replacing any previous one.
	Put(ctx context.Context, key string, ch Challenge, ttl time.Duration) error

	// Consume atomically verifies code against the staged challenge. On a
	// match the entry is deleted and returned, so a given challenge confirms
	// at most once. On a mismatch the attempt counter is bumped and the entry
	// kept, unless the budget is exhausted, in which case it is discarded.
	Consume(ctx context.Context, key, code string) (Challenge, error)

	// Delete removes a staged challenge if present.
	Delete(ctx context.Context, key string) error
}

// GenerateCode returns a uniformly random 6-digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%d", codeMin+n.Int64()), nil
}

// RegistrationKey builds the staging key for a pending registration.
func RegistrationKey(phone string) string {
	return "registration:" + phone
}

// ResetKey builds the staging key for a pending password reset.
func ResetKey(phone string) string {
	return "reset:" + phone
}
